package predictstream

import (
	"database/sql"

	"career-guide/internal/common/events"
	"career-guide/internal/common/logger"
	"career-guide/internal/common/predictor"
)

// Input accepts numbers or numeric strings for marks and scores, the way
// HTML forms submit them.
type Input struct {
	MathMarks       interface{} `json:"math_marks,omitempty"`
	ScienceMarks    interface{} `json:"science_marks,omitempty"`
	SocialMarks     interface{} `json:"social_marks,omitempty"`
	EnglishMarks    interface{} `json:"english_marks,omitempty"`
	Hobby           string      `json:"hobby,omitempty"`
	Activity        string      `json:"activity,omitempty"`
	LogicScore      interface{} `json:"logic_score,omitempty"`
	CreativeScore   interface{} `json:"creative_score,omitempty"`
	LeadershipScore interface{} `json:"leadership_score,omitempty"`
	UserEmail       string      `json:"user_email,omitempty"`
}

// Features is the normalised feature row sent to the stream model.
type Features struct {
	MathMarks       float64 `json:"math_marks"`
	ScienceMarks    float64 `json:"science_marks"`
	SocialMarks     float64 `json:"social_marks"`
	EnglishMarks    float64 `json:"english_marks"`
	Hobby           string  `json:"hobby"`
	Activity        string  `json:"activity"`
	LogicScore      int     `json:"logic_score"`
	CreativeScore   int     `json:"creative_score"`
	LeadershipScore int     `json:"leadership_score"`
}

type Output struct {
	Stream    string `json:"stream"`
	Reasoning string `json:"reasoning"`
}

type ServiceDependencies struct {
	Predictor predictor.Predictor
	DB        *sql.DB
	Events    events.Publisher
	Logger    logger.Logger
}
