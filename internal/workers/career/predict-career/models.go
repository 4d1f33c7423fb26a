package predictcareer

import (
	"database/sql"

	"career-guide/internal/career/skillgap"
	"career-guide/internal/common/events"
	"career-guide/internal/common/logger"
	"career-guide/internal/common/predictor"

	"github.com/elastic/go-elasticsearch/v8"
)

type Input struct {
	Skills    map[string]string `json:"skills"`
	UserEmail string            `json:"user_email,omitempty"`
}

type Output struct {
	Career      string           `json:"career"`
	Description string           `json:"description"`
	UserScores  skillgap.Vector  `json:"user_scores"`
	IdealScores skillgap.Vector  `json:"ideal_scores"`
	Labels      skillgap.Catalog `json:"labels"`
	Roadmap     skillgap.Roadmap `json:"roadmap"`
}

// ServiceDependencies lists collaborators. Predictor nil means no model is
// deployed; DB, Search and Events are optional sinks.
type ServiceDependencies struct {
	Tables    *skillgap.Tables
	Predictor predictor.Predictor
	DB        *sql.DB
	Search    *elasticsearch.Client
	Events    events.Publisher
	Logger    logger.Logger
}

// predictionDocument is the search index representation of a prediction.
type predictionDocument struct {
	ID              string            `json:"id"`
	UserEmail       string            `json:"user_email"`
	Career          string            `json:"career"`
	CriticalGaps    int               `json:"critical_gaps"`
	ImprovementGaps int               `json:"improvement_gaps"`
	Skills          map[string]string `json:"skills"`
	CreatedAt       string            `json:"created_at"`
}
