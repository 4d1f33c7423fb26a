package profilesave

import (
	"database/sql"

	"career-guide/internal/common/events"
	"career-guide/internal/common/logger"
)

// Input is a full profile document. Omitted fields are stored empty.
type Input struct {
	Email      string        `json:"email"`
	Headline   string        `json:"headline"`
	Summary    string        `json:"summary"`
	Experience []interface{} `json:"experience"`
	Education  []interface{} `json:"education"`
	SkillsList []interface{} `json:"skills_list"`
}

type Output struct {
	Message string `json:"message"`
	Created bool   `json:"created"`
}

type ServiceDependencies struct {
	DB     *sql.DB
	Events events.Publisher
	Logger logger.Logger
}
