package profilefetch

import (
	"database/sql"
	"encoding/json"

	"career-guide/internal/common/logger"
)

type Input struct {
	Email string `json:"email"`
}

type Output struct {
	Headline    string          `json:"headline"`
	Summary     string          `json:"summary"`
	Experience  json.RawMessage `json:"experience"`
	Education   json.RawMessage `json:"education"`
	SkillsList  json.RawMessage `json:"skills_list"`
	LastUpdated string          `json:"last_updated"`
}

type ServiceDependencies struct {
	DB     *sql.DB
	Logger logger.Logger
}
