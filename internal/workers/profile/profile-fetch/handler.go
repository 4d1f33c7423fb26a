package profilefetch

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"career-guide/internal/common/camunda"
	"career-guide/internal/common/errors"
	"career-guide/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "profile.fetch"

// NotFoundMessage is also the HTTP body text for a missing profile.
const NotFoundMessage = "Profile not found."

const selectProfileSQL = `SELECT headline, summary, experience, education, skills_list, last_updated
	FROM user_profiles WHERE email = $1`

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, deps ServiceDependencies) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if deps.DB == nil {
		return nil, fmt.Errorf("%s: database is required", TaskType)
	}
	return &Handler{
		config: config,
		db:     deps.DB,
		logger: deps.Logger.WithFields(map[string]interface{}{"taskType": TaskType}),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.HandleJob(client, job, TaskType, h.config.Timeout, nil, h.Execute, h.logger)
}

// Timeout bounds one execution.
func (h *Handler) Timeout() time.Duration {
	return h.config.Timeout
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, errors.NewValidationError("Email parameter is required.")
	}

	var (
		out       Output
		updatedAt time.Time
		exp, edu  []byte
		skills    []byte
	)
	err := h.db.QueryRowContext(ctx, selectProfileSQL, email).
		Scan(&out.Headline, &out.Summary, &exp, &edu, &skills, &updatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError(NotFoundMessage)
	}
	if err != nil {
		h.logger.Error("profile lookup failed", map[string]interface{}{"error": err.Error()})
		return nil, errors.NewQueryExecutionFailedError("Server error while fetching profile data.", err)
	}

	out.Experience = jsonArray(exp)
	out.Education = jsonArray(edu)
	out.SkillsList = jsonArray(skills)
	out.LastUpdated = updatedAt.UTC().Format(time.RFC3339)
	return &out, nil
}

func jsonArray(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("[]")
	}
	return json.RawMessage(b)
}
