package authlogin

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"career-guide/internal/common/camunda"
	"career-guide/internal/common/errors"
	"career-guide/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"golang.org/x/crypto/bcrypt"
)

const TaskType = "auth.login"

const invalidCredentials = "Invalid credentials"

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

// Execute checks the password against the stored bcrypt hash. Unknown users
// and wrong passwords produce the same error.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, errors.NewValidationError("Email and password are required")
	}

	var name, hash string
	err := h.db.QueryRowContext(ctx,
		`SELECT name, password_hash FROM users WHERE email = $1`, email,
	).Scan(&name, &hash)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewAuthenticationError(invalidCredentials)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(input.Password)); err != nil {
		h.logger.Info("login rejected", map[string]interface{}{"reason": "password mismatch"})
		return nil, errors.NewAuthenticationError(invalidCredentials)
	}

	return &Output{Message: "Login successful", Name: name}, nil
}
