package authsignup

import (
	"context"
	"fmt"
	"time"

	"career-guide/internal/common/camunda"
	"career-guide/internal/common/logger"
	"career-guide/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "auth.signup"

type Handler struct {
	config  *Config
	logger  logger.Logger
	service *Service
	schema  validation.JSONSchema
}

func NewHandler(config *Config, deps ServiceDependencies) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if deps.DB == nil {
		return nil, fmt.Errorf("%s: database is required", TaskType)
	}
	deps.Logger = deps.Logger.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:  config,
		logger:  deps.Logger,
		service: NewService(deps, config),
		schema:  GetInputSchema(),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.HandleJob(client, job, TaskType, h.config.Timeout, &h.schema, h.Execute, h.logger)
}

// Timeout bounds one execution.
func (h *Handler) Timeout() time.Duration {
	return h.config.Timeout
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.service.Execute(ctx, input)
}
