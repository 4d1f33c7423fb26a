package searchpredictions

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"career-guide/internal/common/camunda"
	"career-guide/internal/common/errors"
	"career-guide/internal/common/logger"
	"career-guide/internal/workers/data-access/search-predictions/queries"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
)

const TaskType = "predictions.search"

type Handler struct {
	config *Config
	client *elasticsearch.Client
	logger logger.Logger
}

func NewHandler(config *Config, deps ServiceDependencies) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	return &Handler{
		config: config,
		client: deps.Search,
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

// Execute searches one user's prediction history. A missing index yields an
// empty result.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	input.UserEmail = strings.TrimSpace(input.UserEmail)
	if input.UserEmail == "" {
		return nil, errors.NewValidationError("Email is required to search predictions.")
	}
	if h.client == nil {
		return nil, errors.NewExternalServiceError("elasticsearch", fmt.Errorf("search is not configured"))
	}

	result, err := queries.Execute(ctx, h.client, queries.PredictionQuery{
		Index:     h.config.Index,
		UserEmail: input.UserEmail,
		Career:    input.Career,
		From:      input.From,
		Size:      input.Size,
	})
	if stderrors.Is(err, queries.ErrIndexNotFound) {
		h.logger.Warn("prediction index missing", map[string]interface{}{"index": h.config.Index})
		return emptyOutput(), nil
	}
	if err != nil {
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errors.NewTimeoutError("elasticsearch", err)
		}
		return nil, errors.NewSearchQueryFailedError(h.config.Index, err)
	}

	return &Output{
		Predictions: result.Hits,
		TotalHits:   result.TotalHits,
		TopCareers:  result.TopCareers,
		Took:        result.Took,
	}, nil
}

func emptyOutput() *Output {
	return &Output{
		Predictions: []map[string]interface{}{},
		TopCareers:  []queries.CareerCount{},
	}
}
