package predictstream

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"career-guide/internal/common/errors"
	"career-guide/internal/common/events"
	"career-guide/internal/common/logger"
	"career-guide/internal/common/predictor"

	"github.com/google/uuid"
)

const (
	StreamUnsure = "Unsure"
	StreamError  = "Error"

	defaultReasoning = "Analysis based on provided academic and aptitude profile."
	noModelReasoning = "ML Model not loaded on server."
)

type Service struct {
	config    *Config
	predictor predictor.Predictor
	db        *sql.DB
	events    events.Publisher
	logger    logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	pub := deps.Events
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &Service{
		config:    config,
		predictor: deps.Predictor,
		db:        deps.DB,
		events:    pub,
		logger:    deps.Logger,
	}
}

// Execute never fails on model errors; they are reported in the output.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	features, err := toFeatures(input)
	if err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("Invalid input data: %v", err))
	}

	out := &Output{Stream: StreamUnsure, Reasoning: defaultReasoning}
	if s.predictor == nil {
		out.Reasoning = noModelReasoning
	} else if pred, err := s.predictor.Predict(ctx, features); err != nil {
		s.logger.Error("stream prediction failed", map[string]interface{}{"error": err.Error()})
		out.Stream = StreamError
		out.Reasoning = fmt.Sprintf("Model prediction failed: %v", err)
	} else {
		out.Stream = pred.Label
		if out.Stream == "" && pred.Index != nil {
			out.Stream = fmt.Sprintf("%d", *pred.Index)
		}
		if reason, ok := reasoningFor(out.Stream, features); ok {
			out.Reasoning = reason
		}
	}

	email := input.UserEmail
	if email == "" {
		email = "anonymous"
	}
	s.record(ctx, email, features, out)
	return out, nil
}

func reasoningFor(stream string, f *Features) (string, bool) {
	switch stream {
	case "Science":
		return fmt.Sprintf("Your strong Logic score (%d/5) and marks in Math/Science suggest a great fit for Science.", f.LogicScore), true
	case "Commerce":
		return fmt.Sprintf("High Leadership (%d/5) and interest in %s align well with Commerce.", f.LeadershipScore, f.Hobby), true
	case "Humanities":
		return fmt.Sprintf("Your Creativity score (%d/5) and Social Studies marks indicate potential in Humanities.", f.CreativeScore), true
	}
	return "", false
}

func (s *Service) record(ctx context.Context, email string, f *Features, out *Output) {
	if s.db != nil {
		inputJSON, _ := json.Marshal(f)
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO stream_predictions (id, user_email, input_data, predicted_stream, reasoning, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW())`,
			uuid.New().String(), email, inputJSON, out.Stream, out.Reasoning,
		)
		if err != nil {
			s.logger.Warn("failed to log stream prediction", map[string]interface{}{"error": err.Error()})
		}
	}

	if err := s.events.Publish(ctx, events.StreamPredicted, map[string]interface{}{
		"user_email": email,
		"stream":     out.Stream,
	}); err != nil {
		s.logger.Warn("failed to publish stream event", map[string]interface{}{"error": err.Error()})
	}
}
