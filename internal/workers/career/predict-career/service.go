package predictcareer

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"career-guide/internal/career/skillgap"
	"career-guide/internal/common/database"
	"career-guide/internal/common/errors"
	"career-guide/internal/common/events"
	"career-guide/internal/common/logger"
	"career-guide/internal/common/metrics"
	"career-guide/internal/common/predictor"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
)

const anonymousUser = "anonymous"

type Service struct {
	config    *Config
	tables    *skillgap.Tables
	predictor predictor.Predictor
	db        *sql.DB
	search    *elasticsearch.Client
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
		tables:    deps.Tables,
		predictor: deps.Predictor,
		db:        deps.DB,
		search:    deps.Search,
		events:    pub,
		logger:    deps.Logger,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if s.predictor == nil {
		return nil, errors.NewModelUnavailableError("Prediction model is not available.")
	}

	email := input.UserEmail
	if email == "" {
		email = anonymousUser
	}

	userScores := s.tables.Encode(input.Skills)
	role, err := s.predictRole(ctx, userScores)
	if err != nil {
		s.logger.Error("career prediction failed", map[string]interface{}{"error": err.Error()})
		return nil, errors.NewPredictionFailedError("Error during model prediction.", err)
	}

	ideal := s.tables.IdealFor(role)
	roadmap, err := skillgap.GenerateRoadmap(userScores, ideal, s.tables.Catalog)
	if err != nil {
		return nil, errors.NewPredictionFailedError("Error during model prediction.", err)
	}

	s.record(ctx, email, role, input.Skills, roadmap)

	return &Output{
		Career:      role,
		Description: s.tables.DescriptionFor(role),
		UserScores:  userScores,
		IdealScores: ideal,
		Labels:      s.tables.Catalog,
		Roadmap:     roadmap,
	}, nil
}

func (s *Service) predictRole(ctx context.Context, user skillgap.Vector) (string, error) {
	pred, err := s.predictor.Predict(ctx, []int(user))
	if err != nil {
		return "", err
	}
	if pred.Label != "" {
		return pred.Label, nil
	}
	if pred.Index == nil {
		return "", predictor.ErrNoPrediction
	}
	return s.tables.ClassLabel(*pred.Index)
}

// record logs the prediction to every configured sink. None of them can fail
// the request.
func (s *Service) record(ctx context.Context, email, role string, skills map[string]string, roadmap skillgap.Roadmap) {
	id := uuid.New().String()
	now := time.Now().UTC()

	metrics.CareerPredictions.WithLabelValues(role).Inc()
	critical, improvement := roadmap.Counts()
	metrics.RoadmapGaps.WithLabelValues(skillgap.StatusCritical).Add(float64(critical))
	metrics.RoadmapGaps.WithLabelValues(skillgap.StatusImprovement).Add(float64(improvement))

	if s.db != nil {
		if err := s.insertPrediction(ctx, id, email, role, skills, now); err != nil {
			s.logger.Warn("failed to log career prediction", map[string]interface{}{
				"error":  err.Error(),
				"career": role,
			})
		}
	}

	if s.search != nil {
		doc := predictionDocument{
			ID:              id,
			UserEmail:       email,
			Career:          role,
			CriticalGaps:    critical,
			ImprovementGaps: improvement,
			Skills:          skills,
			CreatedAt:       now.Format(time.RFC3339),
		}
		if err := database.IndexDocument(ctx, s.search, s.config.PredictionIndex, id, doc); err != nil {
			s.logger.Warn("failed to index career prediction", map[string]interface{}{"error": err.Error()})
		}
	}

	if err := s.events.Publish(ctx, events.CareerPredicted, map[string]interface{}{
		"id":         id,
		"user_email": email,
		"career":     role,
	}); err != nil {
		s.logger.Warn("failed to publish prediction event", map[string]interface{}{"error": err.Error()})
	}

	s.logger.Info("career predicted", map[string]interface{}{
		"career":          role,
		"criticalGaps":    critical,
		"improvementGaps": improvement,
	})
}

func (s *Service) insertPrediction(ctx context.Context, id, email, role string, skills map[string]string, at time.Time) error {
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO career_predictions (id, user_email, input_skills, predicted_career, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		id, email, skillsJSON, role, at,
	)
	return err
}
