package profilesave

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"career-guide/internal/common/errors"
	"career-guide/internal/common/events"
	"career-guide/internal/common/logger"
)

const upsertProfileSQL = `
	INSERT INTO user_profiles (email, headline, summary, experience, education, skills_list, last_updated)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	ON CONFLICT (email) DO UPDATE SET
		headline = EXCLUDED.headline,
		summary = EXCLUDED.summary,
		experience = EXCLUDED.experience,
		education = EXCLUDED.education,
		skills_list = EXCLUDED.skills_list,
		last_updated = EXCLUDED.last_updated
	RETURNING (xmax = 0) AS inserted`

const saveFailedMessage = "Server error while saving profile data."

type Service struct {
	config *Config
	db     *sql.DB
	events events.Publisher
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	pub := deps.Events
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &Service{config: config, db: deps.DB, events: pub, logger: deps.Logger}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, errors.NewValidationError("Email is required to manage profile.")
	}

	lists := map[string][]interface{}{
		"experience":  input.Experience,
		"education":   input.Education,
		"skills_list": input.SkillsList,
	}
	encoded := make(map[string][]byte, len(lists))
	for name, items := range lists {
		if len(items) > s.config.MaxListItems {
			return nil, errors.NewValidationError(fmt.Sprintf("%s has more than %d items", name, s.config.MaxListItems))
		}
		if items == nil {
			items = []interface{}{}
		}
		b, err := json.Marshal(items)
		if err != nil {
			return nil, errors.NewValidationError(fmt.Sprintf("%s is not valid JSON: %v", name, err))
		}
		encoded[name] = b
	}

	var inserted bool
	err := s.db.QueryRowContext(ctx, upsertProfileSQL,
		email, input.Headline, input.Summary,
		encoded["experience"], encoded["education"], encoded["skills_list"],
	).Scan(&inserted)
	if err != nil {
		s.logger.Error("profile upsert failed", map[string]interface{}{"error": err.Error()})
		return nil, errors.NewDatabaseInsertFailedError(saveFailedMessage, err)
	}

	message := "Profile updated successfully."
	if inserted {
		message = "New profile created successfully."
	}
	s.logger.Info("profile saved", map[string]interface{}{"created": inserted})

	if err := s.events.Publish(ctx, events.ProfileSaved, map[string]interface{}{
		"email":   email,
		"created": inserted,
	}); err != nil {
		s.logger.Warn("failed to publish profile event", map[string]interface{}{"error": err.Error()})
	}

	return &Output{Message: message, Created: inserted}, nil
}
