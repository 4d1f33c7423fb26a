package authsignup

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"career-guide/internal/common/database"
	"career-guide/internal/common/errors"
	"career-guide/internal/common/events"
	"career-guide/internal/common/logger"
	emailsend "career-guide/internal/workers/communication/email-send"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

const (
	createdMessage = "User created successfully"
	existsMessage  = "User already exists"
)

const uniqueViolation = "23505"

const welcomeBody = `Hi %s,

Your Career Guide account is ready. Rate your skills to get a career prediction and a personalised roadmap.
`

type Service struct {
	config *Config
	db     *sql.DB
	mailer Mailer
	events events.Publisher
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	pub := deps.Events
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &Service{
		config: config,
		db:     deps.DB,
		mailer: deps.Mailer,
		events: pub,
		logger: deps.Logger,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, errors.NewValidationError("Name, email and password are required")
	}

	exists, err := s.userExists(ctx, email)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("failed to look up user", err)
	}
	if exists {
		return nil, errors.NewConflictError(existsMessage)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.config.BcryptCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash) VALUES ($1, $2, $3, $4)`,
		id, name, email, string(hash),
	)
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, errors.NewConflictError(existsMessage)
		}
		return nil, errors.NewDatabaseInsertFailedError("failed to create user", err)
	}

	s.logger.Info("user created", map[string]interface{}{"userId": id})
	s.afterSignup(ctx, id, name, email)

	return &Output{Message: createdMessage, UserID: id}, nil
}

func (s *Service) userExists(ctx context.Context, email string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE email = $1`, email).Scan(&one)
	if stderrors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// afterSignup runs the non-critical side effects of a new account.
func (s *Service) afterSignup(ctx context.Context, id, name, email string) {
	if err := database.WriteAuditLog(ctx, s.db, "user.signup", "user", id, map[string]interface{}{
		"email": email,
	}); err != nil {
		s.logger.Warn("failed to write audit log", map[string]interface{}{"error": err.Error()})
	}

	if err := s.events.Publish(ctx, events.UserSignup, map[string]interface{}{
		"id":    id,
		"name":  name,
		"email": email,
	}); err != nil {
		s.logger.Warn("failed to publish signup event", map[string]interface{}{"error": err.Error()})
	}

	if s.mailer == nil || !s.config.SendWelcomeEmail {
		return
	}
	if _, err := s.mailer.Execute(ctx, &emailsend.Input{
		To:      email,
		Subject: s.config.WelcomeSubject,
		Body:    fmt.Sprintf(welcomeBody, name),
	}); err != nil {
		s.logger.Warn("failed to send welcome email", map[string]interface{}{
			"userId": id,
			"error":  err.Error(),
		})
	}
}
