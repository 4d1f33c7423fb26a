package authsignup

import (
	"context"
	"database/sql"

	"career-guide/internal/common/events"
	"career-guide/internal/common/logger"
	emailsend "career-guide/internal/workers/communication/email-send"
)

type Input struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Output struct {
	Message string `json:"message"`
	UserID  string `json:"userId,omitempty"`
}

// Mailer sends the welcome e-mail. *emailsend.Handler satisfies it.
type Mailer interface {
	Execute(ctx context.Context, input *emailsend.Input) (*emailsend.Output, error)
}

type ServiceDependencies struct {
	DB     *sql.DB
	Mailer Mailer
	Events events.Publisher
	Logger logger.Logger
}
