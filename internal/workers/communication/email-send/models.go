package emailsend

import (
	"time"

	awsclients "career-guide/internal/common/aws"
	"career-guide/internal/common/logger"
)

type Input struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
	ReplyTo string `json:"replyTo,omitempty"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	IsHTML  bool   `json:"isHtml"`
}

type Output struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	MessageID string    `json:"messageId,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	SentAt    time.Time `json:"sentAt,omitempty"`
}

type ServiceDependencies struct {
	SES    awsclients.SESAPI
	Logger logger.Logger
}
