package emailsend

import (
	"context"
	"fmt"
	"time"

	awsclients "career-guide/internal/common/aws"
	"career-guide/internal/common/errors"
	"career-guide/internal/common/logger"
	"career-guide/internal/common/validation"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const charset = "UTF-8"

type Service struct {
	config *Config
	ses    awsclients.SESAPI
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		ses:    deps.SES,
		logger: deps.Logger,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	from := input.From
	if from == "" {
		from = s.config.DefaultFrom
	}

	if err := validateAddresses(from, input); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if s.ses == nil {
		return nil, errors.NewConfigurationError("SES client not configured")
	}

	out, err := s.ses.SendEmail(ctx, buildMessage(from, input))
	if err != nil {
		return nil, errors.NewNotificationSendFailedError("email", err)
	}

	messageID := aws.ToString(out.MessageId)
	s.logger.Info("email sent", map[string]interface{}{
		"to":        input.To,
		"messageId": messageID,
	})

	return &Output{
		Success:   true,
		Message:   "Email sent successfully",
		MessageID: messageID,
		Provider:  "SES",
		SentAt:    time.Now().UTC(),
	}, nil
}

func validateAddresses(from string, input *Input) error {
	if !validation.ValidateEmail(input.To) {
		return fmt.Errorf("invalid 'to' email address: %s", input.To)
	}
	if !validation.ValidateEmail(from) {
		return fmt.Errorf("invalid 'from' email address: %s", from)
	}
	if input.ReplyTo != "" && !validation.ValidateEmail(input.ReplyTo) {
		return fmt.Errorf("invalid 'replyTo' email address: %s", input.ReplyTo)
	}
	return nil
}

func buildMessage(from string, input *Input) *ses.SendEmailInput {
	content := &types.Content{Charset: aws.String(charset), Data: aws.String(input.Body)}
	body := &types.Body{Text: content}
	if input.IsHTML {
		body = &types.Body{Html: content}
	}

	msg := &ses.SendEmailInput{
		Source:      aws.String(from),
		Destination: &types.Destination{ToAddresses: []string{input.To}},
		Message: &types.Message{
			Subject: &types.Content{Charset: aws.String(charset), Data: aws.String(input.Subject)},
			Body:    body,
		},
	}
	if input.ReplyTo != "" {
		msg.ReplyToAddresses = []string{input.ReplyTo}
	}
	return msg
}
