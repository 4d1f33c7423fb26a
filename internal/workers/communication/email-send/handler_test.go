package emailsend

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"career-guide/internal/common/camunda"
	"career-guide/internal/common/errors"
	"career-guide/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock SES Client
// ==========================

type MockSES struct {
	mock.Mock
}

func (m *MockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ses.SendEmailOutput), args.Error(1)
}

// ==========================
// Test Helpers
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "test-process",
		ElementId:          "Activity_EmailSend",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func createValidConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
		DefaultFrom:   "welcome@career.example.com",
	}
}

func newTestHandler(t *testing.T, client *MockSES) *Handler {
	h, err := NewHandler(createValidConfig(), ServiceDependencies{
		SES:    client,
		Logger: logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

// ==========================
// Tests
// ==========================

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: "timeout"},
		{name: "no jobs", mutate: func(c *Config) { c.MaxJobsActive = 0 }, wantErr: "max_jobs_active"},
		{name: "bad sender", mutate: func(c *Config) { c.DefaultFrom = "nobody" }, wantErr: "default_from"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createValidConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHandler_Execute_Success(t *testing.T) {
	client := new(MockSES)
	client.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *ses.SendEmailInput) bool {
		return aws.ToString(in.Source) == "welcome@career.example.com" &&
			in.Destination.ToAddresses[0] == "ada@example.com" &&
			in.Message.Body.Html != nil &&
			aws.ToString(in.Message.Subject.Data) == "Welcome"
	})).Return(&ses.SendEmailOutput{MessageId: aws.String("ses-123")}, nil)

	h := newTestHandler(t, client)
	out, err := h.Execute(context.Background(), &Input{
		To:      "ada@example.com",
		Subject: "Welcome",
		Body:    "<p>Hello</p>",
		IsHTML:  true,
	})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, "ses-123", out.MessageID)
	assert.Equal(t, "SES", out.Provider)
	client.AssertExpectations(t)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name         string
		input        *Input
		sesErr       error
		expectedCode errors.ErrorCode
	}{
		{
			name:         "invalid recipient",
			input:        &Input{To: "not-an-email", Subject: "s", Body: "b"},
			expectedCode: errors.ErrCodeValidationFailed,
		},
		{
			name:         "invalid reply-to",
			input:        &Input{To: "a@b.co", ReplyTo: "x", Subject: "s", Body: "b"},
			expectedCode: errors.ErrCodeValidationFailed,
		},
		{
			name:         "ses failure",
			input:        &Input{To: "a@b.co", Subject: "s", Body: "b"},
			sesErr:       stderrors.New("MessageRejected"),
			expectedCode: errors.ErrCodeNotificationSendFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockSES)
			if tt.sesErr != nil {
				client.On("SendEmail", mock.Anything, mock.Anything).Return(nil, tt.sesErr)
			}

			_, err := newTestHandler(t, client).Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.expectedCode, errors.Normalize(err).Code)
		})
	}
}

func TestHandler_JobVariables(t *testing.T) {
	client := new(MockSES)
	client.On("SendEmail", mock.Anything, mock.Anything).Return(&ses.SendEmailOutput{MessageId: aws.String("m")}, nil)
	h := newTestHandler(t, client)

	job := createMockJob(1, map[string]interface{}{
		"to":      "grace@example.com",
		"subject": "Hi",
		"body":    "plain text",
	})
	out, err := camunda.RunJob(context.Background(), job.Variables, &h.schema, h.Execute)
	require.NoError(t, err)
	assert.True(t, out.Success)

	bad := createMockJob(2, map[string]interface{}{"to": "grace@example.com"})
	_, err = camunda.RunJob(context.Background(), bad.Variables, &h.schema, h.Execute)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidationFailed, errors.Normalize(err).Code)
}

func TestBuildMessage_PlainTextAndReplyTo(t *testing.T) {
	msg := buildMessage("from@example.com", &Input{
		To:      "to@example.com",
		ReplyTo: "reply@example.com",
		Subject: "S",
		Body:    "B",
	})
	assert.NotNil(t, msg.Message.Body.Text)
	assert.Nil(t, msg.Message.Body.Html)
	assert.Equal(t, []string{"reply@example.com"}, msg.ReplyToAddresses)
}
