package mockinterview

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"career-guide/internal/common/camunda"
	"career-guide/internal/common/errors"
	"career-guide/internal/common/llm"
	"career-guide/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, req llm.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func newHandler(t *testing.T, gen llm.Generator) *Handler {
	h, err := NewHandler(DefaultConfig(), ServiceDependencies{LLM: gen, Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)
	return h
}

func TestGetQuestion(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return !req.JSON &&
			req.Options.Temperature == 0.8 &&
			req.Options.Seed != nil &&
			strings.Contains(req.Prompt, "technical interviewer for General Technology")
	})).Return("  How would you shard a write-heavy table?\n", nil)

	out, err := newHandler(t, gen).Execute(context.Background(), &Input{Action: ActionGetQuestion})
	require.NoError(t, err)
	assert.Equal(t, "How would you shard a write-heavy table?", out.Question)
	assert.Nil(t, out.Evaluation)
	gen.AssertExpectations(t)
}

func TestGetQuestion_Fallback(t *testing.T) {
	tests := []struct {
		field   string
		allowed []string
	}{
		{field: "Data Science", allowed: fallbackQuestions["Data Science"]},
		{field: "Cyber Security", allowed: fallbackQuestions["Cyber Security"]},
		{field: "Marine Biology", allowed: []string{genericQuestion}},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			gen := new(MockGenerator)
			gen.On("Generate", mock.Anything, mock.Anything).Return("", llm.ErrLLMTimeout)

			out, err := newHandler(t, gen).Execute(context.Background(), &Input{Action: ActionGetQuestion, Field: tt.field})
			require.NoError(t, err)
			assert.Contains(t, tt.allowed, out.Question)
		})
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name         string
		answer       string
		response     string
		wantScore    int
		wantFeedback string
	}{
		{
			name:         "detailed answer keeps score",
			answer:       "Add an index on the filter columns and check the plan with EXPLAIN",
			response:     `{"score": 8, "feedback": "Solid.", "ideal_answer": "Use EXPLAIN ANALYZE."}`,
			wantScore:    8,
			wantFeedback: "Solid.",
		},
		{
			name:         "short answer is capped",
			answer:       "add an index",
			response:     `{"score": 7, "feedback": "Correct idea.", "ideal_answer": "Use EXPLAIN ANALYZE."}`,
			wantScore:    2,
			wantFeedback: shortAnswerPrefix + "Correct idea.",
		},
		{
			name:         "short answer with low score",
			answer:       "no idea",
			response:     "```json\n{\"score\": 1, \"feedback\": \"Missing.\", \"ideal_answer\": \"x\"}\n```",
			wantScore:    1,
			wantFeedback: shortAnswerPrefix + "Missing.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(MockGenerator)
			gen.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
				return req.JSON &&
					req.Options.Temperature == 0.2 &&
					strings.Contains(req.Prompt, "senior Database Admin interviewer") &&
					strings.Contains(req.Prompt, "CANDIDATE ANSWER: "+tt.answer)
			})).Return(tt.response, nil)

			out, err := newHandler(t, gen).Execute(context.Background(), &Input{
				Action:   ActionEvaluate,
				Field:    "Database Admin",
				Question: "How do you optimize a slow SQL query?",
				Answer:   tt.answer,
			})
			require.NoError(t, err)
			require.NotNil(t, out.Evaluation)
			assert.Equal(t, tt.wantScore, out.Score)
			assert.Equal(t, tt.wantFeedback, out.Feedback)
			gen.AssertExpectations(t)
		})
	}
}

func TestEvaluate_FailureReturnsFallbackAndError(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{name: "llm error", err: llm.ErrLLMGenerationFailed},
		{name: "invalid json", response: "great answer!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(MockGenerator)
			gen.On("Generate", mock.Anything, mock.Anything).Return(tt.response, tt.err)

			out, err := newHandler(t, gen).Execute(context.Background(), &Input{
				Action: ActionEvaluate, Question: "q", Answer: "a",
			})
			require.Error(t, err)
			assert.Equal(t, 500, errors.HTTPStatus(errors.Normalize(err).Code))
			require.NotNil(t, out)
			assert.Equal(t, FailedEvaluation, *out.Evaluation)
		})
	}
}

func TestInvalidAction(t *testing.T) {
	gen := new(MockGenerator)
	_, err := newHandler(t, gen).Execute(context.Background(), &Input{Action: "dance"})
	require.Error(t, err)
	std := errors.Normalize(err)
	assert.Equal(t, errors.ErrCodeValidationFailed, std.Code)
	assert.Equal(t, "Invalid action", std.Message)
}

func TestOutputJSONShape(t *testing.T) {
	q, err := json.Marshal(&Output{Question: "Why?"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"question":"Why?"}`, string(q))

	e, err := json.Marshal(&Output{Evaluation: &Evaluation{Score: 0, Feedback: "f", IdealAnswer: "i"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":0,"feedback":"f","ideal_answer":"i"}`, string(e))
}

func TestRunJob_RequiresAction(t *testing.T) {
	h := newHandler(t, new(MockGenerator))
	_, err := camunda.RunJob(context.Background(), `{"field":"Data Science"}`, &h.schema, h.Execute)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidationFailed, errors.Normalize(err).Code)
}
