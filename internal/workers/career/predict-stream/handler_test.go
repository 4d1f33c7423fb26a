package predictstream

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"career-guide/internal/common/errors"
	"career-guide/internal/common/logger"
	"career-guide/internal/common/predictor"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Predict(ctx context.Context, features interface{}) (predictor.Prediction, error) {
	args := m.Called(ctx, features)
	return args.Get(0).(predictor.Prediction), args.Error(1)
}

func createTestConfig() *Config {
	return &Config{Enabled: true, MaxJobsActive: 5, Timeout: 5 * time.Second}
}

func newHandler(t *testing.T, deps ServiceDependencies) *Handler {
	deps.Logger = logger.NewTestLogger(t)
	h, err := NewHandler(createTestConfig(), deps)
	require.NoError(t, err)
	return h
}

func sampleInput() *Input {
	return &Input{
		MathMarks:       "92",
		ScienceMarks:    88.5,
		SocialMarks:     70.0,
		EnglishMarks:    "81",
		Hobby:           "Reading",
		LogicScore:      "5",
		CreativeScore:   3.0,
		LeadershipScore: 4.0,
	}
}

func TestToFeatures(t *testing.T) {
	f, err := toFeatures(sampleInput())
	require.NoError(t, err)
	assert.Equal(t, 92.0, f.MathMarks)
	assert.Equal(t, 88.5, f.ScienceMarks)
	assert.Equal(t, 5, f.LogicScore)
	assert.Equal(t, "Reading", f.Hobby)
	assert.Equal(t, "Robotics", f.Activity)

	empty, err := toFeatures(&Input{})
	require.NoError(t, err)
	assert.Equal(t, "Technical", empty.Hobby)
	assert.Zero(t, empty.MathMarks)
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input *Input
	}{
		{"non numeric marks", &Input{MathMarks: "ninety"}},
		{"fractional string score", &Input{LogicScore: "4.5"}},
		{"boolean marks", &Input{ScienceMarks: true}},
		{"score too large", &Input{LogicScore: 1e300}},
		{"score too small", &Input{CreativeScore: -1e300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newHandler(t, ServiceDependencies{}).Execute(context.Background(), tt.input)
			require.Error(t, err)
			stdErr := errors.Normalize(err)
			assert.Equal(t, errors.ErrCodeValidationFailed, stdErr.Code)
			assert.True(t, strings.HasPrefix(stdErr.Message, "Invalid input data: "))
		})
	}
}

func TestExecute_Reasoning(t *testing.T) {
	tests := []struct {
		stream   string
		expected string
	}{
		{"Science", "Your strong Logic score (5/5) and marks in Math/Science suggest a great fit for Science."},
		{"Commerce", "High Leadership (4/5) and interest in Reading align well with Commerce."},
		{"Humanities", "Your Creativity score (3/5) and Social Studies marks indicate potential in Humanities."},
		{"Vocational", "Analysis based on provided academic and aptitude profile."},
	}

	for _, tt := range tests {
		t.Run(tt.stream, func(t *testing.T) {
			model := new(MockPredictor)
			model.On("Predict", mock.Anything, mock.AnythingOfType("*predictstream.Features")).
				Return(predictor.Prediction{Label: tt.stream}, nil)

			out, err := newHandler(t, ServiceDependencies{Predictor: model}).Execute(context.Background(), sampleInput())
			require.NoError(t, err)
			assert.Equal(t, tt.stream, out.Stream)
			assert.Equal(t, tt.expected, out.Reasoning)
		})
	}
}

func TestExecute_NoModel(t *testing.T) {
	out, err := newHandler(t, ServiceDependencies{}).Execute(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "Unsure", out.Stream)
	assert.Equal(t, "ML Model not loaded on server.", out.Reasoning)
}

func TestExecute_ModelErrorIsReported(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlMock.ExpectExec("INSERT INTO stream_predictions").
		WithArgs(sqlmock.AnyArg(), "kid@example.com", sqlmock.AnyArg(), "Error", "Model prediction failed: feature mismatch").
		WillReturnResult(sqlmock.NewResult(1, 1))

	model := new(MockPredictor)
	model.On("Predict", mock.Anything, mock.Anything).Return(predictor.Prediction{}, stderrors.New("feature mismatch"))

	input := sampleInput()
	input.UserEmail = "kid@example.com"
	out, err := newHandler(t, ServiceDependencies{Predictor: model, DB: db}).Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "Error", out.Stream)
	assert.Equal(t, "Model prediction failed: feature mismatch", out.Reasoning)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
