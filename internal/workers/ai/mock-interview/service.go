package mockinterview

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"career-guide/internal/common/errors"
	"career-guide/internal/common/llm"
	"career-guide/internal/common/logger"
)

const defaultField = "General Technology"

const shortAnswerPrefix = "Your answer is too short. Please provide more technical detail. "

const questionPrompt = `You are a professional technical interviewer for %s.
Generate ONE specific, challenging question that tests deep technical knowledge.
The question should focus on practical experience and architectural reasoning.
Provide ONLY the question text, nothing else.`

const evaluatePrompt = `You are a senior %s interviewer.
Evaluate this candidate's answer based on technical accuracy, depth, and clarity.

INTERVIEW QUESTION: %s
CANDIDATE ANSWER: %s

Instructions:
1. Assign a score from 0-10 (0 is gibberish, 10 is perfect).
2. Provide constructive feedback (mention what was good and what was missing).
3. Provide an 'ideal_answer' which is a perfect, expert-level response to the question.

Return ONLY a JSON object in this format:
{
    "score": integer,
    "feedback": "string",
    "ideal_answer": "string"
}`

const evaluationSchema = `{
	"type": "object",
	"required": ["score", "feedback", "ideal_answer"],
	"properties": {
		"score": {"type": "number"},
		"feedback": {"type": "string"},
		"ideal_answer": {"type": "string"}
	}
}`

var fallbackQuestions = map[string][]string{
	"Data Science": {
		"How do you handle imbalanced datasets?",
		"Explain the Bias-Variance tradeoff.",
	},
	"Software Development": {
		"Explain the difference between REST and GraphQL.",
		"How do you ensure code scalability?",
	},
	"Database Admin": {
		"How do you optimize a slow SQL query?",
		"Explain Database Normalization vs Denormalization.",
	},
	"Cyber Security": {
		"What is Zero Trust Architecture?",
		"How do you prevent SQL Injection?",
	},
}

const genericQuestion = "Tell me about a challenging technical project you worked on."

// FailedEvaluation is returned alongside the error when an answer cannot be scored.
var FailedEvaluation = Evaluation{
	Score:       0,
	Feedback:    "Error analyzing answer. Please try providing a more detailed response.",
	IdealAnswer: "Check documentation for the best practices regarding this specific topic.",
}

type Service struct {
	config *Config
	llm    llm.Generator
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{config: config, llm: deps.LLM, logger: deps.Logger}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	field := strings.TrimSpace(input.Field)
	if field == "" {
		field = defaultField
	}

	switch input.Action {
	case ActionGetQuestion:
		return &Output{Question: s.question(ctx, field)}, nil
	case ActionEvaluate:
		eval, err := s.evaluate(ctx, field, input.Question, input.Answer)
		return &Output{Evaluation: eval}, err
	default:
		return nil, errors.NewValidationError("Invalid action")
	}
}

func (s *Service) question(ctx context.Context, field string) string {
	seed := rand.IntN(1000000) + 1
	text, err := s.llm.Generate(ctx, llm.Request{
		Operation: "interview_question",
		Prompt:    fmt.Sprintf(questionPrompt, field),
		Options:   llm.Options{Temperature: s.config.QuestionTemperature, Seed: &seed},
	})
	if err == nil {
		if q := strings.TrimSpace(text); q != "" {
			return q
		}
	}
	s.logger.Warn("question generation failed, using fallback", map[string]interface{}{
		"field": field,
		"error": fmt.Sprint(err),
	})
	return FallbackQuestion(field)
}

// FallbackQuestion picks a canned question for field.
func FallbackQuestion(field string) string {
	list, ok := fallbackQuestions[field]
	if !ok {
		return genericQuestion
	}
	return list[rand.IntN(len(list))]
}

func (s *Service) evaluate(ctx context.Context, field, question, answer string) (*Evaluation, error) {
	text, err := s.llm.Generate(ctx, llm.Request{
		Operation: "interview_evaluate",
		Prompt:    fmt.Sprintf(evaluatePrompt, field, question, answer),
		JSON:      true,
		Options:   llm.Options{Temperature: s.config.EvaluateTemperature},
	})
	if err != nil {
		return s.failed(err)
	}

	var raw struct {
		Score       float64 `json:"score"`
		Feedback    string  `json:"feedback"`
		IdealAnswer string  `json:"ideal_answer"`
	}
	if err := llm.DecodeJSON(text, evaluationSchema, &raw); err != nil {
		return s.failed(err)
	}

	eval := &Evaluation{
		Score:       int(math.Round(raw.Score)),
		Feedback:    raw.Feedback,
		IdealAnswer: raw.IdealAnswer,
	}
	if len(strings.Fields(answer)) < s.config.ShortAnswerWords {
		eval.Score = min(eval.Score, s.config.ShortAnswerScoreCap)
		eval.Feedback = shortAnswerPrefix + eval.Feedback
	}
	return eval, nil
}

func (s *Service) failed(err error) (*Evaluation, error) {
	s.logger.Error("answer evaluation failed", map[string]interface{}{"error": err.Error()})
	eval := FailedEvaluation
	return &eval, errors.NewLLMGenerationFailedError(FailedEvaluation.Feedback, err)
}
