package coverletter

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"career-guide/internal/common/camunda"
	"career-guide/internal/common/errors"
	"career-guide/internal/common/llm"
	"career-guide/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "ai.cover-letter"

const failureMessage = "Failed to generate cover letter. Please ensure the language model is running."

const promptTemplate = `You are an expert career assistant. Write a professional, persuasive cover letter.

Candidate Name: %s
Job Description:
%s

Generate a professional cover letter that:
- Uses a confident, professional tone
- Is 200-300 words
- Highlights relevant skills matching the job
- Includes specific examples where relevant
- Has proper formatting (date, greeting, body, signature)
- Is ready to submit

Cover Letter:`

type Handler struct {
	config *Config
	llm    llm.Generator
	logger logger.Logger
}

func NewHandler(config *Config, deps ServiceDependencies) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if deps.LLM == nil {
		return nil, fmt.Errorf("%s: language model is required", TaskType)
	}
	return &Handler{
		config: config,
		llm:    deps.LLM,
		logger: deps.Logger.WithFields(map[string]interface{}{"taskType": TaskType}),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.HandleJob(client, job, TaskType, h.config.Timeout, nil, h.Execute, h.logger)
}

// Timeout bounds one execution.
func (h *Handler) Timeout() time.Duration {
	return h.config.Timeout
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	name := strings.TrimSpace(input.UserName)
	description := strings.TrimSpace(input.JobDescription)
	if name == "" || description == "" {
		return nil, errors.NewValidationError("Name and job description are required")
	}

	text, err := h.llm.Generate(ctx, llm.Request{
		Operation: "cover_letter",
		Prompt:    fmt.Sprintf(promptTemplate, name, description),
		Options: llm.Options{
			Temperature: h.config.Temperature,
			TopP:        h.config.TopP,
			TopK:        h.config.TopK,
		},
	})
	if err != nil {
		h.logger.Error("cover letter generation failed", map[string]interface{}{"error": err.Error()})
		if stderrors.Is(err, llm.ErrLLMTimeout) {
			return nil, errors.NewLLMTimeoutError(failureMessage, err)
		}
		return nil, errors.NewLLMGenerationFailedError(failureMessage, err)
	}

	return &Output{CoverLetter: strings.TrimSpace(text)}, nil
}
