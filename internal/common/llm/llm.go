// Package llm wraps the language model backends used for generated text.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"career-guide/internal/common/config"
	"career-guide/internal/common/metrics"
	"career-guide/internal/common/validation"
)

var (
	ErrLLMTimeout          = errors.New("LLM_TIMEOUT")
	ErrLLMGenerationFailed = errors.New("LLM_GENERATION_FAILED")
)

type Options struct {
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
	TopK        int     `json:"top_k,omitempty"`
	Seed        *int    `json:"seed,omitempty"`
}

type Request struct {
	// Operation labels the call in metrics, e.g. "cover_letter".
	Operation string
	Prompt    string
	// JSON asks the backend to constrain output to a JSON document.
	JSON    bool
	Options Options
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// New builds the generator selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (Generator, error) {
	switch cfg.Provider {
	case "", "ollama":
		return NewOllamaClient(cfg.BaseURL, cfg.Model, config.GetDuration(cfg.Timeout), cfg.MaxRetries), nil
	case "gemini":
		return NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// CleanJSON strips markdown code fences that models wrap around JSON.
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// DecodeJSON cleans text, validates it against schemaJSON and decodes it into out.
func DecodeJSON(text, schemaJSON string, out interface{}) error {
	cleaned := CleanJSON(text)

	var doc interface{}
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", ErrLLMGenerationFailed, err)
	}
	if result := validation.ValidateDocument(schemaJSON, doc); !result.Valid {
		return fmt.Errorf("%w: %s", ErrLLMGenerationFailed, strings.Join(result.GetErrorMessages(), "; "))
	}
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("%w: %v", ErrLLMGenerationFailed, err)
	}
	return nil
}

func record(operation string, err error) {
	if operation == "" {
		operation = "generate"
	}
	outcome := "success"
	switch {
	case errors.Is(err, ErrLLMTimeout):
		outcome = "timeout"
	case err != nil:
		outcome = "error"
	}
	metrics.LLMRequests.WithLabelValues(operation, outcome).Inc()
}
