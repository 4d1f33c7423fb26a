package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient generates text through the Gemini API.
type GeminiClient struct {
	models contentGenerator
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClient{models: client.Models, model: model}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, req Request) (text string, err error) {
	defer func() { record(req.Operation, err) }()

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), generateConfig(req))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrLLMTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrLLMGenerationFailed, err)
	}

	text = resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response", ErrLLMGenerationFailed)
	}
	return text, nil
}

func generateConfig(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	o := req.Options
	if o.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(o.Temperature))
	}
	if o.TopP > 0 {
		cfg.TopP = genai.Ptr(float32(o.TopP))
	}
	if o.TopK > 0 {
		cfg.TopK = genai.Ptr(float32(o.TopK))
	}
	if o.Seed != nil {
		cfg.Seed = genai.Ptr(int32(*o.Seed))
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	return cfg
}
