package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	httpclient "career-guide/internal/common/http"
)

// OllamaClient calls the /api/generate endpoint of an Ollama server.
type OllamaClient struct {
	baseURL string
	model   string
	timeout time.Duration
	client  *httpclient.Client
}

type ollamaRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Format  string  `json:"format,omitempty"`
	Options Options `json:"options"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewOllamaClient returns a client. Per-call deadlines come from timeout and
// the caller's context; maxRetries bounds retries on 5xx and transport errors.
func NewOllamaClient(baseURL, model string, timeout time.Duration, maxRetries int) *OllamaClient {
	return &OllamaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		timeout: timeout,
		client:  httpclient.NewClient(0, maxRetries),
	}
}

func (c *OllamaClient) Generate(ctx context.Context, req Request) (text string, err error) {
	defer func() { record(req.Operation, err) }()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body := ollamaRequest{
		Model:   c.model,
		Prompt:  req.Prompt,
		Stream:  false,
		Options: req.Options,
	}
	if req.JSON {
		body.Format = "json"
	}

	var resp ollamaResponse
	if err := c.client.PostJSON(ctx, c.baseURL+"/api/generate", body, &resp); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return "", ErrLLMTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrLLMGenerationFailed, err)
	}

	if strings.TrimSpace(resp.Response) == "" {
		return "", fmt.Errorf("%w: empty response", ErrLLMGenerationFailed)
	}
	return resp.Response, nil
}
