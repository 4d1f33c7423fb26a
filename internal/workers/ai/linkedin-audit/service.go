package linkedinaudit

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"career-guide/internal/common/documents"
	"career-guide/internal/common/errors"
	"career-guide/internal/common/llm"
	"career-guide/internal/common/logger"
)

const auditSchema = `{
	"type": "object",
	"required": ["headline", "summary", "suggestions"],
	"properties": {
		"headline": {"type": "string", "minLength": 1},
		"summary": {"type": "string", "minLength": 1},
		"suggestions": {"type": "array", "items": {"type": "string"}, "minItems": 1}
	}
}`

const promptTemplate = `
Context ID: %d
You are a world-class LinkedIn Profile Optimizer and Executive Recruiter.

TASK:
Analyze the following LinkedIn profile data (Source: %s) and optimize it for a career in "%s".

PROFILE DATA:
%s

REQUIREMENTS:
1. Write a punchy, keyword-rich 'headline'.
2. Write a professional, first-person 'summary' (About section) that highlights achievements.
3. Provide 5 'suggestions' that are specific to the %s industry.

Return ONLY valid JSON in this format:
{
    "headline": "string",
    "summary": "string",
    "suggestions": ["list", "of", "5", "strings"]
}
`

type Service struct {
	config *Config
	llm    llm.Generator
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{config: config, llm: deps.LLM, logger: deps.Logger}
}

// Execute returns the model's audit, or a static audit for the career when
// the model fails. Only unreadable uploads are reported as errors.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	career := strings.TrimSpace(input.Career)
	if career == "" {
		career = "Professional"
	}
	source := input.Type
	if source == "" {
		source = "paste"
	}

	content := input.Content
	if input.Document != nil {
		contentType := documents.DetectType(input.Document.Filename, input.Document.ContentType)
		text, err := documents.ExtractText(contentType, input.Document.Data)
		if err != nil {
			return nil, errors.NewUnsupportedDocumentError(fmt.Sprintf("Could not read uploaded file: %v", err), err)
		}
		content = text
		source = "file"
	}
	if r := []rune(content); len(r) > s.config.MaxContentChars {
		content = string(r[:s.config.MaxContentChars])
	}

	seed := rand.IntN(1000000) + 1
	text, err := s.llm.Generate(ctx, llm.Request{
		Operation: "linkedin_audit",
		Prompt:    fmt.Sprintf(promptTemplate, time.Now().Unix(), source, career, content, career),
		JSON:      true,
		Options:   llm.Options{Temperature: s.config.Temperature, Seed: &seed},
	})
	if err != nil {
		s.logger.Warn("linkedin audit generation failed, using fallback", map[string]interface{}{"error": err.Error()})
		return Fallback(career), nil
	}

	var out Output
	if err := llm.DecodeJSON(text, auditSchema, &out); err != nil {
		s.logger.Warn("linkedin audit output rejected, using fallback", map[string]interface{}{"error": err.Error()})
		return Fallback(career), nil
	}
	return &out, nil
}

// Fallback is the static audit returned when the model is unavailable.
func Fallback(career string) *Output {
	return &Output{
		Headline: fmt.Sprintf("%s Specialist | Transforming Challenges into Solutions", career),
		Summary: fmt.Sprintf("A dedicated professional aiming to excel in %s. Highly skilled in analyzing complex data "+
			"and implementing efficient workflows to drive business growth.", career),
		Suggestions: []string{
			fmt.Sprintf("Identify 3 key %s skills you possess and add them to your top skills.", career),
			"Quantify your experience (e.g., 'Reduced costs by 15%').",
			"Request recommendations from former colleagues to build social proof.",
			"Ensure your summary mentions specific tools used in the industry.",
			"Update your headline to include your primary value proposition.",
		},
	}
}
