package linkedinaudit

import (
	"career-guide/internal/common/llm"
	"career-guide/internal/common/logger"
)

type Input struct {
	Content string `json:"content"`
	Career  string `json:"career,omitempty"`
	Type    string `json:"type,omitempty"`
	// Document is an uploaded profile export. When set, its text replaces Content.
	Document *Document `json:"document,omitempty"`
}

// Document carries an uploaded file. Data is base64 in JSON job variables.
type Document struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

type Output struct {
	Headline    string   `json:"headline"`
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
}

type ServiceDependencies struct {
	LLM    llm.Generator
	Logger logger.Logger
}
