package coverletter

import (
	"career-guide/internal/common/llm"
	"career-guide/internal/common/logger"
)

type Input struct {
	JobDescription string `json:"jobDescription"`
	UserName       string `json:"userName"`
}

type Output struct {
	CoverLetter string `json:"cover_letter"`
}

type ServiceDependencies struct {
	LLM    llm.Generator
	Logger logger.Logger
}
