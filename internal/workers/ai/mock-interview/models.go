package mockinterview

import (
	"career-guide/internal/common/llm"
	"career-guide/internal/common/logger"
)

const (
	ActionGetQuestion = "get_question"
	ActionEvaluate    = "evaluate"
)

type Input struct {
	Action   string `json:"action"`
	Field    string `json:"field,omitempty"`
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

// Output holds either a question or an evaluation, depending on the action.
type Output struct {
	Question string `json:"question,omitempty"`
	*Evaluation
}

type Evaluation struct {
	Score       int    `json:"score"`
	Feedback    string `json:"feedback"`
	IdealAnswer string `json:"ideal_answer"`
}

type ServiceDependencies struct {
	LLM    llm.Generator
	Logger logger.Logger
}
