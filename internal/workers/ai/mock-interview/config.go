package mockinterview

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled             bool          `mapstructure:"enabled"`
	MaxJobsActive       int           `mapstructure:"max_jobs_active"`
	Timeout             time.Duration `mapstructure:"timeout"`
	QuestionTemperature float64       `mapstructure:"question_temperature"`
	EvaluateTemperature float64       `mapstructure:"evaluate_temperature"`
	ShortAnswerWords    int           `mapstructure:"short_answer_words"`
	ShortAnswerScoreCap int           `mapstructure:"short_answer_score_cap"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:             true,
		MaxJobsActive:       5,
		Timeout:             120 * time.Second,
		QuestionTemperature: 0.8,
		EvaluateTemperature: 0.2,
		ShortAnswerWords:    5,
		ShortAnswerScoreCap: 2,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.ShortAnswerScoreCap < 0 || c.ShortAnswerScoreCap > 10 {
		return fmt.Errorf("short_answer_score_cap must be between 0 and 10")
	}
	return nil
}
