package authsignup

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxJobsActive    int           `mapstructure:"max_jobs_active"`
	Timeout          time.Duration `mapstructure:"timeout"`
	BcryptCost       int           `mapstructure:"bcrypt_cost"`
	SendWelcomeEmail bool          `mapstructure:"send_welcome_email"`
	WelcomeSubject   string        `mapstructure:"welcome_subject"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:          true,
		MaxJobsActive:    10,
		Timeout:          10 * time.Second,
		BcryptCost:       bcrypt.DefaultCost,
		SendWelcomeEmail: true,
		WelcomeSubject:   "Welcome to Career Guide",
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}
