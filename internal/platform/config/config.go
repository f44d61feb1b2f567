package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// CLI captures process-level settings for the docflow binary. The limit
// policy itself is configured by internal/workflow/config.
type CLI struct {
	LogLevel   string `env:"DOCFLOW_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"DOCFLOW_LOG_FORMAT" envDefault:"text"`
	PolicyFile string `env:"DOCFLOW_POLICY_FILE"`
}

// FromEnv builds CLI settings from environment variables so main stays lean.
func FromEnv() (CLI, error) {
	var cfg CLI
	if err := ParseEnv(&cfg); err != nil {
		return CLI{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
