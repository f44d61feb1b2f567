// Package config loads the limit policy from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"docflow/internal/workflow/policy"
	dErrors "docflow/pkg/domain-errors"
)

type TimeWindow struct {
	Enabled bool   `yaml:"enabled" env:"DOCFLOW_TIME_WINDOW_ENABLED"`
	Start   string `yaml:"start" env:"DOCFLOW_TIME_WINDOW_START"`
	End     string `yaml:"end" env:"DOCFLOW_TIME_WINDOW_END"`
}

type PartyOpen struct {
	Enabled bool `yaml:"enabled" env:"DOCFLOW_PARTY_OPEN_ENABLED"`
	Limit   int  `yaml:"limit" env:"DOCFLOW_PARTY_OPEN_LIMIT"`
}

type PartyRate struct {
	Enabled bool          `yaml:"enabled" env:"DOCFLOW_PARTY_RATE_ENABLED"`
	Limit   int           `yaml:"limit" env:"DOCFLOW_PARTY_RATE_LIMIT"`
	Window  time.Duration `yaml:"window" env:"DOCFLOW_PARTY_RATE_WINDOW"`
}

type PairOpen struct {
	Enabled bool `yaml:"enabled" env:"DOCFLOW_PAIR_OPEN_ENABLED"`
	Limit   int  `yaml:"limit" env:"DOCFLOW_PAIR_OPEN_LIMIT"`
}

// Config is the serialisable form of a policy.LimitPolicy.
type Config struct {
	TimeWindow TimeWindow `yaml:"time_window"`
	PartyOpen  PartyOpen  `yaml:"party_open"`
	PartyRate  PartyRate  `yaml:"party_rate"`
	PairOpen   PairOpen   `yaml:"pair_open"`
}

// DefaultConfig mirrors policy.Default().
func DefaultConfig() Config {
	return FromPolicy(policy.Default())
}

// FromPolicy converts p back into its serialisable form.
func FromPolicy(p policy.LimitPolicy) Config {
	tw := p.TimeWindow()
	return Config{
		TimeWindow: TimeWindow{Enabled: tw.Enabled, Start: tw.Start.String(), End: tw.End.String()},
		PartyOpen:  PartyOpen{Enabled: p.PartyOpen().Enabled, Limit: p.PartyOpen().Limit},
		PartyRate:  PartyRate{Enabled: p.PartyRate().Enabled, Limit: p.PartyRate().Limit, Window: p.PartyRate().Window},
		PairOpen:   PairOpen{Enabled: p.PairOpen().Enabled, Limit: p.PairOpen().Limit},
	}
}

// LoadFile reads a YAML policy file over the defaults. Keys missing from the
// file keep their default values.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "read policy file")
	}
	if err := Decode(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode overlays YAML data onto cfg.
func Decode(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "decode policy yaml")
	}
	return nil
}

// ApplyEnv overlays DOCFLOW_* variables onto cfg. Unset variables leave the
// current values alone.
func ApplyEnv(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if err := env.Parse(cfg); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "parse policy env")
	}
	return nil
}

// Load resolves the effective configuration: defaults, then the YAML file
// when path is set, then the environment.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Policy validates the configuration and builds the policy it describes.
func (c Config) Policy() (policy.LimitPolicy, error) {
	start, err := policy.ParseTimeOfDay(c.TimeWindow.Start)
	if err != nil {
		return policy.LimitPolicy{}, fmt.Errorf("time_window.start: %w", err)
	}
	end, err := policy.ParseTimeOfDay(c.TimeWindow.End)
	if err != nil {
		return policy.LimitPolicy{}, fmt.Errorf("time_window.end: %w", err)
	}
	return policy.Custom(
		policy.TimeWindow{Enabled: c.TimeWindow.Enabled, Start: start, End: end},
		policy.Ceiling{Enabled: c.PartyOpen.Enabled, Limit: c.PartyOpen.Limit},
		policy.RateCeiling{Enabled: c.PartyRate.Enabled, Limit: c.PartyRate.Limit, Window: c.PartyRate.Window},
		policy.Ceiling{Enabled: c.PairOpen.Enabled, Limit: c.PairOpen.Limit},
	)
}

// Marshal renders cfg as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
