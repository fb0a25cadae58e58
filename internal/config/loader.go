package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if INCLUSCORE_CONFIG is set
//  3. env (prefix INCLUSCORE_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("INCLUSCORE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: INCLUSCORE_ADDR, INCLUSCORE_REDIS_URL, ...
	// Nested keys use double underscores: INCLUSCORE_SIMULATION__UPI_STEP.
	envProvider := env.Provider("INCLUSCORE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "incluscore_")
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations that would start a broken service.
func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.LockShards <= 0 {
		return fmt.Errorf("%w: lock_shards must be positive", ErrInvalidConfig)
	}
	s := c.Simulation
	if s.UPIStep < 0 || s.BillStep < 0 || s.RechargeStep < 0 || s.SavingsStep < 0 {
		return fmt.Errorf("%w: simulation steps must be non-negative", ErrInvalidConfig)
	}
	if s.UPIStep == 0 && s.BillStep == 0 && s.RechargeStep == 0 && s.SavingsStep == 0 {
		return fmt.Errorf("%w: at least one simulation step must be positive", ErrInvalidConfig)
	}
	return nil
}
