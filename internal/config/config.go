// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mmynk/splitledger/internal/ledger"
)

// Config is the server configuration.
type Config struct {
	Addr      string        `env:"SPLITLEDGER_ADDR" envDefault:":8080"`
	DBPath    string        `env:"SPLITLEDGER_DB_PATH" envDefault:"./data/ledger.db"`
	JWTSecret string        `env:"SPLITLEDGER_JWT_SECRET,required,notEmpty"`
	TokenTTL  time.Duration `env:"SPLITLEDGER_TOKEN_TTL" envDefault:"24h"`

	GroupSettlementPolicy string `env:"SPLITLEDGER_GROUP_SETTLEMENT_POLICY" envDefault:"unbounded"`
	ActivityWindow        int    `env:"SPLITLEDGER_ACTIVITY_WINDOW" envDefault:"50"`
	ActivityLimit         int    `env:"SPLITLEDGER_ACTIVITY_LIMIT" envDefault:"20"`

	// OTelEndpoint is an OTLP/HTTP URL. Empty disables tracing.
	OTelEndpoint string `env:"SPLITLEDGER_OTEL_ENDPOINT"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load parses Config from the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses Config from vars instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if _, err := cfg.Policy(); err != nil {
		return nil, err
	}
	if cfg.ActivityWindow <= 0 || cfg.ActivityLimit <= 0 {
		return nil, fmt.Errorf("activity window and limit must be positive")
	}
	if cfg.ActivityLimit > cfg.ActivityWindow {
		return nil, fmt.Errorf("activity limit %d exceeds window %d", cfg.ActivityLimit, cfg.ActivityWindow)
	}
	return &cfg, nil
}

// Policy returns the parsed group settlement policy.
func (c *Config) Policy() (ledger.GroupSettlementPolicy, error) {
	return ledger.ParsePolicy(c.GroupSettlementPolicy)
}
