package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds settings that may come from the environment. CLI flags take
// precedence; these only supply their defaults.
type Env struct {
	DBPath     string `env:"EGG_DB" envDefault:"~/.eggbalance/sessions.db"`
	ConfigPath string `env:"EGG_CONFIG"`
	FPS        int    `env:"EGG_FPS" envDefault:"60"`
	SSHAddr    string `env:"EGG_SSH_ADDR" envDefault:":23234"`
	LogLevel   string `env:"EGG_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads Env from environment variables.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// DefaultEnv returns the values used when the environment sets nothing.
func DefaultEnv() Env {
	return Env{
		DBPath:   "~/.eggbalance/sessions.db",
		FPS:      60,
		SSHAddr:  ":23234",
		LogLevel: "info",
	}
}
