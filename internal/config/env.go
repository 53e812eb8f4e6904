package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	ferrors "github.com/stigaview/stigaview/internal/foundation/errors"
	"github.com/stigaview/stigaview/internal/logfields"
)

// Environment variables that override file values.
const (
	EnvOutputDir = "STIGAVIEW_OUTPUT_DIR"
	EnvWorkers   = "STIGAVIEW_WORKERS"
	EnvBaseURL   = "STIGAVIEW_BASE_URL"
	EnvLogLevel  = "STIGAVIEW_LOG_LEVEL"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads every present env file. Variables already set in the
// process environment are not overwritten.
func loadEnvFiles() {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Ignoring unreadable env file", logfields.File(name), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment file", logfields.File(name))
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvOutputDir)); v != "" {
		cfg.Output.Directory = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.Site.BaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv(EnvWorkers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return ferrors.ConfigError("invalid worker count").
				WithCause(err).
				WithContext("env", EnvWorkers).
				WithContext("value", v).
				Build()
		}
		cfg.Build.Workers = n
	}
	return nil
}

// LogLevel returns the log level named by the environment, or "".
func LogLevel() string {
	return strings.TrimSpace(os.Getenv(EnvLogLevel))
}
