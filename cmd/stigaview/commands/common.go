// Package commands holds the kong command definitions of the stigaview
// binary.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/stigaview/stigaview/internal/config"
	ferrors "github.com/stigaview/stigaview/internal/foundation/errors"
)

// Global carries process-wide state shared by every command.
type Global struct {
	Context context.Context
	Stdout  io.Writer
}

func (g *Global) ctx() context.Context {
	if g.Context == nil {
		return context.Background()
	}
	return g.Context
}

func (g *Global) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI is the root command line: global flags and commands.
type CLI struct {
	Config   string           `short:"c" help:"Configuration file path" default:"stigaview.toml"`
	LogLevel string           `short:"l" name:"log-level" help:"Log level (debug|info|warn|error). Defaults to $STIGAVIEW_LOG_LEVEL or info."`
	Version  kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" default:"withargs" help:"Build the site from a products tree (default command)"`
	Verify   VerifyCmd   `cmd:"" help:"Check internal links of a rendered site"`
	Products ProductsCmd `cmd:"" help:"List discovered products and their declared versions"`
}

var logLevel = new(slog.LevelVar)

// AfterApply runs after flag parsing and installs the default logger.
func (c *CLI) AfterApply() error {
	if err := c.applyLogLevel(); err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
	return nil
}

// applyLogLevel sets the level from the flag, falling back to the
// environment. It runs again after env files are loaded.
func (c *CLI) applyLogLevel() error {
	name := c.LogLevel
	if name == "" {
		name = config.LogLevel()
	}
	if name == "" {
		logLevel.Set(slog.LevelInfo)
		return nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return ferrors.ValidationError("invalid log level").
			WithCause(err).
			WithContext("value", name).
			Build()
	}
	logLevel.Set(level)
	return nil
}

// Verbose reports whether debug logging is enabled.
func (c *CLI) Verbose() bool {
	return logLevel.Level() <= slog.LevelDebug
}

// loadConfig reads the configuration file and re-applies the log level so
// values from .env files take effect.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if err := c.applyLogLevel(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UsageError classifies a command line parse failure.
func UsageError(err error) error {
	if _, ok := ferrors.AsClassified(err); ok {
		return err
	}
	return ferrors.ValidationError("invalid command line").
		WithCause(err).
		WithContext("error", err.Error()).
		Build()
}
