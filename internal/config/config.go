// Package config loads the global build configuration and the per-product
// configuration files found in the products tree.
package config

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	ferrors "github.com/stigaview/stigaview/internal/foundation/errors"
	"github.com/stigaview/stigaview/internal/logfields"
)

// DefaultPath is the global configuration file used when none is given.
const DefaultPath = "stigaview.toml"

// Config represents the global build configuration.
type Config struct {
	ProductsPath string       `toml:"products_path" yaml:"products_path"`
	Products     []string     `toml:"products" yaml:"products"` // optional allowlist
	Site         SiteConfig   `toml:"site" yaml:"site"`
	Output       OutputConfig `toml:"output" yaml:"output"`
	Build        BuildConfig  `toml:"build" yaml:"build"`
}

// SiteConfig holds values shown on every rendered page.
type SiteConfig struct {
	Title        string `toml:"title" yaml:"title"`
	Description  string `toml:"description" yaml:"description"`
	BaseURL      string `toml:"base_url" yaml:"base_url"`
	TemplatesDir string `toml:"templates_dir" yaml:"templates_dir"`
	ShowRevision bool   `toml:"show_revision" yaml:"show_revision"`
}

// OutputConfig controls where and what gets written.
type OutputConfig struct {
	Directory       string `toml:"directory" yaml:"directory"`
	Clean           bool   `toml:"clean" yaml:"clean"`
	JSONControls    bool   `toml:"json_controls" yaml:"json_controls"`
	JSONControlsDir string `toml:"json_controls_dir" yaml:"json_controls_dir"`
	Report          bool   `toml:"report" yaml:"report"`
	VerifyLinks     bool   `toml:"verify_links" yaml:"verify_links"`
}

// BuildConfig tunes the build itself.
type BuildConfig struct {
	Workers         int    `toml:"workers" yaml:"workers"`
	SkipPrefix      string `toml:"skip_prefix" yaml:"skip_prefix"`
	MetricsTextfile string `toml:"metrics_textfile" yaml:"metrics_textfile"`
}

// Load reads the configuration file at path. Environment files are loaded
// first, ${VAR} references in the file are expanded, and STIGAVIEW_*
// overrides are applied after decoding.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if err != nil {
		msg := "cannot read configuration file"
		if errors.Is(err, fs.ErrNotExist) {
			msg = "configuration file not found"
		}
		return nil, ferrors.ConfigError(msg).
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, ferrors.ConfigError("cannot parse configuration file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("Loaded configuration", logfields.Path(path))
	return cfg, nil
}

// Parse decodes configuration data on top of the defaults. ext selects the
// format: ".yaml" and ".yml" are YAML, anything else is TOML.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()
	expanded := []byte(os.ExpandEnv(string(data)))

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(expanded, cfg); err != nil {
			return nil, err
		}
	default:
		if err := toml.NewDecoder(bytes.NewReader(expanded)).Decode(cfg); err != nil {
			return nil, err
		}
	}
	cfg.normalize()
	return cfg, nil
}
