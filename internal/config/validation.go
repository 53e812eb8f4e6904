package config

import (
	"strings"

	ferrors "github.com/stigaview/stigaview/internal/foundation/errors"
)

// Validate checks the global configuration.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Products))
	for _, slug := range c.Products {
		if err := validateSlug(slug); err != nil {
			return ferrors.ConfigError("invalid product in products list").
				WithCause(err).
				WithContext("product", slug).
				Build()
		}
		if _, dup := seen[slug]; dup {
			return ferrors.ConfigError("duplicate product in products list").
				WithContext("product", slug).
				Build()
		}
		seen[slug] = struct{}{}
	}
	if strings.ContainsAny(c.Output.JSONControlsDir, `/\`) {
		return ferrors.ConfigError("json_controls_dir must be a single directory name").
			WithContext("value", c.Output.JSONControlsDir).
			Build()
	}
	return nil
}

// validateSlug ensures a product slug is usable as a single path segment.
func validateSlug(slug string) error {
	switch {
	case strings.TrimSpace(slug) == "":
		return errEmptySlug
	case slug == "." || slug == "..", strings.ContainsAny(slug, `/\`):
		return errSlugPath
	}
	return nil
}
