package config

import "strings"

// Default values.
const (
	DefaultOutputDir       = "out"
	DefaultJSONControlsDir = "json_controls"
	DefaultSkipPrefix      = "skip"
	DefaultTitle           = "STIG-A-View"
)

// Default returns a configuration with every default applied. Decoding a file
// on top of it overrides only the keys the file sets.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			Title:        DefaultTitle,
			ShowRevision: true,
		},
		Output: OutputConfig{
			Directory:       DefaultOutputDir,
			JSONControlsDir: DefaultJSONControlsDir,
			Report:          true,
		},
		Build: BuildConfig{
			SkipPrefix: DefaultSkipPrefix,
		},
	}
}

// normalize restores defaults for keys explicitly set to empty values.
func (c *Config) normalize() {
	c.Site.BaseURL = strings.TrimRight(c.Site.BaseURL, "/")
	if c.Site.Title == "" {
		c.Site.Title = DefaultTitle
	}
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDir
	}
	if c.Output.JSONControlsDir == "" {
		c.Output.JSONControlsDir = DefaultJSONControlsDir
	}
	if c.Build.SkipPrefix == "" {
		c.Build.SkipPrefix = DefaultSkipPrefix
	}
	if c.Build.Workers < 0 {
		c.Build.Workers = 0
	}
}
