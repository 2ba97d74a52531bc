package config

import (
	"github.com/arthur-debert/gffrules/pkg/errors"
)

// Config is the effective configuration
type Config struct {
	Rules      Rules      `koanf:"rules" toml:"rules"`
	Processing Processing `koanf:"processing" toml:"processing"`
	Output     Output     `koanf:"output" toml:"output"`
	Logging    Logging    `koanf:"logging" toml:"logging"`
}

// Rules configures rule sources
type Rules struct {
	Files         []string `koanf:"files" toml:"files"`
	CommentMarker string   `koanf:"comment_marker" toml:"comment_marker"`
	AliasMarker   string   `koanf:"alias_marker" toml:"alias_marker"`
}

// Processing configures the pipeline
type Processing struct {
	Workers int `koanf:"workers" toml:"workers"`
}

// Output configures reporting
type Output struct {
	Format      string `koanf:"format" toml:"format"`
	Color       string `koanf:"color" toml:"color"`
	MetricsFile string `koanf:"metrics_file" toml:"metrics_file"`
}

// Logging configures log verbosity
type Logging struct {
	Verbosity int `koanf:"verbosity" toml:"verbosity"`
}

var (
	validFormats = map[string]bool{"text": true, "json": true, "xml": true}
	validColors  = map[string]bool{"auto": true, "always": true, "never": true}
)

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Rules.CommentMarker == "" {
		return errors.New(errors.ErrConfigValid, "rules.comment_marker cannot be empty")
	}
	if c.Rules.AliasMarker == "" {
		return errors.New(errors.ErrConfigValid, "rules.alias_marker cannot be empty")
	}
	if c.Rules.AliasMarker == c.Rules.CommentMarker {
		return errors.Newf(errors.ErrConfigValid,
			"rules.alias_marker and rules.comment_marker are both %q", c.Rules.AliasMarker)
	}
	if c.Processing.Workers < 0 {
		return errors.Newf(errors.ErrConfigValid, "processing.workers must be >= 0, got %d", c.Processing.Workers)
	}
	if !validFormats[c.Output.Format] {
		return errors.Newf(errors.ErrConfigValid, "output.format must be text, json or xml, got %q", c.Output.Format).
			WithDetail("key", "output.format")
	}
	if !validColors[c.Output.Color] {
		return errors.Newf(errors.ErrConfigValid, "output.color must be auto, always or never, got %q", c.Output.Color).
			WithDetail("key", "output.color")
	}
	if c.Logging.Verbosity < 0 {
		return errors.Newf(errors.ErrConfigValid, "logging.verbosity must be >= 0, got %d", c.Logging.Verbosity)
	}
	return nil
}
