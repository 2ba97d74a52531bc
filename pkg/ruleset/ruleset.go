package ruleset

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/gffrules/pkg/diagnostics"
	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/arthur-debert/gffrules/pkg/logging"
	"github.com/arthur-debert/gffrules/pkg/rules"
)

// DefaultCommentMarker starts a comment in the line format
const DefaultCommentMarker = "#"

// Options control how sources are parsed
type Options struct {
	// CommentMarker overrides DefaultCommentMarker
	CommentMarker string

	// AliasMarker is prefixed to YAML alias names that lack it
	AliasMarker string

	// Diagnostics receives malformed-line reports; one is created if nil
	Diagnostics *diagnostics.Collector
}

func (o Options) withDefaults() Options {
	if o.CommentMarker == "" {
		o.CommentMarker = DefaultCommentMarker
	}
	if o.AliasMarker == "" {
		o.AliasMarker = rules.DefaultAliasMarker
	}
	if o.Diagnostics == nil {
		o.Diagnostics = diagnostics.NewCollector()
	}
	return o
}

// Sink receives parsed definitions. *rules.Builder is a Sink.
type Sink interface {
	Add(def rules.Definition) error
}

// Format is a rule source format
type Format string

const (
	FormatLines Format = "lines"
	FormatYAML  Format = "yaml"
)

// FormatOf picks the format from the file extension
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatLines
	}
}

// ParseFile parses the rule source at path
func ParseFile(path string, opts Options) ([]rules.Definition, error) {
	opts = opts.withDefaults()
	logger := logging.GetLogger("ruleset")

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRuleSource, "cannot open rule source %s", path).
			WithDetail("path", path)
	}
	defer func() { _ = f.Close() }()

	opts.Diagnostics.SetSource(path)
	defer opts.Diagnostics.SetSource("")

	var defs []rules.Definition
	switch FormatOf(path) {
	case FormatYAML:
		defs, err = ParseYAML(f, opts)
	default:
		defs, err = ParseLines(f, opts)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRuleSource, "cannot read rule source %s", path).
			WithDetail("path", path)
	}
	for i := range defs {
		defs[i] = defs[i].WithSource(path)
	}

	logger.Debug().
		Str("path", path).
		Int("rules", len(defs)).
		Msg("Rule source parsed")
	return defs, nil
}

// Feed adds defs to sink in order and stops at the first error
func Feed(sink Sink, defs []rules.Definition) error {
	for _, d := range defs {
		if err := sink.Add(d); err != nil {
			return err
		}
	}
	return nil
}

// LoadFiles parses every path in order and feeds the builder. Line numbers
// are per file; every definition carries its file as Source, so diagnostics
// raised later by Build still point at the right file.
func LoadFiles(b *rules.Builder, paths []string, opts Options) error {
	if opts.Diagnostics == nil {
		opts.Diagnostics = b.Diagnostics()
	}
	for _, p := range paths {
		defs, err := ParseFile(p, opts)
		if err != nil {
			return err
		}
		if err := Feed(b, defs); err != nil {
			return err
		}
	}
	return nil
}
