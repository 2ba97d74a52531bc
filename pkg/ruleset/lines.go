package ruleset

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/arthur-debert/gffrules/pkg/diagnostics"
	"github.com/arthur-debert/gffrules/pkg/rules"
)

// ParseLines reads the line format. Lines without a kind are reported and
// skipped.
func ParseLines(r io.Reader, opts Options) ([]rules.Definition, error) {
	opts = opts.withDefaults()

	var defs []rules.Definition
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineno := 0
	for sc.Scan() {
		lineno++
		raw := sc.Text()
		if i := strings.Index(raw, opts.CommentMarker); i >= 0 {
			raw = raw[:i]
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		def, ok := parseLine(raw, lineno)
		if !ok {
			opts.Diagnostics.Addf(diagnostics.SeverityWarning, diagnostics.CodeMalformedLine,
				"", raw, []int{lineno}, "rule at line %d has no kind: %q", lineno, raw)
			continue
		}
		defs = append(defs, def)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return defs, nil
}

// parseLine splits "PATTERN KIND rest of line" into at most three fields
func parseLine(raw string, lineno int) (rules.Definition, bool) {
	pattern, rest := nextField(raw)
	kind, rest := nextField(rest)
	if kind == "" {
		return rules.Definition{}, false
	}

	var actions []string
	if rest != "" {
		actions = []string{rest}
	}
	return rules.NewDefinition(pattern, kind, actions, lineno), true
}

func nextField(s string) (field, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		return s, ""
	}
	return s[:end], strings.TrimSpace(s[end:])
}
