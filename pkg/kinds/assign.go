package kinds

import (
	"os"
	"strings"

	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/arthur-debert/gffrules/pkg/rules"
)

type assignment struct {
	key   string
	value string
}

// parseAssignments splits "key=value key2=value2" action text
func parseAssignments(rule rules.Definition) ([]assignment, error) {
	fields := strings.Fields(rule.Blob())
	if len(fields) == 0 {
		return nil, errors.Newf(errors.ErrInvalidInput,
			"%s at line %d has no key=value assignment", rule.Kind, rule.Line).
			WithDetail("line", rule.Line)
	}

	out := make([]assignment, 0, len(fields))
	for _, f := range fields {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, errors.Newf(errors.ErrInvalidInput,
				"%s at line %d: %q is not a key=value assignment", rule.Kind, rule.Line, f).
				WithDetail("line", rule.Line)
		}
		out = append(out, assignment{key: key, value: value})
	}
	return out, nil
}

// expandCaptures replaces $1 and ${name} with captured text. References to
// groups that did not capture expand to nothing.
func expandCaptures(s string, caps rules.Captures) string {
	if !strings.Contains(s, "$") {
		return s
	}
	return os.Expand(s, func(name string) string {
		return caps[name]
	})
}
