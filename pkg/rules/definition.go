package rules

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/gffrules/pkg/diagnostics"
)

// Definition is one authored rule. It is created at load time and never
// modified afterwards.
type Definition struct {
	Pattern string
	Kind    string
	Actions []string
	Line    int

	// Source names the rule source the definition was read from
	Source string
}

// NewDefinition copies actions so the definition does not alias caller memory
func NewDefinition(pattern, kind string, actions []string, line int) Definition {
	var acts []string
	if len(actions) > 0 {
		acts = make([]string, len(actions))
		copy(acts, actions)
	}
	return Definition{
		Pattern: pattern,
		Kind:    kind,
		Actions: acts,
		Line:    line,
	}
}

// WithSource returns a copy of d read from source
func (d Definition) WithSource(source string) Definition {
	d.Source = source
	return d
}

// Blob returns the action arguments as the single string they were authored as
func (d Definition) Blob() string {
	return strings.Join(d.Actions, " ")
}

// Normalize is applied to patterns at registration and to tags at lookup
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Captures maps regex group names to matched text. Numbered groups are keyed
// by their index ("1", "2", ...), named groups by their name as well.
type Captures map[string]string

// MatchResult is one rule selected for a tag
type MatchResult struct {
	Rule     Definition
	Captures Captures
	Exact    bool
}

func definitionLines(defs []Definition) []int {
	lines := make([]int, len(defs))
	for i, d := range defs {
		lines[i] = d.Line
	}
	return lines
}

// report adds a diagnostic located at defs. The last definition is the
// primary one; when defs come from several sources each line keeps its own.
func report(c *diagnostics.Collector, sev diagnostics.Severity, code diagnostics.Code,
	kind, pattern string, defs []Definition, format string, args ...interface{}) {
	d := diagnostics.Diagnostic{
		Severity: sev,
		Code:     code,
		Kind:     kind,
		Pattern:  pattern,
		Lines:    definitionLines(defs),
		Message:  fmt.Sprintf(format, args...),
	}
	if len(defs) > 0 {
		d.Source = defs[len(defs)-1].Source
		for _, def := range defs {
			if def.Source != d.Source {
				d.Sources = make([]string, len(defs))
				for i := range defs {
					d.Sources[i] = defs[i].Source
				}
				break
			}
		}
	}
	c.Add(d)
}
