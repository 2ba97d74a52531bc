package rules

import (
	"sort"
	"strings"

	"github.com/arthur-debert/gffrules/pkg/diagnostics"
)

// Table is the merged, dispatch-ready view of every kind's matured patterns.
// It is immutable once returned by Builder.Build.
type Table struct {
	exact      map[string][]Definition
	regex      []CompiledRule
	kinds      []string
	configured bool
}

func newTable(configured bool) *Table {
	return &Table{
		exact:      make(map[string][]Definition),
		configured: configured,
	}
}

// merge adds one kind's snapshots. Exact patterns already bound by an earlier
// kind are reported but kept.
func (t *Table) merge(reg *PatternRegistry, diags *diagnostics.Collector) {
	kind := reg.Kind()
	exact := reg.ExactPatterns()

	for _, key := range reg.ExactKeys() {
		defs := exact[key]
		if earlier, ok := t.exact[key]; ok {
			report(diags, diagnostics.SeverityWarning, diagnostics.CodeCrossKindCollision,
				kind, key, append(append([]Definition(nil), earlier...), defs...),
				"already seen pattern %s for %s (bound earlier by %s)",
				key, kind, strings.Join(kindsOf(earlier), ", "))
		}
		t.exact[key] = append(t.exact[key], defs...)
	}

	t.regex = append(t.regex, reg.RegexPatterns()...)
	t.kinds = append(t.kinds, kind)
}

func kindsOf(defs []Definition) []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range defs {
		if !seen[d.Kind] {
			seen[d.Kind] = true
			out = append(out, d.Kind)
		}
	}
	return out
}

// Configured reports whether any rule line, alias definitions included, was
// accepted while loading. It is keyed on accepted lines, not on sources: an
// empty or comment-only source leaves the table unconfigured, so unmatched
// tags take the no-config fallback path, while a source holding only aliases
// is configured even though its table is Empty.
func (t *Table) Configured() bool { return t.configured }

// Empty reports whether the table holds no dispatchable rule
func (t *Table) Empty() bool { return len(t.exact) == 0 && len(t.regex) == 0 }

// Kinds returns the merged kinds in merge order
func (t *Table) Kinds() []string { return append([]string(nil), t.kinds...) }

// Exact returns the exact rules bound to tag, after normalization
func (t *Table) Exact(tag string) []Definition {
	return append([]Definition(nil), t.exact[Normalize(tag)]...)
}

// ExactKeys returns every exact pattern, sorted
func (t *Table) ExactKeys() []string {
	keys := make([]string, 0, len(t.exact))
	for k := range t.exact {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Regex returns the compiled rules in evaluation order
func (t *Table) Regex() []CompiledRule {
	return append([]CompiledRule(nil), t.regex...)
}

// Match returns every rule selected for tag: the exact rules first, in
// registration order, then each matching regex in table order. It has no
// side effects; an empty result means the fallback applies.
func (t *Table) Match(tag string) []MatchResult {
	norm := Normalize(tag)

	var matches []MatchResult
	for _, def := range t.exact[norm] {
		matches = append(matches, MatchResult{Rule: def, Exact: true})
	}
	for _, cr := range t.regex {
		if caps, ok := cr.Match(norm); ok {
			matches = append(matches, MatchResult{Rule: cr.Rule, Captures: caps})
		}
	}
	return matches
}
