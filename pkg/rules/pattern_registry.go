package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/arthur-debert/gffrules/pkg/diagnostics"
	"github.com/arthur-debert/gffrules/pkg/errors"
)

// CompiledRule is a matured rule with its regex. Regexp is anchored at the
// start of the tag; Source is the expanded pattern as authored.
type CompiledRule struct {
	Rule   Definition
	Source string
	Regexp *regexp.Regexp
}

// Match evaluates the rule against a normalized tag
func (c CompiledRule) Match(tag string) (Captures, bool) {
	m := c.Regexp.FindStringSubmatch(tag)
	if m == nil {
		return nil, false
	}
	caps := make(Captures, len(m))
	names := c.Regexp.SubexpNames()
	for i := 1; i < len(m); i++ {
		caps[strconv.Itoa(i)] = m[i]
		if names[i] != "" {
			caps[names[i]] = m[i]
		}
	}
	return caps, true
}

// PatternRegistry stores the patterns of one rule kind in three buckets:
// exact, pending (containing the alias marker) and, after maturation,
// compiled.
type PatternRegistry struct {
	kind   string
	marker string
	diags  *diagnostics.Collector

	exact      map[string][]Definition
	exactOrder []string

	pending      map[string][]Definition
	pendingOrder []string

	compiled []CompiledRule
	matured  bool
}

// NewPatternRegistry returns an empty registry for kind
func NewPatternRegistry(kind, marker string, diags *diagnostics.Collector) *PatternRegistry {
	if marker == "" {
		marker = DefaultAliasMarker
	}
	if diags == nil {
		diags = diagnostics.NewCollector()
	}
	return &PatternRegistry{
		kind:    kind,
		marker:  marker,
		diags:   diags,
		exact:   make(map[string][]Definition),
		pending: make(map[string][]Definition),
	}
}

// Kind returns the kind name this registry belongs to
func (p *PatternRegistry) Kind() string { return p.kind }

// Register files rule under its normalized pattern. A second rule for the
// same pattern is kept and reported.
func (p *PatternRegistry) Register(rule Definition) {
	key := Normalize(rule.Pattern)

	if strings.Contains(key, p.marker) {
		p.pendingOrder = p.file(p.pending, p.pendingOrder, key, rule)
		return
	}
	p.exactOrder = p.file(p.exact, p.exactOrder, key, rule)
}

func (p *PatternRegistry) file(bucket map[string][]Definition, order []string, key string, rule Definition) []string {
	existing, seen := bucket[key]
	if seen {
		report(p.diags, diagnostics.SeverityWarning, diagnostics.CodeDuplicatePattern,
			p.kind, rule.Pattern, append(append([]Definition(nil), existing...), rule),
			"already seen pattern %s at lines %s for %s at %d",
			rule.Pattern, diagnostics.JoinLines(definitionLines(existing)), p.kind, rule.Line)
	} else {
		order = append(order, key)
	}
	bucket[key] = append(existing, rule)
	return order
}

// Mature expands and compiles the pending patterns. A nil resolver leaves
// them pending and unused. A pattern that fails to compile aborts maturation
// and leaves the registry untouched. Maturation happens at most once.
func (p *PatternRegistry) Mature(resolver *AliasResolver) error {
	if resolver == nil || p.matured {
		return nil
	}

	var compiled []CompiledRule
	type degraded struct {
		key  string
		rule Definition
	}
	var fallbacks []degraded

	for _, key := range p.pendingOrder {
		for _, rule := range p.pending[key] {
			raw := strings.TrimSpace(rule.Pattern)

			expanded, ok := resolver.Expand(raw)
			if !ok {
				continue
			}

			if expanded == raw {
				fallbacks = append(fallbacks, degraded{key: key, rule: rule})
				continue
			}

			re, err := regexp.Compile("^(?:" + expanded + ")")
			if err != nil {
				report(p.diags, diagnostics.SeverityFatal, diagnostics.CodeRegexCompile,
					p.kind, rule.Pattern, []Definition{rule},
					"cannot compile pattern %s (expanded: %s) for %s: %v", raw, expanded, p.kind, err)
				return errors.Wrapf(err, errors.ErrRegexCompile,
					"cannot compile pattern %q for %s at line %d", raw, p.kind, rule.Line).
					WithDetail("pattern", raw).
					WithDetail("expanded", expanded).
					WithDetail("kind", p.kind).
					WithDetail("line", rule.Line).
					WithDetail("source", rule.Source)
			}
			compiled = append(compiled, CompiledRule{Rule: rule, Source: expanded, Regexp: re})
		}
	}

	for _, f := range fallbacks {
		if _, ok := p.exact[f.key]; !ok {
			p.exactOrder = append(p.exactOrder, f.key)
		}
		p.exact[f.key] = append(p.exact[f.key], f.rule)
		report(p.diags, diagnostics.SeverityWarning, diagnostics.CodeMaturationFailed,
			p.kind, f.rule.Pattern, []Definition{f.rule},
			"cannot mature pattern %s (raw: %s) for %s (line %d)",
			f.key, strings.TrimSpace(f.rule.Pattern), p.kind, f.rule.Line)
	}

	p.compiled = append(p.compiled, compiled...)
	p.pending = make(map[string][]Definition)
	p.pendingOrder = nil
	p.matured = true
	return nil
}

// Matured reports whether Mature ran with a resolver
func (p *PatternRegistry) Matured() bool { return p.matured }

// ExactPatterns returns an independent copy of the exact bucket
func (p *PatternRegistry) ExactPatterns() map[string][]Definition {
	return copyBucket(p.exact)
}

// ExactKeys returns the exact patterns in first-registration order
func (p *PatternRegistry) ExactKeys() []string {
	return append([]string(nil), p.exactOrder...)
}

// PendingPatterns returns an independent copy of the pending bucket
func (p *PatternRegistry) PendingPatterns() map[string][]Definition {
	return copyBucket(p.pending)
}

// RegexPatterns returns an independent copy of the compiled rules
func (p *PatternRegistry) RegexPatterns() []CompiledRule {
	return append([]CompiledRule(nil), p.compiled...)
}

func copyBucket(src map[string][]Definition) map[string][]Definition {
	out := make(map[string][]Definition, len(src))
	for k, defs := range src {
		out[k] = append([]Definition(nil), defs...)
	}
	return out
}
