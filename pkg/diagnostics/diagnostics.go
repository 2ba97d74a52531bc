// Package diagnostics collects the structured messages produced while a rule
// table is loaded and while records are processed. The collector is the only
// channel the rule engine reports through; rendering and transport are left to
// the callers (see the Write* functions in this package).
package diagnostics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Severity orders diagnostics from informational to fatal
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Code identifies what a diagnostic is about
type Code string

const (
	// CodeDuplicatePattern is a second rule for the same pattern within one kind
	CodeDuplicatePattern Code = "duplicate-pattern"
	// CodeCrossKindCollision is one exact pattern bound by several kinds
	CodeCrossKindCollision Code = "cross-kind-collision"
	// CodeUnknownKind is a rule line naming a kind nobody registered
	CodeUnknownKind Code = "unknown-kind"
	// CodeMaturationFailed is an alias pattern whose expansion changed nothing
	CodeMaturationFailed Code = "maturation-failed"
	// CodeRegexCompile is an expanded pattern rejected by the regex compiler
	CodeRegexCompile Code = "regex-compile"
	// CodeMalformedLine is a rule source line missing its kind
	CodeMalformedLine Code = "malformed-line"
	// CodeUnseenTag is a tag no rule matched during processing
	CodeUnseenTag Code = "unseen-tag"
	// CodeActionConflict is an action that was skipped because an earlier one won
	CodeActionConflict Code = "action-conflict"
)

// Diagnostic is one structured message
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     Code     `json:"code"`
	Kind     string   `json:"kind,omitempty"`
	Pattern  string   `json:"pattern,omitempty"`
	Lines    []int    `json:"lines,omitempty"`
	Source   string   `json:"source,omitempty"`
	// Sources is set when Lines span several sources, one per line.
	// Source is then the source of the primary line.
	Sources []string `json:"sources,omitempty"`
	Message string   `json:"message"`
}

// Line returns the primary (last) source line, or 0.
func (d Diagnostic) Line() int {
	if len(d.Lines) == 0 {
		return 0
	}
	return d.Lines[len(d.Lines)-1]
}

// Location renders where d points: "a.rules:3,7", or "a.rules:3,b.rules:7"
// when its lines span several sources.
func (d Diagnostic) Location() string {
	if len(d.Sources) > 0 && len(d.Sources) == len(d.Lines) {
		parts := make([]string, len(d.Lines))
		for i, l := range d.Lines {
			parts[i] = strconv.Itoa(l)
			if d.Sources[i] != "" {
				parts[i] = d.Sources[i] + ":" + parts[i]
			}
		}
		return strings.Join(parts, ",")
	}

	loc := d.Source
	if len(d.Lines) > 0 {
		if loc != "" {
			loc += ":"
		}
		loc += JoinLines(d.Lines)
	}
	return loc
}

func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.Severity.String())
	b.WriteString(" [")
	b.WriteString(string(d.Code))
	b.WriteString("]")
	switch {
	case len(d.Sources) > 0:
		b.WriteString(" ")
		b.WriteString(d.Location())
	default:
		if d.Source != "" {
			b.WriteString(" ")
			b.WriteString(d.Source)
		}
		if len(d.Lines) > 0 {
			b.WriteString(" line")
			if len(d.Lines) > 1 {
				b.WriteString("s")
			}
			b.WriteString(" ")
			b.WriteString(JoinLines(d.Lines))
		}
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// JoinLines formats line numbers as "3,7,12"
func JoinLines(lines []int) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = strconv.Itoa(l)
	}
	return strings.Join(parts, ",")
}

// Collector accumulates diagnostics. It is safe for concurrent use because
// postponed hooks and concurrent dispatch may report at the same time.
type Collector struct {
	mu     sync.Mutex
	items  []Diagnostic
	source string
	logger *zerolog.Logger
}

// NewCollector returns an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

// WithLogger mirrors every added diagnostic to logger as it arrives
func (c *Collector) WithLogger(logger zerolog.Logger) *Collector {
	c.logger = &logger
	return c
}

// SetSource names the rule source subsequent diagnostics belong to
func (c *Collector) SetSource(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.source = source
}

// Add records d, filling Source when unset
func (c *Collector) Add(d Diagnostic) {
	c.mu.Lock()
	if d.Source == "" {
		d.Source = c.source
	}
	c.items = append(c.items, d)
	c.mu.Unlock()

	if c.logger != nil {
		c.log(d)
	}
}

// Addf is a shorthand for Add with a formatted message
func (c *Collector) Addf(sev Severity, code Code, kind, pattern string, lines []int, format string, args ...interface{}) {
	c.Add(Diagnostic{
		Severity: sev,
		Code:     code,
		Kind:     kind,
		Pattern:  pattern,
		Lines:    lines,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (c *Collector) log(d Diagnostic) {
	var ev *zerolog.Event
	switch d.Severity {
	case SeverityFatal:
		ev = c.logger.Error()
	case SeverityWarning:
		ev = c.logger.Warn()
	default:
		ev = c.logger.Info()
	}
	ev = ev.Str("code", string(d.Code))
	if d.Kind != "" {
		ev = ev.Str("kind", d.Kind)
	}
	if d.Pattern != "" {
		ev = ev.Str("pattern", d.Pattern)
	}
	if len(d.Lines) > 0 {
		ev = ev.Ints("lines", d.Lines)
	}
	if d.Source != "" {
		ev = ev.Str("source", d.Source)
	}
	if len(d.Sources) > 0 {
		ev = ev.Strs("sources", d.Sources)
	}
	ev.Msg(d.Message)
}

// All returns a copy of every diagnostic in arrival order
func (c *Collector) All() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Filter returns the diagnostics with the given code
func (c *Collector) Filter(code Code) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.All() {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// Count returns how many diagnostics carry code
func (c *Collector) Count(code Code) int {
	return len(c.Filter(code))
}

// Len returns the number of diagnostics collected
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Max returns the highest severity seen, and false when empty
func (c *Collector) Max() (Severity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return SeverityInfo, false
	}
	max := SeverityInfo
	for _, d := range c.items {
		if d.Severity > max {
			max = d.Severity
		}
	}
	return max, true
}

// HasFatal reports whether any fatal diagnostic was collected
func (c *Collector) HasFatal() bool {
	sev, ok := c.Max()
	return ok && sev == SeverityFatal
}

// Sorted returns diagnostics ordered by source, first line, then arrival
func (c *Collector) Sorted() []Diagnostic {
	out := c.All()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return firstLine(out[i]) < firstLine(out[j])
	})
	return out
}

func firstLine(d Diagnostic) int {
	if len(d.Lines) == 0 {
		return 0
	}
	return d.Lines[0]
}
