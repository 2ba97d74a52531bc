package types

import (
	"sort"
	"strings"
)

// Record is one feature being classified. The tag is the only thing the
// dispatcher looks at; everything else belongs to the rule actions.
type Record struct {
	// Line is the 1-based line of the record in its input, 0 if synthetic
	Line int

	// Columns holds the raw fixed columns of the record (GFF3: seqid .. phase,
	// with the type column kept in sync with the tag by the writer)
	Columns []string

	tag     string
	origTag string

	attrs     map[string]string
	attrOrder []string

	valid     bool
	invalid   []string
	ignored   bool
	unseen    bool
	rewritten bool
	replaced  bool

	applied []string
}

// NewRecord creates a record for tag
func NewRecord(tag string) *Record {
	return &Record{
		tag:     tag,
		origTag: tag,
		attrs:   make(map[string]string),
	}
}

// Tag returns the current tag
func (r *Record) Tag() string { return r.tag }

// OriginalTag returns the tag the record was read with
func (r *Record) OriginalTag() string { return r.origTag }

// SetTag rewrites the tag. The dispatcher never calls this; substitution
// actions do.
func (r *Record) SetTag(tag string) {
	r.tag = tag
	r.rewritten = tag != r.origTag
	r.replaced = true
}

// Rewritten reports whether a substitution changed the tag
func (r *Record) Rewritten() bool { return r.rewritten }

// Replaced reports whether any substitution was applied, including one that
// left the tag as it was read
func (r *Record) Replaced() bool { return r.replaced }

// Attr returns an attribute value
func (r *Record) Attr(key string) (string, bool) {
	v, ok := r.attrs[key]
	return v, ok
}

// SetAttr sets an attribute, keeping first-insertion order for output
func (r *Record) SetAttr(key, value string) {
	if r.attrs == nil {
		r.attrs = make(map[string]string)
	}
	if _, ok := r.attrs[key]; !ok {
		r.attrOrder = append(r.attrOrder, key)
	}
	r.attrs[key] = value
}

// AttrKeys returns attribute keys in insertion order
func (r *Record) AttrKeys() []string {
	keys := make([]string, len(r.attrOrder))
	copy(keys, r.attrOrder)
	return keys
}

// Attrs returns a copy of the attributes
func (r *Record) Attrs() map[string]string {
	out := make(map[string]string, len(r.attrs))
	for k, v := range r.attrs {
		out[k] = v
	}
	return out
}

// MarkValid records that a rule accepted the record
func (r *Record) MarkValid() { r.valid = true }

// MarkInvalid records a rejection and its reason
func (r *Record) MarkInvalid(reason string) { r.invalid = append(r.invalid, reason) }

// Ignore marks the record to be dropped from output
func (r *Record) Ignore() { r.ignored = true }

// MarkUnseen marks the record as matched by no rule
func (r *Record) MarkUnseen() { r.unseen = true }

// Valid reports whether some rule accepted the record and none rejected it
func (r *Record) Valid() bool { return r.valid && len(r.invalid) == 0 }

// Invalid reports whether any rule rejected the record
func (r *Record) Invalid() bool { return len(r.invalid) > 0 }

// InvalidReasons returns the rejection reasons in the order they were added
func (r *Record) InvalidReasons() []string {
	out := make([]string, len(r.invalid))
	copy(out, r.invalid)
	return out
}

// Ignored reports whether an ignore rule matched
func (r *Record) Ignored() bool { return r.ignored }

// Unseen reports whether the fallback handled the record
func (r *Record) Unseen() bool { return r.unseen }

// NoteApplied remembers that a rule touched the record, as "kind:line"
func (r *Record) NoteApplied(note string) { r.applied = append(r.applied, note) }

// Applied returns the rules that touched the record, in application order
func (r *Record) Applied() []string {
	out := make([]string, len(r.applied))
	copy(out, r.applied)
	return out
}

// Status summarises the record as one word for reports
func (r *Record) Status() string {
	switch {
	case r.ignored:
		return "ignored"
	case r.Invalid():
		return "invalid"
	case r.valid:
		return "valid"
	case r.unseen:
		return "unseen"
	default:
		return "unchecked"
	}
}

// FormatAttrs renders attributes as GFF3 column 9 ("k=v;k2=v2")
func (r *Record) FormatAttrs() string {
	if len(r.attrOrder) == 0 {
		return "."
	}
	parts := make([]string, 0, len(r.attrOrder))
	for _, k := range r.attrOrder {
		parts = append(parts, k+"="+r.attrs[k])
	}
	return strings.Join(parts, ";")
}

// SortedAttrKeys is AttrKeys in lexical order, for stable diagnostics
func (r *Record) SortedAttrKeys() []string {
	keys := r.AttrKeys()
	sort.Strings(keys)
	return keys
}
