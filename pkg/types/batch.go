package types

import (
	"sync"

	"github.com/arthur-debert/gffrules/pkg/diagnostics"
)

// Batch is the context of one processing run. Rule kinds with postponed
// effects read and write it after every record has been dispatched.
type Batch struct {
	Records     []*Record
	Diagnostics *diagnostics.Collector

	// NoConfig is set when the run had no rule table at all
	NoConfig bool

	mu        sync.Mutex
	meta      map[string]string
	metaOrder []string
}

// NewBatch wraps records for one run
func NewBatch(records []*Record, diags *diagnostics.Collector) *Batch {
	if diags == nil {
		diags = diagnostics.NewCollector()
	}
	return &Batch{
		Records:     records,
		Diagnostics: diags,
		meta:        make(map[string]string),
	}
}

// SetMeta sets a batch-level key, emitted as a "##key value" pragma
func (b *Batch) SetMeta(key, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.meta == nil {
		b.meta = make(map[string]string)
	}
	if _, ok := b.meta[key]; !ok {
		b.metaOrder = append(b.metaOrder, key)
	}
	b.meta[key] = value
}

// Meta returns a batch-level value
func (b *Batch) Meta(key string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.meta[key]
	return v, ok
}

// MetaKeys returns batch-level keys in insertion order
func (b *Batch) MetaKeys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, len(b.metaOrder))
	copy(keys, b.metaOrder)
	return keys
}
