package kinds

import (
	"sync"

	"github.com/arthur-debert/gffrules/pkg/diagnostics"
	"github.com/arthur-debert/gffrules/pkg/types"
)

// Unseen is the fallback: it flags records no rule matched and reports
// the unseen tags once the run is over.
type Unseen struct {
	base

	mu       sync.Mutex
	counts   map[string]int
	order    []string
	total    int
	noConfig bool
}

func NewUnseen() *Unseen {
	return &Unseen{
		base:   base{name: UnseenName},
		counts: make(map[string]int),
	}
}

func (u *Unseen) Unmatched(rec *types.Record, noConfig bool) error {
	rec.MarkUnseen()

	u.mu.Lock()
	defer u.mu.Unlock()
	u.total++
	u.noConfig = u.noConfig || noConfig
	tag := rec.Tag()
	if _, ok := u.counts[tag]; !ok {
		u.order = append(u.order, tag)
	}
	u.counts[tag]++
	return nil
}

// Count returns how many records reached the fallback
func (u *Unseen) Count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.total
}

// Tags returns the unseen tags with their counts, in first-seen order
func (u *Unseen) Tags() ([]string, map[string]int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	counts := make(map[string]int, len(u.counts))
	for k, v := range u.counts {
		counts[k] = v
	}
	return append([]string(nil), u.order...), counts
}

// RunPostponed reports the unseen tags
func (u *Unseen) RunPostponed(batch *types.Batch) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.total == 0 {
		return nil
	}
	if u.noConfig || batch.NoConfig {
		batch.Diagnostics.Addf(diagnostics.SeverityInfo, diagnostics.CodeUnseenTag,
			u.name, "", nil,
			"no rules configured, %d records in %d distinct tags passed through unchecked",
			u.total, len(u.order))
		return nil
	}
	for _, tag := range u.order {
		batch.Diagnostics.Addf(diagnostics.SeverityInfo, diagnostics.CodeUnseenTag,
			u.name, tag, nil, "unseen tag %s (%d records)", tag, u.counts[tag])
	}
	return nil
}
