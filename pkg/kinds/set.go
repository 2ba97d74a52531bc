package kinds

import (
	"fmt"
	"sync"

	"github.com/arthur-debert/gffrules/pkg/diagnostics"
	"github.com/arthur-debert/gffrules/pkg/rules"
	"github.com/arthur-debert/gffrules/pkg/types"
)

// Set collects batch-level values from matching records. Nothing is written
// until the run is over; the last assignment to a key wins.
type Set struct {
	base

	mu     sync.Mutex
	values map[string]setValue
	order  []string
	ready  []string
}

type setValue struct {
	value  string
	line   int
	source string
	seen   int
}

func NewSet() *Set {
	return &Set{
		base:   base{name: SetName},
		values: make(map[string]setValue),
	}
}

func (k *Set) Apply(rec *types.Record, rule rules.Definition, caps rules.Captures) error {
	assigns, err := parseAssignments(rule)
	if err != nil {
		return err
	}
	note(rec, rule)

	k.mu.Lock()
	defer k.mu.Unlock()
	for _, a := range assigns {
		prev, ok := k.values[a.key]
		if !ok {
			k.order = append(k.order, a.key)
		}
		k.values[a.key] = setValue{
			value:  expandCaptures(a.value, caps),
			line:   rule.Line,
			source: rule.Source,
			seen:   prev.seen + 1,
		}
	}
	return nil
}

// PreparePostponed fixes the keys to write, in first-assignment order
func (k *Set) PreparePostponed(*types.Batch) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.ready = append([]string(nil), k.order...)
}

// RunPostponed writes the collected values into the batch metadata
func (k *Set) RunPostponed(batch *types.Batch) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	for _, key := range k.ready {
		v := k.values[key]
		if prev, ok := batch.Meta(key); ok && prev != v.value {
			batch.Diagnostics.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityInfo,
				Code:     diagnostics.CodeActionConflict,
				Kind:     k.name,
				Pattern:  key,
				Lines:    []int{v.line},
				Source:   v.source,
				Message:  fmt.Sprintf("set %s=%s replaces %s", key, v.value, prev),
			})
		}
		batch.SetMeta(key, v.value)
	}
	k.ready = nil
	return nil
}
