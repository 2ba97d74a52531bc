package kinds

import (
	"fmt"
	"sync"

	"github.com/arthur-debert/gffrules/pkg/diagnostics"
	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/arthur-debert/gffrules/pkg/rules"
	"github.com/arthur-debert/gffrules/pkg/types"
)

// Sub rewrites the tag of a record. The plain kind rewrites at most once per
// record and reports later attempts after the run; the forced kind always
// rewrites.
type Sub struct {
	base
	force bool

	mu        sync.Mutex
	conflicts []subConflict
}

type subConflict struct {
	rule    rules.Definition
	tag     string
	current string
}

// NewSub returns SUB, or FORCESUB when force is set
func NewSub(force bool) *Sub {
	name := SubName
	if force {
		name = ForceSubName
	}
	return &Sub{base: base{name: name}, force: force}
}

func (k *Sub) Apply(rec *types.Record, rule rules.Definition, caps rules.Captures) error {
	target := expandCaptures(rule.Blob(), caps)
	if target == "" {
		return errors.Newf(errors.ErrInvalidInput, "%s at line %d has no replacement tag", rule.Kind, rule.Line).
			WithDetail("line", rule.Line)
	}

	if rec.Replaced() && !k.force {
		k.mu.Lock()
		k.conflicts = append(k.conflicts, subConflict{rule: rule, tag: target, current: rec.Tag()})
		k.mu.Unlock()
		return nil
	}

	note(rec, rule)
	rec.SetTag(target)
	return nil
}

// RunPostponed reports the substitutions that lost to an earlier one
func (k *Sub) RunPostponed(batch *types.Batch) error {
	k.mu.Lock()
	conflicts := k.conflicts
	k.conflicts = nil
	k.mu.Unlock()

	for _, c := range conflicts {
		batch.Diagnostics.Add(diagnostics.Diagnostic{
			Severity: diagnostics.SeverityWarning,
			Code:     diagnostics.CodeActionConflict,
			Kind:     k.name,
			Pattern:  c.rule.Pattern,
			Lines:    []int{c.rule.Line},
			Source:   c.rule.Source,
			Message:  fmt.Sprintf("%s to %s skipped, tag already rewritten to %s", k.name, c.tag, c.current),
		})
	}
	return nil
}
