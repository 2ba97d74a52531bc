package kinds

import (
	"github.com/arthur-debert/gffrules/pkg/rules"
	"github.com/arthur-debert/gffrules/pkg/types"
)

// Fix assigns attributes. The plain kind only fills attributes that are
// not set yet; the forced kind overwrites.
type Fix struct {
	base
	force bool
}

// NewFix returns FIX, or FORCEFIX when force is set
func NewFix(force bool) *Fix {
	name := FixName
	if force {
		name = ForceFixName
	}
	return &Fix{base: base{name: name}, force: force}
}

func (k *Fix) Apply(rec *types.Record, rule rules.Definition, caps rules.Captures) error {
	assigns, err := parseAssignments(rule)
	if err != nil {
		return err
	}
	note(rec, rule)

	for _, a := range assigns {
		if _, set := rec.Attr(a.key); set && !k.force {
			continue
		}
		rec.SetAttr(a.key, expandCaptures(a.value, caps))
	}
	return nil
}
