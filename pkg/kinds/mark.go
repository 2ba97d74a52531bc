package kinds

import (
	"github.com/arthur-debert/gffrules/pkg/rules"
	"github.com/arthur-debert/gffrules/pkg/types"
)

// Ignore drops matching records from the output
type Ignore struct{ base }

func NewIgnore() *Ignore { return &Ignore{base{name: IgnoreName}} }

func (k *Ignore) Apply(rec *types.Record, rule rules.Definition, _ rules.Captures) error {
	rec.Ignore()
	note(rec, rule)
	return nil
}

// Valid accepts matching records as they are
type Valid struct{ base }

func NewValid() *Valid { return &Valid{base{name: ValidName}} }

func (k *Valid) Apply(rec *types.Record, rule rules.Definition, _ rules.Captures) error {
	rec.MarkValid()
	note(rec, rule)
	return nil
}
