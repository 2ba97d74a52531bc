package kinds

import (
	"fmt"

	"github.com/arthur-debert/gffrules/pkg/rules"
	"github.com/arthur-debert/gffrules/pkg/types"
)

// Kind names as written in rule sources
const (
	AliasName    = "alias"
	IgnoreName   = "ignore"
	ValidName    = "valid"
	ValidIfName  = "validif"
	FixName      = "fix"
	ForceFixName = "forcefix"
	SubName      = "sub"
	ForceSubName = "forcesub"
	SetName      = "set"
	UnseenName   = "unseen"
)

// Default returns fresh instances of every authorable kind, in the order
// their patterns are merged into the table, and the unseen fallback.
func Default(aliasMarker string) ([]rules.Kind, *Unseen) {
	return []rules.Kind{
		NewAlias(aliasMarker),
		NewIgnore(),
		NewValid(),
		NewValidIf(),
		NewFix(false),
		NewFix(true),
		NewSub(false),
		NewSub(true),
		NewSet(),
	}, NewUnseen()
}

// Names lists the authorable kind names in merge order
func Names() []string {
	return []string{
		AliasName, IgnoreName, ValidName, ValidIfName,
		FixName, ForceFixName, SubName, ForceSubName, SetName,
	}
}

// base carries the name every kind reports and the no-op hooks
type base struct {
	rules.Hooks
	name string
}

func (b base) Name() string { return b.name }

// note records that rule touched rec
func note(rec *types.Record, rule rules.Definition) {
	rec.NoteApplied(fmt.Sprintf("%s:%d", rule.Kind, rule.Line))
}
