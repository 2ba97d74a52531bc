package rules_test

import (
	"fmt"

	"github.com/arthur-debert/gffrules/pkg/rules"
	"github.com/arthur-debert/gffrules/pkg/types"
)

// recordingKind notes every application on the record so tests can check
// order and multiplicity.
type recordingKind struct {
	rules.Hooks
	name string
	err  error
}

func (k *recordingKind) Name() string { return k.name }

func (k *recordingKind) Apply(rec *types.Record, rule rules.Definition, caps rules.Captures) error {
	note := fmt.Sprintf("%s:%d", rule.Kind, rule.Line)
	if v, ok := caps["1"]; ok {
		note += "=" + v
	}
	rec.NoteApplied(note)
	return k.err
}

type aliasKind struct {
	rules.Hooks
	resolver *rules.AliasResolver
}

func newAliasKind() *aliasKind {
	return &aliasKind{resolver: rules.NewAliasResolver("")}
}

func (k *aliasKind) Name() string { return "alias" }

func (k *aliasKind) Apply(*types.Record, rules.Definition, rules.Captures) error { return nil }

func (k *aliasKind) Resolver() *rules.AliasResolver { return k.resolver }

type fallbackKind struct {
	rules.Hooks
	calls    int
	noConfig []bool
}

func (f *fallbackKind) Name() string { return "unseen" }

func (f *fallbackKind) Unmatched(rec *types.Record, noConfig bool) error {
	f.calls++
	f.noConfig = append(f.noConfig, noConfig)
	rec.MarkUnseen()
	return nil
}

func def(pattern, kind string, line int, actions ...string) rules.Definition {
	return rules.NewDefinition(pattern, kind, actions, line)
}
