package rules

import (
	"github.com/arthur-debert/gffrules/pkg/types"
)

// Kind is a rule kind: the action side of every rule authored with its name.
type Kind interface {
	// Name is the name used in rule sources, matched case-insensitively
	Name() string

	// Apply runs the action of rule on rec. captures is nil for exact matches.
	Apply(rec *types.Record, rule Definition, captures Captures) error

	// PrepareContext is a pre-pass over every record before any dispatch
	PrepareContext(rec *types.Record)

	// PreparePostponed runs once after all records were dispatched
	PreparePostponed(batch *types.Batch)

	// RunPostponed runs the deferred action, after PreparePostponed
	RunPostponed(batch *types.Batch) error
}

// Fallback is the kind invoked when no rule matches a tag
type Fallback interface {
	Name() string

	// Unmatched handles rec. noConfig is true when no rules were configured.
	Unmatched(rec *types.Record, noConfig bool) error

	PrepareContext(rec *types.Record)
	PreparePostponed(batch *types.Batch)
	RunPostponed(batch *types.Batch) error
}

// AliasProvider is implemented by the kind whose rules define aliases. Its
// lines populate the resolver instead of a pattern registry.
type AliasProvider interface {
	Kind
	Resolver() *AliasResolver
}

// Hooks provides no-op optional hooks for kinds to embed
type Hooks struct{}

func (Hooks) PrepareContext(*types.Record)    {}
func (Hooks) PreparePostponed(*types.Batch)   {}
func (Hooks) RunPostponed(*types.Batch) error { return nil }
