package kinds

import (
	"github.com/arthur-debert/gffrules/pkg/rules"
	"github.com/arthur-debert/gffrules/pkg/types"
)

// Alias defines named regex fragments. Its lines never reach the table.
type Alias struct {
	base
	resolver *rules.AliasResolver
}

// NewAlias returns an alias kind with an empty resolver
func NewAlias(marker string) *Alias {
	return &Alias{
		base:     base{name: AliasName},
		resolver: rules.NewAliasResolver(marker),
	}
}

// Resolver returns the resolver the alias lines populate
func (a *Alias) Resolver() *rules.AliasResolver { return a.resolver }

// Apply is never reached: alias rules are not dispatched
func (a *Alias) Apply(*types.Record, rules.Definition, rules.Captures) error { return nil }
