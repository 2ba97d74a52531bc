package rules

import (
	"github.com/arthur-debert/gffrules/pkg/diagnostics"
	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/arthur-debert/gffrules/pkg/logging"
	"github.com/arthur-debert/gffrules/pkg/registry"
	"github.com/rs/zerolog"
)

// BuilderOptions configures a Builder
type BuilderOptions struct {
	// AliasMarker overrides DefaultAliasMarker
	AliasMarker string

	// Diagnostics receives every load diagnostic; one is created if nil
	Diagnostics *diagnostics.Collector
}

// Builder runs the load phase: rule lines are filed per kind, then Build
// matures every kind and merges them into a Table.
type Builder struct {
	kinds      registry.Registry[Kind]
	registries map[string]*PatternRegistry
	fallback   Fallback
	resolver   *AliasResolver
	marker     string
	diags      *diagnostics.Collector
	accepted   int
	table      *Table
	logger     zerolog.Logger
}

// NewBuilder registers kinds in order. The order decides how kinds are merged
// into the table and therefore the order of regex evaluation between kinds.
func NewBuilder(kinds []Kind, fallback Fallback, opts BuilderOptions) (*Builder, error) {
	if fallback == nil {
		return nil, errors.New(errors.ErrInvalidInput, "a fallback kind is required")
	}

	b := &Builder{
		kinds:      registry.New[Kind](),
		registries: make(map[string]*PatternRegistry),
		fallback:   fallback,
		marker:     opts.AliasMarker,
		diags:      opts.Diagnostics,
		logger:     logging.GetLogger("rules.builder"),
	}
	if b.marker == "" {
		b.marker = DefaultAliasMarker
	}
	if b.diags == nil {
		b.diags = diagnostics.NewCollector()
	}

	for _, k := range kinds {
		if err := b.kinds.Register(k.Name(), k); err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "cannot register rule kind %s", k.Name())
		}
		name := registry.Normalize(k.Name())

		if ap, ok := k.(AliasProvider); ok {
			if b.resolver == nil {
				b.resolver = ap.Resolver()
			}
			continue
		}
		b.registries[name] = NewPatternRegistry(name, b.marker, b.diags)
	}

	if registry.Normalize(fallback.Name()) != "" && b.kinds.Has(fallback.Name()) {
		return nil, errors.Newf(errors.ErrAlreadyExists,
			"fallback kind %s is also registered as a rule kind", fallback.Name())
	}

	return b, nil
}

// Diagnostics returns the collector load diagnostics go to
func (b *Builder) Diagnostics() *diagnostics.Collector { return b.diags }

// Kinds returns the registered kinds in registration order
func (b *Builder) Kinds() []Kind {
	names := b.kinds.List()
	out := make([]Kind, 0, len(names))
	for _, n := range names {
		k, _ := b.kinds.Lookup(n)
		out = append(out, k)
	}
	return out
}

// Registry returns the pattern registry of a kind, for inspection
func (b *Builder) Registry(kind string) (*PatternRegistry, bool) {
	reg, ok := b.registries[registry.Normalize(kind)]
	return reg, ok
}

// Resolver returns the alias resolver, nil when no alias kind is registered
func (b *Builder) Resolver() *AliasResolver { return b.resolver }

// Add files one authored rule. Unknown kinds are reported and dropped.
// def.Kind is the kind name as written in the source.
func (b *Builder) Add(def Definition) error {
	if b.table != nil {
		return errors.New(errors.ErrTableFrozen, "rule table already built").
			WithDetail("line", def.Line)
	}

	name := registry.Normalize(def.Kind)
	kind, ok := b.kinds.Lookup(name)
	if !ok {
		report(b.diags, diagnostics.SeverityWarning, diagnostics.CodeUnknownKind,
			name, def.Pattern, []Definition{def},
			"can't load unknown rule %s (raw: %s) at line %d", name, def.Kind, def.Line)
		return nil
	}

	def = NewDefinition(def.Pattern, name, def.Actions, def.Line).WithSource(def.Source)

	if ap, ok := kind.(AliasProvider); ok {
		prev, redefined, err := ap.Resolver().define(def, def.Blob())
		if err != nil {
			report(b.diags, diagnostics.SeverityWarning, diagnostics.CodeMalformedLine,
				name, def.Pattern, []Definition{def}, "%v", err)
			return nil
		}
		if redefined {
			report(b.diags, diagnostics.SeverityWarning, diagnostics.CodeDuplicatePattern,
				name, def.Pattern, []Definition{prev, def},
				"already seen pattern %s at lines %d for %s at %d", def.Pattern, prev.Line, name, def.Line)
		}
		b.accepted++
		return nil
	}

	b.registries[name].Register(def)
	b.accepted++
	return nil
}

// Build matures every kind and merges them into the table. On a compile
// failure no table is returned. Calling Build again returns the same table.
func (b *Builder) Build() (*Table, error) {
	if b.table != nil {
		return b.table, nil
	}
	done := logging.LogOperationStart(b.logger, "build rule table")
	defer done()

	b.resolver.Freeze()

	for _, name := range b.kinds.List() {
		reg, ok := b.registries[name]
		if !ok {
			continue
		}
		if err := reg.Mature(b.resolver); err != nil {
			return nil, err
		}
	}

	table := newTable(b.accepted > 0)
	for _, name := range b.kinds.List() {
		if reg, ok := b.registries[name]; ok {
			table.merge(reg, b.diags)
		}
	}

	b.logger.Debug().
		Int("rules", b.accepted).
		Int("exactPatterns", len(table.exact)).
		Int("regexPatterns", len(table.regex)).
		Int("aliases", b.resolver.Len()).
		Msg("Rule table built")

	b.table = table
	return table, nil
}

// Dispatcher returns a dispatcher over the built table
func (b *Builder) Dispatcher() (*Dispatcher, error) {
	if b.table == nil {
		return nil, errors.New(errors.ErrTableNotReady, "rule table has not been built")
	}
	return newDispatcher(b.table, b.kinds, b.fallback), nil
}
