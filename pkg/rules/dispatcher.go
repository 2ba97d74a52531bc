package rules

import (
	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/arthur-debert/gffrules/pkg/logging"
	"github.com/arthur-debert/gffrules/pkg/registry"
	"github.com/arthur-debert/gffrules/pkg/types"
	"github.com/rs/zerolog"
)

// Observer is told about every dispatch outcome
type Observer interface {
	ObserveMatch(kind string, exact bool)
	ObserveFallback(noConfig bool)
}

// Outcome is the result of dispatching one record
type Outcome struct {
	Matches []MatchResult

	// Fallback is set when nothing matched and the fallback kind ran
	Fallback bool
	NoConfig bool
}

// Dispatcher applies the rules of a frozen table to records. It holds no
// per-record state and may be used from several goroutines as long as each
// record is dispatched by one goroutine only.
type Dispatcher struct {
	table    *Table
	kinds    registry.Registry[Kind]
	fallback Fallback
	observer Observer
	logger   zerolog.Logger
}

func newDispatcher(table *Table, kinds registry.Registry[Kind], fallback Fallback) *Dispatcher {
	return &Dispatcher{
		table:    table,
		kinds:    kinds,
		fallback: fallback,
		logger:   logging.GetLogger("rules.dispatcher"),
	}
}

// WithObserver sets the observer and returns the dispatcher
func (d *Dispatcher) WithObserver(o Observer) *Dispatcher {
	d.observer = o
	return d
}

// Table returns the table being dispatched against
func (d *Dispatcher) Table() *Table { return d.table }

// Kinds returns the rule kinds in registration order
func (d *Dispatcher) Kinds() []Kind {
	names := d.kinds.List()
	out := make([]Kind, 0, len(names))
	for _, n := range names {
		k, _ := d.kinds.Lookup(n)
		out = append(out, k)
	}
	return out
}

// Fallback returns the fallback kind
func (d *Dispatcher) Fallback() Fallback { return d.fallback }

// Process dispatches rec. Every matched rule is applied even when an earlier
// one fails; the first action error is returned.
func (d *Dispatcher) Process(rec *types.Record) (Outcome, error) {
	matches := d.table.Match(rec.Tag())

	if len(matches) == 0 {
		noConfig := !d.table.Configured()
		if d.observer != nil {
			d.observer.ObserveFallback(noConfig)
		}
		d.logger.Trace().
			Str("tag", rec.Tag()).
			Bool("noConfig", noConfig).
			Msg("No rule matched")
		out := Outcome{Fallback: true, NoConfig: noConfig}
		if err := d.fallback.Unmatched(rec, noConfig); err != nil {
			return out, errors.Wrapf(err, errors.ErrActionApply,
				"fallback %s failed for tag %s", d.fallback.Name(), rec.Tag())
		}
		return out, nil
	}

	var firstErr error
	for _, m := range matches {
		kind, ok := d.kinds.Lookup(m.Rule.Kind)
		if !ok {
			// a table is only built from registered kinds
			continue
		}

		d.logger.Trace().
			Str("tag", rec.Tag()).
			Str("kind", m.Rule.Kind).
			Int("line", m.Rule.Line).
			Bool("exact", m.Exact).
			Interface("captures", m.Captures).
			Msg("Applying rule")

		if d.observer != nil {
			d.observer.ObserveMatch(m.Rule.Kind, m.Exact)
		}

		if err := kind.Apply(rec, m.Rule, m.Captures); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, errors.ErrActionApply,
				"%s rule at line %d failed for tag %s", m.Rule.Kind, m.Rule.Line, rec.Tag()).
				WithDetail("kind", m.Rule.Kind).
				WithDetail("line", m.Rule.Line)
		}
	}

	return Outcome{Matches: matches}, firstErr
}
