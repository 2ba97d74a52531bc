package cli

import (
	"io"
	"os"

	"github.com/arthur-debert/gffrules/pkg/diagnostics"
	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/arthur-debert/gffrules/pkg/kinds"
	"github.com/arthur-debert/gffrules/pkg/logging"
	"github.com/arthur-debert/gffrules/pkg/rules"
	"github.com/arthur-debert/gffrules/pkg/ruleset"
	"github.com/arthur-debert/gffrules/pkg/style"
)

// engine is a loaded rule table with the kinds behind it
type engine struct {
	builder *rules.Builder
	table   *rules.Table
	unseen  *kinds.Unseen
	diags   *diagnostics.Collector
}

// ruleFiles returns the sources given on the command line, or the configured
// ones when there are none
func (a *app) ruleFiles(given []string) []string {
	if len(given) > 0 {
		return given
	}
	return a.cfg.Rules.Files
}

// load builds the rule table from paths. When a pattern fails to compile the
// engine is still returned, without a table, so its diagnostics can be shown.
func (a *app) load(paths []string) (*engine, error) {
	logger := logging.GetLogger("cli.load")
	diags := diagnostics.NewCollector().WithLogger(logging.GetLogger("diagnostics"))

	ks, unseen := kinds.Default(a.cfg.Rules.AliasMarker)
	b, err := rules.NewBuilder(ks, unseen, rules.BuilderOptions{
		AliasMarker: a.cfg.Rules.AliasMarker,
		Diagnostics: diags,
	})
	if err != nil {
		return nil, err
	}

	eng := &engine{builder: b, unseen: unseen, diags: diags}

	opts := ruleset.Options{
		CommentMarker: a.cfg.Rules.CommentMarker,
		AliasMarker:   a.cfg.Rules.AliasMarker,
		Diagnostics:   diags,
	}
	if err := ruleset.LoadFiles(b, paths, opts); err != nil {
		return nil, err
	}

	table, err := b.Build()
	if err != nil {
		logger.Debug().Err(err).Msg("Rule table not built")
		return eng, err
	}
	eng.table = table
	return eng, nil
}

// dispatcher returns a dispatcher over the built table
func (e *engine) dispatcher() (*rules.Dispatcher, error) {
	return e.builder.Dispatcher()
}

// painter returns a painter for w, colored when w is a terminal or color is
// forced
func (a *app) painter(w io.Writer) style.Painter {
	f, _ := w.(*os.File)
	return style.Painter{Color: style.ShouldColor(style.ColorMode(a.cfg.Output.Color), f)}
}

// writeDiagnostics renders diags to w in format
func (a *app) writeDiagnostics(w io.Writer, format string, diags []diagnostics.Diagnostic) error {
	if err := diagnostics.Write(w, diagnostics.Format(format), diags, a.painter(w)); err != nil {
		return errors.Wrap(err, errors.ErrIO, "failed to write diagnostics")
	}
	return nil
}
