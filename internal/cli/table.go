package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/arthur-debert/gffrules/pkg/rules"
	"github.com/arthur-debert/gffrules/pkg/style"
	"github.com/spf13/cobra"
)

func newTableCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "table [RULES...]",
		Short: MsgTableShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.load(a.ruleFiles(args))
			if eng == nil {
				return err
			}
			if err != nil {
				_ = a.writeDiagnostics(cmd.ErrOrStderr(), a.cfg.Output.Format, eng.diags.Sorted())
				return errors.Wrap(err, errors.ErrRegexCompile, MsgErrFatal)
			}
			return writeTable(cmd.OutOrStdout(), eng.table, a.painter(cmd.OutOrStdout()))
		},
	}
}

// writeTable prints exact patterns sorted, then regex patterns in
// evaluation order
func writeTable(out io.Writer, table *rules.Table, p style.Painter) error {
	fmt.Fprintln(out, p.Paint(style.TitleStyle, MsgTableExactHeader))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	keys := table.ExactKeys()
	if len(keys) == 0 {
		fmt.Fprintln(w, MsgTableEmpty)
	}
	for _, key := range keys {
		for _, def := range table.Exact(key) {
			fmt.Fprintf(w, "  %s\t%s\t%d\t%s\n",
				p.Paint(style.PatternStyle, key), p.Paint(style.KindStyle, def.Kind), def.Line, def.Blob())
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrIO, "failed to write table")
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, p.Paint(style.TitleStyle, MsgTableRegexHeader))
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	regex := table.Regex()
	if len(regex) == 0 {
		fmt.Fprintln(w, MsgTableEmpty)
	}
	for _, cr := range regex {
		fmt.Fprintf(w, "  %s\t%s\t%d\t%s\n",
			p.Paint(style.PatternStyle, cr.Source), p.Paint(style.KindStyle, cr.Rule.Kind),
			cr.Rule.Line, strings.TrimSpace(cr.Rule.Blob()))
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrIO, "failed to write table")
	}
	return nil
}
