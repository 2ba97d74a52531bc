package cli

import (
	"fmt"

	"github.com/arthur-debert/gffrules/pkg/diagnostics"
	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		strict bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "check [RULES...]",
		Short: MsgCheckShort,
		Long:  MsgCheckLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = a.cfg.Output.Format
			}
			paths := a.ruleFiles(args)
			if len(paths) == 0 {
				return errors.New(errors.ErrInvalidInput, MsgErrNoRules)
			}

			eng, err := a.load(paths)
			if eng == nil {
				return err
			}

			out := cmd.OutOrStdout()
			if werr := a.writeDiagnostics(out, format, eng.diags.Sorted()); werr != nil {
				return werr
			}
			if err != nil {
				return errors.Wrap(err, errors.ErrRegexCompile, MsgErrFatal)
			}

			if format == string(diagnostics.FormatText) {
				fmt.Fprintf(out, MsgCheckSummary,
					len(eng.table.ExactKeys()), len(eng.table.Regex()),
					eng.builder.Resolver().Len(), eng.diags.Len())
			}

			if strict {
				if warnings := countAtLeast(eng.diags, diagnostics.SeverityWarning); warnings > 0 {
					return errors.Newf(errors.ErrInvalidInput, MsgErrStrict, warnings)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, MsgFlagStrict)
	cmd.Flags().StringVar(&format, "format", "", MsgFlagFormat)
	return cmd
}

func countAtLeast(c *diagnostics.Collector, sev diagnostics.Severity) int {
	n := 0
	for _, d := range c.All() {
		if d.Severity >= sev {
			n++
		}
	}
	return n
}
