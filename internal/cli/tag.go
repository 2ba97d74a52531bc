package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/arthur-debert/gffrules/pkg/rules"
	"github.com/arthur-debert/gffrules/pkg/style"
	"github.com/arthur-debert/gffrules/pkg/types"
	"github.com/spf13/cobra"
)

func newTagCmd(a *app) *cobra.Command {
	var (
		ruleFiles []string
		attrs     []string
	)

	cmd := &cobra.Command{
		Use:   "tag TAG...",
		Short: MsgTagShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.load(a.ruleFiles(ruleFiles))
			if eng == nil {
				return err
			}
			if err != nil {
				_ = a.writeDiagnostics(cmd.ErrOrStderr(), a.cfg.Output.Format, eng.diags.Sorted())
				return errors.Wrap(err, errors.ErrRegexCompile, MsgErrFatal)
			}
			d, err := eng.dispatcher()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			p := a.painter(out)
			for _, tag := range args {
				rec := types.NewRecord(tag)
				for _, kv := range attrs {
					key, value, ok := strings.Cut(kv, "=")
					if !ok {
						return errors.Newf(errors.ErrInvalidInput, "--attr %q is not key=value", kv)
					}
					rec.SetAttr(key, value)
				}
				for _, k := range d.Kinds() {
					k.PrepareContext(rec)
				}
				d.Fallback().PrepareContext(rec)

				outcome, err := d.Process(rec)
				if err != nil {
					return err
				}
				writeOutcome(out, p, tag, rec, outcome, d.Fallback().Name())
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&ruleFiles, "rules", "r", nil, MsgFlagRules)
	cmd.Flags().StringArrayVar(&attrs, "attr", nil, MsgFlagAttr)
	return cmd
}

func writeOutcome(w io.Writer, p style.Painter, tag string, rec *types.Record, outcome rules.Outcome, fallback string) {
	fmt.Fprintln(w, p.Paint(style.TitleStyle, tag))

	if outcome.Fallback {
		fmt.Fprintf(w, "  "+MsgNoMatch, tag, fallback, outcome.NoConfig)
	} else {
		fmt.Fprintln(w, "  "+p.Paint(style.MutedStyle, MsgTagMatchesHeader))
		for _, m := range outcome.Matches {
			path := "regex"
			if m.Exact {
				path = "exact"
			}
			fmt.Fprintf(w, "    %s %s line %d (%s)%s\n",
				p.Paint(style.KindStyle, m.Rule.Kind), p.Paint(style.PatternStyle, m.Rule.Pattern),
				m.Rule.Line, path, formatCaptures(m.Captures))
		}
	}

	fmt.Fprintln(w, "  "+p.Paint(style.MutedStyle, MsgTagResultHeader))
	fmt.Fprintf(w, "    tag: %s\n", rec.Tag())
	fmt.Fprintf(w, "    status: %s\n", rec.Status())
	if len(rec.AttrKeys()) > 0 {
		fmt.Fprintf(w, "    attributes: %s\n", rec.FormatAttrs())
	}
	for _, reason := range rec.InvalidReasons() {
		fmt.Fprintf(w, "    invalid: %s\n", reason)
	}
}

func formatCaptures(caps rules.Captures) string {
	if len(caps) == 0 {
		return ""
	}
	keys := make([]string, 0, len(caps))
	for k := range caps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, "$"+k+"="+caps[k])
	}
	return " " + strings.Join(parts, " ")
}
