package cli

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/arthur-debert/gffrules/pkg/gff"
	"github.com/arthur-debert/gffrules/pkg/logging"
	"github.com/arthur-debert/gffrules/pkg/metrics"
	"github.com/arthur-debert/gffrules/pkg/pipeline"
	"github.com/arthur-debert/gffrules/pkg/style"
	"github.com/arthur-debert/gffrules/pkg/types"
	dmp "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

type applyOptions struct {
	ruleFiles   []string
	output      string
	diff        bool
	metricsFile string
	workers     int
}

func newApplyCmd(a *app) *cobra.Command {
	opts := &applyOptions{}

	cmd := &cobra.Command{
		Use:     "apply INPUT",
		Short:   MsgApplyShort,
		Long:    MsgApplyLong,
		Example: MsgApplyExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("metrics-file") {
				opts.metricsFile = a.cfg.Output.MetricsFile
			}
			if !cmd.Flags().Changed("workers") {
				opts.workers = a.cfg.Processing.Workers
			}
			return a.apply(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.ruleFiles, "rules", "r", nil, MsgFlagRules)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "-", MsgFlagOutput)
	cmd.Flags().BoolVar(&opts.diff, "diff", false, MsgFlagDiff)
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", MsgFlagMetricsFile)
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, MsgFlagWorkers)
	return cmd
}

func (a *app) apply(cmd *cobra.Command, input string, opts *applyOptions) error {
	logger := logging.GetLogger("cli.apply")
	stderr := cmd.ErrOrStderr()

	eng, err := a.load(a.ruleFiles(opts.ruleFiles))
	if eng == nil {
		return err
	}
	if err != nil {
		_ = a.writeDiagnostics(stderr, a.cfg.Output.Format, eng.diags.Sorted())
		return errors.Wrap(err, errors.ErrRegexCompile, MsgErrFatal)
	}
	d, err := eng.dispatcher()
	if err != nil {
		return err
	}

	doc, err := readDocument(input)
	if err != nil {
		return err
	}

	var recorder *metrics.Recorder
	if opts.metricsFile != "" {
		if recorder, err = metrics.NewRecorder(); err != nil {
			return err
		}
		d.WithObserver(recorder)
	}

	batch := types.NewBatch(doc.Records(), eng.diags)
	summary, err := pipeline.NewRunner(d, pipeline.Options{Workers: opts.workers}).Run(cmd.Context(), batch)
	if err != nil {
		return err
	}

	if recorder != nil {
		recorder.ObserveBatch(summary.Records, summary.Duration)
		if err := recorder.WriteTextfile(opts.metricsFile); err != nil {
			return err
		}
		logger.Debug().Str("path", opts.metricsFile).Msg("Metrics written")
	}

	if err := a.writeDiagnostics(stderr, a.cfg.Output.Format, eng.diags.Sorted()); err != nil {
		return err
	}
	if a.cfg.Output.Format == "text" {
		fmt.Fprintf(stderr, MsgApplySummary, summary.Records, summary.Matched, summary.Fallbacks,
			summary.Valid, summary.Invalid, summary.Ignored, summary.Rewritten)
	}

	if opts.diff {
		var buf bytes.Buffer
		if err := gff.Write(&buf, doc, batch); err != nil {
			return errors.Wrap(err, errors.ErrIO, "failed to render output")
		}
		return writeLineDiff(cmd.OutOrStdout(), a.painter(cmd.OutOrStdout()), doc.Text(), buf.String())
	}
	return writeDocument(cmd.OutOrStdout(), opts.output, doc, batch)
}

func readDocument(path string) (*gff.Document, error) {
	r, err := gff.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to open %s", path).WithDetail("path", path)
	}
	defer func() { _ = r.Close() }()
	return gff.Read(r)
}

// writeDocument writes to path, or to stdout when path is "-"
func writeDocument(stdout io.Writer, path string, doc *gff.Document, batch *types.Batch) error {
	if path == "-" {
		return gff.Write(stdout, doc, batch)
	}
	w, err := gff.Create(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to create %s", path).WithDetail("path", path)
	}
	if err := gff.Write(w, doc, batch); err != nil {
		_ = w.Close()
		return errors.Wrapf(err, errors.ErrIO, "failed to write %s", path).WithDetail("path", path)
	}
	if err := w.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to close %s", path).WithDetail("path", path)
	}
	return nil
}

// writeLineDiff prints removed lines with "-" and added lines with "+"
func writeLineDiff(w io.Writer, p style.Painter, before, after string) error {
	differ := dmp.New()
	a, b, lines := differ.DiffLinesToChars(before, after)
	diffs := differ.DiffCharsToLines(differ.DiffMain(a, b, false), lines)

	for _, diff := range diffs {
		var prefix string
		st := style.MutedStyle
		switch diff.Type {
		case dmp.DiffDelete:
			prefix, st = "-", style.ErrorStyle
		case dmp.DiffInsert:
			prefix, st = "+", style.SuccessStyle
		default:
			continue
		}
		for _, line := range strings.SplitAfter(diff.Text, "\n") {
			if line == "" {
				continue
			}
			if _, err := fmt.Fprintln(w, p.Paint(st, prefix+strings.TrimSuffix(line, "\n"))); err != nil {
				return errors.Wrap(err, errors.ErrIO, "failed to write diff")
			}
		}
	}
	return nil
}
