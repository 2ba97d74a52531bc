package gff

import (
	"bufio"
	"io"
	"strings"

	"github.com/arthur-debert/gffrules/pkg/types"
)

// Write renders doc after processing. Ignored records are dropped, every
// record is written with its current tag and attributes, and the batch
// metadata becomes "##key value" pragmas after the version pragma.
func Write(w io.Writer, doc *Document, batch *types.Batch) error {
	bw := bufio.NewWriter(w)

	pragmasDone := false
	writePragmas := func() {
		pragmasDone = true
		if batch == nil {
			return
		}
		for _, key := range batch.MetaKeys() {
			value, _ := batch.Meta(key)
			bw.WriteString("##" + key + " " + value + "\n")
		}
	}

	for i, l := range doc.Lines {
		if !pragmasDone && !(i == 0 && strings.HasPrefix(l.Text, versionPragma)) {
			writePragmas()
		}

		if l.Record == nil {
			bw.WriteString(l.Text)
			bw.WriteByte('\n')
			continue
		}
		if l.Record.Ignored() {
			continue
		}
		bw.WriteString(FormatFeature(l.Record))
		bw.WriteByte('\n')
	}
	if !pragmasDone {
		writePragmas()
	}
	return bw.Flush()
}

// FormatFeature renders rec as a feature line
func FormatFeature(rec *types.Record) string {
	cols := make([]string, Columns)
	for i := range cols[:attrColumn] {
		cols[i] = "."
		if i < len(rec.Columns) && rec.Columns[i] != "" {
			cols[i] = rec.Columns[i]
		}
	}
	cols[typeColumn] = rec.Tag()
	cols[attrColumn] = rec.FormatAttrs()
	return strings.Join(cols, "\t")
}
