package gff

import (
	"bufio"
	"io"
	"strings"

	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/arthur-debert/gffrules/pkg/types"
)

const (
	// Columns is the number of tab separated columns in a feature line
	Columns = 9

	typeColumn = 2
	attrColumn = 8

	fastaPragma   = "##FASTA"
	versionPragma = "##gff-version"
)

// Line is one input line. Record is nil for pragmas, comments, blank lines
// and the FASTA section, which are written back verbatim.
type Line struct {
	Record *types.Record
	Text   string
}

// Document is a parsed GFF3 file in input order
type Document struct {
	Lines []Line
}

// Text returns the input as read, one line per Line
func (d *Document) Text() string {
	var b strings.Builder
	for _, l := range d.Lines {
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Records returns the feature records in input order
func (d *Document) Records() []*types.Record {
	var out []*types.Record
	for _, l := range d.Lines {
		if l.Record != nil {
			out = append(out, l.Record)
		}
	}
	return out
}

// Read parses a GFF3 stream
func Read(r io.Reader) (*Document, error) {
	doc := &Document{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineno := 0
	fasta := false
	for sc.Scan() {
		lineno++
		text := sc.Text()

		if fasta || text == "" || strings.HasPrefix(text, "#") {
			if strings.HasPrefix(text, fastaPragma) {
				fasta = true
			}
			doc.Lines = append(doc.Lines, Line{Text: text})
			continue
		}
		if strings.HasPrefix(text, ">") {
			// sequence without the ##FASTA pragma
			fasta = true
			doc.Lines = append(doc.Lines, Line{Text: text})
			continue
		}

		rec, err := ParseFeature(text, lineno)
		if err != nil {
			return nil, err
		}
		doc.Lines = append(doc.Lines, Line{Record: rec, Text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrIO, "failed to read GFF input")
	}
	return doc, nil
}

// ParseFeature parses one feature line
func ParseFeature(text string, lineno int) (*types.Record, error) {
	cols := strings.Split(strings.TrimRight(text, "\r"), "\t")
	if len(cols) != Columns {
		return nil, errors.Newf(errors.ErrRecordParse,
			"line %d: expected %d tab separated columns, got %d", lineno, Columns, len(cols)).
			WithDetail("line", lineno)
	}
	if cols[typeColumn] == "" {
		return nil, errors.Newf(errors.ErrRecordParse, "line %d: empty type column", lineno).
			WithDetail("line", lineno)
	}

	rec := types.NewRecord(cols[typeColumn])
	rec.Line = lineno
	rec.Columns = append([]string(nil), cols[:attrColumn]...)

	if err := parseAttributes(rec, cols[attrColumn]); err != nil {
		return nil, errors.Wrapf(err, errors.ErrRecordParse, "line %d", lineno).
			WithDetail("line", lineno)
	}
	return rec, nil
}

func parseAttributes(rec *types.Record, col string) error {
	col = strings.TrimSpace(col)
	if col == "" || col == "." {
		return nil
	}
	for _, part := range strings.Split(col, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok || key == "" {
			return errors.Newf(errors.ErrRecordParse, "malformed attribute %q", part)
		}
		rec.SetAttr(key, value)
	}
	return nil
}
