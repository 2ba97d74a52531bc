package diagnostics

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/arthur-debert/gffrules/pkg/style"
	"github.com/beevik/etree"
)

// Format selects a diagnostics renderer
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// Write renders diags to w in the requested format
func Write(w io.Writer, format Format, diags []Diagnostic, painter style.Painter) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, diags)
	case FormatXML:
		return WriteCheckstyle(w, diags)
	case FormatText, "":
		return WriteText(w, diags, painter)
	default:
		return fmt.Errorf("unknown diagnostics format %q", format)
	}
}

// WriteText writes one line per diagnostic
func WriteText(w io.Writer, diags []Diagnostic, painter style.Painter) error {
	for _, d := range diags {
		sev := painter.Paint(style.SeverityStyle(d.Severity.String()), d.Severity.String())
		loc := d.Location()
		if loc != "" {
			loc = painter.Paint(style.MutedStyle, loc) + " "
		}
		kind := ""
		if d.Kind != "" {
			kind = painter.Paint(style.KindStyle, d.Kind) + " "
		}
		if _, err := fmt.Fprintf(w, "%s%s: %s%s (%s)\n", loc, sev, kind, d.Message, d.Code); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes diagnostics as a JSON array
func WriteJSON(w io.Writer, diags []Diagnostic) error {
	if diags == nil {
		diags = []Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// WriteCheckstyle writes diagnostics in the checkstyle XML format understood
// by most CI annotation tools. Diagnostics are grouped per source file.
func WriteCheckstyle(w io.Writer, diags []Diagnostic) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("checkstyle")
	root.CreateAttr("version", "4.3")

	files := map[string]*etree.Element{}
	for _, d := range diags {
		name := d.Source
		if name == "" {
			name = "<rules>"
		}
		file, ok := files[name]
		if !ok {
			file = root.CreateElement("file")
			file.CreateAttr("name", name)
			files[name] = file
		}

		e := file.CreateElement("error")
		e.CreateAttr("line", strconv.Itoa(d.Line()))
		e.CreateAttr("severity", checkstyleSeverity(d.Severity))
		e.CreateAttr("message", d.Message)
		e.CreateAttr("source", "gffrules."+string(d.Code))
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

func checkstyleSeverity(s Severity) string {
	switch s {
	case SeverityFatal:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}
