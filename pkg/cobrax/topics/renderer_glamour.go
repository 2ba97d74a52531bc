package topics

import (
	"github.com/charmbracelet/glamour"
)

// GlamourRenderer renders markdown topics with glamour
type GlamourRenderer struct {
	// Style is a glamour standard style ("dark", "light", "notty", ...);
	// empty or "auto" detects it from the terminal
	Style string

	// Width wraps output; 0 keeps glamour's default
	Width int
}

// NewGlamourRenderer returns a renderer with terminal detection. Without
// color the "notty" style is used.
func NewGlamourRenderer(color bool) *GlamourRenderer {
	r := &GlamourRenderer{Style: "auto"}
	if !color {
		r.Style = "notty"
	}
	return r
}

func (r *GlamourRenderer) options() []glamour.TermRendererOption {
	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStandardStyle(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}
	return options
}

// Render renders markdown and returns other formats unchanged. Content that
// glamour rejects is returned as-is.
func (r *GlamourRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}

	renderer, err := glamour.NewTermRenderer(r.options()...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
