package style

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ColorMode is the user preference from output.color
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ShouldColor decides whether output written to f gets ANSI styling
func ShouldColor(mode ColorMode, f *os.File) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	if f == nil || (!isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())) {
		return false
	}

	return termenv.ColorProfile() != termenv.Ascii
}
