// Package ui decides how command results are presented: rich terminal
// output, plain text, or JSON. Detection honors NO_COLOR and falls back to
// plain text whenever stdout is not an interactive terminal.
package ui

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/canonhq/canon/pkg/errors"
)

// Format selects an output rendering mode.
type Format int

const (
	// FormatAuto picks terminal or text based on the output destination.
	FormatAuto Format = iota
	// FormatTerminal renders styled output with colors.
	FormatTerminal
	// FormatText renders unstyled plain text.
	FormatText
	// FormatJSON renders machine-readable JSON.
	FormatJSON
)

// String returns the canonical name of the format.
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat maps a user-supplied name to a Format. The empty string
// means auto.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format %q", s)
	}
}

// DetectFormat inspects the output destination and environment and
// returns a concrete format, never FormatAuto.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}

	// Piped or redirected output gets plain text.
	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}

	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}

	return FormatTerminal
}

// Resolve concretizes f for the given destination: auto becomes whatever
// DetectFormat picks, everything else passes through.
func Resolve(f Format, output *os.File) Format {
	if f == FormatAuto {
		return DetectFormat(output)
	}
	return f
}
