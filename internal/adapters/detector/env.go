// Package detector picks the log format from the terminal and CI environment.
package detector

import (
	"os"

	"golang.org/x/term"
)

// LogFormat is the format log records are written in.
type LogFormat int

const (
	// FormatAuto defers to detection.
	FormatAuto LogFormat = iota
	// FormatPretty writes coloured human-readable lines.
	FormatPretty
	// FormatJSON writes one JSON object per record.
	FormatJSON
)

// DetectFormat returns FormatJSON when stderr is not a terminal under CI and
// FormatPretty otherwise.
func DetectFormat() LogFormat {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY && isCI {
		return FormatJSON
	}
	return FormatPretty
}

// ResolveFormat applies the --log-format flag to the detected format.
// userFlag is one of "auto", "pretty", "json" or empty.
func ResolveFormat(detected LogFormat, userFlag string) LogFormat {
	switch userFlag {
	case "pretty":
		return FormatPretty
	case "json":
		return FormatJSON
	default:
		return detected
	}
}
