// Package detector picks the log format from the environment.
package detector

import (
	"os"

	"golang.org/x/term"
)

// LogFormat is the rendering of log records.
type LogFormat int

const (
	// FormatAuto defers to the environment.
	FormatAuto LogFormat = iota
	// FormatPretty renders styled, human-readable lines.
	FormatPretty
	// FormatJSON renders one JSON object per record.
	FormatJSON
)

// DetectEnvironment returns the log format suited to where stderr goes.
func DetectEnvironment() LogFormat {
	return Detect(term.IsTerminal(int(os.Stderr.Fd())), os.Getenv) //nolint:gosec // file descriptors fit in int
}

// Detect chooses JSON for CI jobs whose stderr is not a terminal, and pretty output otherwise.
func Detect(isTTY bool, getenv func(string) string) LogFormat {
	ci := getenv("CI")
	isCI := ci == "true" || ci == "1"

	if isCI && !isTTY {
		return FormatJSON
	}
	return FormatPretty
}

// ResolveFormat applies the user's flag to the detected format.
// userFlag should be one of: "auto", "pretty", "json", or empty.
func ResolveFormat(autoDetected LogFormat, userFlag string) LogFormat {
	switch userFlag {
	case "pretty":
		return FormatPretty
	case "json":
		return FormatJSON
	default:
		return autoDetected
	}
}
