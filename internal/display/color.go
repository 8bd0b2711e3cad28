// Package display renders prayer days and months for the terminal.
//
// Styling uses raw ANSI escape codes. It honours NO_COLOR
// (https://no-color.org/) and is switched off when stdout is not a terminal.
package display

import (
	"os"

	"github.com/mattn/go-isatty"
)

const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	fgGray = "\033[90m"
)

var enabled = shouldEnable()

func shouldEnable() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SetEnabled overrides the detected color state, e.g. for --json output.
func SetEnabled(b bool) { enabled = b }

// Enabled reports whether styling is active.
func Enabled() bool { return enabled }

func wrap(code, text string) string {
	if !enabled {
		return text
	}
	return code + text + reset
}

// Bold is used for headings.
func Bold(text string) string { return wrap(bold, text) }

// Dim is used for rules and separators.
func Dim(text string) string { return wrap(dim, text) }

// Green marks confirmations.
func Green(text string) string { return wrap(green, text) }

// Gray marks prayers that have already been performed.
func Gray(text string) string { return wrap(fgGray, text) }

// Accent highlights the next prayer and today's row.
func Accent(text string) string { return wrap(bold+cyan, text) }
