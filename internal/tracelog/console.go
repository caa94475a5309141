package tracelog

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorCapability reports whether an output sink renders colour.
type ColorCapability interface {
	SupportsColor() bool
}

// TerminalCapability detects colour support of a file backed console.
// Redirected output (file, pipe) and NO_COLOR report false.
type TerminalCapability struct {
	File *os.File
}

// SupportsColor implements ColorCapability.
func (c TerminalCapability) SupportsColor() bool {
	if c.File == nil || color.NoColor {
		return false
	}
	fd := c.File.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// StaticCapability is a fixed answer, used for tests and --no-color.
type StaticCapability bool

// SupportsColor implements ColorCapability.
func (s StaticCapability) SupportsColor() bool { return bool(s) }

// ConsoleMirror echoes formatted lines to the console.
type ConsoleMirror struct {
	out        io.Writer
	capability ColorCapability

	errorColor   *color.Color
	warningColor *color.Color
}

// NewConsoleMirror writes to out, colouring only when capability allows.
// A nil capability means plain output.
func NewConsoleMirror(out io.Writer, capability ColorCapability) *ConsoleMirror {
	if out == nil {
		out = io.Discard
	}
	if capability == nil {
		capability = StaticCapability(false)
	}

	// colour is decided by capability, not by the package level NoColor
	errorColor := color.New(color.FgRed, color.BgBlack)
	errorColor.EnableColor()
	warningColor := color.New(color.FgYellow, color.BgBlack)
	warningColor.EnableColor()

	return &ConsoleMirror{
		out:          out,
		capability:   capability,
		errorColor:   errorColor,
		warningColor: warningColor,
	}
}

// StdoutMirror mirrors to standard output. Windows consoles get ANSI
// translation through color.Output.
func StdoutMirror() *ConsoleMirror {
	return NewConsoleMirror(color.Output, TerminalCapability{File: os.Stdout})
}

// Mirror writes line coloured by severity: Error red on black, Warning
// yellow on black, Info uncoloured. Without colour support the same text
// goes to the same writer unstyled.
func (m *ConsoleMirror) Mirror(line string, sev Severity) {
	c := m.colorFor(sev)
	if c == nil || !m.capability.SupportsColor() {
		fmt.Fprintln(m.out, line)
		return
	}
	c.Fprintln(m.out, line)
}

// Diagnostic writes an engine failure message in red.
func (m *ConsoleMirror) Diagnostic(line string) {
	m.Mirror(line, SeverityError)
}

func (m *ConsoleMirror) colorFor(sev Severity) *color.Color {
	switch sev {
	case SeverityError:
		return m.errorColor
	case SeverityWarning:
		return m.warningColor
	default:
		return nil
	}
}
