// Package cli implements the deploytrace command line.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"deploytrace/internal/config"
	corelog "deploytrace/internal/core/log"
	"deploytrace/internal/tracelog"
	"deploytrace/internal/version"
)

// app holds the state shared by one command tree.
type app struct {
	configFile string
	verbose    bool
	noColor    bool

	out    io.Writer
	errOut io.Writer

	// console is the mirror used by dispatchers; nil picks one for out.
	console *tracelog.ConsoleMirror
	// dispatcherOpts are appended when building the dispatcher.
	dispatcherOpts []tracelog.DispatcherOption

	logger  *logrus.Logger
	manager *config.Manager
}

// Execute runs the deploytrace command line.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			corelog.Errorf("FATAL: panic recovered: %v", r)
			fmt.Fprintf(os.Stderr, "\nPANIC: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", string(debug.Stack()))
			os.Exit(2)
		}
	}()

	if err := NewRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree writing to out and errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	return newRootCmd(&app{out: out, errOut: errOut})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "deploytrace",
		Short: "Structured trace logging for unattended deployments",
		Long: `deploytrace records timestamped trace messages for installation workflows.

Lines are written in the TraceTool (CMTrace) format or the legacy text format,
mirrored to the console with severity colours, and the log file is archived
once it grows past the configured size.

Quick Start:
  deploytrace log "Installing patch" --source Add-Patch
  deploytrace log --severity error "disk full"
  deploytrace copy ./payload C:/Temp/payload
  deploytrace config show`,
		Version:           version.GetVersion(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "Config file path")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Write internal debug output to stderr")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable console colours")

	root.AddCommand(newLogCmd(a))
	root.AddCommand(newCopyCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newVersionCmd(a))

	return root
}

// setup configures the ambient logger. Internal output stays silent unless
// --verbose is given; warnings and errors still reach the trace log through
// the hook installed by dispatcher.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.noColor {
		color.NoColor = true
	}

	level, sink := "warn", io.Discard
	if a.verbose {
		level, sink = "debug", a.errOut
	}
	_, l, err := corelog.New(level, sink)
	if err != nil {
		return err
	}
	a.logger = l
	corelog.SetDefaultFromLogrus(l)
	return nil
}

// load reads the configuration once per command tree.
func (a *app) load(validate bool) (*config.Manager, error) {
	if a.manager != nil {
		return a.manager, nil
	}

	m := config.NewManager(config.ManagerOptions{
		ConfigFile:     a.configFile,
		EnableDotEnv:   true,
		SkipValidation: !validate,
	})
	if err := m.Load(); err != nil {
		return nil, err
	}
	a.manager = m
	return m, nil
}

// dispatcher builds a trace log dispatcher from the configuration and
// routes the ambient logger into it.
func (a *app) dispatcher(m *config.Manager) (*tracelog.Dispatcher, error) {
	console := a.console
	if console == nil {
		console = a.consoleFor(a.out)
	}

	opts := append([]tracelog.DispatcherOption{tracelog.WithConsoleMirror(console)}, a.dispatcherOpts...)
	d, err := m.NewDispatcher(opts...)
	if err != nil {
		return nil, err
	}

	if a.logger != nil {
		a.logger.AddHook(tracelog.NewHook(d))
	}
	return d, nil
}

func (a *app) consoleFor(w io.Writer) *tracelog.ConsoleMirror {
	if w == os.Stdout {
		return tracelog.StdoutMirror()
	}
	if f, ok := w.(*os.File); ok {
		return tracelog.NewConsoleMirror(f, tracelog.TerminalCapability{File: f})
	}
	return tracelog.NewConsoleMirror(w, tracelog.StaticCapability(false))
}

// fail prints err in red on stderr and returns it so cobra exits non-zero.
func (a *app) fail(err error) error {
	red := color.New(color.FgRed)
	red.Fprintf(a.errOut, "Error: %v\n", err)
	return err
}
