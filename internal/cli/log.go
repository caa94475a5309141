package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	coreerrors "deploytrace/internal/core/errors"
	"deploytrace/internal/tracelog"
)

type logFlags struct {
	severity          string
	source            string
	section           string
	debug             bool
	passThru          bool
	format            string
	directory         string
	fileName          string
	maxSizeMB         float64
	console           bool
	continueOnFailure bool
}

func newLogCmd(a *app) *cobra.Command {
	f := &logFlags{}

	cmd := &cobra.Command{
		Use:   "log [message...]",
		Short: "Write messages to the trace log",
		Long: `Write one line per message to the trace log. Without arguments the
messages are read from stdin, one per line.

Examples:
  deploytrace log "Installing patch" --source Add-Patch --section Installation
  deploytrace log --severity 3 "disk full"
  deploytrace log --debug "raw exit code 1603"
  some-tool | deploytrace log --source some-tool --passthru`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLog(cmd, f, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.severity, "severity", "s", "info", "Severity: 1/info, 2/warning, 3/error")
	fl.StringVar(&f.source, "source", "", "Component that produced the message")
	fl.StringVar(&f.section, "section", "", "Section tag (default: the configured phase)")
	fl.BoolVar(&f.debug, "debug", false, "Record only when debug logging is enabled")
	fl.BoolVar(&f.passThru, "passthru", false, "Echo the messages to stdout")
	fl.StringVar(&f.format, "format", "", "Override the file format: tracetool, cmtrace, legacy")
	fl.StringVar(&f.directory, "dir", "", "Override the log directory")
	fl.StringVar(&f.fileName, "file", "", "Override the log file name")
	fl.Float64Var(&f.maxSizeMB, "max-size", 0, "Override the rotation threshold in MB (0 disables)")
	fl.BoolVar(&f.console, "console", true, "Mirror the messages to the console")
	fl.BoolVar(&f.continueOnFailure, "continue-on-failure", true, "Stay silent when the log file cannot be written")

	return cmd
}

func (a *app) runLog(cmd *cobra.Command, f *logFlags, args []string) error {
	opts, err := f.options(cmd)
	if err != nil {
		return a.fail(err)
	}

	messages := args
	if len(messages) == 0 {
		if messages, err = readLines(cmd); err != nil {
			return a.fail(err)
		}
	}

	m, err := a.load(true)
	if err != nil {
		return a.fail(err)
	}
	d, err := a.dispatcher(m)
	if err != nil {
		return a.fail(err)
	}

	for _, msg := range d.Log(messages, opts...) {
		fmt.Fprintln(a.out, msg)
	}
	return nil
}

// options maps the flags onto per-call options. Overrides apply only when
// the flag was given so the configured defaults stay in charge.
func (f *logFlags) options(cmd *cobra.Command) ([]tracelog.Option, error) {
	sev, err := parseSeverity(f.severity)
	if err != nil {
		return nil, err
	}

	opts := []tracelog.Option{tracelog.WithSeverity(sev)}
	if f.source != "" {
		opts = append(opts, tracelog.WithSource(f.source))
	}
	if cmd.Flags().Changed("section") {
		opts = append(opts, tracelog.WithSection(f.section))
	}
	if f.debug {
		opts = append(opts, tracelog.AsDebug())
	}
	if f.passThru {
		opts = append(opts, tracelog.PassThrough())
	}
	if cmd.Flags().Changed("format") {
		format, err := tracelog.ParseFormat(f.format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tracelog.WithFormat(format))
	}
	if cmd.Flags().Changed("dir") {
		opts = append(opts, tracelog.WithDirectory(f.directory))
	}
	if cmd.Flags().Changed("file") {
		opts = append(opts, tracelog.WithFileName(f.fileName))
	}
	if cmd.Flags().Changed("max-size") {
		opts = append(opts, tracelog.WithMaxSizeMB(f.maxSizeMB))
	}
	if cmd.Flags().Changed("console") {
		opts = append(opts, tracelog.WithConsole(f.console))
	}
	if cmd.Flags().Changed("continue-on-failure") {
		opts = append(opts, tracelog.WithContinueOnFailure(f.continueOnFailure))
	}
	return opts, nil
}

func parseSeverity(s string) (tracelog.Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "info", "information":
		return tracelog.SeverityInfo, nil
	case "2", "warn", "warning":
		return tracelog.SeverityWarning, nil
	case "3", "error":
		return tracelog.SeverityError, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return 0, coreerrors.Newf(coreerrors.CodeInvalidParam, "severity %d out of range 1-3", n)
	}
	return 0, coreerrors.Newf(coreerrors.CodeInvalidParam, "unknown severity %q", s)
}

func readLines(cmd *cobra.Command) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, coreerrors.Wrap(err, coreerrors.CodeInvalidParam, "failed to read messages from stdin")
	}
	return lines, nil
}
