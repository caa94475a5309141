package tracelog

import (
	"os"
	"sync"
	"time"

	coreerrors "deploytrace/internal/core/errors"
	corelog "deploytrace/internal/core/log"
)

// diagnosticSource tags the console lines the engine prints about itself.
const diagnosticSource = "tracelog"

// hookBypassField marks ambient log entries emitted by the engine so the
// logrus Hook does not feed them back into a dispatch in progress.
const hookBypassField = "tracelog_internal"

// Dispatcher is the logging engine entry point.
type Dispatcher struct {
	mu sync.Mutex

	cfg     Config
	session *Session
	console *ConsoleMirror
	now     func() time.Time
	env     EnvironmentFunc
	logger  corelog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) { d.now = now }
}

// WithEnvironment replaces CurrentEnvironment.
func WithEnvironment(env EnvironmentFunc) DispatcherOption {
	return func(d *Dispatcher) { d.env = env }
}

// WithSession shares a session between dispatchers.
func WithSession(s *Session) DispatcherOption {
	return func(d *Dispatcher) { d.session = s }
}

// WithConsoleMirror replaces the stdout mirror.
func WithConsoleMirror(m *ConsoleMirror) DispatcherOption {
	return func(d *Dispatcher) { d.console = m }
}

// WithDiagnosticLogger sets where swallowed failures are traced.
func WithDiagnosticLogger(l corelog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = l }
}

// New creates a Dispatcher for cfg.
func New(cfg Config, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{cfg: cfg}
	for _, opt := range opts {
		opt(d)
	}

	if d.session == nil {
		d.session = NewSession("", false)
	}
	if d.console == nil {
		d.console = StdoutMirror()
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.env == nil {
		d.env = CurrentEnvironment
	}
	if d.logger == nil {
		d.logger = corelog.Default()
	}
	d.logger = d.logger.WithField(hookBypassField, true)
	if cfg.DisableFileLogging {
		d.session.DisableFileLogging()
	}
	return d
}

// Config returns a copy of the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.cfg
}

// Session returns the session state.
func (d *Dispatcher) Session() *Session {
	return d.session
}

// Log records messages. Each message becomes one line; all lines of a call
// share one timestamp and are written contiguously. Log never fails: when
// PassThrough is given it returns messages unchanged, otherwise nil.
//
// The source tag is written only when given. Log does not infer it from the
// call stack; pass WithCallerSource to tag lines with the calling function.
func (d *Dispatcher) Log(messages []string, opts ...Option) []string {
	c := d.resolve(opts)
	d.locked(messages, c)

	if c.passThrough {
		return messages
	}
	return nil
}

// locked runs one top-level call under d.mu. The lock is released even when
// a console writer panics.
func (d *Dispatcher) locked(messages []string, c call) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dispatch(messages, c)
}

// Info logs messages at Info.
func (d *Dispatcher) Info(messages ...string) {
	d.Log(messages, WithSeverity(SeverityInfo))
}

// Warning logs messages at Warning.
func (d *Dispatcher) Warning(messages ...string) {
	d.Log(messages, WithSeverity(SeverityWarning))
}

// Error logs messages at Error.
func (d *Dispatcher) Error(messages ...string) {
	d.Log(messages, WithSeverity(SeverityError))
}

// dispatch runs one call with d.mu held. Rotation re-enters it directly.
func (d *Dispatcher) dispatch(messages []string, c call) {
	cfg := c.cfg

	if c.debug && !cfg.DebugEnabled {
		return
	}
	fileOff := cfg.DisableFileLogging || d.session.FileLoggingDisabled()
	if fileOff && !cfg.MirrorToConsole {
		return
	}
	if len(messages) == 0 {
		return
	}
	if d.session.suppressRelaunchBanner(c.section) {
		return
	}

	now := d.now()
	env := d.env()
	if cfg.ScriptFile != "" {
		env.ScriptFile = cfg.ScriptFile
	}
	path := cfg.Path()

	if !fileOff {
		if err := ensureDirectory(cfg.Directory); err != nil {
			d.session.DisableFileLogging()
			d.logger.WithError(err).Debugf("file logging disabled: directory %s unavailable", cfg.Directory)
			if !cfg.ContinueOnFailure {
				d.diagnose(now, c.section, "Failed to create the log directory ["+cfg.Directory+"]. "+err.Error())
			}
			return
		}
	}

	for _, msg := range messages {
		lines := Render(Entry{
			Text:       msg,
			Severity:   c.severity,
			Source:     c.source,
			Section:    c.section,
			Time:       now,
			ThreadID:   env.ThreadID,
			Principal:  env.Principal,
			ScriptFile: env.ScriptFile,
		})

		if !fileOff {
			if err := appendLine(path, lines.Select(cfg.Format)); err != nil {
				d.logger.WithError(err).Debugf("dropped log line for %s", path)
				if !cfg.ContinueOnFailure {
					d.diagnose(now, c.section, "Failed to write message ["+msg+"] to the log file ["+path+"]. "+err.Error())
				}
			}
		}

		if cfg.MirrorToConsole {
			d.console.Mirror(lines.Legacy, c.severity)
		}
	}

	if !fileOff {
		if err := d.rotate(c, path); err != nil {
			d.logger.WithError(err).Debugf("log rotation skipped for %s", path)
		}
	}
}

func (d *Dispatcher) diagnose(now time.Time, section, text string) {
	d.console.Diagnostic(RenderLegacy(Entry{
		Text:     text,
		Severity: SeverityError,
		Source:   diagnosticSource,
		Section:  section,
		Time:     now,
	}))
}

// ensureDirectory creates dir and its parents when missing.
func ensureDirectory(dir string) error {
	if dir == "" {
		return coreerrors.New(coreerrors.CodeDirectoryUnavailable, "log directory is not set")
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return coreerrors.New(coreerrors.CodeDirectoryUnavailable, "log directory path is not a directory").WithPath(dir)
		}
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return coreerrors.Wrap(err, coreerrors.CodeDirectoryUnavailable, "failed to create log directory").WithPath(dir)
	}
	return nil
}

// appendLine appends line and a newline to path as UTF-8, creating the file
// on first use, and returns once the data is synced.
func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return coreerrors.Wrap(err, coreerrors.CodeWriteFailed, "failed to open log file").WithPath(path)
	}

	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Close()
		return coreerrors.Wrap(err, coreerrors.CodeWriteFailed, "failed to append to log file").WithPath(path)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return coreerrors.Wrap(err, coreerrors.CodeWriteFailed, "failed to sync log file").WithPath(path)
	}
	if err := f.Close(); err != nil {
		return coreerrors.Wrap(err, coreerrors.CodeWriteFailed, "failed to close log file").WithPath(path)
	}
	return nil
}
