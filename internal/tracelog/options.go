package tracelog

import (
	"runtime"
	"strings"
)

// call is the resolved, immutable view of one dispatch call.
type call struct {
	cfg         Config
	severity    Severity
	source      string
	section     string
	debug       bool
	passThrough bool
}

type callOptions struct {
	severity          Severity
	source            string
	section           *string
	format            *Format
	directory         *string
	fileName          *string
	maxSizeMB         *float64
	console           *bool
	continueOnFailure *bool
	debug             bool
	passThrough       bool
}

// Option adjusts a single Log call.
type Option func(*callOptions)

// WithSeverity sets the severity; the default is Info.
func WithSeverity(sev Severity) Option {
	return func(o *callOptions) { o.severity = sev }
}

// WithSource sets the component tag.
func WithSource(source string) Option {
	return func(o *callOptions) { o.source = source }
}

// WithCallerSource tags the call with the name of the function that built
// the option, unless an explicit source is given.
func WithCallerSource() Option {
	name := callerName(2)
	return func(o *callOptions) {
		if o.source == "" {
			o.source = name
		}
	}
}

// WithSection overrides the session phase for this call. An empty section
// removes the section segment.
func WithSection(section string) Option {
	return func(o *callOptions) { o.section = &section }
}

// WithFormat overrides the on-disk format.
func WithFormat(f Format) Option {
	return func(o *callOptions) { o.format = &f }
}

// WithDirectory overrides the log directory.
func WithDirectory(dir string) Option {
	return func(o *callOptions) { o.directory = &dir }
}

// WithFileName overrides the log file name.
func WithFileName(name string) Option {
	return func(o *callOptions) { o.fileName = &name }
}

// WithMaxSizeMB overrides the rotation threshold.
func WithMaxSizeMB(mb float64) Option {
	return func(o *callOptions) { o.maxSizeMB = &mb }
}

// WithConsole overrides console mirroring.
func WithConsole(enabled bool) Option {
	return func(o *callOptions) { o.console = &enabled }
}

// WithContinueOnFailure overrides whether failures stay silent.
func WithContinueOnFailure(cont bool) Option {
	return func(o *callOptions) { o.continueOnFailure = &cont }
}

// AsDebug marks the messages as debug output, recorded only when
// Config.DebugEnabled is set.
func AsDebug() Option {
	return func(o *callOptions) { o.debug = true }
}

// PassThrough makes Log return its input messages.
func PassThrough() Option {
	return func(o *callOptions) { o.passThrough = true }
}

func (d *Dispatcher) resolve(opts []Option) call {
	o := callOptions{severity: SeverityInfo}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	cfg := d.cfg
	if o.format != nil {
		cfg.Format = *o.format
	}
	if o.directory != nil {
		cfg.Directory = *o.directory
	}
	if o.fileName != nil {
		cfg.FileName = *o.fileName
	}
	if o.maxSizeMB != nil {
		cfg.MaxSizeMB = *o.maxSizeMB
	}
	if o.console != nil {
		cfg.MirrorToConsole = *o.console
	}
	if o.continueOnFailure != nil {
		cfg.ContinueOnFailure = *o.continueOnFailure
	}

	c := call{
		cfg:         cfg,
		severity:    o.severity.normalize(),
		source:      o.source,
		debug:       o.debug,
		passThrough: o.passThrough,
	}
	if o.section != nil {
		c.section = *o.section
	} else {
		c.section = d.session.Phase()
	}
	return c
}

// callerName turns the function skip frames up the stack into a short tag,
// e.g. "deploytrace/internal/deploy.(*Copier).CopyFile" -> "Copier.CopyFile".
func callerName(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}

	name := fn.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.NewReplacer("(*", "", "(", "", ")", "").Replace(name)
}
