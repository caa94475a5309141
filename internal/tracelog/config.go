package tracelog

import "path/filepath"

// Config is the engine configuration. It is built once at startup and
// copied into every dispatch call, so per-call overrides never leak into
// the shared value.
type Config struct {
	Format    Format
	Directory string
	FileName  string

	// MaxSizeMB is the rotation threshold; zero or negative disables rotation.
	MaxSizeMB float64

	MirrorToConsole bool
	DebugEnabled    bool

	// ContinueOnFailure silences the red console diagnostics printed when
	// the directory cannot be created or a write fails.
	ContinueOnFailure bool

	// DisableFileLogging turns file output off for the whole session.
	DisableFileLogging bool

	// ScriptFile overrides the file attribute of trace-tool lines.
	ScriptFile string
}

// Path is the log file path.
func (c Config) Path() string {
	return filepath.Join(c.Directory, c.FileName)
}
