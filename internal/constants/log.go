package constants

// On-disk format names
const (
	LogFormatTraceTool = "tracetool"
	LogFormatCMTrace   = "cmtrace" // alias of tracetool
	LogFormatLegacy    = "legacy"
)

// Severity words used by the legacy format
const (
	SeverityWordInfo    = "Info"
	SeverityWordWarning = "Warning"
	SeverityWordError   = "Error"
)

// Rotation
const (
	// LogArchiveExtension replaces the log file extension on rotation.
	LogArchiveExtension = ".lo_"

	// BytesPerMB converts max_size_mb into a byte threshold.
	BytesPerMB = 1024 * 1024

	// MaxLogSizeMB caps max_size_mb (1 TiB).
	MaxLogSizeMB = 1024 * 1024
)

// PhaseInitialization is the toolkit's startup phase. Its first call after
// a relaunch is suppressed.
const PhaseInitialization = "Initialization"

// Defaults
const (
	DefaultToolkitName = "deploytrace"
	DefaultLogFileName = "deploytrace.log"
	DefaultLogDir      = "~/.deploytrace/logs"
	DefaultMaxSizeMB   = 10
	EnvPrefix          = "DEPLOYTRACE"
)

// Log field names used when bridging the ambient logger into the trace log
const (
	LogFieldSource  = "source"
	LogFieldSection = "section"
)
