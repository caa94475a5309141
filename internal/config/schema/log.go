package schema

import "deploytrace/internal/constants"

// Log file formats
const (
	LogFormatTraceTool = constants.LogFormatTraceTool
	LogFormatCMTrace   = constants.LogFormatCMTrace
	LogFormatLegacy    = constants.LogFormatLegacy
)

// LogConfig contains the trace log settings
type LogConfig struct {
	Format            string  `yaml:"format" json:"format"`                           // tracetool/cmtrace/legacy
	Directory         string  `yaml:"directory" json:"directory"`                     // log directory, ~ expanded
	FileName          string  `yaml:"file_name" json:"file_name"`                     // log file name
	MaxSizeMB         float64 `yaml:"max_size_mb" json:"max_size_mb"`                 // rotation threshold, 0 disables
	Console           bool    `yaml:"console" json:"console"`                         // mirror lines to the console
	Debug             bool    `yaml:"debug" json:"debug"`                             // record debug messages
	ContinueOnFailure bool    `yaml:"continue_on_failure" json:"continue_on_failure"` // suppress failure diagnostics
	Disabled          bool    `yaml:"disabled" json:"disabled"`                       // disable file logging
}
