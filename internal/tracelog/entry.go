package tracelog

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"deploytrace/internal/constants"
	coreerrors "deploytrace/internal/core/errors"
)

// Format selects the on-disk serialization.
type Format int

const (
	FormatTraceTool Format = iota
	FormatLegacy
)

func (f Format) String() string {
	switch f {
	case FormatTraceTool:
		return constants.LogFormatTraceTool
	case FormatLegacy:
		return constants.LogFormatLegacy
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat parses a format name. "cmtrace" is accepted as an alias of
// "tracetool"; matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case constants.LogFormatTraceTool, constants.LogFormatCMTrace:
		return FormatTraceTool, nil
	case constants.LogFormatLegacy:
		return FormatLegacy, nil
	default:
		return FormatTraceTool, coreerrors.Newf(coreerrors.CodeInvalidParam, "unknown log format %q", s)
	}
}

// Severity is the numeric message severity written to the type attribute.
type Severity int

const (
	SeverityInfo    Severity = 1
	SeverityWarning Severity = 2
	SeverityError   Severity = 3
)

// String returns the word used by the legacy format.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return constants.SeverityWordWarning
	case SeverityError:
		return constants.SeverityWordError
	default:
		return constants.SeverityWordInfo
	}
}

// normalize maps out of range values to Info.
func (s Severity) normalize() Severity {
	if s < SeverityInfo || s > SeverityError {
		return SeverityInfo
	}
	return s
}

// Entry is one message ready to be serialized. It is never persisted as an
// object; only its rendered lines are.
type Entry struct {
	Text       string
	Severity   Severity
	Source     string
	Section    string
	Time       time.Time
	ThreadID   int
	Principal  string
	ScriptFile string
}

// Environment is the process context stamped on every entry of a call.
type Environment struct {
	ThreadID   int
	Principal  string
	ScriptFile string
}

// EnvironmentFunc captures the Environment for one dispatch call.
type EnvironmentFunc func() Environment

// CurrentEnvironment reports the process id, the current user and the name
// of the running executable.
func CurrentEnvironment() Environment {
	env := Environment{
		ThreadID:   os.Getpid(),
		ScriptFile: filepath.Base(os.Args[0]),
	}
	if u, err := user.Current(); err == nil {
		env.Principal = u.Username
	} else if name := os.Getenv("USER"); name != "" {
		env.Principal = name
	} else {
		env.Principal = os.Getenv("USERNAME")
	}
	return env
}
