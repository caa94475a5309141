package log

// ============================================================================
// Package level helpers delegating to Default()
// ============================================================================

// Debugf logs a formatted debug message.
func Debugf(format string, args ...interface{}) {
	Default().Debugf(format, args...)
}

// Warnf logs a formatted warning.
func Warnf(format string, args ...interface{}) {
	Default().Warnf(format, args...)
}

// Errorf logs a formatted error.
func Errorf(format string, args ...interface{}) {
	Default().Errorf(format, args...)
}

