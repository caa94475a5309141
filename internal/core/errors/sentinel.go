package errors

// Sentinel errors for errors.Is comparisons. They carry no details.
var (
	ErrInvalidParam    = New(CodeInvalidParam, "invalid parameter")
	ErrConfigError     = New(CodeConfigError, "configuration error")
	ErrValidationError = New(CodeValidationError, "validation error")

	ErrDirectoryUnavailable = New(CodeDirectoryUnavailable, "log directory unavailable")
	ErrWriteFailed          = New(CodeWriteFailed, "log write failed")
	ErrRotationFailed       = New(CodeRotationFailed, "log rotation failed")

	ErrCopyFailed = New(CodeCopyFailed, "copy failed")

	ErrInternal = New(CodeInternal, "internal error")
)
