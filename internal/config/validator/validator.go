// Package validator provides configuration validation
package validator

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"deploytrace/internal/config/schema"
	"deploytrace/internal/constants"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string // Field path (e.g., "log.max_size_mb")
	Value   string // Current value
	Message string // Error message
	Hint    string // Fix suggestion
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult contains all validation errors
type ValidationResult struct {
	Errors []ValidationError
}

// IsValid returns true if there are no validation errors
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Error returns a formatted error message
func (r *ValidationResult) Error() string {
	if r.IsValid() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Configuration validation failed:\n\n")

	for i, err := range r.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Field)
		if err.Value != "" {
			fmt.Fprintf(&sb, "     Current value: %s\n", err.Value)
		}
		fmt.Fprintf(&sb, "     Error: %s\n", err.Message)
		if err.Hint != "" {
			fmt.Fprintf(&sb, "     Hint: %s\n", err.Hint)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// AddError adds a validation error
func (r *ValidationResult) AddError(field, value, message, hint string) {
	r.Errors = append(r.Errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Hint:    hint,
	})
}

// Validator validates configuration
type Validator struct {
	rules []ValidationRule
}

// ValidationRule is a function that validates configuration
type ValidationRule func(cfg *schema.Root, result *ValidationResult)

// NewValidator creates a new Validator with default rules
func NewValidator() *Validator {
	v := &Validator{
		rules: make([]ValidationRule, 0),
	}

	v.AddRule(validateLog)
	v.AddRule(validateToolkit)

	return v
}

// AddRule adds a validation rule
func (v *Validator) AddRule(rule ValidationRule) {
	v.rules = append(v.rules, rule)
}

// Validate validates the configuration
func (v *Validator) Validate(cfg *schema.Root) *ValidationResult {
	result := &ValidationResult{
		Errors: make([]ValidationError, 0),
	}

	for _, rule := range v.rules {
		rule(cfg, result)
	}

	return result
}

// ============================================================================
// Validation Rules
// ============================================================================

func validateLog(cfg *schema.Root, result *ValidationResult) {
	validateLogFormat("log.format", cfg.Log.Format, result)

	switch size := cfg.Log.MaxSizeMB; {
	case math.IsNaN(size):
		result.AddError("log.max_size_mb", "NaN",
			"max_size_mb must be a number",
			"Set a value > 0, or 0 to disable rotation")
	case size < 0:
		result.AddError("log.max_size_mb",
			strconv.FormatFloat(size, 'f', -1, 64),
			"max_size_mb must not be negative",
			"Set a value > 0, or 0 to disable rotation")
	case size > constants.MaxLogSizeMB:
		result.AddError("log.max_size_mb",
			strconv.FormatFloat(size, 'g', -1, 64),
			fmt.Sprintf("max_size_mb must not exceed %d", constants.MaxLogSizeMB),
			"Set a value > 0, or 0 to disable rotation")
	}

	if cfg.Log.Disabled {
		return
	}

	if strings.TrimSpace(cfg.Log.Directory) == "" {
		result.AddError("log.directory", "",
			"directory is required when file logging is enabled",
			"Set a directory, e.g., ~/.deploytrace/logs, or set log.disabled")
	}

	validateFileName("log.file_name", cfg.Log.FileName, result)
}

func validateToolkit(cfg *schema.Root, result *ValidationResult) {
	if strings.TrimSpace(cfg.Toolkit.Name) == "" {
		result.AddError("toolkit.name", "",
			"name is required",
			"Set the toolkit name, e.g., deploytrace")
	}

	// the value lands inside a quoted attribute of every tracetool line
	if strings.ContainsAny(cfg.Toolkit.ScriptFile, "\"\r\n") {
		result.AddError("toolkit.script_file", cfg.Toolkit.ScriptFile,
			"script_file must not contain quotes or line breaks",
			"Use a bare file name, e.g., Deploy-Application.ps1")
	}
}

// ============================================================================
// Helper Functions
// ============================================================================

func validateLogFormat(field, format string, result *ValidationResult) {
	validFormats := map[string]bool{
		schema.LogFormatTraceTool: true,
		schema.LogFormatCMTrace:   true,
		schema.LogFormatLegacy:    true,
	}
	if !validFormats[strings.ToLower(format)] {
		result.AddError(field,
			format,
			"invalid log format",
			"Use one of: tracetool, cmtrace, legacy")
	}
}

func validateFileName(field, name string, result *ValidationResult) {
	switch {
	case strings.TrimSpace(name) == "":
		result.AddError(field, "",
			"file_name is required when file logging is enabled",
			"Set a file name, e.g., deploytrace.log")
	case strings.ContainsAny(name, `/\`) || filepath.Base(name) != name:
		result.AddError(field, name,
			"file_name must not contain path separators",
			"Put the directory in log.directory")
	}
}
