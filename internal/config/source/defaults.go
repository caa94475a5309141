package source

import (
	"deploytrace/internal/config/schema"
	"deploytrace/internal/constants"
)

// DefaultSource provides default configuration values
type DefaultSource struct{}

// NewDefaultSource creates a new DefaultSource
func NewDefaultSource() *DefaultSource {
	return &DefaultSource{}
}

// Name returns the source name
func (s *DefaultSource) Name() string {
	return "defaults"
}

// Priority returns the source priority
func (s *DefaultSource) Priority() int {
	return PriorityDefaults
}

// LoadInto loads default values into the configuration
func (s *DefaultSource) LoadInto(cfg *schema.Root) error {
	cfg.Log.Format = schema.LogFormatTraceTool
	cfg.Log.Directory = constants.DefaultLogDir
	cfg.Log.FileName = constants.DefaultLogFileName
	cfg.Log.MaxSizeMB = constants.DefaultMaxSizeMB
	cfg.Log.Console = true
	cfg.Log.Debug = false
	cfg.Log.ContinueOnFailure = true
	cfg.Log.Disabled = false

	cfg.Toolkit.Name = constants.DefaultToolkitName
	cfg.Toolkit.Phase = constants.PhaseInitialization

	return nil
}

// GetDefaultConfig returns a new Root populated with defaults
func GetDefaultConfig() *schema.Root {
	cfg := &schema.Root{}
	_ = NewDefaultSource().LoadInto(cfg)
	return cfg
}
