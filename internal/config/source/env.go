package source

import (
	"os"
	"strconv"

	"deploytrace/internal/config/schema"
)

// EnvSource loads configuration from environment variables
type EnvSource struct {
	prefix string
}

// NewEnvSource creates a new EnvSource with the specified prefix
func NewEnvSource(prefix string) *EnvSource {
	return &EnvSource{
		prefix: prefix,
	}
}

// Name returns the source name
func (s *EnvSource) Name() string {
	return "env"
}

// Priority returns the source priority
func (s *EnvSource) Priority() int {
	return PriorityEnv
}

// LoadInto loads environment variables into the config structure
func (s *EnvSource) LoadInto(cfg *schema.Root) error {
	// Log
	s.loadString("LOG_FORMAT", &cfg.Log.Format)
	s.loadString("LOG_DIRECTORY", &cfg.Log.Directory)
	s.loadString("LOG_FILE_NAME", &cfg.Log.FileName)
	s.loadFloat("LOG_MAX_SIZE_MB", &cfg.Log.MaxSizeMB)
	s.loadBool("LOG_CONSOLE", &cfg.Log.Console)
	s.loadBool("LOG_DEBUG", &cfg.Log.Debug)
	s.loadBool("LOG_CONTINUE_ON_FAILURE", &cfg.Log.ContinueOnFailure)
	s.loadBool("LOG_DISABLED", &cfg.Log.Disabled)

	// Toolkit
	s.loadString("TOOLKIT_NAME", &cfg.Toolkit.Name)
	s.loadString("TOOLKIT_PHASE", &cfg.Toolkit.Phase)
	s.loadString("TOOLKIT_SCRIPT_FILE", &cfg.Toolkit.ScriptFile)
	s.loadBool("TOOLKIT_RELAUNCHED", &cfg.Toolkit.Relaunched)

	return nil
}

// getEnv gets environment variable with the configured prefix
func (s *EnvSource) getEnv(key string) (string, bool) {
	if v := os.Getenv(s.prefix + "_" + key); v != "" {
		return v, true
	}
	return "", false
}

func (s *EnvSource) loadString(key string, target *string) {
	if v, ok := s.getEnv(key); ok {
		*target = v
	}
}

func (s *EnvSource) loadBool(key string, target *bool) {
	if v, ok := s.getEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*target = b
		}
	}
}

func (s *EnvSource) loadFloat(key string, target *float64) {
	if v, ok := s.getEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*target = f
		}
	}
}
