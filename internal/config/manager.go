// Package config provides unified configuration management
package config

import (
	"sync"

	"deploytrace/internal/config/loader"
	"deploytrace/internal/config/schema"
	"deploytrace/internal/config/source"
	"deploytrace/internal/config/validator"
	"deploytrace/internal/constants"
	coreerrors "deploytrace/internal/core/errors"
	corelog "deploytrace/internal/core/log"
	"deploytrace/internal/tracelog"
	"deploytrace/internal/utils"
)

// ManagerOptions contains configuration manager options
type ManagerOptions struct {
	// ConfigFile is the path to the configuration file (optional)
	ConfigFile string

	// EnvPrefix is the environment variable prefix (default: DEPLOYTRACE)
	EnvPrefix string

	// EnableDotEnv enables .env file loading
	EnableDotEnv bool

	// DotEnvDirs overrides the directories searched for .env files
	DotEnvDirs []string

	// SkipValidation skips configuration validation (default: false)
	SkipValidation bool
}

// Manager is the unified configuration manager
type Manager struct {
	opts      ManagerOptions
	config    *schema.Root
	configMu  sync.RWMutex
	validator *validator.Validator
}

// NewManager creates a new configuration Manager
func NewManager(opts ManagerOptions) *Manager {
	if opts.EnvPrefix == "" {
		opts.EnvPrefix = constants.EnvPrefix
	}

	return &Manager{
		opts:      opts,
		validator: validator.NewValidator(),
	}
}

// Load loads configuration from all sources
func (m *Manager) Load() error {
	b := loader.NewLoaderBuilder().
		WithPrefix(m.opts.EnvPrefix).
		WithConfigFile(m.opts.ConfigFile).
		WithDotEnv(m.opts.EnableDotEnv)
	if m.opts.DotEnvDirs != nil {
		b = b.WithDotEnvDirs(m.opts.DotEnvDirs...)
	}

	cfg, err := b.Build().Load()
	if err != nil {
		return coreerrors.Wrap(err, coreerrors.CodeConfigError, "failed to load configuration")
	}

	if !m.opts.SkipValidation {
		result := m.validator.Validate(cfg)
		if !result.IsValid() {
			return coreerrors.New(coreerrors.CodeValidationError, result.Error())
		}
	}

	m.configMu.Lock()
	m.config = cfg
	m.configMu.Unlock()

	corelog.Debugf("Configuration loaded successfully")
	return nil
}

// Get returns the current configuration
func (m *Manager) Get() *schema.Root {
	m.configMu.RLock()
	defer m.configMu.RUnlock()
	return m.config
}

// GetLog returns the log configuration
func (m *Manager) GetLog() *schema.LogConfig {
	m.configMu.RLock()
	defer m.configMu.RUnlock()
	if m.config == nil {
		return nil
	}
	return &m.config.Log
}

// GetToolkit returns the toolkit configuration
func (m *Manager) GetToolkit() *schema.ToolkitConfig {
	m.configMu.RLock()
	defer m.configMu.RUnlock()
	if m.config == nil {
		return nil
	}
	return &m.config.Toolkit
}

// Validate validates the current configuration
func (m *Manager) Validate() error {
	m.configMu.RLock()
	cfg := m.config
	m.configMu.RUnlock()

	if cfg == nil {
		return coreerrors.New(coreerrors.CodeInvalidParam, "no configuration loaded")
	}

	result := m.validator.Validate(cfg)
	if !result.IsValid() {
		return coreerrors.New(coreerrors.CodeValidationError, result.Error())
	}

	return nil
}

// NewDispatcher builds a trace log dispatcher from the loaded configuration.
// The session starts in the configured phase and carries the relaunch flag.
func (m *Manager) NewDispatcher(opts ...tracelog.DispatcherOption) (*tracelog.Dispatcher, error) {
	cfg := m.Get()
	if cfg == nil {
		return nil, coreerrors.New(coreerrors.CodeInvalidParam, "no configuration loaded")
	}

	traceCfg, err := TraceConfig(cfg)
	if err != nil {
		return nil, err
	}

	session := tracelog.NewSession(cfg.Toolkit.Phase, cfg.Toolkit.Relaunched)
	return tracelog.New(traceCfg, append([]tracelog.DispatcherOption{tracelog.WithSession(session)}, opts...)...), nil
}

// TraceConfig converts the configuration tree into the dispatcher's
// per-call defaults. The log directory is expanded to an absolute path.
func TraceConfig(cfg *schema.Root) (tracelog.Config, error) {
	format, err := tracelog.ParseFormat(cfg.Log.Format)
	if err != nil {
		return tracelog.Config{}, err
	}

	dir := cfg.Log.Directory
	if dir != "" {
		dir, err = utils.ExpandPath(dir)
		if err != nil {
			return tracelog.Config{}, coreerrors.Wrapf(err, coreerrors.CodeConfigError, "invalid log directory %q", cfg.Log.Directory)
		}
	}

	return tracelog.Config{
		Format:             format,
		Directory:          dir,
		FileName:           cfg.Log.FileName,
		MaxSizeMB:          cfg.Log.MaxSizeMB,
		MirrorToConsole:    cfg.Log.Console,
		DebugEnabled:       cfg.Log.Debug,
		ContinueOnFailure:  cfg.Log.ContinueOnFailure,
		DisableFileLogging: cfg.Log.Disabled,
		ScriptFile:         cfg.Toolkit.ScriptFile,
	}, nil
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *schema.Root {
	return source.GetDefaultConfig()
}
