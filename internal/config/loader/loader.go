// Package loader provides multi-source configuration loading
package loader

import (
	"sort"

	"deploytrace/internal/config/schema"
	"deploytrace/internal/config/source"
	"deploytrace/internal/constants"
	coreerrors "deploytrace/internal/core/errors"
	corelog "deploytrace/internal/core/log"
)

// Loader loads configuration from multiple sources in priority order
type Loader struct {
	sources []source.Source
}

// NewLoader creates a new Loader
func NewLoader() *Loader {
	return &Loader{
		sources: make([]source.Source, 0),
	}
}

// AddSource adds a configuration source
func (l *Loader) AddSource(s source.Source) {
	l.sources = append(l.sources, s)
}

// Sources returns the registered sources in priority order
func (l *Loader) Sources() []source.Source {
	sorted := make([]source.Source, len(l.sources))
	copy(sorted, l.sources)
	sort.Stable(source.ByPriority(sorted))
	return sorted
}

// Load loads configuration from all sources in priority order
// Lower priority sources are loaded first, then higher priority sources override
func (l *Loader) Load() (*schema.Root, error) {
	if len(l.sources) == 0 {
		return nil, coreerrors.New(coreerrors.CodeInvalidParam, "no configuration sources registered")
	}

	cfg := &schema.Root{}
	for _, s := range l.Sources() {
		corelog.Debugf("Loading configuration from source: %s (priority %d)", s.Name(), s.Priority())
		if err := s.LoadInto(cfg); err != nil {
			return nil, coreerrors.Wrapf(err, coreerrors.CodeConfigError,
				"failed to load configuration from source %s", s.Name())
		}
	}

	return cfg, nil
}

// LoaderBuilder helps build a Loader with common configurations
type LoaderBuilder struct {
	loader       *Loader
	prefix       string
	configFile   string
	enableDotEnv bool
	dotEnvDirs   []string
}

// NewLoaderBuilder creates a new LoaderBuilder
func NewLoaderBuilder() *LoaderBuilder {
	return &LoaderBuilder{
		loader:       NewLoader(),
		prefix:       constants.EnvPrefix,
		enableDotEnv: true,
	}
}

// WithPrefix sets the environment variable prefix
func (b *LoaderBuilder) WithPrefix(prefix string) *LoaderBuilder {
	b.prefix = prefix
	return b
}

// WithConfigFile sets the configuration file path
func (b *LoaderBuilder) WithConfigFile(path string) *LoaderBuilder {
	b.configFile = path
	return b
}

// WithDotEnv enables or disables .env file loading
func (b *LoaderBuilder) WithDotEnv(enabled bool) *LoaderBuilder {
	b.enableDotEnv = enabled
	return b
}

// WithDotEnvDirs replaces the directories searched for .env files
func (b *LoaderBuilder) WithDotEnvDirs(dirs ...string) *LoaderBuilder {
	b.dotEnvDirs = dirs
	return b
}

// Build creates the configured Loader
func (b *LoaderBuilder) Build() *Loader {
	// 1. defaults (lowest priority)
	b.loader.AddSource(source.NewDefaultSource())

	// 2. YAML
	configFile := source.FindConfigFile(b.configFile)
	if configFile != "" {
		b.loader.AddSource(source.NewYAMLSource(configFile))
		corelog.Debugf("Using config file: %s", configFile)
	}

	// 3. .env files
	if b.enableDotEnv {
		dirs := b.dotEnvDirs
		if dirs == nil {
			dirs = source.FindDotEnvDirs(configFile)
		}
		b.loader.AddSource(source.NewDotEnvSource(b.prefix, dirs))
	}

	// 4. environment variables (highest priority)
	b.loader.AddSource(source.NewEnvSource(b.prefix))

	return b.loader
}

// Load is a convenience function that creates a loader and loads configuration
func Load(configFile string) (*schema.Root, error) {
	return NewLoaderBuilder().
		WithConfigFile(configFile).
		Build().
		Load()
}
