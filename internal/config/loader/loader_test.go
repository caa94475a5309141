package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"deploytrace/internal/config/schema"
	"deploytrace/internal/config/source"
	coreerrors "deploytrace/internal/core/errors"
)

type stubSource struct {
	name     string
	priority int
	apply    func(*schema.Root) error
}

func (s stubSource) Name() string                    { return s.name }
func (s stubSource) Priority() int                   { return s.priority }
func (s stubSource) LoadInto(cfg *schema.Root) error { return s.apply(cfg) }

func TestLoader_NoSources(t *testing.T) {
	_, err := NewLoader().Load()
	if !coreerrors.IsCode(err, coreerrors.CodeInvalidParam) {
		t.Fatalf("Load() error = %v, want INVALID_PARAM", err)
	}
}

func TestLoader_PriorityOrder(t *testing.T) {
	l := NewLoader()
	// registered out of order on purpose
	l.AddSource(stubSource{"env", source.PriorityEnv, func(c *schema.Root) error {
		c.Log.FileName = "env.log"
		return nil
	}})
	l.AddSource(source.NewDefaultSource())
	l.AddSource(stubSource{"yaml", source.PriorityYAML, func(c *schema.Root) error {
		c.Log.FileName = "yaml.log"
		c.Log.Format = "legacy"
		return nil
	}})

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.FileName != "env.log" {
		t.Errorf("Log.FileName = %q, want env.log", cfg.Log.FileName)
	}
	if cfg.Log.Format != "legacy" {
		t.Errorf("Log.Format = %q, want legacy", cfg.Log.Format)
	}

	names := []string{}
	for _, s := range l.Sources() {
		names = append(names, s.Name())
	}
	want := []string{"defaults", "yaml", "env"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Sources() = %v, want %v", names, want)
		}
	}
}

func TestLoader_SourceError(t *testing.T) {
	l := NewLoader()
	l.AddSource(stubSource{"broken", source.PriorityYAML, func(*schema.Root) error {
		return errors.New("boom")
	}})

	_, err := l.Load()
	if !coreerrors.IsCode(err, coreerrors.CodeConfigError) {
		t.Fatalf("Load() error = %v, want CONFIG_ERROR", err)
	}
}

func TestLoaderBuilder_LayersAllSources(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "deploytrace.yaml")
	if err := os.WriteFile(configFile, []byte("log:\n  format: legacy\n  file_name: yaml.log\n  max_size_mb: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TESTDT_LOG_FILE_NAME=dotenv.log\nTESTDT_LOG_MAX_SIZE_MB=4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("TESTDT_LOG_FILE_NAME")
	})
	t.Setenv("TESTDT_LOG_MAX_SIZE_MB", "5")

	cfg, err := NewLoaderBuilder().
		WithPrefix("TESTDT").
		WithConfigFile(configFile).
		WithDotEnvDirs(dir).
		Build().
		Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Format != "legacy" {
		t.Errorf("Log.Format = %q, want legacy from yaml", cfg.Log.Format)
	}
	if cfg.Log.FileName != "dotenv.log" {
		t.Errorf("Log.FileName = %q, want dotenv.log", cfg.Log.FileName)
	}
	if cfg.Log.MaxSizeMB != 5 {
		t.Errorf("Log.MaxSizeMB = %v, want 5 from env", cfg.Log.MaxSizeMB)
	}
	if cfg.Log.Directory != "~/.deploytrace/logs" {
		t.Errorf("Log.Directory = %q, want default", cfg.Log.Directory)
	}
}

func TestLoaderBuilder_WithoutDotEnv(t *testing.T) {
	l := NewLoaderBuilder().
		WithConfigFile(filepath.Join(t.TempDir(), "absent.yaml")).
		WithDotEnv(false).
		Build()

	for _, s := range l.Sources() {
		if s.Name() == "dotenv" {
			t.Fatal("dotenv source should not be registered")
		}
	}
}
