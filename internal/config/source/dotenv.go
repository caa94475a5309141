package source

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"deploytrace/internal/config/schema"
	corelog "deploytrace/internal/core/log"
)

// DotEnvSource loads .env files into the process environment. The values
// reach the configuration through the EnvSource that runs after it.
type DotEnvSource struct {
	dirs   []string // directories to search for .env files
	prefix string   // only keys with this prefix are exported
}

// NewDotEnvSource creates a new DotEnvSource
func NewDotEnvSource(prefix string, dirs []string) *DotEnvSource {
	return &DotEnvSource{
		dirs:   dirs,
		prefix: prefix,
	}
}

// Name returns the source name
func (s *DotEnvSource) Name() string {
	return "dotenv"
}

// Priority returns the source priority
func (s *DotEnvSource) Priority() int {
	return PriorityDotEnv
}

// LoadInto loads .env files into the process environment
func (s *DotEnvSource) LoadInto(_ *schema.Root) error {
	for _, dir := range s.dirs {
		for _, file := range []string{".env", ".env.local"} {
			path := filepath.Join(dir, file)
			if err := s.loadEnvFile(path); err != nil {
				corelog.Debugf("Failed to load %s: %v", path, err)
			}
		}
	}
	return nil
}

// loadEnvFile exports the prefixed keys of one .env file. Variables that
// are already set win over the file.
func (s *DotEnvSource) loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := parseEnvLine(scanner.Text())
		if !ok || !strings.HasPrefix(key, s.prefix+"_") {
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			corelog.Warnf("Failed to set env var %s from %s: %v", key, path, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	corelog.Debugf("Loaded env file: %s", path)
	return nil
}

// parseEnvLine parses KEY=value, skipping blanks and comments. An optional
// "export " prefix and matching quotes around the value are removed.
func parseEnvLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")

	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" {
		return "", "", false
	}

	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			value = value[1 : len(value)-1]
		}
	}
	return key, value, true
}

// FindDotEnvDirs finds directories that might contain .env files
func FindDotEnvDirs(configFile string) []string {
	var dirs []string

	if configFile != "" {
		if dir := filepath.Dir(configFile); dir != "" && dir != "." {
			dirs = append(dirs, dir)
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}

	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".deploytrace"))
	}

	return dirs
}
