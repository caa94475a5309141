// Package version carries build metadata for the deploytrace binary.
package version

import (
	"os"
	"strings"
)

var (
	// Version is injected with -ldflags; "dev" falls back to the VERSION file.
	Version = "dev"

	// BuildTime is injected with -ldflags
	BuildTime = ""

	// GitCommit is injected with -ldflags
	GitCommit = ""
)

func init() {
	if Version == "dev" {
		Version = readVersionFromFile()
	}
}

func readVersionFromFile() string {
	data, err := os.ReadFile("VERSION")
	if err != nil {
		return "dev"
	}

	v := strings.TrimSpace(string(data))
	if v == "" {
		return "dev"
	}
	return strings.TrimPrefix(v, "v")
}

// GetVersion returns the full version string including build metadata.
func GetVersion() string {
	v := "v" + Version
	if BuildTime != "" {
		v += " (built " + BuildTime + ")"
	}
	if GitCommit != "" {
		commit := GitCommit
		if len(commit) > 8 {
			commit = commit[:8]
		}
		v += " commit " + commit
	}
	return v
}

// GetShortVersion returns the version without build metadata.
func GetShortVersion() string {
	return "v" + Version
}
