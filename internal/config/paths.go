package config

import (
	"os"
	"path/filepath"
)

// EnvConfigPath names the environment variable that points at an explicit
// config file and short-circuits the search.
const EnvConfigPath = "SMALLWORLD_CONFIG"

const configFileName = "smallworld.yaml"
const configDirName = "smallworld"

// FindConfigPath returns the first existing config file in search order:
// $SMALLWORLD_CONFIG, ./smallworld.yaml, the XDG config dir, then
// /etc/smallworld. Empty string means no config file exists and defaults
// apply.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && fileExists(path) {
		return path
	}

	if fileExists(configFileName) {
		if abs, err := filepath.Abs(configFileName); err == nil {
			return abs
		}
		return configFileName
	}

	for _, path := range xdgCandidates() {
		if fileExists(path) {
			return path
		}
	}

	if path := filepath.Join("/etc", configDirName, "config.yaml"); fileExists(path) {
		return path
	}

	return ""
}

func xdgCandidates() []string {
	var out []string
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		out = append(out, filepath.Join(xdgHome, configDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		out = append(out, filepath.Join(home, ".config", configDirName, "config.yaml"))
	}
	return out
}

// EnsureConfigDir creates the directory containing configPath if needed.
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
