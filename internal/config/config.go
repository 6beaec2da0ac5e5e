// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; secrets go to OS keychain.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/AmirTlinov/apply-task/internal/xdg"

	"gopkg.in/yaml.v3"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel string        `yaml:"log_level"`
	Lang     string        `yaml:"lang,omitempty"`
	Backend  BackendConfig `yaml:"backend"`
	Cleanup  CleanupConfig `yaml:"cleanup,omitempty"`
}

// BackendConfig holds the launch settings for the task backend process.
type BackendConfig struct {
	// Command is the executable that serves the tasks MCP interface over stdio.
	Command string `yaml:"command"`
	// Args are passed to the command verbatim.
	Args []string `yaml:"args,omitempty"`
	// Dir is the working directory for the backend process; empty means inherit.
	Dir string `yaml:"dir,omitempty"`
	// Env holds extra KEY=VALUE pairs appended to the backend environment.
	Env []string `yaml:"env,omitempty"`
	// StorageMode selects the backend task store at launch ("memory" or "file").
	StorageMode string `yaml:"storage_mode,omitempty"`
}

// CleanupConfig controls backend-side retention of completed tasks.
type CleanupConfig struct {
	// DoneTasksTTLSeconds is the retention window for auto-cleaning done
	// tasks; 0 disables cleanup. Forwarded to the backend at launch.
	DoneTasksTTLSeconds int `yaml:"done_tasks_ttl_seconds,omitempty"`
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads configuration; missing file returns defaults.
func Load() (Config, error) {
	var c Config
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return c, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, err
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Backend.Command == "" {
		c.Backend = Default().Backend
	}
	return c, nil
}

// Default returns the built-in configuration used when no file exists.
// The backend default matches the reference task server launched as a module.
func Default() Config {
	return Config{
		LogLevel: "info",
		Backend: BackendConfig{
			Command:     "python3",
			Args:        []string{"-m", "core.desktop.devtools.interface.mcp_server"},
			StorageMode: "file",
		},
	}
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
