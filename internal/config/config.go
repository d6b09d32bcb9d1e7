// Package config resolves harness settings from the global config file
// and environment variables. Precedence is flag > environment > file >
// default; flags are applied by the command layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "ldbtest"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	// DefaultBackend is used when nothing selects one.
	DefaultBackend = "leveldb"
	// DefaultCacheMB matches the original harness's 4MB write buffer
	// (the leveldb backend spends a quarter of the budget on it).
	DefaultCacheMB = 16
	// DefaultHandles matches the original harness's max open files.
	DefaultHandles = 1000
)

// Config holds the settings every command needs before touching a store.
type Config struct {
	DBPath  string `yaml:"db_path,omitempty"`
	Backend string `yaml:"backend,omitempty"`
	CacheMB int    `yaml:"cache_mb,omitempty"`
	Handles int    `yaml:"handles,omitempty"`
}

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/ldbtest/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// Load reads the global config file and applies environment overrides.
// A missing config file is not an error. A .env file in the working
// directory is honored before the environment is consulted.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return loadFrom(GlobalConfigPath())
}

func loadFrom(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LDBTEST_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("LDBTEST_BACKEND"); v != "" {
		cfg.Backend = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Backend == "" {
		cfg.Backend = DefaultBackend
	}
	if cfg.CacheMB <= 0 {
		cfg.CacheMB = DefaultCacheMB
	}
	if cfg.Handles <= 0 {
		cfg.Handles = DefaultHandles
	}
}
