package config

import (
	"fmt"
	"os"

	"github.com/tatianab/blocksworld/internal/journal"
	"github.com/tatianab/blocksworld/internal/logging"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	LogFile  string `yaml:"log_file"`  // where the action log is flushed
	LogLevel string `yaml:"log_level"` // diagnostics level: debug, info, warn, error
	Plain    bool   `yaml:"plain"`     // line mode instead of the full-screen UI
	NoLog    bool   `yaml:"no_log"`    // keep the action log in memory only
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		LogFile:  journal.DefaultPath,
		LogLevel: "warn",
	}
}

// LoadConfig builds the configuration from defaults, then the YAML file at
// path (if path is not empty), then environment variables.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if v := os.Getenv("BLOCKSWORLD_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("BLOCKSWORLD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if c.LogFile == "" {
		return fmt.Errorf("log_file must not be empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return nil
}
