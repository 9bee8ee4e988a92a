package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/existflow/famtodo/internal/db"
)

// Config holds user preferences shared by the CLI and the server
type Config struct {
	DBDriver      string `yaml:"db_driver" json:"db_driver"`           // sqlite or postgres
	DBDSN         string `yaml:"db_dsn" json:"db_dsn"`                 // File path for sqlite, connection string for postgres
	Addr          string `yaml:"addr" json:"addr"`                     // Server listen address
	ConfirmDelete bool   `yaml:"confirm_delete" json:"confirm_delete"` // Require confirmation for category delete

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// Dir returns ~/.famtodo
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".famtodo"), nil
}

// Path returns the config file location
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	dbPath, _ := db.DefaultDBPath()
	logPath := ""
	if dir, err := Dir(); err == nil {
		logPath = filepath.Join(dir, "logs", "famtodo.log")
	}

	return &Config{
		DBDriver:      db.DriverSQLite,
		DBDSN:         dbPath,
		Addr:          ":8080",
		ConfirmDelete: true,
		LogLevel:      "INFO",
		LogFile:       logPath,
		LogConsole:    false,
	}
}

// applyEnv overrides file values with FAMTODO_* environment variables
func (c *Config) applyEnv() {
	c.DBDriver = getEnv("FAMTODO_DB_DRIVER", c.DBDriver)
	c.DBDSN = getEnv("FAMTODO_DB_DSN", c.DBDSN)
	c.Addr = getEnv("FAMTODO_ADDR", c.Addr)
	c.LogLevel = getEnv("FAMTODO_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("FAMTODO_LOG_FILE", c.LogFile)
	if v := os.Getenv("FAMTODO_LOG_CONSOLE"); v != "" {
		c.LogConsole = v == "true"
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Load reads ~/.famtodo/config.yaml over the defaults, then applies env overrides
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// Defaults if no config
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save saves config to ~/.famtodo/config.yaml
func (c *Config) Save() error {
	configPath, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
