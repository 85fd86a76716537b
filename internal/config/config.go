package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Engine names accepted in config.
const (
	EngineMemory = "memory"
	EngineSQLite = "sqlite"
)

// Config holds application configuration.
type Config struct {
	// Engine selects the storage backend: "memory" or "sqlite".
	Engine string `json:"engine"`

	// Bind is the address the HTTP server listens on.
	Bind string `json:"bind"`

	// Port is the HTTP server port.
	Port int `json:"port"`

	// LogLevel is a zerolog level name ("debug", "info", ...). The
	// JOT_VERBOSITY environment variable overrides it.
	LogLevel string `json:"log_level"`

	// DBMaxOpenConns limits the maximum number of open database connections
	// for the sqlite engine. 0 means use sql.DB default. Only set if you
	// experience contention.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from
	// registration. Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Engine:   EngineMemory,
		Bind:     "127.0.0.1",
		Port:     3000,
		LogLevel: "info",
	}
}

// BaseDir returns the default data directory, ~/.jot.
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".jot"), nil
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.jot.
func Load(baseDir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills zero-valued scalars from the defaults.
func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Engine == "" {
		cfg.Engine = def.Engine
	}
	if cfg.Bind == "" {
		cfg.Bind = def.Bind
	}
	if cfg.Port == 0 {
		cfg.Port = def.Port
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
}

func validate(cfg *Config) error {
	if cfg.Engine != EngineMemory && cfg.Engine != EngineSQLite {
		return fmt.Errorf("engine must be one of: %s, %s", EngineMemory, EngineSQLite)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port %d out of range", cfg.Port)
	}
	return nil
}
