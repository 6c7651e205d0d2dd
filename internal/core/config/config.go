// Package config handles configuration loading and validation for taskboard.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Identity     Identity       `yaml:"identity"`
	Capabilities []string       `yaml:"capabilities"`
	Database     DatabaseConfig `yaml:"database"`
	Board        BoardConfig    `yaml:"board"`
	TUI          TUIConfig      `yaml:"tui"`
	DataDir      string         `yaml:"-"` // set by caller, not from config file
}

// Identity is the local user identity presented to the board.
type Identity struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseConfig holds SQLite connection tuning.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// BoardConfig holds board read-path tuning.
type BoardConfig struct {
	// TaskLimit caps the number of tasks fetched by a full load. 0 = default.
	TaskLimit int `yaml:"task_limit"`
	// TimeEntryLimit caps the number of recent time entries fetched. 0 = default.
	TimeEntryLimit int `yaml:"time_entry_limit"`
}

// TUIConfig holds settings for the watch TUI.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// Load reads the config file at path and applies defaults. A missing file is
// not an error; defaults are returned so first runs work without setup.
func Load(path string, dataDir string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fall through to defaults
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Identity.ID == "" {
		c.Identity.ID = "local"
	}
	if c.Identity.Name == "" {
		c.Identity.Name = c.Identity.ID
	}
	if c.Capabilities == nil {
		// Single-user setups default to full board management.
		c.Capabilities = []string{"manage_tasks"}
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = 5000
	}
	if c.Board.TaskLimit == 0 {
		c.Board.TaskLimit = 200
	}
	if c.Board.TimeEntryLimit == 0 {
		c.Board.TimeEntryLimit = 500
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = "tokyo-night"
	}
}
