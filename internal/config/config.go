// Package config loads the TOML configuration file that parrotd reads on
// startup: read the whole file, then toml.Unmarshal it over a set of
// defaults.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Transport holds the paired-socket connection settings.
type Transport struct {
	Address     string `toml:"address"`
	DialTimeout int    `toml:"dial_timeout_seconds"`
}

// Brain holds the tunable limits of the learning engine.
type Brain struct {
	MaxStreamChars       int `toml:"max_stream_chars"`
	MaxLogEntries        int `toml:"max_log_entries"`
	ConsecutiveLossLimit int `toml:"consecutive_loss_limit"`
	ConsecutiveWinLimit  int `toml:"consecutive_win_limit"`
}

// Display holds the terminal rendering settings (internal/display).
type Display struct {
	Enabled      bool `toml:"enabled"`
	Width        int  `toml:"width"`
	HistoryLines int  `toml:"history_lines"`
}

// Config is the full, parsed contents of a parrot TOML config file.
type Config struct {
	Transport Transport `toml:"transport"`
	Brain     Brain     `toml:"brain"`
	Display   Display   `toml:"display"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Transport: Transport{Address: "127.0.0.1:5556", DialTimeout: 5},
		Brain: Brain{
			MaxStreamChars:       10000,
			MaxLogEntries:        2000,
			ConsecutiveLossLimit: 100,
			ConsecutiveWinLimit:  10,
		},
		Display: Display{Enabled: true, Width: 80, HistoryLines: 200},
	}
}

// Load reads and parses the TOML file at path, starting from Default() so
// any field the file omits keeps its default value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the handful of fields that would otherwise fail in a
// confusing way deep inside the transport or brain packages.
func (c Config) Validate() error {
	if c.Transport.Address == "" {
		return fmt.Errorf("transport.address must not be empty")
	}
	if c.Brain.MaxStreamChars <= 0 {
		return fmt.Errorf("brain.max_stream_chars must be positive")
	}
	if c.Brain.MaxLogEntries <= 0 {
		return fmt.Errorf("brain.max_log_entries must be positive")
	}
	return nil
}
