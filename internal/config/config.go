// Package config loads the card configuration from a TOML file. Defaults
// are pre-filled and the file overlays them, so absent keys keep their
// default value.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const DefaultConfigFileName = "config.toml"

// Card display modes.
const (
	ModeTasks    = "tasks"
	ModeShopping = "shopping"
)

// Default terminal color tokens; any lipgloss-accepted color expression
// (ANSI index or hex) can replace them in the config file.
const (
	DefaultCardColor          = "236"
	DefaultCompletedColor     = "22"
	DefaultIconBackground     = "240"
	DefaultTextColor          = "15"
	DefaultCompletedTextColor = "245"
)

// Hass points the card at a Home Assistant instance.
type Hass struct {
	BaseURL string `toml:"base_url"`
	Token   string `toml:"token"`
}

// Local configures the built-in SQLite host provider, used when no
// Home Assistant instance is configured.
type Local struct {
	Enabled bool   `toml:"enabled"`
	DBPath  string `toml:"db_path"`
}

// Config is the persisted card configuration record.
type Config struct {
	Entity             string `toml:"entity"`
	Title              string `toml:"title"`
	Mode               string `toml:"mode"`
	SortBy             string `toml:"sort_by"`
	SortOrder          string `toml:"sort_order"`
	CardBackground     string `toml:"card_background"`
	CardColor          string `toml:"card_color"`
	CompletedColor     string `toml:"completed_color"`
	IconBackground     string `toml:"icon_background"`
	TextColor          string `toml:"text_color"`
	CompletedTextColor string `toml:"completed_text_color"`
	ShowPriority       bool   `toml:"show_priority"`
	ConfirmDelete      bool   `toml:"confirm_delete"`
	AutoCompleteParent bool   `toml:"auto_complete_parent"`

	Hass  Hass  `toml:"hass"`
	Local Local `toml:"local"`
}

// ErrNoEntity is returned when the required entity option is missing.
var ErrNoEntity = errors.New("config: a todo entity must be defined")

// DefaultDataDir returns the default data directory path.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hatodo"
	}
	return filepath.Join(home, ".config", "hatodo")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), DefaultConfigFileName)
}

// Default returns the configuration with every option at its default.
// Entity is intentionally empty; Validate rejects it until set.
func Default() Config {
	return Config{
		Mode:               ModeTasks,
		SortBy:             "priority",
		SortOrder:          "asc",
		CardColor:          DefaultCardColor,
		CompletedColor:     DefaultCompletedColor,
		IconBackground:     DefaultIconBackground,
		TextColor:          DefaultTextColor,
		CompletedTextColor: DefaultCompletedTextColor,
		ShowPriority:       true,
		ConfirmDelete:      true,
		AutoCompleteParent: false,
		Local: Local{
			DBPath: filepath.Join(DefaultDataDir(), "hatodo.db"),
		},
	}
}

// Load reads the config file at path on top of the defaults. A missing
// file is not an error; the defaults come back unchanged so flags can
// still fill in the entity. Callers validate after applying overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration record. A missing entity is a hard
// error; unknown enum values fall back to their defaults rather than
// failing, matching how the card tolerates sloppy stored configs.
func (c *Config) Validate() error {
	if c.Entity == "" {
		return ErrNoEntity
	}
	if c.Mode != ModeTasks && c.Mode != ModeShopping {
		c.Mode = ModeTasks
	}
	switch c.SortBy {
	case "priority", "duedate", "title":
	default:
		c.SortBy = "priority"
	}
	switch c.SortOrder {
	case "asc", "desc":
	default:
		c.SortOrder = "asc"
	}
	return nil
}

// Write persists cfg to path, creating the directory if needed.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
