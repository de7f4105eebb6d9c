package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version int          `yaml:"version"`
	Server  ServerConfig `yaml:"server"`
	Store   StoreConfig  `yaml:"store"`
	Editor  EditorConfig `yaml:"editor"`
	Log     LogConfig    `yaml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string   `yaml:"addr" validate:"required"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout" validate:"gte=0"`
}

// Store backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// StoreConfig selects and configures the persistence gateway
type StoreConfig struct {
	Backend        string   `yaml:"backend" validate:"oneof=file sqlite"`
	Dir            string   `yaml:"dir" validate:"required_if=Backend file"`
	Format         string   `yaml:"format" validate:"oneof=xml json yaml yml"`
	SQLitePath     string   `yaml:"sqlite_path" validate:"required_if=Backend sqlite"`
	NodesKey       string   `yaml:"nodes_key" validate:"required,nefield=ConnectionsKey,excludesall=/"`
	ConnectionsKey string   `yaml:"connections_key" validate:"required,excludesall=/"`
	Watch          bool     `yaml:"watch"`          // reload when the store documents change on disk
	WatchDebounce  Duration `yaml:"watch_debounce"` // quiet period before a reload
	LoadOnStart    bool     `yaml:"load_on_start"`  // load the saved graph at startup
}

// EditorConfig holds the editing defaults
type EditorConfig struct {
	NodeWidth  float64 `yaml:"node_width" validate:"gt=0"`
	NodeHeight float64 `yaml:"node_height" validate:"gt=0"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
