// Package config provides configuration management for the node graph server.
//
// Config file locations (priority order):
//  1. $NODEGRAPH_CONFIG
//  2. ./nodegraph.yaml
//  3. $XDG_CONFIG_HOME/nodegraph/config.yaml
//  4. ~/.config/nodegraph/config.yaml
//  5. /etc/nodegraph/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if c.Store.Backend == "" {
		c.Store.Backend = BackendFile
	}
	if c.Store.Dir == "" {
		c.Store.Dir = "./data"
	}
	if c.Store.Format == "" {
		c.Store.Format = "xml"
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = "./nodegraph.db"
	}
	if c.Store.NodesKey == "" {
		c.Store.NodesKey = "nodes"
	}
	if c.Store.ConnectionsKey == "" {
		c.Store.ConnectionsKey = "connections"
	}
	if c.Store.WatchDebounce == 0 {
		c.Store.WatchDebounce = Duration(500 * time.Millisecond)
	}
	if c.Editor.NodeWidth == 0 {
		c.Editor.NodeWidth = 400
	}
	if c.Editor.NodeHeight == 0 {
		c.Editor.NodeHeight = 200
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the config against its struct tags
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Namespace())
	field = strings.TrimPrefix(field, "config.")

	switch e.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", field, strings.ToLower(e.Param()))
	case "excludesall":
		return fmt.Sprintf("%s must not contain %q", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Addr: %s, Log: %s\n", c.Server.Addr, c.Log.Level)
	switch c.Store.Backend {
	case BackendSQLite:
		summary += fmt.Sprintf("Store: sqlite %s", c.Store.SQLitePath)
	default:
		summary += fmt.Sprintf("Store: %s files in %s", c.Store.Format, c.Store.Dir)
	}
	summary += fmt.Sprintf(" (keys %s, %s, watch %v)", c.Store.NodesKey, c.Store.ConnectionsKey, c.Store.Watch)
	return summary
}
