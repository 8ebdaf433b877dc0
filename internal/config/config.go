package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/catsort"
	"github.com/aretw0/catsort/internal/logging"
	"github.com/aretw0/catsort/pkg/domain"
	"github.com/aretw0/catsort/pkg/layout"
	"github.com/aretw0/catsort/pkg/mapping"
	"github.com/aretw0/catsort/pkg/trigger"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "catsort.yaml"

// Config represents the structure of catsort.yaml.
type Config struct {
	// Mapping is a raw "group;rule|..." string or a list of entries.
	Mapping mapping.Source `yaml:"mapping"`
	// Categories is the path of a categories payload (JSON).
	Categories string `yaml:"categories,omitempty"`

	Layout  LayoutConfig  `yaml:"layout"`
	Trigger TriggerConfig `yaml:"trigger"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// LayoutConfig selects and tunes the layout strategies.
type LayoutConfig struct {
	Strategies   []string `yaml:"strategies"`
	WrapperClass *string  `yaml:"wrapper_class,omitempty"`
	// Removal is "remove" or "hide". Empty keeps each strategy's preference.
	Removal string `yaml:"removal,omitempty"`
}

// TriggerConfig configures run scheduling.
type TriggerConfig struct {
	Route string        `yaml:"route"`
	Delay time.Duration `yaml:"delay"`
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Addr      string        `yaml:"addr"`
	RedisAddr string        `yaml:"redis_addr,omitempty"`
	LockTTL   time.Duration `yaml:"lock_ttl"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	strategies := make([]string, len(layout.DefaultOrder))
	for i, k := range layout.DefaultOrder {
		strategies[i] = string(k)
	}
	return Config{
		Layout: LayoutConfig{
			Strategies: strategies,
		},
		Trigger: TriggerConfig{
			Route: domain.DefaultRoute,
			Delay: trigger.DefaultDelay,
		},
		Server: ServerConfig{
			Addr:    ":8080",
			LockTTL: trigger.DefaultLockTTL,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the YAML (or JSON) file at path over the defaults.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes config data over the defaults and validates it.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects unknown strategies or removal modes, negative durations
// and bad log levels.
func (c Config) Validate() error {
	if _, err := c.Kinds(); err != nil {
		return err
	}
	if _, err := layout.ParseRemoval(c.Layout.Removal); err != nil {
		return err
	}
	if c.Trigger.Delay < 0 {
		return fmt.Errorf("trigger.delay must not be negative: %s", c.Trigger.Delay)
	}
	if c.Server.LockTTL < 0 {
		return fmt.Errorf("server.lock_ttl must not be negative: %s", c.Server.LockTTL)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Kinds returns the configured strategy order.
func (c Config) Kinds() ([]layout.Kind, error) {
	if len(c.Layout.Strategies) == 0 {
		return layout.DefaultOrder, nil
	}
	return layout.ParseKinds(c.Layout.Strategies)
}

// EngineOptions translates the layout section into catsort options.
func (c Config) EngineOptions() ([]catsort.Option, error) {
	kinds, err := c.Kinds()
	if err != nil {
		return nil, err
	}

	opts := []catsort.Option{catsort.WithStrategies(kinds...)}
	if c.Layout.Removal != "" {
		removal, err := layout.ParseRemoval(c.Layout.Removal)
		if err != nil {
			return nil, err
		}
		opts = append(opts, catsort.WithRemoval(removal))
	}
	if c.Layout.WrapperClass != nil {
		opts = append(opts, catsort.WithWrapperClass(*c.Layout.WrapperClass))
	}
	return opts, nil
}
