// Package config loads the buttond daemon configuration. Values come
// from an optional YAML file with command-line flags overriding them.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the daemon configuration.
type Config struct {
	// Label identifies this button in logs and published payloads.
	Label string `yaml:"label"`

	// Chip and Pin name the GPIO line.
	Chip string `yaml:"chip"`
	Pin  int    `yaml:"pin"`

	// ActiveLow marks a pulled-up button that grounds the line when
	// pushed.
	ActiveLow bool `yaml:"active_low"`

	// DebounceMs is the settle delay in milliseconds.
	DebounceMs int `yaml:"debounce_ms"`

	// Broker and Topic configure the MQTT sink.
	Broker string `yaml:"broker"`
	Topic  string `yaml:"topic"`

	// HTTPAddr is the status server address; empty disables it.
	HTTPAddr string `yaml:"http_addr"`
}

// Default returns the built-in configuration for the BeagleBone Black
// flagship button.
func Default() Config {
	return Config{
		Label:      "bbb-button",
		Chip:       "gpiochip1",
		Pin:        28,
		ActiveLow:  true,
		DebounceMs: 20,
		Broker:     "tcp://127.0.0.1:1883",
		Topic:      "devices/button/events",
		HTTPAddr:   ":8080",
	}
}

// Load reads the YAML file at path over the defaults. Fields absent
// from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c Config) Validate() error {
	if c.DebounceMs <= 0 {
		return fmt.Errorf("config: debounce_ms must be positive, got %d", c.DebounceMs)
	}
	if c.Pin < 0 {
		return fmt.Errorf("config: pin must be non-negative, got %d", c.Pin)
	}
	if c.Chip == "" {
		return fmt.Errorf("config: chip must not be empty")
	}
	if c.Broker == "" {
		return fmt.Errorf("config: broker must not be empty")
	}
	return nil
}

// Debounce returns the settle delay as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}
