// Package config holds settings of the aht100 tools. Values come from an
// optional YAML file and are then overridden by command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	AdapterMCP2221 = "mcp2221"
	AdapterPeriph  = "periph"
	AdapterNanoPi  = "nanopi"
)

const (
	DefaultAddress  = 0x38
	DefaultInterval = time.Second
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	// Adapter selects the I2C transport.
	Adapter string `yaml:"adapter"`
	// Device is the periph bus name, e.g. "/dev/i2c-1" or "1".
	Device string `yaml:"device"`
	// Bus is the gobot I2C bus number.
	Bus      int           `yaml:"bus"`
	Address  int           `yaml:"address"`
	Interval time.Duration `yaml:"interval"`
	// MaxBusErrors stops sampling after that many consecutive bus errors; 0 never stops.
	MaxBusErrors int    `yaml:"max_bus_errors"`
	LogLevel     string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		Adapter:  AdapterMCP2221,
		Address:  DefaultAddress,
		Interval: DefaultInterval,
		LogLevel: "info",
	}
}

// Load reads the file at path on top of defaults. An empty path returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config file: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Adapter {
	case AdapterMCP2221, AdapterPeriph, AdapterNanoPi:
	default:
		return fmt.Errorf("%w: unknown adapter %q", ErrInvalid, c.Adapter)
	}
	// reserved 7-bit addresses are excluded
	if c.Address < 0x08 || c.Address > 0x77 {
		return fmt.Errorf("%w: address %#x out of range", ErrInvalid, c.Address)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %s", ErrInvalid, c.Interval)
	}
	if c.Bus < 0 {
		return fmt.Errorf("%w: negative bus number %d", ErrInvalid, c.Bus)
	}
	if c.MaxBusErrors < 0 {
		return fmt.Errorf("%w: negative max_bus_errors %d", ErrInvalid, c.MaxBusErrors)
	}
	return nil
}
