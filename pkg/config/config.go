package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Configuration errors.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// NetworkConfig describes one network the tool may connect to.
type NetworkConfig struct {
	// SSID is the network name (at most 32 bytes).
	SSID string `yaml:"ssid"`

	// Passphrase is the plaintext passphrase, used only when the
	// credential store has no record yet. Optional.
	Passphrase string `yaml:"passphrase,omitempty"`
}

// Config is the wifiman runtime configuration.
type Config struct {
	// StorePath is the credential store file location.
	StorePath string `yaml:"store_path"`

	// LogPath is the event log file location. Empty disables file
	// logging.
	LogPath string `yaml:"log_path,omitempty"`

	// Hostname is announced via DHCP and mDNS after connecting.
	Hostname string `yaml:"hostname,omitempty"`

	// ConnectTimeout is the association polling budget in seconds.
	// Zero means the connector default.
	ConnectTimeout int `yaml:"connect_timeout,omitempty"`

	// Networks lists the networks to try, in order.
	Networks []NetworkConfig `yaml:"networks,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		StorePath: "wifiman-creds.json",
	}
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("%w: store_path must not be empty", ErrInvalidConfig)
	}
	if c.ConnectTimeout < 0 {
		return fmt.Errorf("%w: connect_timeout %d must not be negative", ErrInvalidConfig, c.ConnectTimeout)
	}

	seen := make(map[string]bool)
	for i, n := range c.Networks {
		if n.SSID == "" {
			return fmt.Errorf("%w: network %d has no ssid", ErrInvalidConfig, i)
		}
		if len(n.SSID) > 32 {
			return fmt.Errorf("%w: ssid %q exceeds 32 bytes", ErrInvalidConfig, n.SSID)
		}
		if seen[n.SSID] {
			return fmt.Errorf("%w: duplicate ssid %q", ErrInvalidConfig, n.SSID)
		}
		seen[n.SSID] = true
	}
	return nil
}
