package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wifiman.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Full", func(t *testing.T) {
		path := writeConfig(t, `
store_path: /var/lib/wifiman/creds.json
log_path: /var/log/wifiman.cbor
hostname: sensor-07
connect_timeout: 15
networks:
  - ssid: HomeNet
    passphrase: hunter2
  - ssid: Office
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.StorePath != "/var/lib/wifiman/creds.json" {
			t.Errorf("StorePath = %q", cfg.StorePath)
		}
		if cfg.Hostname != "sensor-07" {
			t.Errorf("Hostname = %q", cfg.Hostname)
		}
		if cfg.ConnectTimeout != 15 {
			t.Errorf("ConnectTimeout = %d", cfg.ConnectTimeout)
		}
		if len(cfg.Networks) != 2 || cfg.Networks[0].SSID != "HomeNet" || cfg.Networks[0].Passphrase != "hunter2" {
			t.Errorf("Networks = %+v", cfg.Networks)
		}
	})

	t.Run("DefaultsApply", func(t *testing.T) {
		path := writeConfig(t, `hostname: box`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.StorePath != Default().StorePath {
			t.Errorf("StorePath = %q, want default", cfg.StorePath)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("Load() on missing file succeeded")
		}
	})

	t.Run("BadYAML", func(t *testing.T) {
		path := writeConfig(t, "networks: [unclosed")
		if _, err := Load(path); err == nil {
			t.Error("Load() on bad YAML succeeded")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"Default", *Default(), true},
		{"EmptyStorePath", Config{}, false},
		{"NegativeTimeout", Config{StorePath: "x", ConnectTimeout: -1}, false},
		{"EmptySSID", Config{StorePath: "x", Networks: []NetworkConfig{{}}}, false},
		{"LongSSID", Config{StorePath: "x", Networks: []NetworkConfig{{SSID: "123456789012345678901234567890123"}}}, false},
		{"DuplicateSSID", Config{StorePath: "x", Networks: []NetworkConfig{{SSID: "a"}, {SSID: "a"}}}, false},
		{"TwoNetworks", Config{StorePath: "x", Networks: []NetworkConfig{{SSID: "a"}, {SSID: "b"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
				}
			}
		})
	}
}
