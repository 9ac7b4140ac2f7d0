// Package config loads the TOML-backed configuration for a qimsgd
// listener process: bind address, wire frame size limits, and capability
// overrides applied on top of the environment-overlaid defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/danmuck/qimsg/internal/capability"
)

// CapabilityOverride is one TOML-declared capability entry. At most one of
// Bool/String should be set; Bool wins if both are present, and an entry
// with neither set becomes the empty string.
type CapabilityOverride struct {
	Name   string `toml:"name"`
	Bool   *bool  `toml:"bool,omitempty"`
	String string `toml:"string,omitempty"`
}

// ListenerConfig is the full configuration for one qimsgd process.
type ListenerConfig struct {
	Name string `toml:"name"`
	Addr string `toml:"addr"`

	MaxPayloadBytes uint32 `toml:"max_payload_bytes"`

	AdminAddr   string   `toml:"admin_addr"`
	CorsOrigins []string `toml:"cors_origins"`

	CapabilityOverrides []CapabilityOverride `toml:"capabilities"`
}

// LoadListenerConfig reads and validates a ListenerConfig from a TOML file
// at path, filling in defaults for anything left unset.
func LoadListenerConfig(path string) (ListenerConfig, error) {
	var cfg ListenerConfig
	if err := loadToml(path, &cfg); err != nil {
		return ListenerConfig{}, err
	}
	if cfg.Name == "" {
		cfg.Name = "qimsgd"
	}
	if cfg.Addr == "" {
		cfg.Addr = ":7000"
	}
	if cfg.AdminAddr == "" {
		cfg.AdminAddr = ":7001"
	}
	if cfg.MaxPayloadBytes == 0 {
		cfg.MaxPayloadBytes = 16 * 1024 * 1024
	}
	if err := ValidateListenerConfig(cfg); err != nil {
		return ListenerConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

// ValidateListenerConfig enforces the fields a qimsgd process cannot run
// without.
func ValidateListenerConfig(cfg ListenerConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("listener config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("listener config missing addr")
	}
	for i, ov := range cfg.CapabilityOverrides {
		if strings.TrimSpace(ov.Name) == "" {
			return fmt.Errorf("capabilities[%d] missing name", i)
		}
	}
	return nil
}

// CapabilityMap converts the config's capability overrides into a
// capability.Map, ready to be merged over a StreamContext's local
// defaults with AdvertiseCapabilities.
func (cfg ListenerConfig) CapabilityMap() capability.Map {
	m := capability.NewMap()
	for _, ov := range cfg.CapabilityOverrides {
		if ov.Bool != nil {
			m[ov.Name] = capability.Bool(*ov.Bool)
			continue
		}
		m[ov.Name] = capability.String(ov.String)
	}
	return m
}
