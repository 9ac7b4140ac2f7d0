package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadListenerConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`name = "edge"`+"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadListenerConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Name != "edge" {
		t.Fatalf("unexpected name: %q", cfg.Name)
	}
	if cfg.Addr != ":7000" {
		t.Fatalf("unexpected default addr: %q", cfg.Addr)
	}
	if cfg.AdminAddr != ":7001" {
		t.Fatalf("unexpected default admin addr: %q", cfg.AdminAddr)
	}
	if cfg.MaxPayloadBytes != 16*1024*1024 {
		t.Fatalf("unexpected default max payload: %d", cfg.MaxPayloadBytes)
	}
}

func TestLoadListenerConfigCapabilityOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
name = "edge"
addr = ":9000"

[[capabilities]]
name = "DirectMessageDispatch"
bool = false

[[capabilities]]
name = "Region"
string = "us-east"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadListenerConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CapabilityOverrides) != 2 {
		t.Fatalf("expected 2 capability overrides, got %d", len(cfg.CapabilityOverrides))
	}
	if cfg.CapabilityOverrides[0].Bool == nil || *cfg.CapabilityOverrides[0].Bool {
		t.Fatalf("expected first override bool=false")
	}
	if cfg.CapabilityOverrides[1].String != "us-east" {
		t.Fatalf("expected second override string=us-east, got %q", cfg.CapabilityOverrides[1].String)
	}
}

func TestLoadListenerConfigMissingFile(t *testing.T) {
	if _, err := LoadListenerConfig("/nonexistent/path/config.toml"); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}

func TestValidateListenerConfigRequiresName(t *testing.T) {
	if err := ValidateListenerConfig(ListenerConfig{Addr: ":7000"}); err == nil {
		t.Fatalf("expected validation error for missing name")
	}
}

func TestWriteTemplateRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}

	cfg, err := LoadListenerConfig(path)
	if err != nil {
		t.Fatalf("load written template: %v", err)
	}
	if cfg.Name != "qimsgd" || cfg.Addr != ":7000" {
		t.Fatalf("unexpected template contents: %+v", cfg)
	}
	if len(cfg.CapabilityOverrides) != 2 {
		t.Fatalf("expected the template's two capability overrides, got %d", len(cfg.CapabilityOverrides))
	}
}

func TestWriteTemplateRefusesToClobber(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("initial write template: %v", err)
	}
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected a second write without overwrite=true to fail")
	}
	if err := WriteTemplate(path, true); err != nil {
		t.Fatalf("expected overwrite=true to succeed: %v", err)
	}
}
