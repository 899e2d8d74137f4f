// Copyright 2025 Certen Protocol
//
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	old, _ := os.Getwd()
	os.Chdir(dir)
	defer os.Chdir(old)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != "0.0.0.0:8080" {
		t.Errorf("unexpected default ListenAddr: %s", cfg.ListenAddr)
	}
	if cfg.RegistryRoot != "./data" {
		t.Errorf("unexpected default RegistryRoot: %s", cfg.RegistryRoot)
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	old, _ := os.Getwd()
	os.Chdir(dir)
	defer os.Chdir(old)

	yamlBody := "listen_addr: 127.0.0.1:9999\nregistry_root: /srv/registry\nesplora_url: https://example.com\n"
	if err := os.WriteFile(filepath.Join(dir, "registry.yaml"), []byte(yamlBody), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:9999" {
		t.Errorf("yaml override not applied: %s", cfg.ListenAddr)
	}
	if cfg.RegistryRoot != "/srv/registry" {
		t.Errorf("yaml override not applied: %s", cfg.RegistryRoot)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config: %v", err)
	}
}

func TestValidateRequiresFields(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for empty config")
	}
}
