// Copyright 2025 Certen Protocol
//
// Package config loads the registry service's runtime configuration:
// environment variables first, with an optional registry.yaml override
// file layered on top.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the asset registry service.
type Config struct {
	// ListenAddr is the HTTP boundary's bind address.
	ListenAddr string `yaml:"listen_addr"`
	// MetricsAddr serves the prometheus /metrics endpoint.
	MetricsAddr string `yaml:"metrics_addr"`

	// RegistryRoot is the directory the Registry Engine persists
	// asset records and namespace claims under.
	RegistryRoot string `yaml:"registry_root"`
	// HookCmd, if set, runs after every successful write/delete.
	HookCmd string `yaml:"hook_cmd"`

	// EsploraURL is the base URL of the chain indexer used to verify
	// on-chain issuance.
	EsploraURL string `yaml:"esplora_url"`

	// DomainVerifierDevMode bypasses the real HTTP entity-link check in
	// favor of a fixed localhost verifier, for local testing. The DNS
	// method is unaffected.
	DomainVerifierDevMode bool `yaml:"domain_verifier_dev_mode"`

	LogLevel string `yaml:"log_level"`
}

// Load reads configuration from environment variables, then - if
// REGISTRY_CONFIG_FILE (or ./registry.yaml) exists - layers a YAML
// override file on top.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:            getEnv("LISTEN_ADDR", "0.0.0.0:8080"),
		MetricsAddr:           getEnv("METRICS_ADDR", "0.0.0.0:9090"),
		RegistryRoot:          getEnv("REGISTRY_ROOT", "./data"),
		HookCmd:               getEnv("HOOK_CMD", ""),
		EsploraURL:            getEnv("ESPLORA_URL", ""),
		DomainVerifierDevMode: getEnvBool("DOMAIN_VERIFIER_DEV_MODE", false),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
	}

	path := getEnv("REGISTRY_CONFIG_FILE", "registry.yaml")
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed reading %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	var errs []string

	if c.RegistryRoot == "" {
		errs = append(errs, "REGISTRY_ROOT is required but not set")
	}
	if c.EsploraURL == "" {
		errs = append(errs, "ESPLORA_URL is required but not set")
	}
	if c.ListenAddr == "" {
		errs = append(errs, "LISTEN_ADDR is required but not set")
	}

	if len(errs) > 0 {
		msg := "configuration validation failed:"
		for _, e := range errs {
			msg += "\n  - " + e
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
