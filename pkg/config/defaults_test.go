package config

import (
	"testing"
	"time"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level INFO, got %q", cfg.Logging.Level)
	}
	if cfg.Service.BaseURL == "" {
		t.Error("Expected a default service base URL")
	}
	if cfg.Service.ExecBaseURL == "" {
		t.Error("Expected a default exec base URL")
	}
	if cfg.Service.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", cfg.Service.Timeout)
	}

	if len(cfg.Drives) != 2 {
		t.Fatalf("Expected 2 default drives, got %d", len(cfg.Drives))
	}
	if cfg.Drives[0].Name != "MEMORY" || cfg.Drives[0].URI != "memory://" {
		t.Errorf("Expected MEMORY memory:// first, got %+v", cfg.Drives[0])
	}
	if cfg.Drives[1].Name != "DEMOS" || cfg.Drives[1].URI != "demo://" {
		t.Errorf("Expected DEMOS demo:// second, got %+v", cfg.Drives[1])
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{Level: "debug"},
		Service: ServiceConfig{
			BaseURL:     "https://service.example.com",
			ExecBaseURL: "https://repl.example.com/",
			Timeout:     5 * time.Second,
		},
		Drives: []DriveConfig{{Name: "LOCAL", URI: "local:///tmp/basic"}},
	}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected level normalized to DEBUG, got %q", cfg.Logging.Level)
	}
	if cfg.Service.BaseURL != "https://service.example.com" {
		t.Errorf("Explicit base URL was overwritten: %q", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout != 5*time.Second {
		t.Errorf("Explicit timeout was overwritten: %v", cfg.Service.Timeout)
	}
	if len(cfg.Drives) != 1 || cfg.Drives[0].Name != "LOCAL" {
		t.Errorf("Explicit drives were overwritten: %+v", cfg.Drives)
	}
}

func TestApplyDefaults_DefaultsPassValidation(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected the default configuration to be valid, got: %v", err)
	}
}
