package config

import (
	"strings"
	"time"
)

// Default service endpoints. These point at the hosted service; self-hosted
// deployments override them in the config file or environment.
const (
	defaultServiceURL  = "https://service.endbasic.dev"
	defaultExecBaseURL = "https://repl.endbasic.dev/"
)

// ApplyDefaults fills in any unspecified configuration fields. Zero values
// are replaced; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyServiceDefaults(&cfg.Service)

	// Without configured drives, provide scratch space plus the demos and
	// make the scratch drive current.
	if len(cfg.Drives) == 0 {
		cfg.Drives = []DriveConfig{
			{Name: "MEMORY", URI: "memory://"},
			{Name: "DEMOS", URI: "demo://"},
		}
	}
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)
}

func applyServiceDefaults(cfg *ServiceConfig) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultServiceURL
	}
	if cfg.ExecBaseURL == "" {
		cfg.ExecBaseURL = defaultExecBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
}
