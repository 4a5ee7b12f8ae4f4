// Package config loads and validates the runtime configuration: logging,
// the cloud service endpoints, and the drives to mount at startup.
//
// Configuration sources, in order of precedence:
//  1. Environment variables (ENDBASIC_*)
//  2. Configuration file (YAML)
//  3. Default values
//
// Scheme option pattern: each drive scheme that needs configuration (today
// only S3) gets its own opaque option map, decoded by the matching factory
// builder in factories.go. Schemes without options (memory, demo, cloud)
// have no section.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete runtime configuration.
type Config struct {
	// Logging controls diagnostic log output.
	Logging LoggingConfig `mapstructure:"logging"`

	// Service locates the cloud authentication and file service.
	Service ServiceConfig `mapstructure:"service"`

	// Drives lists the drives to mount at startup. The first entry becomes
	// the current working drive.
	Drives []DriveConfig `mapstructure:"drives" validate:"dive"`

	// Schemes carries per-scheme factory options.
	Schemes SchemesConfig `mapstructure:"schemes"`
}

// LoggingConfig controls diagnostic logging.
type LoggingConfig struct {
	// Level is the minimum level to emit: DEBUG, INFO, WARN or ERROR.
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

// ServiceConfig locates the cloud service.
type ServiceConfig struct {
	// BaseURL is the root of the service API.
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// ExecBaseURL is the web frontend used in auto-run links printed by
	// SHARE for public files.
	ExecBaseURL string `mapstructure:"exec_base_url" validate:"required,url"`

	// Timeout bounds every service request.
	Timeout time.Duration `mapstructure:"timeout" validate:"required,gt=0"`
}

// DriveConfig is one drive to mount at startup.
type DriveConfig struct {
	// Name is the mount table name, e.g. "MEMORY".
	Name string `mapstructure:"name" validate:"required"`

	// URI is the mount URI, e.g. "memory://".
	URI string `mapstructure:"uri" validate:"required"`
}

// SchemesConfig carries scheme-specific factory options.
type SchemesConfig struct {
	// S3 configures the "s3" scheme. When absent the scheme is not
	// registered.
	S3 map[string]any `mapstructure:"s3"`
}

// Load loads configuration from file, environment, and defaults.
//
// Parameters:
//   - configPath: path to the config file; empty uses the default location
//     ($XDG_CONFIG_HOME/endbasic/config.yaml) and tolerates its absence.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures environment variable and config file lookup.
func setupViper(v *viper.Viper, configPath string) {
	// ENDBASIC_SERVICE_BASE_URL overrides service.base_url, and so on.
	v.SetEnvPrefix("ENDBASIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(defaultConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the config file, tolerating a missing default one.
func readConfigFile(v *viper.Viper, configPath string) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && configPath == "" {
			// No default config file is fine: defaults cover everything.
			return nil
		}
		if configPath != "" {
			if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
				return fmt.Errorf("config file %s does not exist", configPath)
			}
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// defaultConfigDir returns the directory searched for the default config
// file.
func defaultConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "endbasic")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "endbasic")
}
