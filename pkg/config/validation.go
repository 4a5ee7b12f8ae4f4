package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate checks the configuration using struct tags plus the custom rules
// that cannot be expressed in tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return validateCustomRules(cfg)
}

// validateCustomRules checks cross-field constraints.
func validateCustomRules(cfg *Config) error {
	// Drive names must be unique after case normalization, mirroring the
	// mount table's own uniqueness rule.
	names := make(map[string]bool)
	for i, drive := range cfg.Drives {
		name := strings.ToUpper(drive.Name)
		if names[name] {
			return fmt.Errorf("drives[%d]: duplicate drive name %q", i, drive.Name)
		}
		names[name] = true

		if !strings.Contains(drive.URI, "://") {
			return fmt.Errorf("drives[%d]: URI %q is not of the form scheme://target", i, drive.URI)
		}
	}
	return nil
}

// formatValidationError rewrites validator's error into something a user
// editing a config file can act on.
func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var messages []string
	for _, fieldErr := range validationErrors {
		field := strings.ToLower(fieldErr.Namespace())
		field = strings.TrimPrefix(field, "config.")
		messages = append(messages, fmt.Sprintf("%s: failed %q validation", field, fieldErr.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}
