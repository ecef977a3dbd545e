package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bnema/jsbridge/internal/domain/entity"
)

// validateConfig checks all config values and joins every problem found.
func validateConfig(config *Config) error {
	var validationErrors []string

	b := config.Bridge
	if strings.TrimSpace(b.ExposedName) == "" {
		validationErrors = append(validationErrors, "bridge.exposed_name must not be empty")
	}
	if _, _, err := entity.ParseBridgeMode(b.Mode); err != nil {
		validationErrors = append(validationErrors, fmt.Sprintf("bridge.mode: %v", err))
	}
	switch b.FailurePolicy {
	case "fail", "ignore":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("bridge.failure_policy must be one of: fail, ignore (got: %s)", b.FailurePolicy))
	}
	if b.SignaturePrefix == "" {
		if b.ReservedURL == "" {
			validationErrors = append(validationErrors, "bridge.reserved_url must not be empty when bridge.signature_prefix is unset")
		} else if u, err := url.Parse(b.ReservedURL); err != nil || u.Scheme == "" {
			validationErrors = append(validationErrors,
				fmt.Sprintf("bridge.reserved_url must be an absolute URL (got: %s)", b.ReservedURL))
		}
	}
	if err := (entity.VersionRange{Min: b.BrokenMin, Max: b.BrokenMax}).Validate(); err != nil {
		validationErrors = append(validationErrors, fmt.Sprintf("bridge.broken_min/broken_max: %v", err))
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[config.Logging.Level] {
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level must be one of: trace, debug, info, warn, error (got: %s)", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "console", "text", "json":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.format must be one of: console, text, json (got: %s)", config.Logging.Format))
	}

	if config.Metrics.Listen != "" && !config.Metrics.Enabled {
		validationErrors = append(validationErrors, "metrics.listen requires metrics.enabled = true")
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("%s", strings.Join(validationErrors, "; "))
	}
	return nil
}
