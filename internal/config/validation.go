package config

import (
	"fmt"
	"net/url"
)

var validLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true,
}

// Validate validates the configuration.
func Validate(cfg *Config) error {
	if cfg.DB.Path == "" {
		return fmt.Errorf("db.path must not be empty")
	}

	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level %q is not one of trace, debug, info, warn, error, disabled", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be console or json, got %q", cfg.Logging.Format)
	}

	if cfg.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %s", cfg.Fetch.Timeout)
	}

	if err := validateBaseURL(cfg.Prepared.BaseURL); err != nil {
		return err
	}

	if cfg.Walk.MaxWorkers < 1 {
		return fmt.Errorf("walk.max_workers must be at least 1, got %d", cfg.Walk.MaxWorkers)
	}
	if cfg.Walk.MaxFileSizeKB < 1 {
		return fmt.Errorf("walk.max_file_size_kb must be at least 1, got %d", cfg.Walk.MaxFileSizeKB)
	}

	if cfg.Output.SplitChars < 0 {
		return fmt.Errorf("output.split_chars must not be negative, got %d", cfg.Output.SplitChars)
	}

	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("prepared.base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("prepared.base_url must be an absolute http(s) URL, got %q", raw)
	}
	return nil
}
