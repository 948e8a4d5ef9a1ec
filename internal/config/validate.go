package config

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidURL indicates a URL value is malformed or not http(s).
	ErrInvalidURL = errors.New("invalid URL")

	// ErrInvalidInterval indicates a duration value is non-positive or
	// inconsistent with a related value.
	ErrInvalidInterval = errors.New("invalid interval")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	// Version must be >= 1
	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	if cfg.Registry != "" {
		if err := validatePath(cfg.Registry); err != nil {
			errs = append(errs, &FieldError{
				Field: "registry",
				Value: cfg.Registry,
				Err:   err,
			})
		}
	}

	if cfg.Cloud.BaseURL != "" {
		if err := validateURL(cfg.Cloud.BaseURL); err != nil {
			errs = append(errs, &FieldError{
				Field: "cloud.base_url",
				Value: cfg.Cloud.BaseURL,
				Err:   err,
			})
		}
	}

	if cfg.Test.MaxWait < 0 {
		errs = append(errs, &FieldError{
			Field: "test.max_wait",
			Value: cfg.Test.MaxWait.String(),
			Err:   ErrInvalidInterval,
		})
	}

	if cfg.Test.Poll < 0 {
		errs = append(errs, &FieldError{
			Field: "test.poll",
			Value: cfg.Test.Poll.String(),
			Err:   ErrInvalidInterval,
		})
	}

	if cfg.Test.Poll > 0 && cfg.Test.MaxWait > 0 && cfg.Test.Poll > cfg.Test.MaxWait {
		errs = append(errs, &FieldError{
			Field: "test.poll",
			Value: cfg.Test.Poll.String(),
			Err:   errors.New("poll interval exceeds max_wait"),
		})
	}

	if cfg.Notify.WebhookURL != "" {
		if err := validateURL(cfg.Notify.WebhookURL); err != nil {
			errs = append(errs, &FieldError{
				Field: "notify.webhook_url",
				Value: "(redacted)",
				Err:   err,
			})
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	// Clean the path and check it's not empty after cleaning
	cleaned := filepath.Clean(path)
	if cleaned == "" {
		return ErrInvalidPath
	}

	return nil
}

// validateURL checks that a string parses as an absolute http(s) URL.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidURL
	}
	if u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// FieldError represents a validation error for a specific config field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
