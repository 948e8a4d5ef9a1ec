// Package validator provides validation for registry documents.
package validator

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/openhands/skillctl/internal/skill"
)

const (
	// maxNameLength is the maximum allowed length for document names.
	maxNameLength = 64

	// maxDescriptionLength caps the description so listings stay cheap.
	// The description is the only text an agent keeps in context until it
	// loads the body.
	maxDescriptionLength = 1024
)

// nameRegex validates document names: lowercase alphanumeric, single hyphens
// allowed between segments, no start/end hyphen, no consecutive hyphens.
var nameRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Option configures a Validator.
type Option func(*Validator)

// Validator validates registry documents.
type Validator struct {
	strict bool
}

// New creates a new Validator with the given options.
func New(opts ...Option) *Validator {
	v := &Validator{
		strict: false,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// WithStrict enables strict validation mode.
// In strict mode, documents must declare at least one trigger. Plugins
// without triggers never fire, so the plugin checks run strict.
func WithStrict(strict bool) Option {
	return func(v *Validator) {
		v.strict = strict
	}
}

// Validate checks a Document for compliance with the registry format.
// Returns a slice of validation errors, or nil if valid.
func (v *Validator) Validate(d *skill.Document) []error {
	var errs []error

	errs = append(errs, v.validateName(d.Name)...)
	errs = append(errs, v.validateDescription(d.Description)...)
	errs = append(errs, v.validateTriggers(d.Triggers)...)

	if v.strict && len(d.Triggers) == 0 {
		errs = append(errs, &ValidationError{
			Field:   "triggers",
			Message: "at least one trigger is required",
		})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateWithPath validates a Document and additionally checks that the name
// matches the containing directory name. The path should be the path to the
// document file.
func (v *Validator) ValidateWithPath(d *skill.Document, path string) []error {
	errs := v.Validate(d)

	if d.Name != "" {
		dir := filepath.Base(filepath.Dir(path))
		if dir != d.Name {
			errs = append(errs, &ValidationError{
				Field:   "name",
				Message: "name must match directory name",
				Value:   d.Name,
				Context: map[string]string{
					"directory": dir,
					"path":      path,
				},
			})
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// validateName checks the name field for compliance.
func (v *Validator) validateName(name string) []error {
	var errs []error

	if name == "" {
		errs = append(errs, &ValidationError{
			Field:   "name",
			Message: "name is required",
		})
		return errs
	}

	if len(name) > maxNameLength {
		errs = append(errs, &ValidationError{
			Field:   "name",
			Message: "name exceeds maximum length of 64 characters",
			Value:   name,
		})
	}

	if !nameRegex.MatchString(name) {
		msg := "name must be lowercase alphanumeric with single hyphens between segments"
		if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") {
			msg = "name cannot start or end with a hyphen"
		} else if strings.Contains(name, "--") {
			msg = "name cannot contain consecutive hyphens"
		} else if strings.ToLower(name) != name {
			msg = "name must be lowercase"
		}
		errs = append(errs, &ValidationError{
			Field:   "name",
			Message: msg,
			Value:   name,
		})
	}

	return errs
}

// validateDescription checks the description field for compliance.
func (v *Validator) validateDescription(description string) []error {
	var errs []error

	if description == "" {
		errs = append(errs, &ValidationError{
			Field:   "description",
			Message: "description is required",
		})
		return errs
	}

	if strings.TrimSpace(description) == "" {
		errs = append(errs, &ValidationError{
			Field:   "description",
			Message: "description cannot be only whitespace",
			Value:   description,
		})
	}

	if len(description) > maxDescriptionLength {
		errs = append(errs, &ValidationError{
			Field:   "description",
			Message: "description exceeds maximum length of 1024 characters",
		})
	}

	return errs
}

// validateTriggers checks the trigger list for blank and duplicate entries.
// Duplicates are compared case-insensitively after trimming, since the
// runtime matches triggers case-insensitively.
func (v *Validator) validateTriggers(triggers []string) []error {
	var errs []error

	seen := make(map[string]int, len(triggers))
	for i, trigger := range triggers {
		normalized := strings.ToLower(strings.TrimSpace(trigger))
		if normalized == "" {
			errs = append(errs, &ValidationError{
				Field:   "triggers",
				Message: "trigger cannot be blank",
				Context: map[string]string{
					"index": strconv.Itoa(i),
				},
			})
			continue
		}
		if first, dup := seen[normalized]; dup {
			errs = append(errs, &ValidationError{
				Field:   "triggers",
				Message: "duplicate trigger",
				Value:   trigger,
				Context: map[string]string{
					"index":         strconv.Itoa(i),
					"first_seen_at": strconv.Itoa(first),
				},
			})
			continue
		}
		seen[normalized] = i
	}

	return errs
}
