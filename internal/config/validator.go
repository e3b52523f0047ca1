package config

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/opmodel/classidx/internal/artifact"
)

// packageRegex matches dotted Java package names.
var packageRegex = regexp.MustCompile(`^[\p{L}_$][\p{L}\p{N}_$]*(\.[\p{L}_$][\p{L}\p{N}_$]*)*$`)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:")
	for _, err := range e {
		fmt.Fprintf(&sb, "\n  %s: %s", err.Field, err.Message)
	}
	return sb.String()
}

// Validate checks field formats. It returns nil or ValidationErrors.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	for i, raw := range cfg.IndexDependencies {
		if _, err := artifact.ParseCoordinate(raw); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("indexDependencies[%d]", i),
				Message: fmt.Sprintf("%q is not group:artifact[:classifier]", raw),
			})
		}
	}

	for i, d := range cfg.MarkedDependencies {
		if strings.TrimSpace(d.Location) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("markedDependencies[%d].location", i),
				Message: "must not be empty",
			})
		}
	}

	for i, p := range cfg.Packages {
		if !packageRegex.MatchString(p) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("packages[%d]", i),
				Message: fmt.Sprintf("%q is not a dotted package name", p),
			})
		}
	}

	for _, res := range []struct{ field, name string }{
		{"markerResource", cfg.MarkerResource},
		{"manifestResource", cfg.ManifestResource},
	} {
		if res.name != "" && (path.IsAbs(res.name) || strings.Contains(res.name, "\\")) {
			errs = append(errs, ValidationError{
				Field:   res.field,
				Message: "must be a relative slash-separated resource name",
			})
		}
	}

	if cfg.RootType != "" && !packageRegex.MatchString(cfg.RootType) {
		errs = append(errs, ValidationError{
			Field:   "rootType",
			Message: fmt.Sprintf("%q is not a binary class name", cfg.RootType),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
