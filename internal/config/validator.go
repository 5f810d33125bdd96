package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks field constraints and cross-field rules.
func Validate(cfg *Config) error {
	var errs []string

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("config: %w", err)
		}
		for _, fe := range verrs {
			errs = append(errs, formatFieldError(fe))
		}
	}

	if u, err := url.Parse(cfg.Wiki.BaseURL); err == nil && u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, fmt.Sprintf("wiki.base_url: scheme %q is not http or https", u.Scheme))
	}
	if cfg.Explorer.LookupQueueDepth < cfg.Explorer.LookupWorkers {
		errs = append(errs, fmt.Sprintf("explorer.lookup_queue_depth (%d) must be at least explorer.lookup_workers (%d)",
			cfg.Explorer.LookupQueueDepth, cfg.Explorer.LookupWorkers))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// formatFieldError renders fe with the YAML-style dotted path, e.g.
// "wiki.breaker.failure_threshold must be <= 1".
func formatFieldError(fe validator.FieldError) string {
	field := fieldPath(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be > %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

// fieldPath converts "Config.Wiki.Breaker.FailureThreshold" into
// "wiki.breaker.failure_threshold".
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = snake(p)
	}
	return strings.Join(parts, ".")
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
