package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/doeshing/aish/internal/domain"
)

var keyAliases = map[string]string{
	"base_url": "base_url",
	"endpoint": "base_url",
	"api_key":  "api_key",
	"key":      "api_key",
	"model":    "model",
	"locale":   "locale",
	"lang":     "locale",
}

// Keys lists the canonical settable keys.
func Keys() []string {
	seen := map[string]bool{}
	var keys []string
	for _, canonical := range keyAliases {
		if !seen[canonical] {
			seen[canonical] = true
			keys = append(keys, canonical)
		}
	}
	sort.Strings(keys)
	return keys
}

// Validate ensures the config can be used to reach a backend.
func Validate(cfg domain.Config) error {
	if missing := cfg.MissingFields(); len(missing) > 0 {
		return &domain.ConfigError{Field: strings.Join(missing, ", "), Reason: "not set"}
	}
	if err := validateBaseURL(cfg.BaseURL); err != nil {
		return err
	}
	if _, ok := domain.ParseLocale(string(cfg.Locale)); !ok {
		return &domain.ConfigError{Field: "locale", Reason: fmt.Sprintf("must be en or zh, got %q", cfg.Locale)}
	}
	return nil
}

func validateBaseURL(raw string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return &domain.ConfigError{Field: "base_url", Reason: "invalid URL", Err: err}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &domain.ConfigError{Field: "base_url", Reason: "scheme must be http or https"}
	}
	if parsed.Host == "" {
		return &domain.ConfigError{Field: "base_url", Reason: "host is empty"}
	}
	return nil
}

// ApplyAssignment sets one key=value pair on cfg and returns the updated copy.
func ApplyAssignment(cfg domain.Config, assignment string) (domain.Config, error) {
	rawKey, value, ok := strings.Cut(assignment, "=")
	if !ok {
		return cfg, &domain.ConfigError{Reason: fmt.Sprintf("expected key=value, got %q", assignment)}
	}
	key, known := keyAliases[strings.ToLower(strings.TrimSpace(rawKey))]
	if !known {
		return cfg, &domain.ConfigError{
			Field:  strings.TrimSpace(rawKey),
			Reason: "unknown key, expected one of " + strings.Join(Keys(), ", "),
		}
	}
	value = strings.TrimSpace(value)

	switch key {
	case "base_url":
		if err := validateBaseURL(value); err != nil {
			return cfg, err
		}
		cfg.BaseURL = value
	case "api_key":
		cfg.APIKey = value
	case "model":
		cfg.Model = value
	case "locale":
		locale, ok := domain.ParseLocale(value)
		if !ok {
			return cfg, &domain.ConfigError{Field: "locale", Reason: fmt.Sprintf("must be en or zh, got %q", value)}
		}
		cfg.Locale = locale
	}
	return cfg, nil
}
