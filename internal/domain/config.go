package domain

import "strings"

// Config mirrors ~/.aish/config.yaml.
type Config struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Locale  Locale `yaml:"locale"`
}

// Locale selects the language of prompts and terminal messages.
type Locale string

const (
	// LocaleEnglish is the primary locale and the default.
	LocaleEnglish Locale = "en"
	// LocaleChinese is the secondary locale.
	LocaleChinese Locale = "zh"
)

// ParseLocale normalizes a user supplied locale value.
func ParseLocale(value string) (Locale, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "en", "en-us", "english", "primary":
		return LocaleEnglish, true
	case "zh", "zh-cn", "chinese", "secondary":
		return LocaleChinese, true
	default:
		return "", false
	}
}

// MissingFields lists the required backend settings that are blank.
func (c Config) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(c.BaseURL) == "" {
		missing = append(missing, "base_url")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		missing = append(missing, "api_key")
	}
	if strings.TrimSpace(c.Model) == "" {
		missing = append(missing, "model")
	}
	return missing
}

// Masked returns a copy safe for display, with the API key obscured.
func (c Config) Masked() Config {
	c.APIKey = MaskSecret(c.APIKey)
	return c
}

// MaskSecret keeps the first and last characters of long secrets only.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:3] + strings.Repeat("*", len(secret)-7) + secret[len(secret)-4:]
}
