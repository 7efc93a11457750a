package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/aish/assets"
	appconfig "github.com/doeshing/aish/internal/application/config"
	"github.com/doeshing/aish/internal/domain"
	"github.com/doeshing/aish/internal/pkg/filesystem"
	"github.com/doeshing/aish/internal/ports"
)

// Environment variables that override stored values when set.
const (
	EnvConfigPath = "AISH_CONFIG"
	EnvBaseURL    = "OPENAI_BASE_URL"
	EnvAPIKey     = "OPENAI_API_KEY"
	EnvModel      = "OPENAI_MODEL"
)

// FileLoader loads YAML configuration from ~/.aish/config.yaml (overridable via AISH_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader. An empty path selects the default location.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. Stored values are layered over the
// embedded defaults and then over the OPENAI_* environment variables.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	cfg, err := l.LoadStored()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || !hasEnvOverrides() {
			return domain.Config{}, err
		}
		if cfg, err = DefaultConfig(); err != nil {
			return domain.Config{}, err
		}
	}
	return applyEnv(cfg), nil
}

// LoadStored reads the file without environment overrides.
func (l *FileLoader) LoadStored() (domain.Config, error) {
	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, &domain.ConfigError{
				Field:  path,
				Reason: "not found, run `aish init` or `aish config base_url=... api_key=... model=...`",
				Err:    fs.ErrNotExist,
			}
		}
		return domain.Config{}, &domain.ConfigError{Field: path, Reason: "unreadable", Err: err}
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return domain.Config{}, err
	}
	if err := decode(data, &cfg); err != nil {
		return domain.Config{}, &domain.ConfigError{Field: path, Reason: "invalid YAML", Err: err}
	}
	return hydrateDefaults(cfg)
}

// Save writes cfg with owner-only permissions.
func (l *FileLoader) Save(cfg domain.Config) error {
	path := l.Path()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, raw, domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Chmod(path, domain.SecureFilePermissions)
}

// Set applies key=value assignments to the stored file, creating it from defaults when absent.
func (l *FileLoader) Set(assignments ...string) (domain.Config, error) {
	cfg, err := l.LoadStored()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, err
		}
		if cfg, err = DefaultConfig(); err != nil {
			return domain.Config{}, err
		}
	}
	for _, assignment := range assignments {
		if cfg, err = appconfig.ApplyAssignment(cfg, assignment); err != nil {
			return domain.Config{}, err
		}
	}
	if err := l.Save(cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// Reset overwrites the stored file with the embedded defaults.
func (l *FileLoader) Reset() (domain.Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return domain.Config{}, err
	}
	return cfg, l.Save(cfg)
}

// Exists reports whether the config file is present.
func (l *FileLoader) Exists() bool {
	_, err := os.Stat(l.Path())
	return err == nil
}

// Path resolves the config file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandHome(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandHome(custom)
	}
	return filepath.Join(filesystem.AppDir(".aish"), "config.yaml")
}

// DefaultConfig decodes the embedded defaults.
func DefaultConfig() (domain.Config, error) {
	var cfg domain.Config
	if err := decode(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("decode embedded defaults: %w", err)
	}
	return cfg, nil
}

func decode(data []byte, cfg *domain.Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return yaml.Unmarshal(data, cfg)
}

func hydrateDefaults(cfg domain.Config) (domain.Config, error) {
	locale, ok := domain.ParseLocale(string(cfg.Locale))
	if !ok {
		return domain.Config{}, &domain.ConfigError{Field: "locale", Reason: fmt.Sprintf("must be en or zh, got %q", cfg.Locale)}
	}
	cfg.Locale = locale
	return cfg, nil
}

func hasEnvOverrides() bool {
	for _, key := range []string{EnvBaseURL, EnvAPIKey, EnvModel} {
		if strings.TrimSpace(os.Getenv(key)) != "" {
			return true
		}
	}
	return false
}

func applyEnv(cfg domain.Config) domain.Config {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		cfg.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvModel)); v != "" {
		cfg.Model = v
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
