package contextcollector

import (
	"os"
	"runtime"

	"github.com/doeshing/aish/internal/domain"
	"github.com/doeshing/aish/internal/ports"
)

// EnvCollector implements EnvironmentCollector from process environment variables.
type EnvCollector struct {
	goos   string
	lookup func(string) (string, bool)
	getwd  func() (string, error)
}

// NewEnvCollector builds a collector reading the live process environment.
func NewEnvCollector() *EnvCollector {
	return &EnvCollector{
		goos:   runtime.GOOS,
		lookup: os.LookupEnv,
		getwd:  os.Getwd,
	}
}

// Snapshot gathers environment data. Every field is resolved at call time.
func (c *EnvCollector) Snapshot() domain.EnvironmentSnapshot {
	return domain.EnvironmentSnapshot{
		OS:         osFamily(c.goos),
		Shell:      c.firstEnv("SHELL", "COMSPEC"),
		Terminal:   c.firstEnv("TERM"),
		User:       c.firstEnv("USER", "USERNAME"),
		WorkingDir: c.workingDir(),
	}
}

func (c *EnvCollector) firstEnv(keys ...string) string {
	for _, key := range keys {
		if value, ok := c.lookup(key); ok && value != "" {
			return value
		}
	}
	return domain.UnknownValue
}

func (c *EnvCollector) workingDir() string {
	if pwd, ok := c.lookup("PWD"); ok && pwd != "" {
		return pwd
	}
	if c.getwd != nil {
		if wd, err := c.getwd(); err == nil && wd != "" {
			return wd
		}
	}
	return domain.UnknownValue
}

func osFamily(goos string) string {
	switch goos {
	case "darwin":
		return "macOS"
	case "linux":
		return "Linux"
	case "windows":
		return "Windows"
	default:
		return domain.UnknownOS
	}
}

var _ ports.EnvironmentCollector = (*EnvCollector)(nil)
