package doctor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	appconfig "github.com/doeshing/aish/internal/application/config"
	"github.com/doeshing/aish/internal/domain"
	"github.com/doeshing/aish/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Gate           ports.SafetyGate
	Environment    ports.EnvironmentCollector
	Prober         ports.BackendProber
	Interpreter    string
	Interactive    bool
	LookPath       func(string) (string, error)
}

// Run executes checks and returns a report. A config that cannot be loaded
// ends the run early with the load error.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("model %s, locale %s", valueOr(cfg.Model, "unset"), cfg.Locale)))

	configValid := true
	if err := appconfig.Validate(cfg); err != nil {
		configValid = false
		checks = append(checks, fail("Config values", err.Error()))
	} else {
		checks = append(checks, ok("Config values", "base_url, api_key and model set"))
	}

	checks = append(checks, s.gateCheck())
	checks = append(checks, s.interpreterCheck())

	if s.Environment != nil {
		snapshot := s.Environment.Snapshot()
		if snapshot.OS == domain.UnknownOS || snapshot.Shell == domain.UnknownValue {
			checks = append(checks, warn("Environment", fmt.Sprintf("os=%s shell=%s", snapshot.OS, snapshot.Shell)))
		} else {
			checks = append(checks, ok("Environment", fmt.Sprintf("%s, %s, %s", snapshot.OS, snapshot.Shell, snapshot.WorkingDir)))
		}
	}

	if s.Interactive {
		checks = append(checks, ok("Terminal", "interactive confirmations enabled"))
	} else {
		checks = append(checks, warn("Terminal", "stdin is not a terminal, confirmations use their defaults"))
	}

	if s.Prober != nil && configValid {
		probeCtx, cancel := context.WithTimeout(ctx, domain.DefaultProbeTimeout)
		defer cancel()
		if err := s.Prober.Ping(probeCtx, cfg); err != nil {
			checks = append(checks, warn("Backend", err.Error()))
		} else {
			checks = append(checks, ok("Backend", strings.TrimRight(cfg.BaseURL, "/")+" reachable"))
		}
	}

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) gateCheck() domain.HealthCheck {
	if s.Gate == nil {
		return warn("Safety gate", "not initialized")
	}
	if !s.Gate.IsDangerous("rm -rf /") || s.Gate.IsDangerous("ls -la") {
		return fail("Safety gate", "denylist self-test failed")
	}
	return ok("Safety gate", "denylist active")
}

func (s *Service) interpreterCheck() domain.HealthCheck {
	if s.Interpreter == "" {
		return warn("Shell interpreter", "unknown")
	}
	lookPath := s.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(s.Interpreter)
	if err != nil {
		return fail("Shell interpreter", fmt.Sprintf("%s not found: %v", s.Interpreter, err))
	}
	return ok("Shell interpreter", path)
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
