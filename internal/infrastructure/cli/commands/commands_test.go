package commands

import (
	"bufio"
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/doeshing/aish/internal/app"
	"github.com/doeshing/aish/internal/domain"
	configinfra "github.com/doeshing/aish/internal/infrastructure/config"
)

func newTestContainer(t *testing.T) (*app.Container, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(configinfra.EnvConfigPath, path)
	for _, key := range []string{configinfra.EnvBaseURL, configinfra.EnvAPIKey, configinfra.EnvModel} {
		t.Setenv(key, "")
	}
	container, err := app.BuildContainer(context.Background(), false)
	if err != nil {
		t.Fatalf("BuildContainer: %v", err)
	}
	return container, path
}

func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigSetShowAndDiff(t *testing.T) {
	container, path := newTestContainer(t)

	out, err := execute(t, NewConfigCommand(container), "", "api_key=sk-abcdefghijklmn", "model=gpt-4o")
	if err != nil {
		t.Fatalf("config set: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("expected saved path in output, got %q", out)
	}

	out, err = execute(t, NewConfigCommand(container), "", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "sk-abcdefghijklmn") {
		t.Fatalf("API key must be masked: %q", out)
	}
	if !strings.Contains(out, "model: gpt-4o") || !strings.Contains(out, "sk-**********klmn") {
		t.Fatalf("unexpected show output %q", out)
	}

	out, err = execute(t, NewConfigCommand(container), "", "diff")
	if err != nil {
		t.Fatalf("config diff: %v", err)
	}
	if !strings.Contains(out, "gpt-4o-mini") || !strings.Contains(out, "gpt-4o") {
		t.Fatalf("diff should mention both models, got %q", out)
	}
}

func TestConfigRejectsUnknownKey(t *testing.T) {
	container, _ := newTestContainer(t)

	_, err := execute(t, NewConfigCommand(container), "", "colour=blue")
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if container.ConfigLoader.Exists() {
		t.Fatal("config must not be written")
	}
}

func TestConfigPathAndReset(t *testing.T) {
	container, path := newTestContainer(t)

	out, err := execute(t, NewConfigCommand(container), "", "path")
	if err != nil || strings.TrimSpace(out) != path {
		t.Fatalf("config path = %q, %v; want %q", out, err, path)
	}

	if _, err := execute(t, NewConfigCommand(container), "", "model=custom"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, NewConfigCommand(container), "", "reset"); err != nil {
		t.Fatalf("config reset: %v", err)
	}
	out, err = execute(t, NewConfigCommand(container), "", "diff")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != MsgNoDifferencesFromDefault {
		t.Fatalf("expected no differences after reset, got %q", out)
	}
}

func TestRunInitWizardWritesConfig(t *testing.T) {
	container, _ := newTestContainer(t)
	input := "http://localhost:11434/v1\nsk-local\nllama3\nzh\n"
	var out bytes.Buffer

	cfg, err := RunInitWizard(bufio.NewReader(strings.NewReader(input)), &out, container.ConfigLoader, false)
	if err != nil {
		t.Fatalf("RunInitWizard: %v\n%s", err, out.String())
	}

	want := domain.Config{BaseURL: "http://localhost:11434/v1", APIKey: "sk-local", Model: "llama3", Locale: domain.LocaleChinese}
	if cfg != want {
		t.Fatalf("cfg = %+v, want %+v", cfg, want)
	}
	stored, err := container.ConfigLoader.LoadStored()
	if err != nil || stored != want {
		t.Fatalf("stored = %+v, %v", stored, err)
	}
}

func TestRunInitWizardRetriesInvalidValue(t *testing.T) {
	container, _ := newTestContainer(t)
	input := "ftp://nope\n\nsk-key\n\n\n"
	var out bytes.Buffer

	cfg, err := RunInitWizard(bufio.NewReader(strings.NewReader(input)), &out, container.ConfigLoader, false)
	if err != nil {
		t.Fatalf("RunInitWizard: %v", err)
	}
	if !strings.Contains(out.String(), "Invalid value") {
		t.Fatalf("expected invalid value notice, got %q", out.String())
	}
	if cfg.BaseURL != "https://api.openai.com/v1" || cfg.APIKey != "sk-key" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestRunInitWizardRequiresAPIKey(t *testing.T) {
	container, _ := newTestContainer(t)

	_, err := RunInitWizard(bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}, container.ConfigLoader, false)
	if err == nil {
		t.Fatal("expected validation error without an API key")
	}
	if container.ConfigLoader.Exists() {
		t.Fatal("invalid config must not be saved")
	}
}

func TestInitCommandCancelsWithoutOverwrite(t *testing.T) {
	container, _ := newTestContainer(t)
	if _, err := container.ConfigLoader.Set("api_key=sk-keep"); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, NewInitCommand(container), "n\n")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, MsgInitCancelled) {
		t.Fatalf("expected cancel message, got %q", out)
	}
	stored, _ := container.ConfigLoader.LoadStored()
	if stored.APIKey != "sk-keep" {
		t.Fatal("existing config must be kept")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, NewVersionCommand(), "")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "aish version ") || !strings.Contains(out, "Go version:") {
		t.Fatalf("unexpected version output %q", out)
	}
}
