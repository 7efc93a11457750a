package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/doeshing/aish/internal/app"
	configapp "github.com/doeshing/aish/internal/application/config"
	"github.com/doeshing/aish/internal/domain"
	configinfra "github.com/doeshing/aish/internal/infrastructure/config"
	"github.com/doeshing/aish/internal/infrastructure/cli/helpers"
)

const maxWizardTries = 3

// NewInitCommand creates the init command that writes ~/.aish/config.yaml interactively.
func NewInitCommand(container *app.Container) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize aish configuration",
		Long: `Initialize aish configuration interactively.

Prompts for the backend base URL, API key, model and locale, then writes
~/.aish/config.yaml (or $AISH_CONFIG) with owner-only permissions.
Any OpenAI-compatible endpoint works, for example a local server at
http://localhost:11434/v1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := configLoader(container)
			if err != nil {
				return err
			}
			reader := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			if loader.Exists() && !force {
				question := fmt.Sprintf("%s exists. Overwrite?", loader.Path())
				if !helpers.PromptForYesNo(out, reader, question, false) {
					fmt.Fprintln(out, MsgInitCancelled)
					return nil
				}
			}
			hide := cmd.InOrStdin() == os.Stdin && helpers.IsInteractive()
			_, err = RunInitWizard(reader, out, loader, hide)
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config without prompting")
	return cmd
}

// RunInitWizard prompts for every setting, validates the result and saves it.
// Current stored values, or the defaults, are offered as answers. hideSecrets
// disables echo for the API key and must only be set when reader wraps a terminal.
func RunInitWizard(reader *bufio.Reader, out io.Writer, loader *configinfra.FileLoader, hideSecrets bool) (domain.Config, error) {
	cfg, err := loader.LoadStored()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, err
		}
		if cfg, err = configinfra.DefaultConfig(); err != nil {
			return domain.Config{}, err
		}
	}

	fmt.Fprintln(out, "Configure the OpenAI-compatible backend:")

	fields := []struct {
		key    string
		prompt string
		secret bool
		value  func(domain.Config) string
	}{
		{key: "base_url", prompt: "Base URL", value: func(c domain.Config) string { return c.BaseURL }},
		{key: "api_key", prompt: "API key", secret: true, value: func(c domain.Config) string { return c.APIKey }},
		{key: "model", prompt: "Model", value: func(c domain.Config) string { return c.Model }},
		{key: "locale", prompt: "Locale (en/zh)", value: func(c domain.Config) string { return string(c.Locale) }},
	}

	for _, field := range fields {
		for tries := 1; ; tries++ {
			var answer string
			if field.secret {
				current := field.value(cfg)
				answer = helpers.PromptForSecret(out, reader, field.prompt, current, domain.MaskSecret(current), hideSecrets)
			} else {
				answer = helpers.PromptForString(out, reader, field.prompt, field.value(cfg))
			}
			updated, err := configapp.ApplyAssignment(cfg, field.key+"="+answer)
			if err == nil {
				cfg = updated
				break
			}
			if tries == maxWizardTries {
				return domain.Config{}, err
			}
			fmt.Fprintf(out, "Invalid value: %v\n", err)
		}
	}

	if err := configapp.Validate(cfg); err != nil {
		return domain.Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := loader.Save(cfg); err != nil {
		return domain.Config{}, fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(out, "\n✓ Configuration written to %s\n", loader.Path())
	fmt.Fprintln(out, "Verify the setup with: aish doctor")
	return cfg, nil
}
