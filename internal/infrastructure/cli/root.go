package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/aish/internal/app"
	"github.com/doeshing/aish/internal/application/prompt"
	"github.com/doeshing/aish/internal/domain"
	"github.com/doeshing/aish/internal/infrastructure/cli/commands"
	"github.com/doeshing/aish/internal/infrastructure/cli/helpers"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	var (
		dryRun  bool
		verbose bool
		debug   bool
	)

	root := &cobra.Command{
		Use:   "aish [flags] <task...>",
		Short: "aish - turn a task description into a shell command",
		Long: "aish asks an OpenAI-compatible model for a shell command, refuses commands on a\n" +
			"fixed denylist, runs the command after confirmation and retries with the\n" +
			"previous outcome until the goal is reached or three attempts are used.",
		Example: "  aish list files larger than 10MB in this directory\n  aish -n show listening ports",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			req := domain.RunRequest{
				Task:    strings.Join(args, " "),
				DryRun:  dryRun,
				Verbose: verbose,
				Debug:   debug,
			}
			return runTask(cmd, container, req)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show the generated command without executing it")
	root.Flags().BoolVarP(&verbose, "verbose", "v", true, "Print command output after a successful run")
	root.Flags().BoolVarP(&debug, "debug", "D", false, "Print the prompts sent to the model")
	root.Flags().SetInterspersed(false)

	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewInitCommand(container))
	root.AddCommand(commands.NewDoctorCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root, nil
}

func runTask(cmd *cobra.Command, container *app.Container, req domain.RunRequest) error {
	defer func() { _ = container.Logger.Sync() }()

	stdin := cmd.InOrStdin()
	in := bufio.NewReader(stdin)
	out := cmd.OutOrStdout()

	cfg, err := loadOrInitConfig(cmd.Context(), container, in, stdin == os.Stdin, out)
	if err != nil {
		return err
	}

	messages := prompt.Messages(cfg.Locale)
	renderer := NewRenderer(out, messages, out == os.Stdout && helpers.OutputIsTerminal())
	service, err := container.NewLoopService(cfg, NewPrompter(in, out), renderer)
	if err != nil {
		return err
	}

	_, err = service.Run(cmd.Context(), req)
	return err
}

// loadOrInitConfig runs the init wizard on first use when a terminal is attached.
func loadOrInitConfig(ctx context.Context, container *app.Container, in *bufio.Reader, hide bool, out io.Writer) (domain.Config, error) {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) || !helpers.IsInteractive() {
		return domain.Config{}, err
	}

	fmt.Fprintln(out, "No configuration found, starting first-run setup.")
	if _, err := commands.RunInitWizard(in, out, container.ConfigLoader, hide); err != nil {
		return domain.Config{}, err
	}
	return container.ConfigProvider.Load(ctx)
}
