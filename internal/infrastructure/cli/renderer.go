package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/doeshing/aish/internal/application/prompt"
	"github.com/doeshing/aish/internal/domain"
	"github.com/doeshing/aish/internal/ports"
)

type styles struct {
	info    lipgloss.Style
	header  lipgloss.Style
	command lipgloss.Style
	warning lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	errText lipgloss.Style
	dim     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		info:    r.NewStyle().Foreground(lipgloss.Color("12")),
		header:  r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		command: r.NewStyle().Foreground(lipgloss.Color("14")),
		warning: r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		success: r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		failure: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		errText: r.NewStyle().Foreground(lipgloss.Color("9")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Renderer implements ports.Reporter for a terminal.
type Renderer struct {
	out      io.Writer
	messages prompt.MessageSet
	styles   styles
	animate  bool
}

// NewRenderer builds a renderer. animate enables the spinner and should only
// be set when out is a terminal.
func NewRenderer(out io.Writer, messages prompt.MessageSet, animate bool) *Renderer {
	return &Renderer{
		out:      out,
		messages: messages,
		styles:   newStyles(lipgloss.NewRenderer(out)),
		animate:  animate,
	}
}

func (r *Renderer) Thinking(attempt int) func() {
	label := r.styles.info.Render(r.messages.Thinking)
	if attempt > 1 {
		label += r.styles.dim.Render(fmt.Sprintf(" (%d/%d)", attempt, domain.MaxAttempts))
	}
	if !r.animate {
		fmt.Fprintln(r.out, label)
		return func() {}
	}
	spinner := NewSpinner(r.out, label)
	spinner.Start()
	return spinner.Stop
}

func (r *Renderer) Prompts(p domain.Prompt) {
	fmt.Fprintln(r.out, r.styles.header.Render(r.messages.DebugHeader))
	fmt.Fprintln(r.out, r.styles.info.Render(r.messages.SystemPrompt))
	fmt.Fprintln(r.out, p.System)
	fmt.Fprintln(r.out, r.styles.info.Render(r.messages.UserPrompt))
	fmt.Fprintln(r.out, p.User)
	fmt.Fprintln(r.out)
}

func (r *Renderer) Command(command string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.styles.header.Render(r.messages.GeneratedCmd))
	fmt.Fprintln(r.out, r.styles.command.Render(command))
	fmt.Fprintln(r.out)
}

func (r *Renderer) Dangerous(string) {
	fmt.Fprintln(r.out, r.styles.failure.Render(r.messages.Dangerous))
}

func (r *Renderer) Executing(string) {
	fmt.Fprintln(r.out, r.styles.warning.Render(r.messages.Executing))
}

func (r *Renderer) Result(result domain.ExecutionResult, verbose bool) {
	if !result.Succeeded {
		fmt.Fprintf(r.out, "%s %s\n",
			r.styles.failure.Render(r.messages.Failed),
			r.styles.errText.Render(strings.TrimRight(result.Output, "\n")))
		return
	}

	fmt.Fprintln(r.out, r.styles.success.Render(r.messages.Succeeded))
	if verbose && result.Output != "" {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, strings.TrimRight(result.Output, "\n"))
		fmt.Fprintln(r.out, r.styles.dim.Render(fmt.Sprintf("(%s, %s)",
			humanize.Bytes(uint64(len(result.Output))), result.Duration.Round(time.Millisecond))))
	}
}

func (r *Renderer) MaxAttemptsReached(int) {
	fmt.Fprintln(r.out, r.styles.warning.Render(r.messages.MaxAttempts))
}

func (r *Renderer) Notice(message string) {
	fmt.Fprintln(r.out, r.styles.dim.Render(message))
}

var _ ports.Reporter = (*Renderer)(nil)
