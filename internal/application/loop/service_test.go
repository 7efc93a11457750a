package loop

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/doeshing/aish/internal/application/prompt"
	"github.com/doeshing/aish/internal/domain"
	"github.com/doeshing/aish/internal/infrastructure/security"
	"github.com/doeshing/aish/internal/pkg/logger"
)

func TestRunListFilesReachesGoalAfterOneAttempt(t *testing.T) {
	h := newHarness(t)
	h.invoker.replies = []string{"```bash\nls\n```"}
	h.executor.results = []domain.ExecutionResult{{Succeeded: true, Output: "a.txt\nb.txt\n"}}
	h.confirmer.answers = []bool{true, true}

	report, err := h.service.Run(context.Background(), domain.RunRequest{Task: "list files", Verbose: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Outcome != domain.OutcomeGoalAchieved || report.Syntheses != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if diff := cmp.Diff([]string{"ls"}, h.executor.commands); diff != "" {
		t.Fatalf("executed commands mismatch (-want +got):\n%s", diff)
	}
	want := &domain.ExecutionAttempt{Command: "ls", Output: "a.txt\nb.txt\n", Succeeded: true, Number: 1}
	if diff := cmp.Diff(want, report.Last); diff != "" {
		t.Fatalf("last attempt mismatch (-want +got):\n%s", diff)
	}
	if !h.reporter.verbose {
		t.Fatal("verbose flag must reach the reporter")
	}
}

func TestRunAlwaysFailingStopsAfterThreeSyntheses(t *testing.T) {
	h := newHarness(t)
	h.invoker.replies = []string{"false", "false --again", "false --last"}
	h.executor.results = []domain.ExecutionResult{
		{Succeeded: false, Output: "e1", ExitCode: 1},
		{Succeeded: false, Output: "e2", ExitCode: 1},
		{Succeeded: false, Output: "e3", ExitCode: 1},
	}
	h.confirmer.answers = []bool{true, true, true}

	report, err := h.service.Run(context.Background(), domain.RunRequest{Task: "impossible"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Outcome != domain.OutcomeMaxAttempts {
		t.Fatalf("Outcome = %q, want %q", report.Outcome, domain.OutcomeMaxAttempts)
	}
	if h.invoker.calls != 3 || report.Syntheses != 3 {
		t.Fatalf("expected 3 syntheses, got invoker=%d report=%d", h.invoker.calls, report.Syntheses)
	}
	if h.reporter.maxReached != MaxAttempts {
		t.Fatalf("max attempts notice = %d", h.reporter.maxReached)
	}

	// Failed executions retry without asking about the goal.
	for _, q := range h.confirmer.questions {
		if q.question == h.service.Messages.ConfirmGoal {
			t.Fatal("goal question must not be asked after a failed execution")
		}
	}

	want := []*domain.ExecutionAttempt{
		nil,
		{Command: "false", Output: "e1", Succeeded: false, Number: 1},
		{Command: "false --again", Output: "e2", Succeeded: false, Number: 2},
	}
	if diff := cmp.Diff(want, h.builder.previous); diff != "" {
		t.Fatalf("previous attempts mismatch (-want +got):\n%s", diff)
	}
}

func TestRunDangerousCommandIsNeverExecuted(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := newHarness(t)
	h.service.Logger = logger.Wrap(zap.New(core))
	h.invoker.replies = []string{"rm -rf /tmp/x"}

	report, err := h.service.Run(context.Background(), domain.RunRequest{Task: "delete /tmp/x"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Outcome != domain.OutcomeDangerous {
		t.Fatalf("Outcome = %q, want %q", report.Outcome, domain.OutcomeDangerous)
	}
	if len(h.executor.commands) != 0 || len(h.confirmer.questions) != 0 {
		t.Fatalf("dangerous command reached executor=%v confirmer=%v", h.executor.commands, h.confirmer.questions)
	}
	if h.reporter.dangerous != "rm -rf /tmp/x" {
		t.Fatalf("refusal not reported: %q", h.reporter.dangerous)
	}
	refusals := logs.FilterMessage("command refused by denylist").All()
	if len(refusals) != 1 || refusals[0].ContextMap()["pattern"] != "rm -rf" {
		t.Fatalf("expected refusal log with pattern, got %+v", refusals)
	}
}

func TestRunOperatorDeclinesExecution(t *testing.T) {
	h := newHarness(t)
	h.invoker.replies = []string{"ls"}
	h.confirmer.answers = []bool{false}

	report, err := h.service.Run(context.Background(), domain.RunRequest{Task: "list files"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Outcome != domain.OutcomeDeclined || len(h.executor.commands) != 0 {
		t.Fatalf("unexpected report %+v executed=%v", report, h.executor.commands)
	}
	want := []question{{question: h.service.Messages.ConfirmExecute, defaultYes: false}}
	if diff := cmp.Diff(want, h.confirmer.questions, cmp.AllowUnexported(question{})); diff != "" {
		t.Fatalf("questions mismatch (-want +got):\n%s", diff)
	}
}

func TestRunDryRunSkipsConfirmationAndExecution(t *testing.T) {
	h := newHarness(t)
	h.invoker.replies = []string{"ls -la"}

	report, err := h.service.Run(context.Background(), domain.RunRequest{Task: "list files", DryRun: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Outcome != domain.OutcomeDryRun || report.Command != "ls -la" {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(h.confirmer.questions) != 0 || len(h.executor.commands) != 0 {
		t.Fatal("dry run must not confirm or execute")
	}
}

func TestRunGoalNotMetRetriesWithSuccessfulAttempt(t *testing.T) {
	h := newHarness(t)
	h.invoker.replies = []string{"ls", "ls -la"}
	h.executor.results = []domain.ExecutionResult{
		{Succeeded: true, Output: "a"},
		{Succeeded: true, Output: "a .hidden"},
	}
	h.confirmer.answers = []bool{true, false, true, true}

	report, err := h.service.Run(context.Background(), domain.RunRequest{Task: "list all files"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Outcome != domain.OutcomeGoalAchieved || report.Syntheses != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	wantPrev := &domain.ExecutionAttempt{Command: "ls", Output: "a", Succeeded: true, Number: 1}
	if diff := cmp.Diff(wantPrev, h.builder.previous[1]); diff != "" {
		t.Fatalf("retry previous mismatch (-want +got):\n%s", diff)
	}
	goal := question{question: h.service.Messages.ConfirmGoal, defaultYes: true}
	if diff := cmp.Diff(goal, h.confirmer.questions[1], cmp.AllowUnexported(question{})); diff != "" {
		t.Fatalf("goal question mismatch (-want +got):\n%s", diff)
	}
}

func TestRunBackendErrorIsFatal(t *testing.T) {
	h := newHarness(t)
	h.invoker.err = &domain.BackendError{Op: "chat completion", Err: errors.New("503")}

	report, err := h.service.Run(context.Background(), domain.RunRequest{Task: "list files"})

	var backendErr *domain.BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if report.Syntheses != 1 || len(h.executor.commands) != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if h.reporter.stopped != h.reporter.started {
		t.Fatal("thinking indicator must be stopped after a failed call")
	}
}

func TestRunSpawnErrorIsFatal(t *testing.T) {
	h := newHarness(t)
	h.invoker.replies = []string{"ls"}
	h.confirmer.answers = []bool{true}
	h.executor.err = &domain.SpawnError{Command: "ls", Err: errors.New("no shell")}

	_, err := h.service.Run(context.Background(), domain.RunRequest{Task: "list files"})

	var spawnErr *domain.SpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("expected SpawnError, got %v", err)
	}
	if h.invoker.calls != 1 {
		t.Fatalf("spawn failure must not trigger another synthesis, calls=%d", h.invoker.calls)
	}
}

func TestRunInterruptedAtConfirmationNeverExecutes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := newHarness(t)
	h.invoker.replies = []string{"ls -la"}
	h.confirmer.answers = []bool{true}
	h.confirmer.onAsk = cancel

	_, err := h.service.Run(ctx, domain.RunRequest{Task: "list files"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	var spawnErr *domain.SpawnError
	if errors.As(err, &spawnErr) {
		t.Fatalf("interrupt reported as SpawnError: %v", err)
	}
	if len(h.executor.commands) != 0 {
		t.Fatalf("executor reached after interrupt: %v", h.executor.commands)
	}
}

func TestRunInterruptedDuringExecutionDoesNotRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := newHarness(t)
	h.invoker.replies = []string{"sleep 60", "sleep 1"}
	h.executor.results = []domain.ExecutionResult{{Succeeded: false, ExitCode: -1}}
	h.executor.onRun = cancel
	h.confirmer.answers = []bool{true, true}

	report, err := h.service.Run(ctx, domain.RunRequest{Task: "wait"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if h.invoker.calls != 1 || report.Syntheses != 1 {
		t.Fatalf("interrupted run must not synthesize again, calls=%d report=%+v", h.invoker.calls, report)
	}
	if h.reporter.maxReached != 0 {
		t.Fatal("interrupted run must not report max attempts")
	}
}

func TestRunCancelledBeforeStartDoesNotCallBackend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := newHarness(t)

	if _, err := h.service.Run(ctx, domain.RunRequest{Task: "list files"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if h.invoker.calls != 0 {
		t.Fatalf("backend called %d times", h.invoker.calls)
	}
}

func TestRunDebugReportsPrompts(t *testing.T) {
	h := newHarness(t)
	h.invoker.replies = []string{"ls"}
	h.confirmer.answers = []bool{false}

	if _, err := h.service.Run(context.Background(), domain.RunRequest{Task: "list", Debug: true}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(h.reporter.prompts) != 1 {
		t.Fatalf("expected prompts to be reported once, got %d", len(h.reporter.prompts))
	}
}

func TestRunRetryPromptCarriesPreviousOutcome(t *testing.T) {
	builder, err := prompt.NewBuilder(domain.LocaleEnglish)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	h := newHarness(t)
	h.service.Builder = builder
	h.service.Gate = security.NewGate()
	h.invoker.replies = []string{"lss", "ls"}
	h.executor.results = []domain.ExecutionResult{
		{Succeeded: false, Output: "lss: not found", ExitCode: 127},
		{Succeeded: true, Output: "a.txt"},
	}
	h.confirmer.answers = []bool{true, true, true}

	if _, err := h.service.Run(context.Background(), domain.RunRequest{Task: "list files"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(h.invoker.users) != 2 {
		t.Fatalf("expected 2 prompts, got %d", len(h.invoker.users))
	}
	if strings.Contains(h.invoker.users[0], "lss") {
		t.Fatalf("first prompt must not carry history: %q", h.invoker.users[0])
	}
	for _, want := range []string{"lss", "lss: not found"} {
		if !strings.Contains(h.invoker.users[1], want) {
			t.Fatalf("retry prompt missing %q: %q", want, h.invoker.users[1])
		}
	}
}

func TestRunMissingDependencies(t *testing.T) {
	svc := &Service{}
	if _, err := svc.Run(context.Background(), domain.RunRequest{Task: "x"}); err == nil {
		t.Fatal("expected dependency error")
	}
}

type harness struct {
	service   *Service
	builder   *recordingBuilder
	invoker   *scriptedInvoker
	executor  *scriptedExecutor
	confirmer *scriptedConfirmer
	reporter  *recordingReporter
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		builder:   &recordingBuilder{},
		invoker:   &scriptedInvoker{},
		executor:  &scriptedExecutor{},
		confirmer: &scriptedConfirmer{},
		reporter:  &recordingReporter{},
	}
	h.service = &Service{
		Config:      domain.Config{BaseURL: "http://backend", APIKey: "k", Model: "m"},
		Environment: staticEnvironment{},
		Builder:     h.builder,
		Invoker:     h.invoker,
		Gate:        security.NewGate(),
		Executor:    h.executor,
		Confirmer:   h.confirmer,
		Reporter:    h.reporter,
		Logger:      logger.Wrap(zap.NewNop()),
		Messages:    prompt.Messages(domain.LocaleEnglish),
	}
	return h
}

type staticEnvironment struct{}

func (staticEnvironment) Snapshot() domain.EnvironmentSnapshot {
	return domain.EnvironmentSnapshot{OS: "Linux", Shell: "/bin/sh", Terminal: "xterm", User: "dev", WorkingDir: "/tmp"}
}

type recordingBuilder struct {
	previous []*domain.ExecutionAttempt
}

func (b *recordingBuilder) Build(task string, previous *domain.ExecutionAttempt, _ domain.EnvironmentSnapshot) (domain.Prompt, error) {
	if previous != nil {
		copied := *previous
		previous = &copied
	}
	b.previous = append(b.previous, previous)
	return domain.Prompt{System: "system", User: task}, nil
}

type scriptedInvoker struct {
	replies []string
	users   []string
	calls   int
	err     error
}

func (i *scriptedInvoker) Invoke(_ context.Context, _ domain.Config, _, user string) (string, error) {
	i.calls++
	i.users = append(i.users, user)
	if i.err != nil {
		return "", i.err
	}
	if len(i.replies) == 0 {
		return "", &domain.BackendError{Op: "script", Err: errors.New("no scripted reply")}
	}
	reply := i.replies[0]
	i.replies = i.replies[1:]
	return reply, nil
}

type scriptedExecutor struct {
	results  []domain.ExecutionResult
	commands []string
	err      error
	onRun    func()
}

func (e *scriptedExecutor) Execute(_ context.Context, command string) (domain.ExecutionResult, error) {
	if e.onRun != nil {
		e.onRun()
	}
	if e.err != nil {
		return domain.ExecutionResult{}, e.err
	}
	e.commands = append(e.commands, command)
	if len(e.results) == 0 {
		return domain.ExecutionResult{Succeeded: true}, nil
	}
	result := e.results[0]
	e.results = e.results[1:]
	return result, nil
}

type question struct {
	question   string
	defaultYes bool
}

type scriptedConfirmer struct {
	answers   []bool
	questions []question
	onAsk     func()
}

func (c *scriptedConfirmer) Confirm(q string, defaultYes bool) (bool, error) {
	c.questions = append(c.questions, question{question: q, defaultYes: defaultYes})
	if c.onAsk != nil {
		c.onAsk()
	}
	if len(c.answers) == 0 {
		return defaultYes, nil
	}
	answer := c.answers[0]
	c.answers = c.answers[1:]
	return answer, nil
}

type recordingReporter struct {
	started    int
	stopped    int
	prompts    []domain.Prompt
	commands   []string
	dangerous  string
	verbose    bool
	maxReached int
	notices    []string
}

func (r *recordingReporter) Thinking(int) func() {
	r.started++
	return func() { r.stopped++ }
}

func (r *recordingReporter) Prompts(p domain.Prompt) { r.prompts = append(r.prompts, p) }
func (r *recordingReporter) Command(command string) { r.commands = append(r.commands, command) }
func (r *recordingReporter) Dangerous(command string) { r.dangerous = command }
func (r *recordingReporter) Executing(string) {}
func (r *recordingReporter) MaxAttemptsReached(n int) { r.maxReached = n }
func (r *recordingReporter) Notice(message string) { r.notices = append(r.notices, message) }
func (r *recordingReporter) Result(_ domain.ExecutionResult, verbose bool) {
	r.verbose = verbose
}
