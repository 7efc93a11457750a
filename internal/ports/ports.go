// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The loop controller depends only on these interfaces,
// so the completion backend, the shell and the terminal can each be replaced by a
// scripted fake in tests.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Invoker, CommandExecutor)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"

	"github.com/doeshing/aish/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.aish/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// EnvironmentCollector resolves the live environment details embedded in prompts.
// It is consulted once per synthesis so the snapshot reflects the moment of the call.
type EnvironmentCollector interface {
	Snapshot() domain.EnvironmentSnapshot
}

// PromptBuilder composes the system and user messages for one synthesis.
// previous is nil on the first attempt and the most recent attempt otherwise.
type PromptBuilder interface {
	Build(task string, previous *domain.ExecutionAttempt, snapshot domain.EnvironmentSnapshot) (domain.Prompt, error)
}

// Invoker sends a composed prompt to the completion backend and returns its raw text.
// Every failure is reported as *domain.BackendError and is never retried by the invoker.
type Invoker interface {
	Invoke(ctx context.Context, cfg domain.Config, system, user string) (string, error)
}

// BackendProber checks that the completion backend answers with the configured credentials.
type BackendProber interface {
	Ping(ctx context.Context, cfg domain.Config) error
}

// SafetyGate classifies commands against the fixed denylist.
type SafetyGate interface {
	IsDangerous(command string) bool
}

// CommandExecutor runs shell commands in the host shell.
// A non-zero exit is a normal result; only a failure to start returns *domain.SpawnError.
type CommandExecutor interface {
	Execute(ctx context.Context, command string) (domain.ExecutionResult, error)
}

// Confirmer asks the operator a yes/no question.
// defaultYes is the answer taken when the operator just presses Enter.
type Confirmer interface {
	Confirm(question string, defaultYes bool) (bool, error)
}

// Reporter presents loop progress to the operator.
// Thinking starts a progress indicator and returns the function that stops it.
type Reporter interface {
	Thinking(attempt int) (stop func())
	Prompts(prompt domain.Prompt)
	Command(command string)
	Dangerous(command string)
	Executing(command string)
	Result(result domain.ExecutionResult, verbose bool)
	MaxAttemptsReached(limit int)
	Notice(message string)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
