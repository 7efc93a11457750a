package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"time"

	"github.com/doeshing/aish/internal/domain"
	"github.com/doeshing/aish/internal/ports"
)

// waitDelay bounds how long Execute waits for grandchildren holding the output
// pipes after the interpreter was killed.
const waitDelay = time.Second

// LocalExecutor runs commands on the host shell.
type LocalExecutor struct {
	interpreter string
	flag        string
}

// NewLocalExecutor builds an executor for the platform the binary runs on.
func NewLocalExecutor() *LocalExecutor {
	return NewLocalExecutorFor(runtime.GOOS)
}

// NewLocalExecutorFor selects the interpreter for goos once, at construction:
// cmd /C on Windows, sh -c everywhere else.
func NewLocalExecutorFor(goos string) *LocalExecutor {
	if goos == "windows" {
		return &LocalExecutor{interpreter: "cmd", flag: "/C"}
	}
	return &LocalExecutor{interpreter: "sh", flag: "-c"}
}

// Interpreter returns the shell binary and the flag preceding the command text.
func (e *LocalExecutor) Interpreter() (string, string) {
	return e.interpreter, e.flag
}

// Execute implements ports.CommandExecutor. A cancelled context is returned as
// ctx.Err(), never as a result or a SpawnError.
func (e *LocalExecutor) Execute(ctx context.Context, command string) (domain.ExecutionResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ExecutionResult{}, err
	}
	c := exec.CommandContext(ctx, e.interpreter, e.flag, command)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	c.WaitDelay = waitDelay

	start := time.Now()
	err := c.Run()
	duration := time.Since(start)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.ExecutionResult{}, ctxErr
	}
	if err == nil {
		return domain.ExecutionResult{
			Succeeded: true,
			Output:    stdout.String(),
			Duration:  duration,
		}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return domain.ExecutionResult{
			Succeeded: false,
			Output:    stderr.String(),
			ExitCode:  exitErr.ExitCode(),
			Duration:  duration,
		}, nil
	}
	return domain.ExecutionResult{}, &domain.SpawnError{Command: command, Err: err}
}

var _ ports.CommandExecutor = (*LocalExecutor)(nil)
