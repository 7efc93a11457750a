package domain

import "time"

// ExecutionResult wraps details from the command executor.
// Output holds stdout when the command succeeded and stderr otherwise.
type ExecutionResult struct {
	Succeeded bool
	Output    string
	ExitCode  int
	Duration  time.Duration
}

// ExecutionAttempt records one executed command. Values are never mutated after creation.
type ExecutionAttempt struct {
	Command   string
	Output    string
	Succeeded bool
	Number    int
}

// NewExecutionAttempt builds the attempt record for an executed command.
func NewExecutionAttempt(number int, command string, result ExecutionResult) ExecutionAttempt {
	return ExecutionAttempt{
		Command:   command,
		Output:    result.Output,
		Succeeded: result.Succeeded,
		Number:    number,
	}
}

// Prompt is the composed pair of messages sent to the completion backend.
type Prompt struct {
	System string
	User   string
}
