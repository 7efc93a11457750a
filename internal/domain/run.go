// Package domain defines the core entities and value objects of aish.
//
// The domain layer is independent of infrastructure concerns: it holds the run
// request and report, execution attempts, configuration and the typed errors the
// loop surfaces to the CLI.
package domain

// RunRequest captures user intent originating from the CLI.
type RunRequest struct {
	Task    string
	DryRun  bool
	Verbose bool
	Debug   bool
}

// Outcome names the terminal state a run finished in.
type Outcome string

const (
	OutcomeGoalAchieved Outcome = "goal_achieved"
	OutcomeDeclined     Outcome = "declined"
	OutcomeDryRun       Outcome = "dry_run"
	OutcomeDangerous    Outcome = "dangerous"
	OutcomeMaxAttempts  Outcome = "max_attempts"
)

// RunReport is the canonical result propagated back to the CLI.
type RunReport struct {
	RunID     string
	Outcome   Outcome
	Syntheses int
	Command   string
	Last      *ExecutionAttempt
}
