// Package loop drives the synthesize, gate, execute and evaluate cycle for one task.
package loop

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/doeshing/aish/internal/application/prompt"
	"github.com/doeshing/aish/internal/application/sanitize"
	"github.com/doeshing/aish/internal/domain"
	"github.com/doeshing/aish/internal/ports"
)

// MaxAttempts bounds the number of syntheses per run.
const MaxAttempts = domain.MaxAttempts

// Service orchestrates a run end-to-end. Config is loaded once by the caller
// and treated as read-only.
type Service struct {
	Config      domain.Config
	Environment ports.EnvironmentCollector
	Builder     ports.PromptBuilder
	Invoker     ports.Invoker
	Gate        ports.SafetyGate
	Executor    ports.CommandExecutor
	Confirmer   ports.Confirmer
	Reporter    ports.Reporter
	Logger      ports.Logger
	Messages    prompt.MessageSet
}

type matcher interface {
	Match(command string) (string, bool)
}

// Run processes a single task until the goal is confirmed, the operator stops
// the run, the gate refuses a command, or MaxAttempts is exhausted. Those endings
// are reported through RunReport.Outcome; only configuration, backend and spawn
// failures, and cancellation of ctx, are returned as errors.
func (s *Service) Run(ctx context.Context, req domain.RunRequest) (domain.RunReport, error) {
	if s.Environment == nil || s.Builder == nil || s.Invoker == nil || s.Gate == nil ||
		s.Executor == nil || s.Confirmer == nil || s.Reporter == nil || s.Logger == nil {
		return domain.RunReport{}, errors.New("loop.Service dependencies not satisfied")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	report := domain.RunReport{RunID: uuid.NewString()}
	s.Logger.Info("run started", map[string]interface{}{
		"run_id":  report.RunID,
		"task":    req.Task,
		"dry_run": req.DryRun,
	})

	var previous *domain.ExecutionAttempt
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Syntheses++
		command, err := s.synthesize(ctx, report.RunID, req, attempt, previous)
		if err != nil {
			return report, err
		}
		report.Command = command
		s.Reporter.Command(command)

		if s.Gate.IsDangerous(command) {
			s.logRefusal(report.RunID, command)
			s.Reporter.Dangerous(command)
			return s.finish(report, domain.OutcomeDangerous), nil
		}

		if req.DryRun {
			s.Reporter.Notice(s.Messages.DryRun)
			return s.finish(report, domain.OutcomeDryRun), nil
		}

		if err := ctx.Err(); err != nil {
			return report, err
		}
		execute, err := s.Confirmer.Confirm(s.Messages.ConfirmExecute, false)
		if err != nil {
			return report, fmt.Errorf("confirm execution: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if !execute {
			s.Reporter.Notice(s.Messages.Declined)
			return s.finish(report, domain.OutcomeDeclined), nil
		}

		s.Reporter.Executing(command)
		result, err := s.Executor.Execute(ctx, command)
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.Logger.Warn("run interrupted", map[string]interface{}{
				"run_id":  report.RunID,
				"attempt": attempt,
			})
			return report, ctxErr
		}
		if err != nil {
			s.Logger.Error("command could not be started", err, map[string]interface{}{
				"run_id":  report.RunID,
				"attempt": attempt,
			})
			return report, err
		}
		s.Logger.Info("command finished", map[string]interface{}{
			"run_id":    report.RunID,
			"attempt":   attempt,
			"succeeded": result.Succeeded,
			"exit_code": result.ExitCode,
			"duration":  result.Duration.String(),
		})
		s.Reporter.Result(result, req.Verbose)

		current := domain.NewExecutionAttempt(attempt, command, result)
		report.Last = &current

		if current.Succeeded {
			achieved, err := s.Confirmer.Confirm(s.Messages.ConfirmGoal, true)
			if err != nil {
				return report, fmt.Errorf("confirm goal: %w", err)
			}
			if achieved {
				return s.finish(report, domain.OutcomeGoalAchieved), nil
			}
		}
		previous = &current
	}

	s.Reporter.MaxAttemptsReached(MaxAttempts)
	return s.finish(report, domain.OutcomeMaxAttempts), nil
}

func (s *Service) synthesize(
	ctx context.Context,
	runID string,
	req domain.RunRequest,
	attempt int,
	previous *domain.ExecutionAttempt,
) (string, error) {
	snapshot := s.Environment.Snapshot()
	composed, err := s.Builder.Build(req.Task, previous, snapshot)
	if err != nil {
		return "", fmt.Errorf("build prompt: %w", err)
	}
	if req.Debug {
		s.Reporter.Prompts(composed)
	}

	s.Logger.Debug("requesting command", map[string]interface{}{
		"run_id":  runID,
		"attempt": attempt,
		"retry":   previous != nil,
	})

	stop := s.Reporter.Thinking(attempt)
	raw, err := s.Invoker.Invoke(ctx, s.Config, composed.System, composed.User)
	stop()
	if err != nil {
		s.Logger.Error("backend call failed", err, map[string]interface{}{
			"run_id":  runID,
			"attempt": attempt,
		})
		return "", err
	}
	return sanitize.Clean(raw), nil
}

func (s *Service) logRefusal(runID, command string) {
	fields := map[string]interface{}{
		"run_id":  runID,
		"command": command,
	}
	if m, ok := s.Gate.(matcher); ok {
		if entry, matched := m.Match(command); matched {
			fields["pattern"] = entry
		}
	}
	s.Logger.Warn("command refused by denylist", fields)
}

func (s *Service) finish(report domain.RunReport, outcome domain.Outcome) domain.RunReport {
	report.Outcome = outcome
	s.Logger.Info("run finished", map[string]interface{}{
		"run_id":    report.RunID,
		"outcome":   string(outcome),
		"syntheses": report.Syntheses,
	})
	return report
}
