package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// Outcome classifies a finished execution.
type Outcome string

const (
	OutcomeSucceeded   Outcome = "succeeded"
	OutcomeFailed      Outcome = "failed"
	OutcomeInterrupted Outcome = "interrupted"
)

// Report is handed to an Observer once the command function returns.
type Report struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Err       error
	Outcome   Outcome
	Logger    interfaces.Logger
}

// Observer sees every report, successful or not.
type Observer[T command.Message] func(ctx context.Context, msg T, report Report)

// LogObserver writes one entry per report at info or error level.
func LogObserver[T command.Message](logger interfaces.Logger) Observer[T] {
	logger = logging.Or(logger)
	return func(_ context.Context, _ T, report Report) {
		entry := logging.WithFields(logger, report.Fields)
		args := []any{"outcome", string(report.Outcome), "duration_ms", report.Duration.Milliseconds()}
		if report.Outcome == OutcomeSucceeded {
			entry.Info("command.execute.done", args...)
			return
		}
		entry.Error("command.execute.done", append(args, "error", report.Err)...)
	}
}
