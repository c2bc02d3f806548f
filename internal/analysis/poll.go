package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/telemetry"
)

const (
	defaultPollInterval    = 2 * time.Second
	defaultPollMaxAttempts = 150
)

// ErrPollTimeout is returned when a task stays non-terminal past the
// attempt budget.
var ErrPollTimeout = errors.New("analysis did not complete in time")

// StatusChecker is the surface WaitForCompletion needs from the client.
type StatusChecker interface {
	CheckStatus(ctx context.Context, taskID string) (StatusResult, error)
}

var _ StatusChecker = (*Client)(nil)

// PollConfig controls WaitForCompletion. Zero values select the defaults.
type PollConfig struct {
	Interval    time.Duration
	MaxAttempts int
}

// WaitForCompletion polls the task status at a fixed interval until it turns
// terminal, the context is done, or the attempt budget runs out. Each poll is
// an independent status call; the first poll error ends the wait.
func WaitForCompletion(ctx context.Context, checker StatusChecker, taskID string, cfg PollConfig) (StatusResult, error) {
	if strings.TrimSpace(taskID) == "" {
		return StatusResult{}, errors.New("taskID is required")
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultPollMaxAttempts
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastStatus := ""
	for attempt := 1; ; attempt++ {
		res, err := checker.CheckStatus(ctx, taskID)
		if err != nil {
			return StatusResult{}, err
		}

		if res.Status != lastStatus {
			telemetry.Info("analysis.status", map[string]any{
				"task_id":           taskID,
				"status":            res.Status,
				"status_transition": lastStatus + "->" + res.Status,
				"attempt":           attempt,
			})
			lastStatus = res.Status
		}

		if IsTerminal(res.Status) {
			if strings.EqualFold(strings.TrimSpace(res.Status), StatusFailed) {
				return res, errors.New(firstNonEmpty(res.Error, "analysis failed"))
			}
			return res, nil
		}

		if attempt >= maxAttempts {
			return res, fmt.Errorf("task %s after %d polls: %w", taskID, attempt, ErrPollTimeout)
		}

		select {
		case <-ctx.Done():
			return res, ctx.Err()
		case <-ticker.C:
		}
	}
}
