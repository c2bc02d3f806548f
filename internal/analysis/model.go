package analysis

import (
	"encoding/json"
	"strings"
)

// Task statuses reported by the analysis backend. The backend owns this
// vocabulary; the client passes unknown values through untouched.
const (
	StatusStarted    = "started"
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// StartResult is returned when the backend accepts an analysis request.
type StartResult struct {
	Status string `json:"status"`
	TaskID string `json:"task_id"`
}

// StatusResult mirrors the backend's status triple for an analysis task.
// Result stays opaque; the payload belongs to the backend.
type StatusResult struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// IsTerminal reports whether a task status will no longer change. The
// backend has emitted both "complete" and "completed" for finished tasks.
func IsTerminal(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusCompleted, "complete", StatusFailed:
		return true
	default:
		return false
	}
}
