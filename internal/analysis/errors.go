package analysis

import "errors"

// ErrInvalidResponse is returned when a 2xx backend reply is missing the
// field the operation requires. The message is part of the UI contract:
// callers display it verbatim.
var ErrInvalidResponse = errors.New("Invalid response format")

// Fallback messages per operation, used when a failed request carries
// neither a server-provided error nor a transport detail.
const (
	fallbackAnalyze = "Failed to analyze game"
	fallbackStatus  = "Failed to check analysis status"
	fallbackFetch   = "Failed to fetch game analysis"
)

// UpstreamError carries a display-ready message from a failed backend call.
// Error() returns the message alone so callers can surface it directly:
// the server-provided error text when the backend sent one, otherwise the
// transport error, otherwise the operation's fallback message.
type UpstreamError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return e.Message
}
