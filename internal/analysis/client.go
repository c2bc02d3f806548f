package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/metrics"
	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/telemetry"
)

const defaultTimeout = 30 * time.Second

// Client calls the ChessMate analysis backend. Every operation issues
// exactly one outbound request; there are no retries and no shared state
// between calls, so a Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs an analysis client for the given backend base URL.
// The client keeps a cookie jar so backend session cookies survive across
// the start/poll/fetch sequence.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid backend base URL %q", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &Client{
		baseURL: trimmed,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}, nil
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type cookieHeaderKey struct{}

// WithCookieHeader returns a context carrying a raw Cookie header to forward
// upstream, so browser credentials pass through proxied requests.
func WithCookieHeader(ctx context.Context, raw string) context.Context {
	return context.WithValue(ctx, cookieHeaderKey{}, raw)
}

// CookieHeaderFromContext returns the Cookie header to forward, if any.
func CookieHeaderFromContext(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(cookieHeaderKey{}).(string)
	return raw, ok
}

type requestIDKey struct{}

// WithRequestID returns a context carrying a correlation ID stamped on the
// outbound request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the correlation ID to propagate, if any.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}

// AnalyzeGame asks the backend to start analysis of the identified game.
// On success the task identifier for polling is returned with status
// "started".
func (c *Client) AnalyzeGame(ctx context.Context, gameID string) (StartResult, error) {
	if strings.TrimSpace(gameID) == "" {
		return StartResult{}, errors.New("gameID is required")
	}

	endpoint := fmt.Sprintf("%s/api/game/%s/analyze/", c.baseURL, url.PathEscape(gameID))
	body, err := c.do(ctx, http.MethodPost, endpoint, fallbackAnalyze)
	if err != nil {
		c.logFailure("analysis.start.failed", err, map[string]any{"game_id": gameID})
		return StartResult{}, err
	}

	var parsed struct {
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || strings.TrimSpace(parsed.TaskID) == "" {
		c.logFailure("analysis.start.failed", ErrInvalidResponse, map[string]any{"game_id": gameID})
		return StartResult{}, ErrInvalidResponse
	}

	metrics.IncAnalysisStarted()
	telemetry.Info("analysis.started", map[string]any{
		"game_id": gameID,
		"task_id": parsed.TaskID,
	})
	return StartResult{Status: StatusStarted, TaskID: parsed.TaskID}, nil
}

// CheckStatus returns the backend's current status triple for a task. The
// triple is passed through raw; callers interpret the status vocabulary.
func (c *Client) CheckStatus(ctx context.Context, taskID string) (StatusResult, error) {
	if strings.TrimSpace(taskID) == "" {
		return StatusResult{}, errors.New("taskID is required")
	}

	metrics.IncStatusPolled()
	endpoint := fmt.Sprintf("%s/api/game/analysis/status/%s/", c.baseURL, url.PathEscape(taskID))
	body, err := c.do(ctx, http.MethodGet, endpoint, fallbackStatus)
	if err != nil {
		c.logFailure("analysis.status.failed", err, map[string]any{"task_id": taskID})
		return StatusResult{}, err
	}

	var parsed StatusResult
	if err := json.Unmarshal(body, &parsed); err != nil || strings.TrimSpace(parsed.Status) == "" {
		c.logFailure("analysis.status.failed", ErrInvalidResponse, map[string]any{"task_id": taskID})
		return StatusResult{}, ErrInvalidResponse
	}
	return parsed, nil
}

// FetchAnalysis returns the completed analysis payload for a game, unwrapped
// from the backend envelope. The payload is opaque to this client.
func (c *Client) FetchAnalysis(ctx context.Context, gameID string) (json.RawMessage, error) {
	if strings.TrimSpace(gameID) == "" {
		return nil, errors.New("gameID is required")
	}

	endpoint := fmt.Sprintf("%s/api/game/%s/analysis/", c.baseURL, url.PathEscape(gameID))
	body, err := c.do(ctx, http.MethodGet, endpoint, fallbackFetch)
	if err != nil {
		c.logFailure("analysis.fetch.failed", err, map[string]any{"game_id": gameID})
		return nil, err
	}

	var parsed struct {
		AnalysisData json.RawMessage `json:"analysis_data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || !hasPayload(parsed.AnalysisData) {
		c.logFailure("analysis.fetch.failed", ErrInvalidResponse, map[string]any{"game_id": gameID})
		return nil, ErrInvalidResponse
	}

	metrics.IncAnalysisFetched()
	return parsed.AnalysisData, nil
}

// do issues one request and normalizes failures into UpstreamError values
// whose messages are display-ready.
func (c *Client) do(ctx context.Context, method, endpoint, fallback string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id, ok := RequestIDFromContext(ctx); ok && id != "" {
		req.Header.Set("X-Request-Id", id)
	} else {
		req.Header.Set("X-Request-Id", uuid.NewString())
	}
	if raw, ok := CookieHeaderFromContext(ctx); ok && raw != "" {
		req.Header.Set("Cookie", raw)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ObserveUpstreamDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncUpstreamFailure()
		return nil, &UpstreamError{Op: method + " " + endpoint, Message: firstNonEmpty(err.Error(), fallback)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.IncUpstreamFailure()
		return nil, &UpstreamError{Op: method + " " + endpoint, StatusCode: resp.StatusCode, Message: firstNonEmpty(err.Error(), fallback)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.IncUpstreamFailure()
		return nil, &UpstreamError{
			Op:         method + " " + endpoint,
			StatusCode: resp.StatusCode,
			Message:    firstNonEmpty(serverErrorMessage(body), fmt.Sprintf("request failed with status code %d", resp.StatusCode), fallback),
		}
	}
	return body, nil
}

// serverErrorMessage extracts the backend's structured error message, if the
// failure body carries one.
func serverErrorMessage(body []byte) string {
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return strings.TrimSpace(parsed.Error)
}

func (c *Client) logFailure(msg string, err error, fields map[string]any) {
	entry := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		entry[k] = v
	}
	entry["error"] = err.Error()
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		if upstream.Op != "" {
			entry["upstream_call"] = upstream.Op
		}
		if upstream.StatusCode != 0 {
			entry["upstream_status"] = upstream.StatusCode
		}
	}
	telemetry.Error(msg, entry)
}

// hasPayload reports whether raw JSON holds a usable value. Empty, null,
// zero and false payloads count as missing.
func hasPayload(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	switch trimmed {
	case "", "null", `""`, "0", "false":
		return false
	default:
		return true
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
