package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/telemetry"
)

func TestMain(m *testing.M) {
	restore := telemetry.SetSink(io.Discard)
	code := m.Run()
	restore()
	os.Exit(code)
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	upstream := httptest.NewServer(handler)
	t.Cleanup(upstream.Close)

	client, err := NewClient(upstream.URL, 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, upstream
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
	}{
		{name: "empty", baseURL: ""},
		{name: "spaces", baseURL: "   "},
		{name: "no scheme", baseURL: "localhost:8000"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(tt.baseURL, 0); err == nil {
				t.Fatalf("expected error for base URL %q", tt.baseURL)
			}
		})
	}
}

func TestAnalyzeGameReturnsTaskID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/game/g1/analyze/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"task_id":"abc123"}`)
	})

	client, _ := newTestClient(t, mux)

	res, err := client.AnalyzeGame(context.Background(), "g1")
	if err != nil {
		t.Fatalf("analyze game: %v", err)
	}
	if res.Status != StatusStarted {
		t.Fatalf("expected status started, got %q", res.Status)
	}
	if res.TaskID != "abc123" {
		t.Fatalf("expected task_id abc123, got %q", res.TaskID)
	}
}

func TestAnalyzeGameMissingTaskID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/game/g1/analyze/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})

	client, _ := newTestClient(t, mux)

	_, err := client.AnalyzeGame(context.Background(), "g1")
	if !errors.Is(err, ErrInvalidResponse) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
	if err.Error() != "Invalid response format" {
		t.Fatalf("expected exact message, got %q", err.Error())
	}
}

func TestAnalyzeGameRequiresGameID(t *testing.T) {
	client, _ := newTestClient(t, http.NewServeMux())

	if _, err := client.AnalyzeGame(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for blank game id")
	}
}

func TestCheckStatusPassthrough(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/game/analysis/status/t9/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		io.WriteString(w, `{"status":"completed","result":{"score":42}}`)
	})

	client, _ := newTestClient(t, mux)

	res, err := client.CheckStatus(context.Background(), "t9")
	if err != nil {
		t.Fatalf("check status: %v", err)
	}
	if res.Status != StatusCompleted {
		t.Fatalf("expected status completed, got %q", res.Status)
	}

	var result map[string]any
	if err := json.Unmarshal(res.Result, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if result["score"] != float64(42) {
		t.Fatalf("expected score 42 in result, got %v", result["score"])
	}
}

func TestCheckStatusMissingStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/game/analysis/status/t9/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"result":{}}`)
	})

	client, _ := newTestClient(t, mux)

	if _, err := client.CheckStatus(context.Background(), "t9"); !errors.Is(err, ErrInvalidResponse) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestFetchAnalysisUnwrapsPayload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/game/g7/analysis/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"analysis_data":{"moves":[]}}`)
	})

	client, _ := newTestClient(t, mux)

	payload, err := client.FetchAnalysis(context.Background(), "g7")
	if err != nil {
		t.Fatalf("fetch analysis: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	want := map[string]any{"moves": []any{}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected unwrapped payload %v, got %v", want, got)
	}
}

func TestFetchAnalysisNullPayload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/game/g7/analysis/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"analysis_data":null}`)
	})

	client, _ := newTestClient(t, mux)

	if _, err := client.FetchAnalysis(context.Background(), "g7"); !errors.Is(err, ErrInvalidResponse) {
		t.Fatalf("expected ErrInvalidResponse for null payload, got %v", err)
	}
}

func TestServerErrorMessagePassesThroughVerbatim(t *testing.T) {
	mux := http.NewServeMux()
	fail := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"server exploded"}`)
	}
	mux.HandleFunc("/api/game/g1/analyze/", fail)
	mux.HandleFunc("/api/game/analysis/status/t1/", fail)
	mux.HandleFunc("/api/game/g1/analysis/", fail)

	client, _ := newTestClient(t, mux)
	ctx := context.Background()

	calls := []struct {
		name string
		call func() error
	}{
		{name: "analyze", call: func() error { _, err := client.AnalyzeGame(ctx, "g1"); return err }},
		{name: "status", call: func() error { _, err := client.CheckStatus(ctx, "t1"); return err }},
		{name: "fetch", call: func() error { _, err := client.FetchAnalysis(ctx, "g1"); return err }},
	}

	for _, tt := range calls {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if err == nil {
				t.Fatalf("expected error")
			}
			if err.Error() != "server exploded" {
				t.Fatalf("expected exact server message, got %q", err.Error())
			}
			var upstream *UpstreamError
			if !errors.As(err, &upstream) {
				t.Fatalf("expected UpstreamError, got %T", err)
			}
			if upstream.StatusCode != http.StatusInternalServerError {
				t.Fatalf("expected status 500, got %d", upstream.StatusCode)
			}
		})
	}
}

func TestServerErrorWithoutMessageUsesStatusText(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/game/analysis/status/t1/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, "upstream busy")
	})

	client, _ := newTestClient(t, mux)

	_, err := client.CheckStatus(context.Background(), "t1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if err.Error() != "request failed with status code 503" {
		t.Fatalf("expected status-code message, got %q", err.Error())
	}
}

func TestFailureLogIncludesUpstreamCall(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/game/g1/analyze/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"server exploded"}`)
	})

	client, _ := newTestClient(t, mux)

	var buf bytes.Buffer
	restore := telemetry.SetSink(&buf)
	defer restore()

	if _, err := client.AnalyzeGame(context.Background(), "g1"); err == nil {
		t.Fatalf("expected error")
	}

	var logged map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var payload map[string]any
		if err := json.Unmarshal([]byte(line), &payload); err != nil {
			continue
		}
		if payload["msg"] == "analysis.start.failed" {
			logged = payload
			break
		}
	}
	if logged == nil {
		t.Fatalf("expected failure log entry, got %q", buf.String())
	}

	call, _ := logged["upstream_call"].(string)
	if !strings.HasPrefix(call, "POST ") || !strings.Contains(call, "/api/game/g1/analyze/") {
		t.Fatalf("expected outbound call in log, got %q", call)
	}
	if logged["upstream_status"] != float64(http.StatusInternalServerError) {
		t.Fatalf("expected upstream status 500, got %v", logged["upstream_status"])
	}
}

func TestTransportErrorSurfaces(t *testing.T) {
	upstream := httptest.NewServer(http.NewServeMux())
	url := upstream.URL
	upstream.Close()

	client, err := NewClient(url, 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.AnalyzeGame(context.Background(), "g1")
	if err == nil {
		t.Fatalf("expected transport error")
	}
	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected UpstreamError, got %T", err)
	}
	if strings.TrimSpace(upstreamErr.Message) == "" {
		t.Fatalf("expected non-empty transport message")
	}
	if upstreamErr.StatusCode != 0 {
		t.Fatalf("expected no HTTP status on transport failure, got %d", upstreamErr.StatusCode)
	}
}

func TestCookieAndRequestIDForwarding(t *testing.T) {
	var gotCookie, gotRequestID string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/game/analysis/status/t1/", func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		gotRequestID = r.Header.Get("X-Request-Id")
		io.WriteString(w, `{"status":"pending"}`)
	})

	client, _ := newTestClient(t, mux)

	ctx := WithCookieHeader(context.Background(), "sessionid=xyz")
	ctx = WithRequestID(ctx, "req-42")
	if _, err := client.CheckStatus(ctx, "t1"); err != nil {
		t.Fatalf("check status: %v", err)
	}

	if gotCookie != "sessionid=xyz" {
		t.Fatalf("expected forwarded cookie, got %q", gotCookie)
	}
	if gotRequestID != "req-42" {
		t.Fatalf("expected forwarded request id, got %q", gotRequestID)
	}
}

func TestOutboundRequestIDGeneratedWhenAbsent(t *testing.T) {
	var gotRequestID string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/game/analysis/status/t1/", func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-Id")
		io.WriteString(w, `{"status":"pending"}`)
	})

	client, _ := newTestClient(t, mux)

	if _, err := client.CheckStatus(context.Background(), "t1"); err != nil {
		t.Fatalf("check status: %v", err)
	}
	if gotRequestID == "" {
		t.Fatalf("expected generated request id header")
	}
}
