package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/config"
	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/telemetry"
)

func testConfig(backendURL string) config.Config {
	return config.Config{
		Port:            "8080",
		Env:             "dev",
		APIBaseURL:      backendURL,
		PublicHost:      "localhost",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		APITimeout:      5 * time.Second,
		PollInterval:    2 * time.Second,
		PollMaxAttempts: 150,
	}
}

func TestNewRouterRejectsBadBackendURL(t *testing.T) {
	restore := telemetry.SetSink(io.Discard)
	defer restore()

	if _, err := NewRouter(testConfig("not a url")); err == nil {
		t.Fatalf("expected error for invalid backend URL")
	}
}

func TestRouterServesCoreEndpoints(t *testing.T) {
	restore := telemetry.SetSink(io.Discard)
	defer restore()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/game/g1/analyze/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"task_id":"abc123"}`)
	})
	backend := httptest.NewServer(mux)
	defer backend.Close()

	r, err := NewRouter(testConfig(backend.URL))
	if err != nil {
		t.Fatalf("new router: %v", err)
	}

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal health: %v", err)
		}
		if body["ok"] != true {
			t.Fatalf("expected ok true, got %v", body)
		}
	})

	t.Run("config", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/config", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal config: %v", err)
		}
		if body["pollIntervalMs"] != float64(2000) {
			t.Fatalf("expected poll interval 2000, got %v", body["pollIntervalMs"])
		}
	})

	t.Run("themes", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/themes/classes?mode=dark", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("analyze proxies to backend", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/games/g1/analyze", nil))
		if w.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "analysis_started_total") {
			t.Fatalf("expected analysis counters in metrics output")
		}
	})

	t.Run("request id echoed", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.Header.Set("X-Request-Id", "req-9")
		r.ServeHTTP(w, req)
		if got := w.Header().Get("X-Request-Id"); got != "req-9" {
			t.Fatalf("expected request id echoed, got %q", got)
		}
	})
}

func TestAddrNormalizesPort(t *testing.T) {
	tests := []struct {
		port string
		want string
	}{
		{port: "", want: ":8080"},
		{port: "9090", want: ":9090"},
		{port: ":3000", want: ":3000"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.port, func(t *testing.T) {
			if got := Addr(tt.port); got != tt.want {
				t.Fatalf("Addr(%q) = %q, want %q", tt.port, got, tt.want)
			}
		})
	}
}
