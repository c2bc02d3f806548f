package monitoring

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/config"
	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/telemetry"
)

// defaultDSN is the project's ingestion endpoint. SENTRY_DSN overrides it,
// which staging uses to report into a separate Sentry project.
const defaultDSN = "https://1d53726f839a4c2f9f675a0b2e5c3a71@o4507113412345856.ingest.us.sentry.io/4507113498796032"

// flushTimeout bounds how long shutdown waits for buffered events.
const flushTimeout = 2 * time.Second

// ignoreErrors lists message patterns of client and network noise that should
// never page anyone. Entries are regular expressions.
var ignoreErrors = []string{
	"context canceled",
	"connection reset by peer",
	"broken pipe",
	"ResizeObserver loop limit exceeded",
	"ResizeObserver loop completed with undelivered notifications",
	"Loading chunk [0-9]+ failed",
	"Failed to fetch dynamically imported module",
	"NetworkError when attempting to fetch resource",
	"Load failed",
	"chrome-extension://",
	"moz-extension://",
}

// Init configures the Sentry SDK once at startup. Errors are sampled at the
// configured rates, localhost runs are suppressed entirely, and transactions
// for hosts outside the service's own origins are dropped.
func Init(cfg config.Config) error {
	dsn := cfg.SentryDSN
	if dsn == "" {
		dsn = defaultDSN
		if cfg.Env == "production" {
			telemetry.Warn("monitoring.default_dsn", map[string]any{
				"detail": "SENTRY_DSN not set, reporting to the built-in project",
			})
		}
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:                   dsn,
		Environment:           cfg.SentryEnvironment,
		SampleRate:            cfg.ErrorSampleRate,
		EnableTracing:         true,
		TracesSampleRate:      cfg.TracesSampleRate,
		SendDefaultPII:        false,
		IgnoreErrors:          ignoreErrors,
		BeforeSend:            beforeSend(cfg),
		BeforeSendTransaction: beforeSendTransaction(cfg),
	}); err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}

	telemetry.Info("monitoring.initialized", map[string]any{
		"environment":        cfg.SentryEnvironment,
		"traces_sample_rate": cfg.TracesSampleRate,
		"error_sample_rate":  cfg.ErrorSampleRate,
	})
	return nil
}

// Flush drains buffered events before shutdown.
func Flush() {
	sentry.Flush(flushTimeout)
}

// beforeSend suppresses everything from localhost runs and stamps the
// environment tag on everything else.
func beforeSend(cfg config.Config) func(*sentry.Event, *sentry.EventHint) *sentry.Event {
	suppressed := isLocalHost(cfg.PublicHost)
	env := cfg.SentryEnvironment
	return func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
		if suppressed {
			return nil
		}
		if event.Tags == nil {
			event.Tags = make(map[string]string, 1)
		}
		event.Tags["environment"] = env
		return event
	}
}

// beforeSendTransaction applies the beforeSend rules and additionally drops
// transactions whose request URL points at a foreign host.
func beforeSendTransaction(cfg config.Config) func(*sentry.Event, *sentry.EventHint) *sentry.Event {
	send := beforeSend(cfg)
	allowed := allowedHosts(cfg)
	return func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
		event = send(event, hint)
		if event == nil {
			return nil
		}
		if host := requestHost(event); host != "" {
			if _, ok := allowed[host]; !ok {
				return nil
			}
		}
		return event
	}
}

// allowedHosts is the service's public host plus the analysis backend host.
func allowedHosts(cfg config.Config) map[string]struct{} {
	allowed := make(map[string]struct{}, 2)
	if host := hostname(cfg.PublicHost); host != "" {
		allowed[host] = struct{}{}
	}
	if parsed, err := url.Parse(cfg.APIBaseURL); err == nil && parsed.Hostname() != "" {
		allowed[strings.ToLower(parsed.Hostname())] = struct{}{}
	}
	return allowed
}

func requestHost(event *sentry.Event) string {
	if event.Request == nil || event.Request.URL == "" {
		return ""
	}
	parsed, err := url.Parse(event.Request.URL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

func isLocalHost(raw string) bool {
	switch hostname(raw) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}

// hostname lowercases and strips an optional port.
func hostname(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if host, _, err := net.SplitHostPort(trimmed); err == nil {
		return host
	}
	return trimmed
}
