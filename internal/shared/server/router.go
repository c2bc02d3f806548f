package server

import (
	"fmt"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/ahmed5145/chessmate-prod-sub002/internal/analysis"
	"github.com/ahmed5145/chessmate-prod-sub002/internal/services/health"
	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/config"
	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/metrics"
	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/server/middleware"
	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/server/respond"
	"github.com/ahmed5145/chessmate-prod-sub002/internal/theme"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		// Repanic lets Sentry capture the panic while Recovery still
		// renders the error envelope.
		sentrygin.New(sentrygin.Options{Repanic: true}),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(rateLimits()),
	)

	client, err := analysis.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	if err != nil {
		return nil, fmt.Errorf("analysis client: %w", err)
	}
	analysisHandler := analysis.NewHandler(client, cfg.PollInterval)
	themeHandler := theme.NewHandler()
	healthSvc := health.NewService(cfg.Env, cfg.APIBaseURL)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, healthSvc.Status())
	})
	registerConfigRoutes(api, cfg)
	analysisHandler.RegisterRoutes(api)
	themeHandler.RegisterRoutes(api)

	r.GET("/metrics", metrics.Handler())

	return r, nil
}

// rateLimits guards the two endpoints that hit the analysis backend. Polls
// run on a short interval per task, so the POLLING bucket is the roomier one.
func rateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		GroupFor: func(c *gin.Context) string {
			switch c.FullPath() {
			case "/api/v1/analysis/status/:taskId":
				return "POLLING"
			case "/api/v1/games/:id/analyze":
				return "ANALYZE"
			default:
				return "DEFAULT"
			}
		},
		Rules: map[string]middleware.RateLimitRule{
			"POLLING": {Rate: 5, Burst: 10},
			"ANALYZE": {Rate: 1, Burst: 5},
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
