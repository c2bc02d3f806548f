package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/config"
	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/server/respond"
)

// registerConfigRoutes attaches the /config endpoint the web client reads at
// startup to learn its polling cadence and environment.
func registerConfigRoutes(rg *gin.RouterGroup, cfg config.Config) {
	rg.GET("/config", func(c *gin.Context) {
		respond.OK(c, gin.H{
			"env":             cfg.Env,
			"environment":     cfg.SentryEnvironment,
			"pollIntervalMs":  int(cfg.PollInterval / time.Millisecond),
			"pollMaxAttempts": cfg.PollMaxAttempts,
		})
	})
}
