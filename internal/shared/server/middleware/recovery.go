package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/server/respond"
	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/telemetry"
)

// Recovery recovers from panics and returns a standardized error response.
// The panic value is stringified before logging; raw values do not survive
// JSON encoding.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				telemetry.Error("panic", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      fmt.Sprintf("%v", rec),
					"route":      c.FullPath(),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
					"stack":      string(debug.Stack()),
				})
				respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
			}
		}()
		c.Next()
	}
}
