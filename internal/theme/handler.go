package theme

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/server/respond"
)

// Handler serves the design-system tables to the web client.
type Handler struct{}

// NewHandler constructs a Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes attaches theme routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/themes/classes", h.getClasses)
}

func (h *Handler) getClasses(c *gin.Context) {
	mode := c.DefaultQuery("mode", "light")
	switch mode {
	case "dark":
		respond.OK(c, ClassesForMode(true))
	case "light":
		respond.OK(c, ClassesForMode(false))
	default:
		respond.Error(c, http.StatusBadRequest, "validation_error", "mode must be light or dark", nil)
	}
}
