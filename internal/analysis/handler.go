package analysis

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/server/middleware"
	"github.com/ahmed5145/chessmate-prod-sub002/internal/shared/server/respond"
)

// Handler exposes the analysis operations to the browser, forwarding
// credentials and correlation IDs to the backend.
type Handler struct {
	Client  *Client
	limiter *pollLimiter
}

// NewHandler constructs a Handler. pollInterval is the cadence advertised to
// the web client. The per-task poll window sits at 90% of it; a client
// polling on schedule stays under the limit despite timer jitter.
func NewHandler(client *Client, pollInterval time.Duration) *Handler {
	return &Handler{
		Client:  client,
		limiter: newPollLimiter(pollInterval*9/10, nil),
	}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/games/:id/analyze", h.startAnalysis)
	rg.GET("/analysis/status/:taskId", h.checkStatus)
	rg.GET("/games/:id/analysis", h.getAnalysis)
}

func (h *Handler) startAnalysis(c *gin.Context) {
	gameID := c.Param("id")
	if gameID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "game id is required", nil)
		return
	}

	res, err := h.Client.AnalyzeGame(upstreamContext(c), gameID)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	respond.Accepted(c, res)
}

func (h *Handler) checkStatus(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "task id is required", nil)
		return
	}

	if !h.limiter.Allow(c.ClientIP(), taskID) {
		c.Header("Retry-After", strconv.Itoa(h.limiter.RetryAfterSeconds()))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "status polled too frequently", nil)
		return
	}

	res, err := h.Client.CheckStatus(upstreamContext(c), taskID)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	respond.OK(c, res)
}

func (h *Handler) getAnalysis(c *gin.Context) {
	gameID := c.Param("id")
	if gameID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "game id is required", nil)
		return
	}

	payload, err := h.Client.FetchAnalysis(upstreamContext(c), gameID)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	respond.OK(c, gin.H{"analysis_data": payload})
}

// upstreamContext carries the browser's cookies and the request ID through
// to the backend call.
func upstreamContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if raw := c.GetHeader("Cookie"); raw != "" {
		ctx = WithCookieHeader(ctx, raw)
	}
	if id := middleware.RequestIDFromContext(c); id != "" {
		ctx = WithRequestID(ctx, id)
	}
	return ctx
}

func respondUpstreamError(c *gin.Context, err error) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}

	var upstream *UpstreamError
	switch {
	case errors.Is(err, ErrInvalidResponse):
		respond.Error(c, http.StatusBadGateway, "invalid_upstream_response", err.Error(), nil)
	case errors.As(err, &upstream):
		status := http.StatusBadGateway
		if upstream.StatusCode == http.StatusNotFound {
			status = http.StatusNotFound
		}
		respond.Error(c, status, "upstream_error", upstream.Message, nil)
	default:
		respond.Error(c, http.StatusBadGateway, "upstream_error", err.Error(), nil)
	}
}
