package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-client/internal/service"
)

type sessionChecker interface {
	Authenticated(ctx context.Context) bool
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	session sessionChecker
}

// NewMetricsHandler constructs a metrics handler. session may be nil.
func NewMetricsHandler(metrics *service.MetricsService, session sessionChecker) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, session: session}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health reports liveness plus whether a session token is cached, so a UI
// shell can pick its start screen without a second call.
func (h *MetricsHandler) Health(c *gin.Context) {
	authenticated := h.session != nil && h.session.Authenticated(c.Request.Context())
	snapshot := h.metrics.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"authenticated": authenticated,
		"joins":         snapshot.Joins,
		"goroutines":    snapshot.Goroutines,
	})
}
