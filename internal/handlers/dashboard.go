package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rrzkmlnaa/whatsapp-api-1/internal/dashboard"
	"github.com/rrzkmlnaa/whatsapp-api-1/internal/metrics"
	"github.com/rs/zerolog/log"
)

type DashboardComputer interface {
	Compute(ctx context.Context) (*dashboard.Summary, error)
}

type DashboardHandler struct {
	engine DashboardComputer
}

func NewDashboardHandler(engine DashboardComputer) *DashboardHandler {
	return &DashboardHandler{engine: engine}
}

// GetDashboard recomputes the full summary for "today" in server local time.
// Errors surface as a generic 500; the cause goes to the log only.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	requestID := c.GetString("request_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	summary, err := h.engine.Compute(ctx)
	if err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("Dashboard aggregation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "dashboard_failed",
			"message":    "failed to compute dashboard",
			"request_id": requestID,
		})
		return
	}

	metrics.DashboardComputations.Inc()

	c.JSON(http.StatusOK, summary)
}
