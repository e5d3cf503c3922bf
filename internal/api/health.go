package api

import (
	"fmt"
	"net/http"

	"whatsapp-notify/internal/health"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type HealthHandler struct {
	Aggregator *health.Aggregator
}

func NewHealthHandler(aggregator *health.Aggregator) *HealthHandler {
	return &HealthHandler{Aggregator: aggregator}
}

// Check reports template approval stats and, with ?test=true, probes the
// gateway. The endpoint must never fail with an unhandled error; anything
// unexpected becomes a 500 envelope.
func (h *HealthHandler) Check(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("panic", r).Error("Health check panicked")
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"error":   "Health check failed",
				"details": fmt.Sprintf("%v", r),
			})
		}
	}()

	testConnection := c.Query("test") == "true"
	report := h.Aggregator.Check(c.Request.Context(), testConnection)

	c.JSON(http.StatusOK, report)
}
