package api

import (
	"net/http"
	"strconv"

	"whatsapp-notify/internal/dispatch"
	"whatsapp-notify/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type DeliveryHandler struct {
	DB *gorm.DB
}

func NewDeliveryHandler(db *gorm.DB) *DeliveryHandler {
	return &DeliveryHandler{DB: db}
}

// GetDeliveries returns recent delivery log entries, newest first.
func (h *DeliveryHandler) GetDeliveries(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	var logs []models.DeliveryLog
	query := h.DB.Order("created_at DESC").Limit(limit)
	if phone := c.Query("phone"); phone != "" {
		query = query.Where("phone = ?", phone)
	}
	if err := query.Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "deliveries": logs, "count": len(logs)})
}

// logDelivery records a dispatch outcome without blocking the response.
func logDelivery(db *gorm.DB, entry models.DeliveryLog, result dispatch.Result) {
	if db == nil {
		return
	}

	entry.ID = uuid.NewString()
	if result.Success {
		entry.Status = models.DeliverySent
		entry.MessageID = result.MessageID
	} else {
		entry.Status = models.DeliveryFailed
		entry.ErrorMessage = result.Error
	}

	go func() {
		if err := db.Create(&entry).Error; err != nil {
			logrus.WithError(err).Error("Failed to write delivery log")
		}
	}()
}
