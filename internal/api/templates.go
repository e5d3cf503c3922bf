package api

import (
	"net/http"
	"time"

	"whatsapp-notify/internal/dispatch"
	"whatsapp-notify/internal/models"
	"whatsapp-notify/internal/templates"
	"whatsapp-notify/pkg/retry"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type TemplateHandler struct {
	Client   *dispatch.Client
	Registry *templates.Registry
	DB       *gorm.DB
}

func NewTemplateHandler(client *dispatch.Client, registry *templates.Registry, db *gorm.DB) *TemplateHandler {
	return &TemplateHandler{Client: client, Registry: registry, DB: db}
}

type SendTemplateRequest struct {
	TemplateID    string    `json:"templateId"`
	Phone         string    `json:"phone"`
	TemplateArgs  *[]string `json:"templateArgs"`
	PartnerID     string    `json:"partnerId"`
	WalletID      string    `json:"walletId"`
	TransactionID string    `json:"transactionId"`
}

// SendTemplate handles direct sends by template id.
func (h *TemplateHandler) SendTemplate(c *gin.Context) {
	var req SendTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid JSON body: " + err.Error()})
		return
	}

	if req.TemplateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "templateId is required"})
		return
	}
	if req.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "phone is required"})
		return
	}
	if req.TemplateArgs == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "templateArgs is required and must be an array"})
		return
	}

	sendReq := dispatch.SendRequest{
		TemplateID:   req.TemplateID,
		Phone:        req.Phone,
		Args:         *req.TemplateArgs,
		ArgsProvided: true,
	}

	result, err := h.Client.Send(c.Request.Context(), sendReq)
	if err != nil {
		respondValidationError(c, err)
		return
	}

	def, _ := h.Registry.Lookup(req.TemplateID)
	logDelivery(h.DB, models.DeliveryLog{
		TemplateID:    req.TemplateID,
		Phone:         req.Phone,
		PartnerID:     req.PartnerID,
		WalletID:      req.WalletID,
		TransactionID: req.TransactionID,
	}, result)

	if !result.Success {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":    false,
			"error":      "Failed to send WhatsApp template message",
			"details":    result.Error,
			"templateId": req.TemplateID,
			"phone":      req.Phone,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Template message sent",
		"templateId":   req.TemplateID,
		"templateName": def.Name,
		"phone":        req.Phone,
		"messageId":    result.MessageID,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}

// ListTemplates returns the full registry for client-side discovery.
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"templates": h.Registry.List(),
		"usage":     "POST /templates/send with {templateId, phone, templateArgs}",
	})
}

// SyncTemplates fetches approval statuses from the gateway and upserts one
// approval row per registered template.
func (h *TemplateHandler) SyncTemplates(c *gin.Context) {
	if !h.Client.Configured() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "WHATSAPP_API_KEY not configured"})
		return
	}

	var statuses map[string]string
	err := retry.Do(c.Request.Context(), retry.DefaultConfig(), func() error {
		var fetchErr error
		statuses, fetchErr = h.Client.FetchTemplateStatuses(c.Request.Context())
		return fetchErr
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch template statuses from gateway",
			"details": err.Error(),
		})
		return
	}

	now := time.Now().UTC()
	synced := 0
	for _, id := range h.Registry.IDs() {
		status, ok := statuses[id]
		if !ok {
			status = models.ApprovalPending
		}

		record := models.TemplateApproval{
			TemplateID:   id,
			Status:       status,
			IsActive:     status == models.ApprovalApproved,
			LastSyncedAt: &now,
		}
		if err := h.DB.Save(&record).Error; err != nil {
			logrus.WithError(err).WithField("templateId", id).Error("Failed to save template approval")
			continue
		}
		synced++
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "synced": synced, "timestamp": now.Format(time.RFC3339)})
}
