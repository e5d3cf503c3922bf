package api

import (
	"errors"
	"net/http"
	"time"

	"whatsapp-notify/internal/dispatch"
	"whatsapp-notify/internal/events"
	"whatsapp-notify/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type EventHandler struct {
	Client   *dispatch.Client
	Resolver *events.Resolver
	DB       *gorm.DB
}

func NewEventHandler(client *dispatch.Client, resolver *events.Resolver, db *gorm.DB) *EventHandler {
	return &EventHandler{Client: client, Resolver: resolver, DB: db}
}

type SendEventRequest struct {
	EventKey      string                 `json:"eventKey"`
	Phone         string                 `json:"phone"`
	Payload       map[string]interface{} `json:"payload"`
	PartnerID     string                 `json:"partnerId"`
	WalletID      string                 `json:"walletId"`
	TransactionID string                 `json:"transactionId"`
}

// SendEvent resolves a business event to its template, builds the argument
// list from the payload, and dispatches.
func (h *EventHandler) SendEvent(c *gin.Context) {
	var req SendEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid JSON body: " + err.Error()})
		return
	}

	if req.EventKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "eventKey is required"})
		return
	}

	resolved, err := h.Resolver.Resolve(req.EventKey)
	if err != nil {
		h.respondResolveError(c, err)
		return
	}

	if req.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "phone is required"})
		return
	}

	args, err := events.Build(resolved, req.Payload)
	if err != nil {
		h.respondBuildError(c, req.EventKey, err)
		return
	}

	result, err := h.Client.Send(c.Request.Context(), dispatch.SendRequest{
		TemplateID:   resolved.Template.ID,
		Phone:        req.Phone,
		Args:         args,
		ArgsProvided: true,
	})
	if err != nil {
		respondValidationError(c, err)
		return
	}

	logDelivery(h.DB, models.DeliveryLog{
		TemplateID:    resolved.Template.ID,
		EventKey:      req.EventKey,
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
			"templateId": resolved.Template.ID,
			"eventKey":   req.EventKey,
			"phone":      req.Phone,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Event notification sent",
		"eventKey":     req.EventKey,
		"templateId":   resolved.Template.ID,
		"templateName": resolved.Template.Name,
		"phone":        req.Phone,
		"messageId":    result.MessageID,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}

type PreviewEventRequest struct {
	EventKey string                 `json:"eventKey"`
	Payload  map[string]interface{} `json:"payload"`
}

// PreviewEvent renders the message body an event would produce, without
// dispatching anything.
func (h *EventHandler) PreviewEvent(c *gin.Context) {
	var req PreviewEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid JSON body: " + err.Error()})
		return
	}

	if req.EventKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "eventKey is required"})
		return
	}

	resolved, err := h.Resolver.Resolve(req.EventKey)
	if err != nil {
		h.respondResolveError(c, err)
		return
	}

	preview, err := events.BuildPreview(resolved, req.Payload)
	if err != nil {
		h.respondBuildError(c, req.EventKey, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"eventKey":   req.EventKey,
		"templateId": resolved.Template.ID,
		"preview":    preview,
	})
}

func (h *EventHandler) respondResolveError(c *gin.Context, err error) {
	var invalidKey *events.InvalidEventKeyError
	if errors.As(err, &invalidKey) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":        false,
			"error":          invalidKey.Error(),
			"validEventKeys": invalidKey.Valid,
		})
		return
	}

	var unknownTpl *events.UnknownTemplateError
	if errors.As(err, &unknownTpl) {
		// Static tables out of sync: an operator problem, not caller input.
		logrus.WithError(err).Error("Event mapping references unknown template")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Event mapping configuration error",
			"details": unknownTpl.Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
}

func (h *EventHandler) respondBuildError(c *gin.Context, eventKey string, err error) {
	var missing *events.MissingArgumentError
	if errors.As(err, &missing) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":  false,
			"error":    missing.Error(),
			"eventKey": eventKey,
		})
		return
	}

	var invariant *events.InvariantError
	if errors.As(err, &invariant) {
		logrus.WithError(err).WithField("eventKey", eventKey).Error("Argument builder invariant violation")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal argument building error",
			"details": invariant.Error(),
		})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "eventKey": eventKey})
}
