package health

import (
	"context"
	"time"

	"whatsapp-notify/internal/config"
	"whatsapp-notify/internal/dispatch"
	"whatsapp-notify/internal/models"
	"whatsapp-notify/internal/templates"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type TemplateStats struct {
	Total    int        `json:"total"`
	Approved int        `json:"approved"`
	Pending  int        `json:"pending"`
	Rejected int        `json:"rejected"`
	LastSync *time.Time `json:"lastSync"`
}

type GatewayStatus struct {
	Configured       bool   `json:"configured"`
	Endpoint         string `json:"endpoint"`
	ConnectionStatus string `json:"connectionStatus"`
	TestResponse     string `json:"testResponse,omitempty"`
}

type Report struct {
	Status            string        `json:"status"`
	Timestamp         time.Time     `json:"timestamp"`
	WhatsApp          GatewayStatus `json:"whatsapp"`
	Templates         TemplateStats `json:"templates"`
	RequiredTemplates []string      `json:"requiredTemplates"`
}

// Aggregator summarizes template approval state and, on request, probes the
// gateway. It must stay resilient: a failing data source degrades the report
// instead of failing the health endpoint.
type Aggregator struct {
	cfg      *config.Config
	db       *gorm.DB
	client   *dispatch.Client
	registry *templates.Registry
}

func NewAggregator(cfg *config.Config, db *gorm.DB, client *dispatch.Client, registry *templates.Registry) *Aggregator {
	return &Aggregator{cfg: cfg, db: db, client: client, registry: registry}
}

func (a *Aggregator) Check(ctx context.Context, testConnection bool) Report {
	report := Report{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		WhatsApp: GatewayStatus{
			Configured:       a.cfg.GatewayConfigured(),
			Endpoint:         a.cfg.GatewayEndpoint,
			ConnectionStatus: "unknown",
		},
		Templates:         a.templateStats(),
		RequiredTemplates: a.registry.IDs(),
	}

	if testConnection && a.cfg.GatewayConfigured() {
		result := a.client.Probe(ctx)
		if result.Success {
			report.WhatsApp.ConnectionStatus = "connected"
			report.WhatsApp.TestResponse = "ok"
		} else {
			report.WhatsApp.ConnectionStatus = "disconnected"
			report.WhatsApp.TestResponse = result.Error
		}
	}

	return report
}

// templateStats reads all approval records and counts by status. The table is
// one row per registered template, so scanning it beats four count queries.
func (a *Aggregator) templateStats() TemplateStats {
	var stats TemplateStats

	if a.db == nil {
		return stats
	}

	var records []models.TemplateApproval
	if err := a.db.Find(&records).Error; err != nil {
		logrus.WithError(err).Error("Failed to read template approvals for health check")
		return stats
	}

	for _, rec := range records {
		stats.Total++
		switch rec.Status {
		case models.ApprovalApproved:
			if rec.IsActive {
				stats.Approved++
			}
		case models.ApprovalRejected:
			stats.Rejected++
		default:
			stats.Pending++
		}

		if rec.LastSyncedAt != nil {
			if stats.LastSync == nil || rec.LastSyncedAt.After(*stats.LastSync) {
				t := *rec.LastSyncedAt
				stats.LastSync = &t
			}
		}
	}

	return stats
}
