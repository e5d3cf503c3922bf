package models

import (
	"time"
)

// TemplateApproval tracks the gateway-side review state of a registered
// template. Rows are written by the sync endpoint and read by the health
// aggregator; the send path never touches them.
type TemplateApproval struct {
	TemplateID   string     `gorm:"primaryKey" json:"template_id"`
	Status       string     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	LastSyncedAt *time.Time `json:"last_synced_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TemplateApproval) TableName() string {
	return "template_approvals"
}

// Approval statuses as reported by the gateway.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// DeliveryLog records one dispatch attempt, successful or not.
type DeliveryLog struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	TemplateID    string    `gorm:"index;type:varchar(100)" json:"template_id"`
	EventKey      string    `gorm:"type:varchar(100)" json:"event_key,omitempty"`
	Phone         string    `gorm:"type:varchar(20)" json:"phone"`
	Status        string    `gorm:"type:varchar(20)" json:"status"`
	MessageID     string    `gorm:"type:varchar(100)" json:"message_id,omitempty"`
	ErrorMessage  string    `gorm:"type:text" json:"error_message,omitempty"`
	PartnerID     string    `gorm:"type:varchar(100)" json:"partner_id,omitempty"`
	WalletID      string    `gorm:"type:varchar(100)" json:"wallet_id,omitempty"`
	TransactionID string    `gorm:"type:varchar(100)" json:"transaction_id,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DeliveryLog) TableName() string {
	return "delivery_logs"
}

const (
	DeliverySent   = "sent"
	DeliveryFailed = "failed"
)
