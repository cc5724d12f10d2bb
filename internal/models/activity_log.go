package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Audit action types.
const (
	ActionCreate    = "CREATE"
	ActionUpdate    = "UPDATE"
	ActionDelete    = "DELETE"
	ActionLogin     = "LOGIN"
	ActionSendEmail = "SEND_EMAIL"
	ActionPayment   = "PAYMENT"
)

// Audit record outcomes.
const (
	LogStatusSuccess = "SUCCESS"
	LogStatusFailed  = "FAILED"
)

// ActivityLog is one audit record. Every state-changing operation
// writes exactly one row after its persistence succeeds.
type ActivityLog struct {
	BaseModel
	Timestamp   time.Time      `gorm:"index" json:"timestamp"`
	Actor       string         `gorm:"index" json:"actor"`
	ActionType  string         `gorm:"index" json:"action_type"`
	EntityType  string         `gorm:"index" json:"entity_type"`
	EntityID    *uuid.UUID     `gorm:"type:uuid" json:"entity_id"`
	EntityName  string         `json:"entity_name"`
	Description string         `json:"description"`
	Details     datatypes.JSON `json:"details"`
	IPAddress   string         `json:"ip_address"`
	UserAgent   string         `json:"user_agent"`
	Status      string         `gorm:"default:SUCCESS" json:"status"`
}
