package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/vihara/internal/models"
)

// AuditEntry describes one administrative or system action to record.
type AuditEntry struct {
	Actor       string
	ActionType  string
	EntityType  string
	EntityID    *uuid.UUID
	EntityName  string
	Description string
	Details     any
	Status      string
}

// AuditService appends to the activity log. Logging must never break
// the action being logged, so failures are printed and swallowed.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record writes one activity log row. c may be nil for actions that
// happen outside a request (webhooks processed asynchronously, cron).
func (s *AuditService) Record(c *fiber.Ctx, entry AuditEntry) {
	row := models.ActivityLog{
		Timestamp:   time.Now(),
		Actor:       entry.Actor,
		ActionType:  entry.ActionType,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		EntityName:  entry.EntityName,
		Description: entry.Description,
		Status:      entry.Status,
	}
	if row.Actor == "" {
		row.Actor = "system"
	}
	if row.Status == "" {
		row.Status = models.LogStatusSuccess
	}
	if c != nil {
		row.IPAddress = c.IP()
		row.UserAgent = c.Get("User-Agent")
	}
	if entry.Details != nil {
		if data, err := json.Marshal(entry.Details); err == nil {
			row.Details = data
		}
	}

	if err := s.db.Create(&row).Error; err != nil {
		log.Printf("[Audit] failed to record %s %s: %v", entry.ActionType, entry.EntityType, err)
	}
}

// ClearOldEntries deletes activity log rows older than the retention
// window and returns how many were removed.
func (s *AuditService) ClearOldEntries(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	res := s.db.Where("timestamp < ?", cutoff).Delete(&models.ActivityLog{})
	return res.RowsAffected, res.Error
}
