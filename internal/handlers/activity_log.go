package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/vihara/internal/models"
	"github.com/example/vihara/internal/services"
	"github.com/example/vihara/internal/utils"
)

// ActivityLogHandler exposes the audit trail to administrators.
type ActivityLogHandler struct {
	db    *gorm.DB
	audit *services.AuditService
}

func NewActivityLogHandler(db *gorm.DB, audit *services.AuditService) *ActivityLogHandler {
	return &ActivityLogHandler{db: db, audit: audit}
}

// List returns paginated audit records with optional filters.
func (h *ActivityLogHandler) List(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.ActivityLog{})

	if actor := c.Query("actor"); actor != "" {
		query = query.Where("actor = ?", actor)
	}
	if action := c.Query("action_type"); action != "" {
		query = query.Where("action_type = ?", action)
	}
	if entityType := c.Query("entity_type"); entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}
	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
		}
		query = query.Where("timestamp >= ?", parsed)
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
		}
		query = query.Where("timestamp < ?", parsed.AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var logs []models.ActivityLog
	if err := query.Limit(pg.Limit).Offset(pg.Offset).Order("timestamp desc").
		Find(&logs).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": logs, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
	}})
}

// Cleanup removes records older than the requested number of days
// (default 30).
func (h *ActivityLogHandler) Cleanup(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	if days < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "days must be positive")
	}

	removed, err := h.audit.ClearOldEntries(days)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"removed": removed}})
}
