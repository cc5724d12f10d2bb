package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/vihara/internal/models"
	"github.com/example/vihara/internal/services"
	"github.com/example/vihara/internal/utils"
)

// EventHandler manages temple events.
type EventHandler struct {
	crudBase
}

func NewEventHandler(db *gorm.DB, audit *services.AuditService) *EventHandler {
	return &EventHandler{crudBase{db: db, audit: audit}}
}

// List returns paginated events, optionally filtered by status.
func (h *EventHandler) List(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Event{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var events []models.Event
	if err := query.Limit(pg.Limit).Offset(pg.Offset).Order("start_date asc").
		Find(&events).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": events, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
	}})
}

func (h *EventHandler) Get(c *fiber.Ctx) error {
	var event models.Event
	return h.getSimple(c, &event)
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	var event models.Event
	return h.createSimple(c, &event, "event")
}

func (h *EventHandler) Update(c *fiber.Ctx) error {
	var event models.Event
	return h.updateSimple(c, &event, "event")
}

func (h *EventHandler) Delete(c *fiber.Ctx) error {
	var event models.Event
	return h.deleteSimple(c, &event, "event")
}
