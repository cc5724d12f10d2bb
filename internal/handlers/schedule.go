package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/vihara/internal/models"
	"github.com/example/vihara/internal/services"
	"github.com/example/vihara/internal/utils"
)

// ScheduleHandler manages the agenda and its categories.
type ScheduleHandler struct {
	crudBase
}

func NewScheduleHandler(db *gorm.DB, audit *services.AuditService) *ScheduleHandler {
	return &ScheduleHandler{crudBase{db: db, audit: audit}}
}

// List returns paginated schedules, filterable by category and month.
func (h *ScheduleHandler) List(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Schedule{})

	if categoryID := c.Query("category_id"); categoryID != "" {
		id, err := uuid.Parse(categoryID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid category_id")
		}
		query = query.Where("category_id = ?", id)
	}
	if month := c.Query("month"); month != "" {
		start, err := time.Parse("2006-01", month)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "month must be YYYY-MM")
		}
		query = query.Where("date >= ? AND date < ?", start, start.AddDate(0, 1, 0))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var schedules []models.Schedule
	if err := query.Preload("Category").Limit(pg.Limit).Offset(pg.Offset).
		Order("date asc").Find(&schedules).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": schedules, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
	}})
}

func (h *ScheduleHandler) Get(c *fiber.Ctx) error {
	var schedule models.Schedule
	return h.getSimple(c, &schedule)
}

func (h *ScheduleHandler) Create(c *fiber.Ctx) error {
	var schedule models.Schedule
	return h.createSimple(c, &schedule, "schedule")
}

func (h *ScheduleHandler) Update(c *fiber.Ctx) error {
	var schedule models.Schedule
	return h.updateSimple(c, &schedule, "schedule")
}

func (h *ScheduleHandler) Delete(c *fiber.Ctx) error {
	var schedule models.Schedule
	return h.deleteSimple(c, &schedule, "schedule")
}

func (h *ScheduleHandler) ListCategories(c *fiber.Ctx) error {
	var categories []models.ScheduleCategory
	return h.listSimple(c, &categories)
}

func (h *ScheduleHandler) CreateCategory(c *fiber.Ctx) error {
	var category models.ScheduleCategory
	return h.createSimple(c, &category, "schedule_category")
}

func (h *ScheduleHandler) UpdateCategory(c *fiber.Ctx) error {
	var category models.ScheduleCategory
	return h.updateSimple(c, &category, "schedule_category")
}

func (h *ScheduleHandler) DeleteCategory(c *fiber.Ctx) error {
	var category models.ScheduleCategory
	return h.deleteSimple(c, &category, "schedule_category")
}
