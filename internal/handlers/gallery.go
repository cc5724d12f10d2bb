package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/vihara/internal/models"
	"github.com/example/vihara/internal/services"
	"github.com/example/vihara/internal/utils"
)

// GalleryHandler manages gallery items and their categories.
type GalleryHandler struct {
	crudBase
}

func NewGalleryHandler(db *gorm.DB, audit *services.AuditService) *GalleryHandler {
	return &GalleryHandler{crudBase{db: db, audit: audit}}
}

// ListItems returns paginated gallery items, filterable by category.
func (h *GalleryHandler) ListItems(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.GalleryItem{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var items []models.GalleryItem
	if err := query.Limit(pg.Limit).Offset(pg.Offset).Order("uploaded_at desc").
		Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": items, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
	}})
}

func (h *GalleryHandler) GetItem(c *fiber.Ctx) error {
	var item models.GalleryItem
	return h.getSimple(c, &item)
}

func (h *GalleryHandler) CreateItem(c *fiber.Ctx) error {
	var item models.GalleryItem
	return h.createSimple(c, &item, "gallery_item")
}

func (h *GalleryHandler) UpdateItem(c *fiber.Ctx) error {
	var item models.GalleryItem
	return h.updateSimple(c, &item, "gallery_item")
}

func (h *GalleryHandler) DeleteItem(c *fiber.Ctx) error {
	var item models.GalleryItem
	return h.deleteSimple(c, &item, "gallery_item")
}

func (h *GalleryHandler) ListCategories(c *fiber.Ctx) error {
	var categories []models.GalleryCategory
	return h.listSimple(c, &categories)
}

func (h *GalleryHandler) CreateCategory(c *fiber.Ctx) error {
	var category models.GalleryCategory
	return h.createSimple(c, &category, "gallery_category")
}

func (h *GalleryHandler) UpdateCategory(c *fiber.Ctx) error {
	var category models.GalleryCategory
	return h.updateSimple(c, &category, "gallery_category")
}

func (h *GalleryHandler) DeleteCategory(c *fiber.Ctx) error {
	var category models.GalleryCategory
	return h.deleteSimple(c, &category, "gallery_category")
}
