package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/vihara/internal/models"
	"github.com/example/vihara/internal/services"
	"github.com/example/vihara/internal/utils"
)

// MerchandiseHandler manages merchandise items and their purchases.
type MerchandiseHandler struct {
	crudBase
	payments *services.PaymentService
}

func NewMerchandiseHandler(db *gorm.DB, audit *services.AuditService, payments *services.PaymentService) *MerchandiseHandler {
	return &MerchandiseHandler{crudBase: crudBase{db: db, audit: audit}, payments: payments}
}

// List returns paginated items, filterable by category and status.
func (h *MerchandiseHandler) List(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.MerchandiseItem{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var items []models.MerchandiseItem
	if err := query.Limit(pg.Limit).Offset(pg.Offset).Order("created_at desc").
		Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": items, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
	}})
}

func (h *MerchandiseHandler) Get(c *fiber.Ctx) error {
	var item models.MerchandiseItem
	return h.getSimple(c, &item)
}

func (h *MerchandiseHandler) Create(c *fiber.Ctx) error {
	var item models.MerchandiseItem
	return h.createSimple(c, &item, "merchandise_item")
}

func (h *MerchandiseHandler) Update(c *fiber.Ctx) error {
	var item models.MerchandiseItem
	return h.updateSimple(c, &item, "merchandise_item")
}

func (h *MerchandiseHandler) Delete(c *fiber.Ctx) error {
	var item models.MerchandiseItem
	return h.deleteSimple(c, &item, "merchandise_item")
}

// Pay opens a gateway payment page for a merchandise purchase.
func (h *MerchandiseHandler) Pay(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req services.InitiateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.BuyerName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "buyer_name is required")
	}

	result, err := h.payments.InitiateMerchandisePurchase(c.Context(), id, req)
	if err != nil {
		return paymentError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": result})
}
