package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/vihara/internal/models"
	"github.com/example/vihara/internal/services"
	"github.com/example/vihara/internal/utils"
)

// PackageHandler manages donation packages and their purchases.
type PackageHandler struct {
	crudBase
	payments *services.PaymentService
}

func NewPackageHandler(db *gorm.DB, audit *services.AuditService, payments *services.PaymentService) *PackageHandler {
	return &PackageHandler{crudBase: crudBase{db: db, audit: audit}, payments: payments}
}

// List returns paginated packages, filterable by status.
func (h *PackageHandler) List(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.DonationPackage{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var packages []models.DonationPackage
	if err := query.Limit(pg.Limit).Offset(pg.Offset).Order("created_at desc").
		Find(&packages).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": packages, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
	}})
}

func (h *PackageHandler) Get(c *fiber.Ctx) error {
	var pkg models.DonationPackage
	return h.getSimple(c, &pkg)
}

func (h *PackageHandler) Create(c *fiber.Ctx) error {
	var pkg models.DonationPackage
	return h.createSimple(c, &pkg, "donation_package")
}

func (h *PackageHandler) Update(c *fiber.Ctx) error {
	var pkg models.DonationPackage
	return h.updateSimple(c, &pkg, "donation_package")
}

func (h *PackageHandler) Delete(c *fiber.Ctx) error {
	var pkg models.DonationPackage
	return h.deleteSimple(c, &pkg, "donation_package")
}

// Pay opens a gateway payment page for a package purchase.
func (h *PackageHandler) Pay(c *fiber.Ctx) error {
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

	result, err := h.payments.InitiatePackagePurchase(c.Context(), id, req)
	if err != nil {
		return paymentError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": result})
}
