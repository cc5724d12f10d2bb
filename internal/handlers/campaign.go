package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/vihara/internal/models"
	"github.com/example/vihara/internal/services"
)

// CampaignHandler manages donation campaigns and their payments.
type CampaignHandler struct {
	crudBase
	payments *services.PaymentService
}

func NewCampaignHandler(db *gorm.DB, audit *services.AuditService, payments *services.PaymentService) *CampaignHandler {
	return &CampaignHandler{crudBase: crudBase{db: db, audit: audit}, payments: payments}
}

func (h *CampaignHandler) List(c *fiber.Ctx) error {
	var campaigns []models.DonationCampaign
	return h.listSimple(c, &campaigns)
}

func (h *CampaignHandler) Get(c *fiber.Ctx) error {
	var campaign models.DonationCampaign
	return h.getSimple(c, &campaign)
}

func (h *CampaignHandler) Create(c *fiber.Ctx) error {
	var campaign models.DonationCampaign
	return h.createSimple(c, &campaign, "donation_campaign")
}

func (h *CampaignHandler) Update(c *fiber.Ctx) error {
	var campaign models.DonationCampaign
	return h.updateSimple(c, &campaign, "donation_campaign")
}

func (h *CampaignHandler) Delete(c *fiber.Ctx) error {
	var campaign models.DonationCampaign
	return h.deleteSimple(c, &campaign, "donation_campaign")
}

// Pay opens a gateway payment page for a donation to this campaign.
func (h *CampaignHandler) Pay(c *fiber.Ctx) error {
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

	result, err := h.payments.InitiateDonation(c.Context(), id, req)
	if err != nil {
		return paymentError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": result})
}

// paymentError translates payment taxonomy errors to HTTP statuses.
func paymentError(err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "resource not found")
	case errors.Is(err, services.ErrNotAvailable):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrGateway):
		return fiber.NewError(fiber.StatusBadGateway, "payment gateway unavailable, please try again")
	default:
		return err
	}
}
