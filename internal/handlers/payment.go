package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/vihara/internal/config"
	"github.com/example/vihara/internal/middleware"
	"github.com/example/vihara/internal/models"
	"github.com/example/vihara/internal/services"
	"github.com/example/vihara/internal/utils"
)

// PaymentHandler exposes the payment transaction surface: the gateway
// webhook, manual syncs, listing, and the admin status override.
type PaymentHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	payments *services.PaymentService
	audit    *services.AuditService
}

func NewPaymentHandler(db *gorm.DB, cfg *config.Config, payments *services.PaymentService, audit *services.AuditService) *PaymentHandler {
	return &PaymentHandler{db: db, cfg: cfg, payments: payments, audit: audit}
}

// ClientConfig returns the publishable gateway settings the payment
// page needs to load Snap.
func (h *PaymentHandler) ClientConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"client_key": h.cfg.MidtransClientKey,
		"production": h.cfg.MidtransProduction,
	}})
}

// Webhook receives Midtrans payment notifications. It always answers
// 200: a non-2xx would make the gateway redeliver a notification we
// can never process, and reconciliation is idempotent anyway.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	var status services.StatusResult
	if err := c.BodyParser(&status); err != nil || status.OrderID == "" {
		log.Printf("[Payment] malformed webhook payload ignored: %v", err)
		return c.JSON(fiber.Map{"success": true})
	}

	if err := h.payments.HandleWebhook(&status); err != nil {
		log.Printf("[Payment] webhook processing failed for %s: %v", status.OrderID, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// SyncOne pulls the gateway status for a single transaction.
func (h *PaymentHandler) SyncOne(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	trx, err := h.payments.SyncStatus(c.Context(), id)
	if err != nil {
		return paymentError(err)
	}
	return c.JSON(fiber.Map{"success": true, "data": trx})
}

// SyncAll sweeps every pending transaction through a gateway query.
func (h *PaymentHandler) SyncAll(c *fiber.Ctx) error {
	outcomes, err := h.payments.SyncAllPending(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": outcomes})
}

// List returns paginated transactions, filterable by kind and status.
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.PaymentTransaction{})
	if kind := c.Query("kind"); kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var trxs []models.PaymentTransaction
	if err := query.Limit(pg.Limit).Offset(pg.Offset).Order("created_at desc").
		Find(&trxs).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": trxs, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
	}})
}

// Get returns a single transaction by id.
func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var trx models.PaymentTransaction
	if err := h.db.First(&trx, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "transaction not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": trx})
}

// OverrideStatus lets an admin force a terminal status. The change
// goes through the same guarded reconciliation path as a webhook.
func (h *PaymentHandler) OverrideStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	actor := middleware.ActorName(c)
	trx, err := h.payments.OverrideStatus(id, req.Status, actor)
	if err != nil {
		if err == services.ErrNotFound {
			return fiber.NewError(fiber.StatusNotFound, "transaction not found")
		}
		if req.Status != models.TxStatusSucceeded && req.Status != models.TxStatusFailed {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}

	h.audit.Record(c, services.AuditEntry{
		Actor:       actor,
		ActionType:  models.ActionUpdate,
		EntityType:  "payment_transaction",
		EntityID:    &trx.ID,
		EntityName:  trx.EntityName,
		Description: fmt.Sprintf("Status override to %s for %s", req.Status, trx.GatewayOrderID),
	})

	return c.JSON(fiber.Map{"success": true, "data": trx})
}
