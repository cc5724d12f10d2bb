package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/vihara/internal/middleware"
	"github.com/example/vihara/internal/models"
	"github.com/example/vihara/internal/services"
	"github.com/example/vihara/internal/utils"
)

// RegistrationHandler manages event registrations and their QR codes.
type RegistrationHandler struct {
	crudBase
	mailer *services.MailerService
}

func NewRegistrationHandler(db *gorm.DB, audit *services.AuditService, mailer *services.MailerService) *RegistrationHandler {
	return &RegistrationHandler{crudBase: crudBase{db: db, audit: audit}, mailer: mailer}
}

type registrationRequest struct {
	EventID    uuid.UUID `json:"event_id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	PersonType string    `json:"person_type"`
}

// Create registers a participant for an event and issues their QR
// code. The QR email is sent in the background.
func (h *RegistrationHandler) Create(c *fiber.Ctx) error {
	var req registrationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.EventID == uuid.Nil || req.FullName == "" || req.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "event_id, full_name and email are required")
	}

	reg, err := h.register(req)
	if err != nil {
		return err
	}

	h.audit.Record(c, services.AuditEntry{
		Actor:       reg.FullName,
		ActionType:  models.ActionCreate,
		EntityType:  "registration",
		EntityID:    &reg.ID,
		EntityName:  reg.FullName,
		Description: fmt.Sprintf("Registered for %s", reg.EventName),
	})
	go h.emailQR(reg.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": reg})
}

// BulkCreate registers several participants for one event in a single
// call. Per-participant failures are reported without aborting the
// rest.
func (h *RegistrationHandler) BulkCreate(c *fiber.Ctx) error {
	var req struct {
		EventID      uuid.UUID `json:"event_id"`
		Participants []struct {
			FullName   string `json:"full_name"`
			Email      string `json:"email"`
			Phone      string `json:"phone"`
			PersonType string `json:"person_type"`
		} `json:"participants"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.EventID == uuid.Nil || len(req.Participants) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "event_id and participants are required")
	}

	type outcome struct {
		Email      string `json:"email"`
		Registered bool   `json:"registered"`
		Error      string `json:"error,omitempty"`
	}
	outcomes := make([]outcome, 0, len(req.Participants))
	for _, p := range req.Participants {
		reg, err := h.register(registrationRequest{
			EventID:    req.EventID,
			FullName:   p.FullName,
			Email:      p.Email,
			Phone:      p.Phone,
			PersonType: p.PersonType,
		})
		if err != nil {
			outcomes = append(outcomes, outcome{Email: p.Email, Error: err.Error()})
			continue
		}
		outcomes = append(outcomes, outcome{Email: p.Email, Registered: true})
		go h.emailQR(reg.ID)
	}

	h.audit.Record(c, services.AuditEntry{
		Actor:       middleware.ActorName(c),
		ActionType:  models.ActionCreate,
		EntityType:  "registration",
		Description: fmt.Sprintf("Bulk registered %d participants", len(req.Participants)),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": outcomes})
}

func (h *RegistrationHandler) register(req registrationRequest) (*models.Registration, error) {
	var event models.Event
	if err := h.db.First(&event, "id = ?", req.EventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "event not found")
		}
		return nil, err
	}
	if event.Status == models.EventStatusFinished {
		return nil, fiber.NewError(fiber.StatusBadRequest, "event has finished")
	}

	var count int64
	if err := h.db.Model(&models.Registration{}).
		Where("event_id = ? AND email = ?", event.ID, req.Email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fiber.NewError(fiber.StatusConflict, "email already registered for this event")
	}

	if event.Capacity > 0 {
		var registered int64
		if err := h.db.Model(&models.Registration{}).
			Where("event_id = ?", event.ID).Count(&registered).Error; err != nil {
			return nil, err
		}
		if registered >= int64(event.Capacity) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "event is full")
		}
	}

	token, err := utils.NewQRToken()
	if err != nil {
		return nil, err
	}
	image, err := utils.QRDataURL(token)
	if err != nil {
		return nil, err
	}

	personType := req.PersonType
	if personType == "" {
		personType = "external"
	}
	reg := &models.Registration{
		EventID:      event.ID,
		EventName:    event.Name,
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		PersonType:   personType,
		QRToken:      token,
		QRImage:      image,
		RegisteredAt: time.Now(),
	}
	if err := h.db.Create(reg).Error; err != nil {
		return nil, err
	}
	return reg, nil
}

// List returns paginated registrations, optionally for one event.
func (h *RegistrationHandler) List(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Registration{})
	if eventID := c.Query("event_id"); eventID != "" {
		id, err := uuid.Parse(eventID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid event_id")
		}
		query = query.Where("event_id = ?", id)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var regs []models.Registration
	if err := query.Limit(pg.Limit).Offset(pg.Offset).Order("registered_at desc").
		Find(&regs).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": regs, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
	}})
}

func (h *RegistrationHandler) Get(c *fiber.Ctx) error {
	var reg models.Registration
	return h.getSimple(c, &reg)
}

func (h *RegistrationHandler) Delete(c *fiber.Ctx) error {
	var reg models.Registration
	return h.deleteSimple(c, &reg, "registration")
}

// BulkDelete removes several registrations by id.
func (h *RegistrationHandler) BulkDelete(c *fiber.Ctx) error {
	var req struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.IDs) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "ids are required")
	}

	res := h.db.Delete(&models.Registration{}, "id IN ?", req.IDs)
	if res.Error != nil {
		return res.Error
	}

	h.audit.Record(c, services.AuditEntry{
		Actor:       middleware.ActorName(c),
		ActionType:  models.ActionDelete,
		EntityType:  "registration",
		Description: fmt.Sprintf("Bulk deleted %d registrations", res.RowsAffected),
	})

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"deleted": res.RowsAffected}})
}

// SendQR re-sends the QR email for one registration.
func (h *RegistrationHandler) SendQR(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var reg models.Registration
	if err := h.db.First(&reg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "registration not found")
		}
		return err
	}

	if err := h.sendQREmail(&reg); err != nil {
		return err
	}

	h.audit.Record(c, services.AuditEntry{
		Actor:       middleware.ActorName(c),
		ActionType:  models.ActionSendEmail,
		EntityType:  "registration",
		EntityID:    &reg.ID,
		EntityName:  reg.FullName,
		Description: fmt.Sprintf("QR email sent to %s", reg.Email),
	})

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"sent": true}})
}

// BulkSendQR re-sends the QR email to every registration of an event.
func (h *RegistrationHandler) BulkSendQR(c *fiber.Ctx) error {
	var req struct {
		EventID uuid.UUID `json:"event_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.EventID == uuid.Nil {
		return fiber.NewError(fiber.StatusBadRequest, "event_id is required")
	}

	var regs []models.Registration
	if err := h.db.Where("event_id = ?", req.EventID).Find(&regs).Error; err != nil {
		return err
	}

	sent := 0
	for i := range regs {
		if err := h.sendQREmail(&regs[i]); err != nil {
			log.Printf("[Registration] QR email failed for %s: %v", regs[i].Email, err)
			continue
		}
		sent++
	}

	h.audit.Record(c, services.AuditEntry{
		Actor:       middleware.ActorName(c),
		ActionType:  models.ActionSendEmail,
		EntityType:  "registration",
		Description: fmt.Sprintf("Bulk QR email: %d of %d sent", sent, len(regs)),
	})

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"sent": sent, "total": len(regs)}})
}

// CheckStatus reports whether an email is registered for an event.
// Public endpoint used by the registration form.
func (h *RegistrationHandler) CheckStatus(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Query("event_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid event_id")
	}
	email := c.Query("email")
	if email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}

	var reg models.Registration
	err = h.db.First(&reg, "event_id = ? AND email = ?", eventID, email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"registered": false}})
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"registered":    true,
		"registered_at": reg.RegisteredAt,
	}})
}

func (h *RegistrationHandler) sendQREmail(reg *models.Registration) error {
	png, err := utils.EncodeQRPNG(reg.QRToken)
	if err != nil {
		return err
	}
	return h.mailer.SendRegistrationQR(reg, png)
}

func (h *RegistrationHandler) emailQR(regID uuid.UUID) {
	var reg models.Registration
	if err := h.db.First(&reg, "id = ?", regID).Error; err != nil {
		log.Printf("[Registration] QR email load failed for %s: %v", regID, err)
		return
	}
	if err := h.sendQREmail(&reg); err != nil {
		log.Printf("[Registration] QR email failed for %s: %v", reg.Email, err)
	}
}
