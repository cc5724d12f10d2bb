package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/vihara/internal/middleware"
	"github.com/example/vihara/internal/models"
	"github.com/example/vihara/internal/services"
)

// ContentHandler manages the public content resources: announcements,
// FAQs, org chart, suggestions, and the general info card.
type ContentHandler struct {
	crudBase
}

func NewContentHandler(db *gorm.DB, audit *services.AuditService) *ContentHandler {
	return &ContentHandler{crudBase{db: db, audit: audit}}
}

// Announcements.

func (h *ContentHandler) ListAnnouncements(c *fiber.Ctx) error {
	var items []models.Announcement
	return h.listSimple(c, &items)
}

func (h *ContentHandler) GetAnnouncement(c *fiber.Ctx) error {
	var item models.Announcement
	return h.getSimple(c, &item)
}

func (h *ContentHandler) CreateAnnouncement(c *fiber.Ctx) error {
	var item models.Announcement
	return h.createSimple(c, &item, "announcement")
}

func (h *ContentHandler) UpdateAnnouncement(c *fiber.Ctx) error {
	var item models.Announcement
	return h.updateSimple(c, &item, "announcement")
}

func (h *ContentHandler) DeleteAnnouncement(c *fiber.Ctx) error {
	var item models.Announcement
	return h.deleteSimple(c, &item, "announcement")
}

// FAQs.

func (h *ContentHandler) ListFAQs(c *fiber.Ctx) error {
	var items []models.FAQ
	return h.listSimple(c, &items)
}

func (h *ContentHandler) GetFAQ(c *fiber.Ctx) error {
	var item models.FAQ
	return h.getSimple(c, &item)
}

func (h *ContentHandler) CreateFAQ(c *fiber.Ctx) error {
	var item models.FAQ
	return h.createSimple(c, &item, "faq")
}

func (h *ContentHandler) UpdateFAQ(c *fiber.Ctx) error {
	var item models.FAQ
	return h.updateSimple(c, &item, "faq")
}

func (h *ContentHandler) DeleteFAQ(c *fiber.Ctx) error {
	var item models.FAQ
	return h.deleteSimple(c, &item, "faq")
}

// Org chart.

func (h *ContentHandler) ListOrgChart(c *fiber.Ctx) error {
	var items []models.OrgChartEntry
	return h.listSimple(c, &items)
}

func (h *ContentHandler) GetOrgChartEntry(c *fiber.Ctx) error {
	var item models.OrgChartEntry
	return h.getSimple(c, &item)
}

func (h *ContentHandler) CreateOrgChartEntry(c *fiber.Ctx) error {
	var item models.OrgChartEntry
	return h.createSimple(c, &item, "org_chart_entry")
}

func (h *ContentHandler) UpdateOrgChartEntry(c *fiber.Ctx) error {
	var item models.OrgChartEntry
	return h.updateSimple(c, &item, "org_chart_entry")
}

func (h *ContentHandler) DeleteOrgChartEntry(c *fiber.Ctx) error {
	var item models.OrgChartEntry
	return h.deleteSimple(c, &item, "org_chart_entry")
}

// Suggestions. Creation is public; the status flow is admin-only.

func (h *ContentHandler) ListSuggestions(c *fiber.Ctx) error {
	var items []models.Suggestion
	return h.listSimple(c, &items)
}

func (h *ContentHandler) CreateSuggestion(c *fiber.Ctx) error {
	var item models.Suggestion
	if err := c.BodyParser(&item); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if item.Message == "" {
		return fiber.NewError(fiber.StatusBadRequest, "message is required")
	}
	item.Status = models.SuggestionStatusNew
	if err := h.db.Create(&item).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": item})
}

// UpdateSuggestionStatus moves a suggestion through new/read/responded.
func (h *ContentHandler) UpdateSuggestionStatus(c *fiber.Ctx) error {
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
	switch req.Status {
	case models.SuggestionStatusNew, models.SuggestionStatusRead, models.SuggestionStatusResponded:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "invalid status")
	}

	var item models.Suggestion
	if err := h.db.First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "suggestion not found")
		}
		return err
	}

	if err := h.db.Model(&item).Update("status", req.Status).Error; err != nil {
		return err
	}

	h.audit.Record(c, services.AuditEntry{
		Actor:       middleware.ActorName(c),
		ActionType:  models.ActionUpdate,
		EntityType:  "suggestion",
		EntityID:    &item.ID,
		EntityName:  item.Name,
		Description: fmt.Sprintf("Suggestion marked %s", req.Status),
	})

	return c.JSON(fiber.Map{"success": true, "data": item})
}

func (h *ContentHandler) DeleteSuggestion(c *fiber.Ctx) error {
	var item models.Suggestion
	return h.deleteSimple(c, &item, "suggestion")
}

// General info is a singleton: GetGeneralInfo returns the single row
// (creating an empty one on first read), UpdateGeneralInfo upserts it.

func (h *ContentHandler) GetGeneralInfo(c *fiber.Ctx) error {
	var info models.GeneralInfo
	err := h.db.First(&info).Error
	if err == gorm.ErrRecordNotFound {
		if err := h.db.Create(&info).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": info})
}

func (h *ContentHandler) UpdateGeneralInfo(c *fiber.Ctx) error {
	var info models.GeneralInfo
	err := h.db.First(&info).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}

	if err := c.BodyParser(&info); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.db.Save(&info).Error; err != nil {
		return err
	}

	h.audit.Record(c, services.AuditEntry{
		Actor:       middleware.ActorName(c),
		ActionType:  models.ActionUpdate,
		EntityType:  "general_info",
		EntityID:    &info.ID,
		EntityName:  info.Title,
		Description: "General info updated",
	})

	return c.JSON(fiber.Map{"success": true, "data": info})
}
