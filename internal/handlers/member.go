package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/vihara/internal/models"
	"github.com/example/vihara/internal/services"
)

// MemberHandler manages the temple member registry.
type MemberHandler struct {
	crudBase
}

func NewMemberHandler(db *gorm.DB, audit *services.AuditService) *MemberHandler {
	return &MemberHandler{crudBase{db: db, audit: audit}}
}

func (h *MemberHandler) List(c *fiber.Ctx) error {
	var members []models.Member
	return h.listSimple(c, &members)
}

func (h *MemberHandler) Get(c *fiber.Ctx) error {
	var member models.Member
	return h.getSimple(c, &member)
}

func (h *MemberHandler) Create(c *fiber.Ctx) error {
	var member models.Member
	return h.createSimple(c, &member, "member")
}

func (h *MemberHandler) Update(c *fiber.Ctx) error {
	var member models.Member
	return h.updateSimple(c, &member, "member")
}

func (h *MemberHandler) Delete(c *fiber.Ctx) error {
	var member models.Member
	return h.deleteSimple(c, &member, "member")
}
