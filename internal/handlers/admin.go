package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/vihara/internal/config"
	"github.com/example/vihara/internal/models"
	"github.com/example/vihara/internal/services"
	"github.com/example/vihara/internal/utils"
)

// AdminHandler manages admin accounts and login.
type AdminHandler struct {
	db    *gorm.DB
	cfg   *config.Config
	audit *services.AuditService
}

func NewAdminHandler(db *gorm.DB, cfg *config.Config, audit *services.AuditService) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg, audit: audit}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an admin account.
func (h *AdminHandler) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || len(req.Password) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "username and a password of at least 8 characters are required")
	}

	var existing models.Admin
	err := h.db.First(&existing, "username = ?", req.Username).Error
	if err == nil {
		return fiber.NewError(fiber.StatusConflict, "username already taken")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}

	admin := models.Admin{Username: req.Username, PasswordHash: hash}
	if err := h.db.Create(&admin).Error; err != nil {
		return err
	}

	h.audit.Record(c, services.AuditEntry{
		Actor:       admin.Username,
		ActionType:  models.ActionCreate,
		EntityType:  "admin",
		EntityID:    &admin.ID,
		EntityName:  admin.Username,
		Description: "Admin account registered",
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": admin})
}

// Login verifies credentials and issues a JWT.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var admin models.Admin
	err := h.db.First(&admin, "username = ?", req.Username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !utils.CheckPassword(admin.PasswordHash, req.Password)) {
		h.audit.Record(c, services.AuditEntry{
			Actor:       req.Username,
			ActionType:  models.ActionLogin,
			EntityType:  "admin",
			EntityName:  req.Username,
			Description: "Failed login attempt",
			Status:      models.LogStatusFailed,
		})
		return fiber.NewError(fiber.StatusUnauthorized, "invalid username or password")
	}
	if err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, admin.ID, admin.Username, h.cfg.TokenExpires)
	if err != nil {
		return err
	}

	h.audit.Record(c, services.AuditEntry{
		Actor:       admin.Username,
		ActionType:  models.ActionLogin,
		EntityType:  "admin",
		EntityID:    &admin.ID,
		EntityName:  admin.Username,
		Description: "Admin logged in",
	})

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"token": token,
		"admin": admin,
	}})
}
