package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/vihara/internal/middleware"
	"github.com/example/vihara/internal/models"
	"github.com/example/vihara/internal/services"
	"github.com/example/vihara/internal/utils"
)

// crudBase provides the shared list/get/create/update/delete plumbing
// for simple resources. State-changing helpers append one audit record
// after the write succeeds.
type crudBase struct {
	db    *gorm.DB
	audit *services.AuditService
}

// named is implemented by models whose display name is worth auditing.
type named interface {
	DisplayName() string
}

func displayName(model any) string {
	if n, ok := model.(named); ok {
		return n.DisplayName()
	}
	return ""
}

func (b *crudBase) listSimple(c *fiber.Ctx, model any) error {
	pg := utils.ParsePagination(c)
	var total int64
	if err := b.db.Model(model).Count(&total).Error; err != nil {
		return err
	}
	if err := b.db.Limit(pg.Limit).Offset(pg.Offset).Order("created_at desc").
		Find(model).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": model, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
	}})
}

func (b *crudBase) getSimple(c *fiber.Ctx, model any) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	if err := b.db.First(model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "resource not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": model})
}

func (b *crudBase) createSimple(c *fiber.Ctx, model any, entityType string) error {
	if err := c.BodyParser(model); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := b.db.Create(model).Error; err != nil {
		return err
	}

	b.recordWrite(c, models.ActionCreate, entityType, model)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": model})
}

func (b *crudBase) updateSimple(c *fiber.Ctx, model any, entityType string) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	if err := b.db.First(model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "resource not found")
		}
		return err
	}
	if err := c.BodyParser(model); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := b.db.Save(model).Error; err != nil {
		return err
	}

	b.recordWrite(c, models.ActionUpdate, entityType, model)
	return c.JSON(fiber.Map{"success": true, "data": model})
}

func (b *crudBase) deleteSimple(c *fiber.Ctx, model any, entityType string) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	if err := b.db.First(model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "resource not found")
		}
		return err
	}
	if err := b.db.Delete(model, "id = ?", id).Error; err != nil {
		return err
	}

	b.recordWrite(c, models.ActionDelete, entityType, model)
	return c.SendStatus(fiber.StatusNoContent)
}

func (b *crudBase) recordWrite(c *fiber.Ctx, action, entityType string, model any) {
	name := displayName(model)
	entry := services.AuditEntry{
		Actor:       middleware.ActorName(c),
		ActionType:  action,
		EntityType:  entityType,
		EntityName:  name,
		Description: fmt.Sprintf("%s %s %s", action, entityType, name),
	}
	if ider, ok := model.(interface{ EntityID() uuid.UUID }); ok {
		id := ider.EntityID()
		entry.EntityID = &id
	}
	b.audit.Record(c, entry)
}
