package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/vihara/internal/middleware"
	"github.com/example/vihara/internal/models"
	"github.com/example/vihara/internal/services"
	"github.com/example/vihara/internal/utils"
)

// AttendanceHandler records and lists QR check-ins.
type AttendanceHandler struct {
	crudBase
}

func NewAttendanceHandler(db *gorm.DB, audit *services.AuditService) *AttendanceHandler {
	return &AttendanceHandler{crudBase{db: db, audit: audit}}
}

// The once-per-day rule follows the temple's wall clock, not UTC.
var attendanceLocation = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		return time.Local
	}
	return loc
}()

// attendanceDayStart returns midnight of t's calendar day in the
// operational timezone.
func attendanceDayStart(t time.Time) time.Time {
	lt := t.In(attendanceLocation)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, attendanceLocation)
}

// Scan checks a participant in by QR token. A registration can check
// in at most once per calendar day.
func (h *AttendanceHandler) Scan(c *fiber.Ctx) error {
	var req struct {
		QRToken string `json:"qr_token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.QRToken == "" {
		return fiber.NewError(fiber.StatusBadRequest, "qr_token is required")
	}

	var reg models.Registration
	err := h.db.First(&reg, "qr_token = ?", req.QRToken).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "QR code not recognized")
	}
	if err != nil {
		return err
	}

	dayStart := attendanceDayStart(time.Now())
	var existing int64
	if err := h.db.Model(&models.Attendance{}).
		Where("registration_id = ? AND date >= ?", reg.ID, dayStart).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return fiber.NewError(fiber.StatusConflict, "already checked in today")
	}

	attendance := models.Attendance{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		Date:           time.Now(),
		Status:         "present",
		PersonType:     reg.PersonType,
		QRToken:        reg.QRToken,
	}
	if err := h.db.Create(&attendance).Error; err != nil {
		return err
	}

	h.audit.Record(c, services.AuditEntry{
		Actor:       middleware.ActorName(c),
		ActionType:  models.ActionCreate,
		EntityType:  "attendance",
		EntityID:    &attendance.ID,
		EntityName:  reg.FullName,
		Description: fmt.Sprintf("%s checked in for %s", reg.FullName, reg.EventName),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": fiber.Map{
		"attendance":   attendance,
		"participant":  reg.FullName,
		"event_name":   reg.EventName,
		"person_type":  reg.PersonType,
		"checked_in_at": attendance.Date,
	}})
}

// List returns paginated attendance rows, filterable by event and day.
func (h *AttendanceHandler) List(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Attendance{})

	if eventID := c.Query("event_id"); eventID != "" {
		id, err := uuid.Parse(eventID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid event_id")
		}
		query = query.Where("event_id = ?", id)
	}
	if day := c.Query("date"); day != "" {
		parsed, err := time.ParseInLocation("2006-01-02", day, attendanceLocation)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		query = query.Where("date >= ? AND date < ?", parsed, parsed.AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var rows []models.Attendance
	if err := query.Preload("Registration").Limit(pg.Limit).Offset(pg.Offset).
		Order("date desc").Find(&rows).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": rows, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
	}})
}

func (h *AttendanceHandler) Delete(c *fiber.Ctx) error {
	var row models.Attendance
	return h.deleteSimple(c, &row, "attendance")
}
