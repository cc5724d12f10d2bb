package models

import (
	"time"

	"github.com/google/uuid"
)

// Event lifecycle statuses.
const (
	EventStatusUpcoming = "upcoming"
	EventStatusOngoing  = "ongoing"
	EventStatusFinished = "finished"
)

// Event is a temple activity people can register for.
type Event struct {
	BaseModel
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	TimeOfDay   string    `json:"time_of_day"`
	Venue       string    `json:"venue"`
	Capacity    int       `json:"capacity"`
	Status      string    `gorm:"default:upcoming" json:"status"`
}

// Registration ties a participant to an event. The QR token is the
// opaque value embedded in the attendance QR code; the image is a
// data-URL PNG rendered from it.
type Registration struct {
	BaseModel
	EventID      uuid.UUID `gorm:"type:uuid;index" json:"event_id"`
	Event        *Event    `json:"event,omitempty"`
	EventName    string    `json:"event_name"`
	FullName     string    `json:"full_name"`
	Email        string    `gorm:"index" json:"email"`
	Phone        string    `json:"phone"`
	PersonType   string    `gorm:"default:external" json:"person_type"`
	QRToken      string    `gorm:"uniqueIndex" json:"qr_token"`
	QRImage      string    `gorm:"type:text" json:"qr_image"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Attendance records a check-in against a registration. One row per
// registration per day.
type Attendance struct {
	BaseModel
	RegistrationID uuid.UUID     `gorm:"type:uuid;index" json:"registration_id"`
	Registration   *Registration `json:"registration,omitempty"`
	EventID        uuid.UUID     `gorm:"type:uuid;index" json:"event_id"`
	Event          *Event        `json:"event,omitempty"`
	Date           time.Time     `json:"date"`
	Status         string        `gorm:"default:present" json:"status"`
	PersonType     string        `gorm:"default:external" json:"person_type"`
	QRToken        string        `json:"qr_token"`
}
