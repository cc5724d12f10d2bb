package models

import (
	"time"

	"github.com/google/uuid"
)

// Announcement is a public notice published by an admin.
type Announcement struct {
	BaseModel
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	PublishedAt time.Time `json:"published_at"`
	Author      string    `json:"author"`
}

type GalleryCategory struct {
	BaseModel
	Name  string `gorm:"uniqueIndex" json:"name"`
	Color string `gorm:"default:#3b82f6" json:"color"`
}

type GalleryItem struct {
	BaseModel
	Title       string    `json:"title"`
	URL         string    `gorm:"type:text" json:"url"`
	Description string    `json:"description"`
	Category    string    `gorm:"default:general" json:"category"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type FAQ struct {
	BaseModel
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Position int    `json:"position"`
	Status   string `gorm:"default:active" json:"status"`
}

type ScheduleCategory struct {
	BaseModel
	Name  string `gorm:"uniqueIndex" json:"name"`
	Color string `gorm:"default:#3b82f6" json:"color"`
}

// Schedule is a recurring or one-off agenda entry, optionally linked
// to an event.
type Schedule struct {
	BaseModel
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Date        time.Time         `json:"date"`
	StartTime   string            `json:"start_time"`
	EndTime     string            `json:"end_time"`
	CategoryID  *uuid.UUID        `gorm:"type:uuid" json:"category_id"`
	Category    *ScheduleCategory `json:"category,omitempty"`
	Venue       string            `json:"venue"`
	Capacity    int               `json:"capacity"`
	EventID     *uuid.UUID        `gorm:"type:uuid" json:"event_id"`
}

// OrgChartEntry is one position in the temple's organizational chart.
type OrgChartEntry struct {
	BaseModel
	Name     string `json:"name"`
	Position string `json:"position"`
	Contact  string `json:"contact"`
	Period   string `json:"period"`
	Status   string `gorm:"default:active" json:"status"`
}

// Suggestion statuses.
const (
	SuggestionStatusNew       = "new"
	SuggestionStatusRead      = "read"
	SuggestionStatusResponded = "responded"
)

type Suggestion struct {
	BaseModel
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Status  string `gorm:"default:new" json:"status"`
}

// GeneralInfo holds the temple's public contact card.
type GeneralInfo struct {
	BaseModel
	Title        string `json:"title"`
	Body         string `json:"body"`
	OpeningHours string `gorm:"default:08:00 - 17:00" json:"opening_hours"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Website      string `json:"website"`
}
