package models

import (
	"time"

	"gorm.io/datatypes"
)

// Sellable entity lifecycle statuses. A merchandise item uses the
// available/sold_out pair; campaigns and packages use draft/active/
// closed, with packages additionally flipping to sold_out when their
// quota is exhausted.
const (
	SellableStatusDraft     = "draft"
	SellableStatusActive    = "active"
	SellableStatusClosed    = "closed"
	SellableStatusAvailable = "available"
	SellableStatusSoldOut   = "sold_out"
)

// DonationCampaign collects open-ended donations toward a target.
// AmountRaised is mutated only by the payment reconciliation engine
// and never decreases.
type DonationCampaign struct {
	BaseModel
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	TargetAmount float64    `json:"target_amount"`
	AmountRaised float64    `json:"amount_raised"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Status       string     `gorm:"default:draft" json:"status"`
}

// MerchandiseItem is a physical item sold through the payment gateway.
// Stock is decremented only by the reconciliation engine, floored at
// zero; the status flips to sold_out when it reaches zero.
type MerchandiseItem struct {
	BaseModel
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Stock       int     `json:"stock"`
	Category    string  `gorm:"default:general" json:"category"`
	Image       string  `gorm:"type:text" json:"image"`
	Status      string  `gorm:"default:available" json:"status"`
}

// DonationPackage is a fixed-price donation bundle (e.g. an offering
// set). Items describes the goods included; Stock is an optional quota
// (nil means unlimited) and UnitsSold counts settled purchases.
type DonationPackage struct {
	BaseModel
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Amount      float64        `json:"amount"`
	Items       datatypes.JSON `json:"items"`
	Status      string         `gorm:"default:draft" json:"status"`
	StartDate   *time.Time     `json:"start_date"`
	EndDate     *time.Time     `json:"end_date"`
	Image       string         `gorm:"type:text" json:"image"`
	Stock       *int           `json:"stock"`
	UnitsSold   int            `json:"units_sold"`
}

// PackageItem is one entry of a DonationPackage's Items JSON list.
type PackageItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note,omitempty"`
}
