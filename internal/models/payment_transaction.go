package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction kinds, one per sellable entity type.
const (
	KindDonation    = "donation"
	KindMerchandise = "merchandise"
	KindPackage     = "package"
)

// Transaction statuses. pending is the initial state; succeeded and
// failed are terminal.
const (
	TxStatusPending   = "pending"
	TxStatusSucceeded = "succeeded"
	TxStatusFailed    = "failed"
)

// PaymentTransaction tracks one purchase or donation attempt against a
// sellable entity through the gateway payment lifecycle. The three
// transaction kinds share this shape; Kind selects the side effects
// applied on settlement.
//
// GatewayOrderID is the idempotency key: generated at creation, unique,
// persisted before the first gateway call so a webhook can never arrive
// for an order the store has no record of.
type PaymentTransaction struct {
	BaseModel
	Kind            string    `gorm:"index" json:"kind"`
	EntityID        uuid.UUID `gorm:"type:uuid;index" json:"entity_id"`
	EntityName      string    `json:"entity_name"`
	BuyerName       string    `json:"buyer_name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	ShippingAddress string    `json:"shipping_address"`
	Amount          float64   `json:"amount"`
	Quantity        int       `gorm:"default:1" json:"quantity"`
	Status          string    `gorm:"index;default:pending" json:"status"`

	GatewayOrderID       string `gorm:"uniqueIndex" json:"gateway_order_id"`
	GatewayTransactionID string `json:"gateway_transaction_id"`
	GatewayPaymentMethod string `json:"gateway_payment_method"`
	GatewayRawStatus     string `json:"gateway_raw_status"`
	GatewayVANumber      string `json:"gateway_va_number"`
	GatewayBank          string `json:"gateway_bank"`

	ReceiptSentAt *time.Time `json:"receipt_sent_at"`
}

// Terminal reports whether the transaction reached a final state.
func (t *PaymentTransaction) Terminal() bool {
	return t.Status == TxStatusSucceeded || t.Status == TxStatusFailed
}
