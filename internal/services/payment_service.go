package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/vihara/internal/models"
	"github.com/example/vihara/internal/utils"
)

// Order id prefixes route an incoming webhook to its transaction kind.
const (
	OrderPrefixDonation    = "DON"
	OrderPrefixMerchandise = "MERCH"
	OrderPrefixPackage     = "PAKET"
)

// defaultExpiryMinutes bounds how long an unpaid gateway charge stays
// payable.
const defaultExpiryMinutes = 24 * 60

// MapRawStatus translates a raw gateway transaction status into the
// internal transaction state. Unknown raw statuses map to pending so a
// transient gateway state never terminates a transaction.
func MapRawStatus(raw string) string {
	switch raw {
	case "settlement", "capture":
		return models.TxStatusSucceeded
	case "deny", "cancel", "expire":
		return models.TxStatusFailed
	default:
		return models.TxStatusPending
	}
}

// InitiateRequest carries the buyer details for a new payment.
type InitiateRequest struct {
	BuyerName       string `json:"buyer_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ShippingAddress string `json:"shipping_address"`
	Quantity        int    `json:"quantity"`
	// Amount is the donated sum for campaign payments; ignored for
	// fixed-price kinds.
	Amount float64 `json:"amount"`
}

// InitiateResult is a created transaction plus its payment page handle.
type InitiateResult struct {
	Transaction *models.PaymentTransaction `json:"transaction"`
	Token       string                     `json:"token"`
	RedirectURL string                     `json:"redirect_url"`
}

// ReceiptSender delivers settlement receipts. MailerService is the
// production implementation.
type ReceiptSender interface {
	SendReceipt(trx *models.PaymentTransaction) error
}

// PaymentService owns the payment transaction lifecycle: initiation,
// gateway status reconciliation, and the side effects of settlement.
type PaymentService struct {
	db      *gorm.DB
	gateway GatewayClient
	mailer  ReceiptSender
	audit   *AuditService
}

func NewPaymentService(db *gorm.DB, gateway GatewayClient, mailer ReceiptSender, audit *AuditService) *PaymentService {
	return &PaymentService{db: db, gateway: gateway, mailer: mailer, audit: audit}
}

// InitiateDonation creates a pending donation transaction against an
// active campaign and opens a gateway charge for it.
func (s *PaymentService) InitiateDonation(ctx context.Context, campaignID uuid.UUID, req InitiateRequest) (*InitiateResult, error) {
	var campaign models.DonationCampaign
	if err := s.db.First(&campaign, "id = ?", campaignID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if campaign.Status != models.SellableStatusActive {
		return nil, ErrNotAvailable
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: donation amount must be positive", ErrNotAvailable)
	}

	trx := &models.PaymentTransaction{
		Kind:           models.KindDonation,
		EntityID:       campaign.ID,
		EntityName:     campaign.Name,
		BuyerName:      req.BuyerName,
		Email:          req.Email,
		Phone:          req.Phone,
		Amount:         req.Amount,
		Quantity:       1,
		Status:         models.TxStatusPending,
		GatewayOrderID: utils.NewOrderID(OrderPrefixDonation),
	}
	return s.openCharge(ctx, trx, defaultExpiryMinutes)
}

// InitiateMerchandisePurchase creates a pending purchase transaction
// for an available item. Stock is checked here only as an advisory
// gate; the authoritative decrement happens on settlement.
func (s *PaymentService) InitiateMerchandisePurchase(ctx context.Context, itemID uuid.UUID, req InitiateRequest) (*InitiateResult, error) {
	var item models.MerchandiseItem
	if err := s.db.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	if item.Status != models.SellableStatusAvailable || item.Stock < quantity {
		return nil, ErrNotAvailable
	}

	trx := &models.PaymentTransaction{
		Kind:            models.KindMerchandise,
		EntityID:        item.ID,
		EntityName:      item.Name,
		BuyerName:       req.BuyerName,
		Email:           req.Email,
		Phone:           req.Phone,
		ShippingAddress: req.ShippingAddress,
		Amount:          item.Price * float64(quantity),
		Quantity:        quantity,
		Status:          models.TxStatusPending,
		GatewayOrderID:  utils.NewOrderID(OrderPrefixMerchandise),
	}
	return s.openCharge(ctx, trx, defaultExpiryMinutes)
}

// InitiatePackagePurchase creates a pending purchase transaction for
// an active donation package with remaining quota.
func (s *PaymentService) InitiatePackagePurchase(ctx context.Context, packageID uuid.UUID, req InitiateRequest) (*InitiateResult, error) {
	var pkg models.DonationPackage
	if err := s.db.First(&pkg, "id = ?", packageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if pkg.Status != models.SellableStatusActive {
		return nil, ErrNotAvailable
	}
	if pkg.Stock != nil && pkg.UnitsSold >= *pkg.Stock {
		return nil, ErrNotAvailable
	}

	trx := &models.PaymentTransaction{
		Kind:           models.KindPackage,
		EntityID:       pkg.ID,
		EntityName:     pkg.Name,
		BuyerName:      req.BuyerName,
		Email:          req.Email,
		Phone:          req.Phone,
		Amount:         pkg.Amount,
		Quantity:       1,
		Status:         models.TxStatusPending,
		GatewayOrderID: utils.NewOrderID(OrderPrefixPackage),
	}

	// A package payment should not stay payable past the package's
	// closing date.
	expiry := defaultExpiryMinutes
	if pkg.EndDate != nil {
		if remaining := int(time.Until(*pkg.EndDate).Minutes()); remaining > 0 && remaining < expiry {
			expiry = remaining
		}
	}
	return s.openCharge(ctx, trx, expiry)
}

// openCharge persists the pending transaction, then asks the gateway
// for a payment page. The row is created first so a webhook can never
// reference an order the store does not know. If the gateway call
// fails the transaction is marked failed and kept for audit.
func (s *PaymentService) openCharge(ctx context.Context, trx *models.PaymentTransaction, expiryMinutes int) (*InitiateResult, error) {
	if err := s.db.Create(trx).Error; err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	charge, err := s.gateway.CreateCharge(ctx, ChargeRequest{
		OrderID:       trx.GatewayOrderID,
		GrossAmount:   trx.Amount,
		CustomerName:  trx.BuyerName,
		CustomerEmail: trx.Email,
		CustomerPhone: trx.Phone,
		Items: []ChargeItem{{
			ID:       trx.EntityID.String(),
			Price:    trx.Amount / float64(trx.Quantity),
			Quantity: trx.Quantity,
			Name:     trx.EntityName,
		}},
		ExpiryMinutes: expiryMinutes,
	})
	if err != nil {
		log.Printf("[Payment] charge creation failed for %s: %v", trx.GatewayOrderID, err)
		if _, ferr := s.transition(trx.ID, models.TxStatusFailed, "charge_failed"); ferr != nil {
			log.Printf("[Payment] could not mark %s failed: %v", trx.GatewayOrderID, ferr)
		}
		return nil, err
	}

	s.audit.Record(nil, AuditEntry{
		ActionType:  models.ActionPayment,
		EntityType:  "payment_transaction",
		EntityID:    &trx.ID,
		EntityName:  trx.EntityName,
		Description: fmt.Sprintf("Payment initiated for %s (%s)", trx.EntityName, trx.GatewayOrderID),
	})

	return &InitiateResult{Transaction: trx, Token: charge.Token, RedirectURL: charge.RedirectURL}, nil
}

// HandleWebhook processes a gateway notification. An unknown order id
// is logged and ignored so the gateway still receives a 200 and stops
// redelivering.
func (s *PaymentService) HandleWebhook(status *StatusResult) error {
	var trx models.PaymentTransaction
	err := s.db.First(&trx, "gateway_order_id = ?", status.OrderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[Payment] webhook for unknown order %s ignored", status.OrderID)
		return nil
	}
	if err != nil {
		return err
	}
	return s.ApplyGatewayStatus(&trx, status, "webhook")
}

// SyncStatus queries the gateway for one transaction and reconciles
// the local state with the answer.
func (s *PaymentService) SyncStatus(ctx context.Context, trxID uuid.UUID) (*models.PaymentTransaction, error) {
	var trx models.PaymentTransaction
	if err := s.db.First(&trx, "id = ?", trxID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	status, err := s.gateway.QueryStatus(ctx, trx.GatewayOrderID)
	if err != nil {
		return nil, err
	}
	if err := s.ApplyGatewayStatus(&trx, status, "sync"); err != nil {
		return nil, err
	}

	if err := s.db.First(&trx, "id = ?", trxID).Error; err != nil {
		return nil, err
	}
	return &trx, nil
}

// SyncOutcome is the result of reconciling one pending transaction
// during a batch sweep.
type SyncOutcome struct {
	ID      uuid.UUID `json:"id"`
	OrderID string    `json:"order_id"`
	Status  string    `json:"status"`
	Synced  bool      `json:"synced"`
}

// SyncAllPending reconciles every pending transaction against the
// gateway. Per-transaction failures are reported and skipped so one
// bad order cannot stall the sweep.
func (s *PaymentService) SyncAllPending(ctx context.Context) ([]SyncOutcome, error) {
	var pending []models.PaymentTransaction
	if err := s.db.Where("status = ?", models.TxStatusPending).Find(&pending).Error; err != nil {
		return nil, err
	}

	outcomes := make([]SyncOutcome, 0, len(pending))
	for i := range pending {
		trx := &pending[i]
		outcome := SyncOutcome{ID: trx.ID, OrderID: trx.GatewayOrderID, Status: models.TxStatusPending}

		status, err := s.gateway.QueryStatus(ctx, trx.GatewayOrderID)
		if err != nil {
			log.Printf("[Payment] sync query failed for %s: %v", trx.GatewayOrderID, err)
			outcomes = append(outcomes, outcome)
			continue
		}
		if err := s.ApplyGatewayStatus(trx, status, "sync"); err != nil {
			log.Printf("[Payment] sync apply failed for %s: %v", trx.GatewayOrderID, err)
			outcomes = append(outcomes, outcome)
			continue
		}

		outcome.Synced = true
		outcome.Status = MapRawStatus(status.RawStatus)
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// OverrideStatus lets an administrator force a terminal outcome. The
// override flows through the same reconciliation path as a webhook so
// side effects and idempotency behave identically.
func (s *PaymentService) OverrideStatus(trxID uuid.UUID, newStatus, actor string) (*models.PaymentTransaction, error) {
	var raw string
	switch newStatus {
	case models.TxStatusSucceeded:
		raw = "settlement"
	case models.TxStatusFailed:
		raw = "cancel"
	default:
		return nil, fmt.Errorf("status must be %q or %q", models.TxStatusSucceeded, models.TxStatusFailed)
	}

	var trx models.PaymentTransaction
	if err := s.db.First(&trx, "id = ?", trxID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.ApplyGatewayStatus(&trx, &StatusResult{
		OrderID:   trx.GatewayOrderID,
		RawStatus: raw,
	}, "override:"+actor); err != nil {
		return nil, err
	}

	if err := s.db.First(&trx, "id = ?", trxID).Error; err != nil {
		return nil, err
	}
	return &trx, nil
}

// ApplyGatewayStatus is the single choke point through which every
// gateway-reported status reaches the store, whatever its source
// (webhook, manual sync, scheduled sweep, admin override).
//
// Gateway metadata is refreshed unconditionally. The status itself
// only moves through a guarded pending -> terminal transition: once a
// transaction is terminal, redeliveries and late status flips are
// no-ops, which also makes the settlement side effects exactly-once.
// Every call leaves exactly one audit record, no-ops included, so
// redelivered and out-of-order notifications stay traceable.
func (s *PaymentService) ApplyGatewayStatus(trx *models.PaymentTransaction, status *StatusResult, source string) error {
	meta := map[string]any{
		"gateway_raw_status": status.RawStatus,
	}
	if status.TransactionID != "" {
		meta["gateway_transaction_id"] = status.TransactionID
	}
	if status.PaymentType != "" {
		meta["gateway_payment_method"] = status.PaymentType
	}
	if len(status.VANumbers) > 0 {
		meta["gateway_va_number"] = status.VANumbers[0].VANumber
		meta["gateway_bank"] = status.VANumbers[0].Bank
	}
	if err := s.db.Model(&models.PaymentTransaction{}).Where("id = ?", trx.ID).Updates(meta).Error; err != nil {
		return fmt.Errorf("update gateway metadata: %w", err)
	}

	oldStatus := trx.Status
	newStatus := MapRawStatus(status.RawStatus)

	flipped := false
	if newStatus != models.TxStatusPending {
		var err error
		flipped, err = s.transition(trx.ID, newStatus, status.RawStatus)
		if err != nil {
			return err
		}
		if !flipped {
			log.Printf("[Payment] %s already terminal, %s from %s ignored", trx.GatewayOrderID, status.RawStatus, source)
		}
	}

	effective := oldStatus
	if flipped {
		effective = newStatus
	}

	s.audit.Record(nil, AuditEntry{
		ActionType:  models.ActionPayment,
		EntityType:  "payment_transaction",
		EntityID:    &trx.ID,
		EntityName:  trx.EntityName,
		Description: fmt.Sprintf("Transaction %s: %s -> %s (%s via %s)", trx.GatewayOrderID, oldStatus, effective, status.RawStatus, source),
		Details: map[string]any{
			"raw_status": status.RawStatus,
			"source":     source,
			"old_status": oldStatus,
			"new_status": effective,
			"applied":    flipped,
		},
	})

	if flipped && newStatus == models.TxStatusSucceeded {
		go s.sendReceipt(trx.ID)
	}
	return nil
}

// transition performs the guarded state flip and, when the flip lands
// on succeeded, applies the kind-specific side effects in the same
// database transaction. The WHERE status = 'pending' condition is the
// idempotency guard: only the first terminal delivery matches.
func (s *PaymentService) transition(trxID uuid.UUID, newStatus, rawStatus string) (bool, error) {
	flipped := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.PaymentTransaction{}).
			Where("id = ? AND status = ?", trxID, models.TxStatusPending).
			Updates(map[string]any{
				"status":             newStatus,
				"gateway_raw_status": rawStatus,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		flipped = true

		if newStatus != models.TxStatusSucceeded {
			return nil
		}

		var trx models.PaymentTransaction
		if err := tx.First(&trx, "id = ?", trxID).Error; err != nil {
			return err
		}

		switch trx.Kind {
		case models.KindDonation:
			return s.applyDonation(tx, &trx)
		case models.KindMerchandise:
			return s.applyMerchandiseSale(tx, &trx)
		case models.KindPackage:
			return s.applyPackageSale(tx, &trx)
		default:
			return fmt.Errorf("unknown transaction kind %q", trx.Kind)
		}
	})
	return flipped, err
}

func (s *PaymentService) applyDonation(tx *gorm.DB, trx *models.PaymentTransaction) error {
	res := tx.Model(&models.DonationCampaign{}).
		Where("id = ?", trx.EntityID).
		Update("amount_raised", gorm.Expr("amount_raised + ?", trx.Amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Campaign deleted after initiation; honor the payment anyway.
		log.Printf("[Payment] settled donation %s references missing campaign %s", trx.GatewayOrderID, trx.EntityID)
	}
	return nil
}

// Stock bookkeeping is done with conditional updates rather than a
// read-modify-write so concurrent settlements of different
// transactions against the same item stay consistent.
func (s *PaymentService) applyMerchandiseSale(tx *gorm.DB, trx *models.PaymentTransaction) error {
	res := tx.Model(&models.MerchandiseItem{}).
		Where("id = ?", trx.EntityID).
		Update("stock", gorm.Expr("stock - ?", trx.Quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("[Payment] settled purchase %s references missing item %s", trx.GatewayOrderID, trx.EntityID)
		return nil
	}

	// Floor at zero: the transaction stays succeeded even if stock
	// was oversold between initiation and settlement.
	if err := tx.Model(&models.MerchandiseItem{}).
		Where("id = ? AND stock < 0", trx.EntityID).
		Update("stock", 0).Error; err != nil {
		return err
	}
	return tx.Model(&models.MerchandiseItem{}).
		Where("id = ? AND stock = 0", trx.EntityID).
		Update("status", models.SellableStatusSoldOut).Error
}

func (s *PaymentService) applyPackageSale(tx *gorm.DB, trx *models.PaymentTransaction) error {
	res := tx.Model(&models.DonationPackage{}).
		Where("id = ?", trx.EntityID).
		Update("units_sold", gorm.Expr("units_sold + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("[Payment] settled purchase %s references missing package %s", trx.GatewayOrderID, trx.EntityID)
		return nil
	}

	return tx.Model(&models.DonationPackage{}).
		Where("id = ? AND stock IS NOT NULL AND units_sold >= stock", trx.EntityID).
		Update("status", models.SellableStatusSoldOut).Error
}

// sendReceipt runs after the settlement commits. Email failure never
// affects the transaction; it is logged and the receipt stays unsent.
func (s *PaymentService) sendReceipt(trxID uuid.UUID) {
	var trx models.PaymentTransaction
	if err := s.db.First(&trx, "id = ?", trxID).Error; err != nil {
		log.Printf("[Payment] receipt load failed for %s: %v", trxID, err)
		return
	}
	if trx.ReceiptSentAt != nil || trx.Email == "" {
		return
	}

	if err := s.mailer.SendReceipt(&trx); err != nil {
		log.Printf("[Payment] receipt email failed for %s: %v", trx.GatewayOrderID, err)
		return
	}

	now := time.Now()
	if err := s.db.Model(&trx).Update("receipt_sent_at", &now).Error; err != nil {
		log.Printf("[Payment] receipt timestamp update failed for %s: %v", trx.GatewayOrderID, err)
	}
}
