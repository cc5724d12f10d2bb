package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/vihara/internal/config"
	"github.com/example/vihara/internal/database"
	"github.com/example/vihara/internal/models"
	"github.com/example/vihara/internal/services"
)

var testDBCounter int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(conn); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

type stubGateway struct {
	chargeErr error
	statuses  map[string]*services.StatusResult
}

func (g *stubGateway) CreateCharge(_ context.Context, req services.ChargeRequest) (*services.ChargeResult, error) {
	if g.chargeErr != nil {
		return nil, g.chargeErr
	}
	return &services.ChargeResult{Token: "snap-token", RedirectURL: "https://pay/" + req.OrderID}, nil
}

func (g *stubGateway) QueryStatus(_ context.Context, orderID string) (*services.StatusResult, error) {
	if st, ok := g.statuses[orderID]; ok {
		return st, nil
	}
	return &services.StatusResult{OrderID: orderID, RawStatus: "pending"}, nil
}

type testEnv struct {
	app     *fiber.App
	db      *gorm.DB
	gateway *stubGateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	gateway := &stubGateway{statuses: map[string]*services.StatusResult{}}
	audit := services.NewAuditService(db)
	mailer := services.NewMailerService(&config.Config{})
	payments := services.NewPaymentService(db, gateway, mailer, audit)

	campaignHandler := NewCampaignHandler(db, audit, payments)
	paymentHandler := NewPaymentHandler(db, &config.Config{}, payments, audit)
	contentHandler := NewContentHandler(db, audit)

	app := fiber.New()
	api := app.Group("/api")
	api.Get("/donations", campaignHandler.List)
	api.Post("/donations", campaignHandler.Create)
	api.Get("/donations/:id", campaignHandler.Get)
	api.Put("/donations/:id", campaignHandler.Update)
	api.Delete("/donations/:id", campaignHandler.Delete)
	api.Post("/donations/:id/pay", campaignHandler.Pay)
	api.Post("/payments/webhook", paymentHandler.Webhook)
	api.Get("/payments", paymentHandler.List)
	api.Post("/faqs", contentHandler.CreateFAQ)
	api.Get("/faqs", contentHandler.ListFAQs)
	api.Get("/faqs/:id", contentHandler.GetFAQ)
	api.Put("/faqs/:id", contentHandler.UpdateFAQ)
	api.Delete("/faqs/:id", contentHandler.DeleteFAQ)

	return &testEnv{app: app, db: db, gateway: gateway}
}

func (e *testEnv) request(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeData(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !envelope.Success {
		t.Fatal("envelope success = false")
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
}

func TestWebhookAlwaysAcknowledges(t *testing.T) {
	env := newTestEnv(t)

	t.Run("unknown order", func(t *testing.T) {
		resp := env.request(t, http.MethodPost, "/api/payments/webhook", fiber.Map{
			"order_id":           "DON-404-ffff",
			"transaction_status": "settlement",
		})
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		resp, err := env.app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("settlement reaches the transaction", func(t *testing.T) {
		campaign := models.DonationCampaign{Name: "Dana Dharma", Status: models.SellableStatusActive}
		if err := env.db.Create(&campaign).Error; err != nil {
			t.Fatal(err)
		}

		var initiated services.InitiateResult
		resp := env.request(t, http.MethodPost, "/api/donations/"+campaign.ID.String()+"/pay", fiber.Map{
			"buyer_name": "Budi", "amount": 100000,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("pay status = %d, want 201", resp.StatusCode)
		}
		decodeData(t, resp, &initiated)

		resp = env.request(t, http.MethodPost, "/api/payments/webhook", fiber.Map{
			"order_id":           initiated.Transaction.GatewayOrderID,
			"transaction_status": "settlement",
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("webhook status = %d, want 200", resp.StatusCode)
		}

		var trx models.PaymentTransaction
		env.db.First(&trx, "gateway_order_id = ?", initiated.Transaction.GatewayOrderID)
		if trx.Status != models.TxStatusSucceeded {
			t.Errorf("transaction status = %q, want succeeded", trx.Status)
		}
	})
}

func TestPayEndpoint(t *testing.T) {
	env := newTestEnv(t)

	t.Run("returns token for active campaign", func(t *testing.T) {
		campaign := models.DonationCampaign{Name: "Dana Vihara", Status: models.SellableStatusActive}
		if err := env.db.Create(&campaign).Error; err != nil {
			t.Fatal(err)
		}

		resp := env.request(t, http.MethodPost, "/api/donations/"+campaign.ID.String()+"/pay", fiber.Map{
			"buyer_name": "Budi", "email": "budi@example.com", "amount": 50000,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want 201", resp.StatusCode)
		}

		var result services.InitiateResult
		decodeData(t, resp, &result)
		if result.Token != "snap-token" {
			t.Errorf("token = %q", result.Token)
		}
	})

	t.Run("draft campaign rejected with 400", func(t *testing.T) {
		campaign := models.DonationCampaign{Name: "Draft", Status: models.SellableStatusDraft}
		if err := env.db.Create(&campaign).Error; err != nil {
			t.Fatal(err)
		}
		resp := env.request(t, http.MethodPost, "/api/donations/"+campaign.ID.String()+"/pay", fiber.Map{
			"buyer_name": "Budi", "amount": 50000,
		})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("missing buyer name rejected", func(t *testing.T) {
		campaign := models.DonationCampaign{Name: "Aktif", Status: models.SellableStatusActive}
		if err := env.db.Create(&campaign).Error; err != nil {
			t.Fatal(err)
		}
		resp := env.request(t, http.MethodPost, "/api/donations/"+campaign.ID.String()+"/pay", fiber.Map{
			"amount": 50000,
		})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("invalid id rejected", func(t *testing.T) {
		resp := env.request(t, http.MethodPost, "/api/donations/not-a-uuid/pay", fiber.Map{
			"buyer_name": "Budi", "amount": 50000,
		})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestFAQCrud(t *testing.T) {
	env := newTestEnv(t)

	var created models.FAQ
	resp := env.request(t, http.MethodPost, "/api/faqs", fiber.Map{
		"question": "Jam buka vihara?",
		"answer":   "08:00 - 17:00",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	decodeData(t, resp, &created)
	if created.Question != "Jam buka vihara?" {
		t.Errorf("question = %q", created.Question)
	}

	resp = env.request(t, http.MethodGet, "/api/faqs/"+created.ID.String(), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}

	resp = env.request(t, http.MethodPut, "/api/faqs/"+created.ID.String(), fiber.Map{
		"answer": "09:00 - 16:00",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}
	var updated models.FAQ
	decodeData(t, resp, &updated)
	if updated.Answer != "09:00 - 16:00" {
		t.Errorf("answer = %q", updated.Answer)
	}

	resp = env.request(t, http.MethodDelete, "/api/faqs/"+created.ID.String(), nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	resp = env.request(t, http.MethodGet, "/api/faqs/"+created.ID.String(), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", resp.StatusCode)
	}

	// CRUD writes leave an audit trail.
	var auditCount int64
	env.db.Model(&models.ActivityLog{}).Where("entity_type = ?", "faq").Count(&auditCount)
	if auditCount != 3 {
		t.Errorf("audit rows = %d, want 3", auditCount)
	}
}
