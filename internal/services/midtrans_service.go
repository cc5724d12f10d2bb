package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/example/vihara/internal/config"
)

const (
	sandboxSnapBaseURL    = "https://app.sandbox.midtrans.com"
	productionSnapBaseURL = "https://app.midtrans.com"
	sandboxAPIBaseURL     = "https://api.sandbox.midtrans.com"
	productionAPIBaseURL  = "https://api.midtrans.com"
)

// ErrGateway marks failures of the external payment gateway. Callers
// can re-initiate the purchase; the same transaction is never retried.
var ErrGateway = errors.New("payment gateway error")

// ChargeItem is one line of a charge's item details.
type ChargeItem struct {
	ID       string  `json:"id"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Name     string  `json:"name"`
}

// ChargeRequest describes a payment to create at the gateway.
type ChargeRequest struct {
	OrderID       string
	GrossAmount   float64
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Items         []ChargeItem
	// ExpiryMinutes > 0 bounds how long the payment page stays payable.
	ExpiryMinutes int
}

// ChargeResult is the payable token and redirect URL for a created charge.
type ChargeResult struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// StatusResult is the gateway's view of an order.
type StatusResult struct {
	OrderID       string `json:"order_id"`
	RawStatus     string `json:"transaction_status"`
	TransactionID string `json:"transaction_id"`
	PaymentType   string `json:"payment_type"`
	VANumbers     []struct {
		Bank     string `json:"bank"`
		VANumber string `json:"va_number"`
	} `json:"va_numbers"`
}

// GatewayClient is the outbound interface to the payment gateway.
type GatewayClient interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	QueryStatus(ctx context.Context, orderID string) (*StatusResult, error)
}

// MidtransClient talks to the Midtrans Snap and core APIs. Constructed
// once from configuration and injected; never built per call.
type MidtransClient struct {
	serverKey   string
	snapBaseURL string
	apiBaseURL  string
	httpClient  *http.Client
}

// NewMidtransClient builds a client for the configured environment.
func NewMidtransClient(cfg *config.Config) *MidtransClient {
	snapBase := sandboxSnapBaseURL
	apiBase := sandboxAPIBaseURL
	if cfg.MidtransProduction {
		snapBase = productionSnapBaseURL
		apiBase = productionAPIBaseURL
	}
	return &MidtransClient{
		serverKey:   cfg.MidtransServerKey,
		snapBaseURL: snapBase,
		apiBaseURL:  apiBase,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// NewMidtransClientWithBaseURLs overrides the endpoints, used by tests.
func NewMidtransClientWithBaseURLs(serverKey, snapBaseURL, apiBaseURL string) *MidtransClient {
	return &MidtransClient{
		serverKey:   serverKey,
		snapBaseURL: strings.TrimRight(snapBaseURL, "/"),
		apiBaseURL:  strings.TrimRight(apiBaseURL, "/"),
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateCharge creates a Snap transaction and returns its payable token.
func (m *MidtransClient) CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	payload := map[string]any{
		"transaction_details": map[string]any{
			"order_id":     req.OrderID,
			"gross_amount": req.GrossAmount,
		},
		"customer_details": map[string]any{
			"first_name": req.CustomerName,
			"email":      req.CustomerEmail,
			"phone":      req.CustomerPhone,
		},
	}
	if len(req.Items) > 0 {
		payload["item_details"] = req.Items
	}
	if req.ExpiryMinutes > 0 {
		payload["custom_expiry"] = map[string]any{
			"expiry_duration": req.ExpiryMinutes,
			"unit":            "minute",
		}
	}

	body, err := m.do(ctx, http.MethodPost, m.snapBaseURL+"/snap/v1/transactions", payload)
	if err != nil {
		return nil, err
	}

	var result ChargeResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("midtrans charge unmarshal: %w", err)
	}
	if result.Token == "" {
		return nil, fmt.Errorf("%w: empty snap token", ErrGateway)
	}
	return &result, nil
}

// QueryStatus fetches the current transaction status for an order id.
func (m *MidtransClient) QueryStatus(ctx context.Context, orderID string) (*StatusResult, error) {
	body, err := m.do(ctx, http.MethodGet, m.apiBaseURL+"/v2/"+orderID+"/status", nil)
	if err != nil {
		return nil, err
	}

	var result StatusResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("midtrans status unmarshal: %w", err)
	}
	return &result, nil
}

func (m *MidtransClient) do(ctx context.Context, method, url string, payload any) ([]byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("midtrans request marshal: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("midtrans request build: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// Midtrans uses HTTP basic auth with the server key as username.
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(m.serverKey+":")))

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrGateway, resp.StatusCode, string(body))
	}

	return body, nil
}
