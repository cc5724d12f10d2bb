package services

import (
	"testing"

	"github.com/example/vihara/internal/config"
	"github.com/example/vihara/internal/models"
)

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		0:          "0",
		500:        "500",
		1500:       "1.500",
		75000:      "75.000",
		1250000:    "1.250.000",
		50_000_000: "50.000.000",
		-75000:     "-75.000",
	}
	for amount, want := range cases {
		if got := FormatAmount(amount); got != want {
			t.Errorf("FormatAmount(%v) = %q, want %q", amount, got, want)
		}
	}
}

func TestMailerWithoutSMTP(t *testing.T) {
	mailer := NewMailerService(&config.Config{})
	if mailer.Enabled() {
		t.Fatal("mailer should be disabled without SMTP config")
	}

	// Sends degrade to no-ops rather than failing the caller.
	trx := &models.PaymentTransaction{
		BuyerName:      "Budi",
		Email:          "budi@example.com",
		EntityName:     "Renovasi Aula",
		Amount:         100_000,
		GatewayOrderID: "DON-1-abc",
		Kind:           models.KindDonation,
	}
	if err := mailer.SendReceipt(trx); err != nil {
		t.Errorf("SendReceipt: %v", err)
	}

	reg := &models.Registration{FullName: "Siti", Email: "siti@example.com", EventName: "Waisak"}
	if err := mailer.SendRegistrationQR(reg, []byte{0x89, 0x50}); err != nil {
		t.Errorf("SendRegistrationQR: %v", err)
	}
}

func TestMailerSkipsEmptyRecipient(t *testing.T) {
	mailer := NewMailerService(&config.Config{})
	if err := mailer.SendReceipt(&models.PaymentTransaction{BuyerName: "Anon"}); err != nil {
		t.Errorf("SendReceipt without email: %v", err)
	}
}
