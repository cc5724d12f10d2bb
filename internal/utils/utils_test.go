package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewOrderID(t *testing.T) {
	t.Run("carries the prefix", func(t *testing.T) {
		id := NewOrderID("DON")
		if !strings.HasPrefix(id, "DON-") {
			t.Errorf("order id %q missing prefix", id)
		}
		if parts := strings.Split(id, "-"); len(parts) != 3 {
			t.Errorf("order id %q should have three segments", id)
		}
	})

	t.Run("ids are unique", func(t *testing.T) {
		seen := map[string]bool{}
		for i := 0; i < 1000; i++ {
			id := NewOrderID("MERCH")
			if seen[id] {
				t.Fatalf("duplicate order id %q", id)
			}
			seen[id] = true
		}
	})
}

func TestQRToken(t *testing.T) {
	token, err := NewQRToken()
	if err != nil {
		t.Fatal(err)
	}
	if len(token) != 32 {
		t.Errorf("token length = %d, want 32", len(token))
	}

	other, err := NewQRToken()
	if err != nil {
		t.Fatal(err)
	}
	if token == other {
		t.Error("two tokens should differ")
	}

	url, err := QRDataURL(token)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("data url %q missing png prefix", url[:30])
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("rahasia-vihara")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "rahasia-vihara" {
		t.Error("hash equals plaintext")
	}
	if !CheckPassword(hash, "rahasia-vihara") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	adminID := uuid.New()
	token, err := GenerateToken("secret", adminID, "admin1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	gotID, gotUsername, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if gotID != adminID || gotUsername != "admin1" {
		t.Errorf("claims = (%s, %s), want (%s, admin1)", gotID, gotUsername, adminID)
	}

	if _, _, err := ParseToken("other", token); err == nil {
		t.Error("token verified with wrong secret")
	}
}
