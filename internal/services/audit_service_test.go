package services

import (
	"testing"
	"time"

	"github.com/example/vihara/internal/models"
)

func TestAuditRecord(t *testing.T) {
	db := newTestDB(t)
	audit := NewAuditService(db)

	audit.Record(nil, AuditEntry{
		ActionType:  models.ActionPayment,
		EntityType:  "payment_transaction",
		EntityName:  "Renovasi Aula",
		Description: "Transaction settled",
		Details:     map[string]string{"raw_status": "settlement"},
	})

	var row models.ActivityLog
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("expected one audit row: %v", err)
	}
	if row.Actor != "system" {
		t.Errorf("actor = %q, want system default", row.Actor)
	}
	if row.Status != models.LogStatusSuccess {
		t.Errorf("status = %q, want SUCCESS default", row.Status)
	}
	if len(row.Details) == 0 {
		t.Error("details not serialized")
	}
}

func TestClearOldEntries(t *testing.T) {
	db := newTestDB(t)
	audit := NewAuditService(db)

	old := models.ActivityLog{Timestamp: time.Now().AddDate(0, 0, -40), Actor: "system", ActionType: models.ActionCreate}
	recent := models.ActivityLog{Timestamp: time.Now(), Actor: "system", ActionType: models.ActionCreate}
	if err := db.Create(&old).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&recent).Error; err != nil {
		t.Fatal(err)
	}

	removed, err := audit.ClearOldEntries(30)
	if err != nil {
		t.Fatalf("ClearOldEntries: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	var count int64
	db.Model(&models.ActivityLog{}).Count(&count)
	if count != 1 {
		t.Errorf("remaining rows = %d, want 1", count)
	}
}
