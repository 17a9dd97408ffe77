package services

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nhammoud/homepros_backend/models"
)

func adjustableRecord(salesmanAmount float64) *models.CommissionRecord {
	return &models.CommissionRecord{
		ID:             primitive.NewObjectID(),
		BidRequestID:   primitive.NewObjectID(),
		SalespersonID:  primitive.NewObjectID(),
		SalesmanAmount: salesmanAmount,
		Status:         models.CommissionStatusPending,
		PaymentStatus:  models.PaymentStatusPaid,
		CreatedAt:      time.Now(),
	}
}

func TestCreateCommissionAdjustment(t *testing.T) {
	store := newFakeStore()
	ledger := NewAdjustmentLedger(store)

	record := adjustableRecord(200)
	store.records[record.ID] = record
	store.totals[record.SalespersonID] = 200
	adjustedBy := primitive.NewObjectID()

	adj, err := ledger.CreateCommissionAdjustment(context.Background(), record.ID, adjustedBy, 150, "duplicate lead", "")
	if err != nil {
		t.Fatalf("adjustment failed: %v", err)
	}

	if adj.PreviousAmount != 200 || adj.NewAmount != 150 || adj.AdjustmentAmount != -50 {
		t.Errorf("bad audit amounts: %+v", adj)
	}
	if adj.AdjustedBy != adjustedBy {
		t.Errorf("audit row must record who adjusted")
	}
	if adj.Reason != "duplicate lead" {
		t.Errorf("audit row must keep the reason")
	}

	got := store.records[record.ID]
	if got.SalesmanAmount != 150 {
		t.Errorf("record salesmanAmount = %v, want 150", got.SalesmanAmount)
	}
	if got.Status != models.CommissionStatusAdjusted {
		t.Errorf("record status = %q, want adjusted", got.Status)
	}

	if total := store.totals[record.SalespersonID]; total != 150 {
		t.Errorf("running total = %v, want 150 after -50 adjustment", total)
	}
	if len(store.adjustments) != 1 {
		t.Errorf("expected 1 audit row, got %d", len(store.adjustments))
	}
}

func TestAdjustmentsAppend(t *testing.T) {
	store := newFakeStore()
	ledger := NewAdjustmentLedger(store)

	record := adjustableRecord(100)
	store.records[record.ID] = record
	store.totals[record.SalespersonID] = 100
	admin := primitive.NewObjectID()

	if _, err := ledger.CreateCommissionAdjustment(context.Background(), record.ID, admin, 80, "partial refund", ""); err != nil {
		t.Fatalf("first adjustment failed: %v", err)
	}
	if _, err := ledger.CreateCommissionAdjustment(context.Background(), record.ID, admin, 120, "refund reversed", ""); err != nil {
		t.Fatalf("second adjustment failed: %v", err)
	}

	if len(store.adjustments) != 2 {
		t.Fatalf("expected 2 audit rows, got %d", len(store.adjustments))
	}
	// The second row chains off the first correction, not the original amount.
	if store.adjustments[1].PreviousAmount != 80 || store.adjustments[1].AdjustmentAmount != 40 {
		t.Errorf("second audit row should start from the adjusted amount: %+v", store.adjustments[1])
	}
	if total := store.totals[record.SalespersonID]; total != 120 {
		t.Errorf("running total = %v, want 120", total)
	}
}

func TestAdjustmentOnRedirectedRecordLeavesTotalsAlone(t *testing.T) {
	store := newFakeStore()
	ledger := NewAdjustmentLedger(store)

	record := adjustableRecord(250)
	record.AdminRedirected = true
	store.records[record.ID] = record

	if _, err := ledger.CreateCommissionAdjustment(context.Background(), record.ID, primitive.NewObjectID(), 100, "bad lead", ""); err != nil {
		t.Fatalf("adjustment failed: %v", err)
	}

	if total := store.totals[record.SalespersonID]; total != 0 {
		t.Errorf("redirected record must not move running totals, got %v", total)
	}
	if store.records[record.ID].SalesmanAmount != 100 {
		t.Errorf("record amount should still be corrected")
	}
}

func TestAdjustmentUnknownRecord(t *testing.T) {
	store := newFakeStore()
	ledger := NewAdjustmentLedger(store)

	_, err := ledger.CreateCommissionAdjustment(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 100, "typo", "")
	if err != ErrRecordNotFound {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
	if len(store.adjustments) != 0 {
		t.Errorf("no audit row expected for unknown record")
	}
}

func TestNoOpAdjustmentSkipsTotal(t *testing.T) {
	store := newFakeStore()
	ledger := NewAdjustmentLedger(store)

	record := adjustableRecord(200)
	store.records[record.ID] = record
	store.totals[record.SalespersonID] = 200

	adj, err := ledger.CreateCommissionAdjustment(context.Background(), record.ID, primitive.NewObjectID(), 200, "confirmed amount", "")
	if err != nil {
		t.Fatalf("adjustment failed: %v", err)
	}
	if adj.AdjustmentAmount != 0 {
		t.Errorf("delta = %v, want 0", adj.AdjustmentAmount)
	}
	if total := store.totals[record.SalespersonID]; total != 200 {
		t.Errorf("zero-delta adjustment must not move the total, got %v", total)
	}
	if len(store.adjustments) != 1 {
		t.Errorf("audit row is still appended for zero-delta corrections")
	}
}
