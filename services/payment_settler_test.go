package services

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nhammoud/homepros_backend/models"
)

func TestProcessCommissionPaymentMissingRecordIsNoOp(t *testing.T) {
	store := newFakeStore()
	settler := NewPaymentSettler(store)

	if err := settler.ProcessCommissionPayment(context.Background(), primitive.NewObjectID()); err != nil {
		t.Fatalf("missing record should be a silent no-op, got %v", err)
	}
	if len(store.payments) != 0 {
		t.Errorf("no payments expected for a missing record")
	}
}

func TestProcessCommissionPaymentWritesSingletonRows(t *testing.T) {
	store := newFakeStore()
	store.defaultRecipient = &models.User{ID: primitive.NewObjectID(), UserType: "admin"}
	settler := NewPaymentSettler(store)

	record := &models.CommissionRecord{
		ID:                primitive.NewObjectID(),
		BidRequestID:      primitive.NewObjectID(),
		SalespersonID:     primitive.NewObjectID(),
		OverrideManagerID: primitive.NewObjectID(),
		SalesmanAmount:    200,
		OverrideAmount:    40,
		CorpAmount:        160,
		Status:            models.CommissionStatusPending,
		PaymentStatus:     models.PaymentStatusUnpaid,
		CreatedAt:         time.Now(),
	}
	store.records[record.ID] = record

	if err := settler.ProcessCommissionPayment(context.Background(), record.ID); err != nil {
		t.Fatalf("settlement failed: %v", err)
	}

	if store.records[record.ID].PaymentStatus != models.PaymentStatusPaid {
		t.Errorf("record not marked paid")
	}

	if len(store.payments) != 3 {
		t.Fatalf("expected 3 payment rows, got %d", len(store.payments))
	}
	seen := make(map[string]bool)
	for _, p := range store.payments {
		if len(p.CommissionRecordIDs) != 1 || p.CommissionRecordIDs[0] != record.ID {
			t.Errorf("%s payout should reference exactly the settled record", p.RecipientType)
		}
		if p.Status != "completed" {
			t.Errorf("%s payout status = %q, want completed", p.RecipientType, p.Status)
		}
		if p.PaymentMethod != "system" {
			t.Errorf("%s payout method = %q, want system", p.RecipientType, p.PaymentMethod)
		}
		if p.Reference == "" {
			t.Errorf("%s payout missing reference", p.RecipientType)
		}
		if p.ProcessedAt == nil {
			t.Errorf("%s payout missing processedAt", p.RecipientType)
		}
		if seen[p.Reference] {
			t.Errorf("payment references must be unique")
		}
		seen[p.Reference] = true
	}
}

func TestProcessCommissionPaymentCorpNeedsRecipient(t *testing.T) {
	store := newFakeStore()
	settler := NewPaymentSettler(store)

	record := &models.CommissionRecord{
		ID:             primitive.NewObjectID(),
		SalespersonID:  primitive.NewObjectID(),
		SalesmanAmount: 200,
		CorpAmount:     160,
		PaymentStatus:  models.PaymentStatusUnpaid,
		CreatedAt:      time.Now(),
	}
	store.records[record.ID] = record

	if err := settler.ProcessCommissionPayment(context.Background(), record.ID); err == nil {
		t.Fatalf("expected error when corp slice has no recipient")
	}
}
