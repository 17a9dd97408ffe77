package services

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nhammoud/homepros_backend/models"
)

func rateSheetRow(name string, base, salesman, override, corp float64) models.ServiceCategory {
	return models.ServiceCategory{
		ID:                 primitive.NewObjectID(),
		Name:               name,
		BaseCost:           base,
		SalesmanCommission: salesman,
		OverrideCommission: override,
		CorpCommission:     corp,
		IsActive:           true,
	}
}

func bidRequest(service string) *models.BidRequest {
	return &models.BidRequest{
		ID:               primitive.NewObjectID(),
		ServiceRequested: service,
		HomeownerName:    "Pat Doyle",
		Status:           models.BidStatusBidSent,
		CreatedAt:        time.Now(),
	}
}

func soleRecord(t *testing.T, store *fakeStore) *models.CommissionRecord {
	t.Helper()
	if len(store.records) != 1 {
		t.Fatalf("expected exactly 1 commission record, got %d", len(store.records))
	}
	for _, record := range store.records {
		return record
	}
	return nil
}

func TestCreateCommissionCopiesRateSheetAmounts(t *testing.T) {
	store := newFakeStore()
	store.categories = []models.ServiceCategory{rateSheetRow("Kitchen Remodeling", 400, 200, 40, 160)}
	store.defaultRecipient = &models.User{ID: primitive.NewObjectID(), UserType: "admin"}
	engine := NewCommissionEngine(store)

	salespersonID := primitive.NewObjectID()
	overrideID := primitive.NewObjectID()
	bid := bidRequest("kitchen remodeling")

	engine.CreateCommissionForBidRequest(context.Background(), bid, salespersonID, overrideID)

	record := soleRecord(t, store)
	if record.BidRequestID != bid.ID {
		t.Errorf("record bound to wrong bid request")
	}
	if record.SalespersonID != salespersonID {
		t.Errorf("record bound to wrong salesperson")
	}
	if record.ServiceCategory != "kitchen remodeling" {
		t.Errorf("record should keep raw requested text, got %q", record.ServiceCategory)
	}
	if record.TotalCommission != 400 || record.SalesmanAmount != 200 ||
		record.OverrideAmount != 40 || record.CorpAmount != 160 {
		t.Errorf("amounts not copied 1:1 from rate sheet: %+v", record)
	}
	if record.AdminRedirected {
		t.Errorf("attributed record must not be admin-redirected")
	}

	if got := store.totals[salespersonID]; got != 200 {
		t.Errorf("running total = %v, want 200", got)
	}
}

func TestCreateCommissionSettlesImmediately(t *testing.T) {
	store := newFakeStore()
	store.categories = []models.ServiceCategory{rateSheetRow("Roofing", 300, 150, 50, 100)}
	store.defaultRecipient = &models.User{ID: primitive.NewObjectID(), UserType: "admin"}
	engine := NewCommissionEngine(store)

	salespersonID := primitive.NewObjectID()
	overrideID := primitive.NewObjectID()
	engine.CreateCommissionForBidRequest(context.Background(), bidRequest("roof replacement"), salespersonID, overrideID)

	record := soleRecord(t, store)
	if record.PaymentStatus != models.PaymentStatusPaid {
		t.Errorf("record should be settled inline, paymentStatus = %q", record.PaymentStatus)
	}
	if record.PaidAt == nil {
		t.Errorf("settled record missing paidAt")
	}

	byType := store.paymentsByType()
	if len(store.payments) != 3 {
		t.Fatalf("expected 3 payment rows, got %d", len(store.payments))
	}
	if p := byType[models.RecipientSalesperson]; len(p) != 1 || p[0].RecipientID != salespersonID || p[0].TotalAmount != 150 {
		t.Errorf("bad salesperson payout: %+v", p)
	}
	if p := byType[models.RecipientOverride]; len(p) != 1 || p[0].RecipientID != overrideID || p[0].TotalAmount != 50 {
		t.Errorf("bad override payout: %+v", p)
	}
	if p := byType[models.RecipientCorp]; len(p) != 1 || p[0].RecipientID != store.defaultRecipient.ID || p[0].TotalAmount != 100 {
		t.Errorf("bad corp payout: %+v", p)
	}
}

func TestCreateCommissionWithoutOverrideManager(t *testing.T) {
	store := newFakeStore()
	store.categories = []models.ServiceCategory{rateSheetRow("Roofing", 300, 150, 50, 100)}
	store.defaultRecipient = &models.User{ID: primitive.NewObjectID(), UserType: "admin"}
	engine := NewCommissionEngine(store)

	engine.CreateCommissionForBidRequest(context.Background(), bidRequest("roofing"),
		primitive.NewObjectID(), primitive.NilObjectID)

	byType := store.paymentsByType()
	if len(byType[models.RecipientOverride]) != 0 {
		t.Errorf("override payout written without an override manager")
	}
	if len(store.payments) != 2 {
		t.Errorf("expected salesperson + corp payouts only, got %d rows", len(store.payments))
	}
}

func TestCreateCommissionSkipsZeroCorpSlice(t *testing.T) {
	store := newFakeStore()
	store.categories = []models.ServiceCategory{rateSheetRow("Drywall", 100, 100, 0, 0)}
	store.defaultRecipient = &models.User{ID: primitive.NewObjectID(), UserType: "admin"}
	engine := NewCommissionEngine(store)

	engine.CreateCommissionForBidRequest(context.Background(), bidRequest("drywall"),
		primitive.NewObjectID(), primitive.NilObjectID)

	if len(store.payments) != 1 {
		t.Fatalf("expected only the salesperson payout, got %d rows", len(store.payments))
	}
	if store.payments[0].RecipientType != models.RecipientSalesperson {
		t.Errorf("unexpected payout type %q", store.payments[0].RecipientType)
	}
}

func TestCreateCommissionNoMatchHasNoSideEffects(t *testing.T) {
	store := newFakeStore()
	store.categories = []models.ServiceCategory{rateSheetRow("Plumbing", 300, 150, 50, 100)}
	store.defaultRecipient = &models.User{ID: primitive.NewObjectID(), UserType: "admin"}
	engine := NewCommissionEngine(store)

	salespersonID := primitive.NewObjectID()
	engine.CreateCommissionForBidRequest(context.Background(), bidRequest("pest control"),
		salespersonID, primitive.NilObjectID)

	if len(store.records) != 0 {
		t.Errorf("no-match request must not create commission records")
	}
	if len(store.payments) != 0 {
		t.Errorf("no-match request must not create payments")
	}
	if store.totals[salespersonID] != 0 {
		t.Errorf("no-match request must not move running totals")
	}
}

func TestCreateCommissionRedirectsToDefaultRecipient(t *testing.T) {
	store := newFakeStore()
	store.categories = []models.ServiceCategory{rateSheetRow("Solar Installation", 500, 250, 50, 200)}
	admin := &models.User{ID: primitive.NewObjectID(), UserType: "admin"}
	store.defaultRecipient = admin
	engine := NewCommissionEngine(store)

	engine.CreateCommissionForBidRequest(context.Background(), bidRequest("solar panels"),
		primitive.NilObjectID, primitive.NilObjectID)

	record := soleRecord(t, store)
	if !record.AdminRedirected {
		t.Errorf("unattributed record must be admin-redirected")
	}
	if record.SalespersonID != admin.ID {
		t.Errorf("redirected record should carry the default recipient id")
	}
	if store.totals[admin.ID] != 0 {
		t.Errorf("redirected commission must not move any running total")
	}

	byType := store.paymentsByType()
	if p := byType[models.RecipientSalesperson]; len(p) != 1 || p[0].RecipientID != admin.ID {
		t.Errorf("redirected payout should go to the default recipient: %+v", p)
	}
}

func TestCreateCommissionSkippedWhenNoDefaultRecipient(t *testing.T) {
	store := newFakeStore()
	store.categories = []models.ServiceCategory{rateSheetRow("Solar Installation", 500, 250, 50, 200)}
	engine := NewCommissionEngine(store)

	engine.CreateCommissionForBidRequest(context.Background(), bidRequest("solar panels"),
		primitive.NilObjectID, primitive.NilObjectID)

	if len(store.records) != 0 {
		t.Errorf("commission must be skipped when nobody can receive it")
	}
}

func TestCreateCommissionIsNotIdempotent(t *testing.T) {
	// The engine trusts its caller to fire once per bid request; calling it
	// twice doubles the ledger. The bid-sent transition guard upstream is the
	// only protection.
	store := newFakeStore()
	store.categories = []models.ServiceCategory{rateSheetRow("Plumbing", 300, 150, 50, 100)}
	store.defaultRecipient = &models.User{ID: primitive.NewObjectID(), UserType: "admin"}
	engine := NewCommissionEngine(store)

	salespersonID := primitive.NewObjectID()
	bid := bidRequest("plumbing")
	engine.CreateCommissionForBidRequest(context.Background(), bid, salespersonID, primitive.NilObjectID)
	engine.CreateCommissionForBidRequest(context.Background(), bid, salespersonID, primitive.NilObjectID)

	if len(store.records) != 2 {
		t.Fatalf("expected duplicate invocation to create 2 records, got %d", len(store.records))
	}
	if store.totals[salespersonID] != 300 {
		t.Errorf("running total = %v, want 300 after double invocation", store.totals[salespersonID])
	}
}

func TestReconcileUnsettledCommissions(t *testing.T) {
	store := newFakeStore()
	store.defaultRecipient = &models.User{ID: primitive.NewObjectID(), UserType: "admin"}
	engine := NewCommissionEngine(store)

	stuck := &models.CommissionRecord{
		ID:             primitive.NewObjectID(),
		BidRequestID:   primitive.NewObjectID(),
		SalespersonID:  primitive.NewObjectID(),
		SalesmanAmount: 150,
		CorpAmount:     100,
		Status:         models.CommissionStatusPending,
		PaymentStatus:  models.PaymentStatusUnpaid,
		CreatedAt:      time.Now().Add(-time.Hour),
	}
	fresh := &models.CommissionRecord{
		ID:            primitive.NewObjectID(),
		SalespersonID: primitive.NewObjectID(),
		Status:        models.CommissionStatusPending,
		PaymentStatus: models.PaymentStatusUnpaid,
		CreatedAt:     time.Now(),
	}
	store.records[stuck.ID] = stuck
	store.records[fresh.ID] = fresh

	settled := engine.ReconcileUnsettledCommissions(context.Background(), 5*time.Minute)
	if settled != 1 {
		t.Fatalf("settled = %d, want 1", settled)
	}
	if store.records[stuck.ID].PaymentStatus != models.PaymentStatusPaid {
		t.Errorf("stuck record should be settled")
	}
	if store.records[fresh.ID].PaymentStatus != models.PaymentStatusUnpaid {
		t.Errorf("recent record must be left for the inline settlement path")
	}

	// A second pass finds nothing left to do.
	if again := engine.ReconcileUnsettledCommissions(context.Background(), 5*time.Minute); again != 0 {
		t.Errorf("second reconciliation settled %d records, want 0", again)
	}
}
