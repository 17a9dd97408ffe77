package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nhammoud/homepros_backend/models"
)

// fakeStore is an in-memory Store for exercising the commission pipeline
// without MongoDB.
type fakeStore struct {
	categories       []models.ServiceCategory
	defaultRecipient *models.User

	records     map[primitive.ObjectID]*models.CommissionRecord
	adjustments []models.CommissionAdjustment
	payments    []models.CommissionPayment
	totals      map[primitive.ObjectID]float64

	categoriesErr error
	insertErr     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: make(map[primitive.ObjectID]*models.CommissionRecord),
		totals:  make(map[primitive.ObjectID]float64),
	}
}

func (f *fakeStore) ActiveServiceCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	if f.categoriesErr != nil {
		return nil, f.categoriesErr
	}
	return f.categories, nil
}

func (f *fakeStore) FindDefaultRecipient(ctx context.Context) (*models.User, error) {
	if f.defaultRecipient == nil {
		return nil, ErrRecordNotFound
	}
	return f.defaultRecipient, nil
}

func (f *fakeStore) InsertCommissionRecord(ctx context.Context, record *models.CommissionRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	copied := *record
	f.records[record.ID] = &copied
	return nil
}

func (f *fakeStore) GetCommissionRecord(ctx context.Context, id primitive.ObjectID) (*models.CommissionRecord, error) {
	record, ok := f.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	copied := *record
	return &copied, nil
}

func (f *fakeStore) MarkCommissionRecordPaid(ctx context.Context, id primitive.ObjectID, paidAt time.Time) error {
	if record, ok := f.records[id]; ok {
		record.PaymentStatus = models.PaymentStatusPaid
		record.PaidAt = &paidAt
	}
	return nil
}

func (f *fakeStore) ApplyAdjustment(ctx context.Context, id primitive.ObjectID, newAmount float64) error {
	if record, ok := f.records[id]; ok {
		record.SalesmanAmount = newAmount
		record.Status = models.CommissionStatusAdjusted
	}
	return nil
}

func (f *fakeStore) InsertCommissionAdjustment(ctx context.Context, adj *models.CommissionAdjustment) error {
	f.adjustments = append(f.adjustments, *adj)
	return nil
}

func (f *fakeStore) InsertCommissionPayment(ctx context.Context, payment *models.CommissionPayment) error {
	f.payments = append(f.payments, *payment)
	return nil
}

func (f *fakeStore) IncrementSalespersonCommissions(ctx context.Context, salespersonID primitive.ObjectID, delta float64) error {
	f.totals[salespersonID] += delta
	return nil
}

func (f *fakeStore) UnpaidCommissionRecordsBefore(ctx context.Context, cutoff time.Time) ([]models.CommissionRecord, error) {
	var out []models.CommissionRecord
	for _, record := range f.records {
		if record.PaymentStatus == models.PaymentStatusUnpaid && record.CreatedAt.Before(cutoff) {
			out = append(out, *record)
		}
	}
	return out, nil
}

// paymentsByType indexes the settled payment rows for assertions
func (f *fakeStore) paymentsByType() map[string][]models.CommissionPayment {
	out := make(map[string][]models.CommissionPayment)
	for _, p := range f.payments {
		out[p.RecipientType] = append(out[p.RecipientType], p)
	}
	return out
}
