// services/store.go
package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nhammoud/homepros_backend/models"
)

// ErrRecordNotFound is returned by Store lookups when no document matches.
var ErrRecordNotFound = errors.New("record not found")

// Store is the narrow storage contract the commission subsystem runs
// against. The production implementation is repositories.CommissionRepository
// (MongoDB); tests use an in-memory fake.
type Store interface {
	// ActiveServiceCategories returns the rate sheet rows the matcher may use.
	ActiveServiceCategories(ctx context.Context) ([]models.ServiceCategory, error)

	// FindDefaultRecipient resolves the fallback commission recipient when no
	// salesperson is attributed: the configured default if set, otherwise the
	// oldest admin user. Returns ErrRecordNotFound when neither exists.
	FindDefaultRecipient(ctx context.Context) (*models.User, error)

	InsertCommissionRecord(ctx context.Context, record *models.CommissionRecord) error
	GetCommissionRecord(ctx context.Context, id primitive.ObjectID) (*models.CommissionRecord, error)
	MarkCommissionRecordPaid(ctx context.Context, id primitive.ObjectID, paidAt time.Time) error

	// ApplyAdjustment writes the corrected salesman amount back onto the
	// record and flips its status to adjusted.
	ApplyAdjustment(ctx context.Context, id primitive.ObjectID, newAmount float64) error

	InsertCommissionAdjustment(ctx context.Context, adj *models.CommissionAdjustment) error
	InsertCommissionPayment(ctx context.Context, payment *models.CommissionPayment) error

	// IncrementSalespersonCommissions adds delta to the salesperson's running
	// total in a single storage operation ($inc), so concurrent commission
	// events cannot lose updates.
	IncrementSalespersonCommissions(ctx context.Context, salespersonID primitive.ObjectID, delta float64) error

	// UnpaidCommissionRecordsBefore lists records still unpaid that were
	// created before cutoff. Used by the reconciliation loop.
	UnpaidCommissionRecordsBefore(ctx context.Context, cutoff time.Time) ([]models.CommissionRecord, error)
}
