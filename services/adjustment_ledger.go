// services/adjustment_ledger.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nhammoud/homepros_backend/models"
)

// AdjustmentLedger records post-hoc corrections to a commission record's
// salesman amount. Every correction appends an audit row holding the previous
// amount, the new amount, and the signed delta; rows are never edited or
// deleted. Unlike the engine, a bad adjustment is a caller error and
// propagates.
type AdjustmentLedger struct {
	store Store
}

func NewAdjustmentLedger(store Store) *AdjustmentLedger {
	return &AdjustmentLedger{store: store}
}

// CreateCommissionAdjustment appends the audit row, writes the corrected
// amount back onto the record (status becomes adjusted), and moves the
// salesperson's running total by the delta. Admin-redirected records never
// had a salesperson total to begin with, so their totals are left alone.
// Returns ErrRecordNotFound when the commission record does not exist.
func (l *AdjustmentLedger) CreateCommissionAdjustment(ctx context.Context, recordID, adjustedBy primitive.ObjectID, newAmount float64, reason, notes string) (*models.CommissionAdjustment, error) {
	record, err := l.store.GetCommissionRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}

	adjustment := &models.CommissionAdjustment{
		ID:                 primitive.NewObjectID(),
		CommissionRecordID: record.ID,
		AdjustedBy:         adjustedBy,
		PreviousAmount:     record.SalesmanAmount,
		NewAmount:          newAmount,
		AdjustmentAmount:   newAmount - record.SalesmanAmount,
		Reason:             reason,
		Notes:              notes,
		CreatedAt:          time.Now(),
	}

	if err := l.store.InsertCommissionAdjustment(ctx, adjustment); err != nil {
		return nil, fmt.Errorf("failed to insert commission adjustment: %w", err)
	}

	if err := l.store.ApplyAdjustment(ctx, record.ID, newAmount); err != nil {
		return nil, fmt.Errorf("failed to apply adjustment to commission record: %w", err)
	}

	if !record.AdminRedirected && adjustment.AdjustmentAmount != 0 {
		if err := l.store.IncrementSalespersonCommissions(ctx, record.SalespersonID, adjustment.AdjustmentAmount); err != nil {
			// The audit row and record are already corrected; the running
			// total is a derived figure, so log rather than fail the call.
			log.Printf("Adjustment %s recorded but salesperson %s total not updated: %v",
				adjustment.ID.Hex(), record.SalespersonID.Hex(), err)
		}
	}

	return adjustment, nil
}
