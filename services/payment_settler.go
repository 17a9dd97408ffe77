// services/payment_settler.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nhammoud/homepros_backend/models"
)

// PaymentSettler fans one commission record out into payment rows: always a
// salesperson row, an override row when an override manager is set and the
// override slice is positive, and a corp row for the default recipient when
// the corp slice is positive. Settlement here means marking internal ledger
// rows completed; no real money moves.
type PaymentSettler struct {
	store Store
}

func NewPaymentSettler(store Store) *PaymentSettler {
	return &PaymentSettler{store: store}
}

// ProcessCommissionPayment marks the record paid and writes its payment rows.
// A missing record is a no-op. Rows are written independently; a failure
// partway leaves earlier rows in place (the reconciliation loop does not
// retry paid records, so partial fan-outs surface only in the payments
// ledger — an accepted limitation).
func (s *PaymentSettler) ProcessCommissionPayment(ctx context.Context, recordID primitive.ObjectID) error {
	record, err := s.store.GetCommissionRecord(ctx, recordID)
	if err != nil {
		if err == ErrRecordNotFound {
			log.Printf("Payment settlement skipped: commission record %s not found", recordID.Hex())
			return nil
		}
		return fmt.Errorf("failed to load commission record: %w", err)
	}

	now := time.Now()
	if err := s.store.MarkCommissionRecordPaid(ctx, record.ID, now); err != nil {
		return fmt.Errorf("failed to mark commission record paid: %w", err)
	}

	type payout struct {
		recipientID   primitive.ObjectID
		recipientType string
		amount        float64
	}

	payouts := []payout{
		{record.SalespersonID, models.RecipientSalesperson, record.SalesmanAmount},
	}
	if !record.OverrideManagerID.IsZero() && record.OverrideAmount > 0 {
		payouts = append(payouts, payout{record.OverrideManagerID, models.RecipientOverride, record.OverrideAmount})
	}
	if record.CorpAmount > 0 {
		corp, err := s.store.FindDefaultRecipient(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve corp recipient: %w", err)
		}
		payouts = append(payouts, payout{corp.ID, models.RecipientCorp, record.CorpAmount})
	}

	for _, p := range payouts {
		payment := &models.CommissionPayment{
			ID:                  primitive.NewObjectID(),
			RecipientID:         p.recipientID,
			RecipientType:       p.recipientType,
			TotalAmount:         p.amount,
			CommissionRecordIDs: []primitive.ObjectID{record.ID},
			PaymentMethod:       "system",
			Reference:           uuid.NewString(),
			Status:              "completed",
			ScheduledDate:       now,
			ProcessedAt:         &now,
		}
		if err := s.store.InsertCommissionPayment(ctx, payment); err != nil {
			return fmt.Errorf("failed to insert %s payment row: %w", p.recipientType, err)
		}
	}

	return nil
}
