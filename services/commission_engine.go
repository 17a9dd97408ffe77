// services/commission_engine.go
package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nhammoud/homepros_backend/models"
)

// CommissionEngine decides who earns what when a bid request becomes
// attributable, writes the commission record, and settles it immediately.
//
// Commission bookkeeping is best-effort: the engine logs every failure and
// never reports one back, so the bid-request workflow that invoked it is
// never blocked. Callers must invoke CreateCommissionForBidRequest at most
// once per bid request; nothing in the data model prevents duplicates.
type CommissionEngine struct {
	store   Store
	settler *PaymentSettler
}

func NewCommissionEngine(store Store) *CommissionEngine {
	return &CommissionEngine{
		store:   store,
		settler: NewPaymentSettler(store),
	}
}

// CreateCommissionForBidRequest matches the requested service against the
// rate sheet, creates the commission record, bumps the salesperson's running
// total, and settles payment. salespersonID and overrideManagerID may be the
// zero ObjectID.
func (e *CommissionEngine) CreateCommissionForBidRequest(ctx context.Context, bid *models.BidRequest, salespersonID, overrideManagerID primitive.ObjectID) {
	categories, err := e.store.ActiveServiceCategories(ctx)
	if err != nil {
		log.Printf("Commission skipped for bid request %s: failed to load rate sheet: %v", bid.ID.Hex(), err)
		return
	}

	category := MatchServiceCategory(bid.ServiceRequested, categories)
	if category == nil {
		log.Printf("Commission skipped for bid request %s: no rate sheet match for %q", bid.ID.Hex(), bid.ServiceRequested)
		return
	}

	recipientID := salespersonID
	adminRedirected := false
	if recipientID.IsZero() {
		recipient, err := e.store.FindDefaultRecipient(ctx)
		if err != nil {
			log.Printf("Commission skipped for bid request %s: no salesperson and no default recipient: %v", bid.ID.Hex(), err)
			return
		}
		recipientID = recipient.ID
		adminRedirected = true
	}

	record := &models.CommissionRecord{
		ID:                primitive.NewObjectID(),
		BidRequestID:      bid.ID,
		SalespersonID:     recipientID,
		OverrideManagerID: overrideManagerID,
		ServiceCategory:   bid.ServiceRequested,
		TotalCommission:   category.BaseCost,
		SalesmanAmount:    category.SalesmanCommission,
		OverrideAmount:    category.OverrideCommission,
		CorpAmount:        category.CorpCommission,
		AdminRedirected:   adminRedirected,
		Status:            models.CommissionStatusPending,
		PaymentStatus:     models.PaymentStatusUnpaid,
		CreatedAt:         time.Now(),
	}

	if err := e.store.InsertCommissionRecord(ctx, record); err != nil {
		log.Printf("Failed to create commission record for bid request %s: %v", bid.ID.Hex(), err)
		return
	}

	if !adminRedirected {
		if err := e.store.IncrementSalespersonCommissions(ctx, recipientID, record.SalesmanAmount); err != nil {
			log.Printf("Failed to update salesperson %s commission total: %v", recipientID.Hex(), err)
		}
	}

	if err := e.settler.ProcessCommissionPayment(ctx, record.ID); err != nil {
		log.Printf("Failed to settle commission %s: %v", record.ID.Hex(), err)
	}
}

// ReconcileUnsettledCommissions re-runs settlement for commission records
// that are still unpaid after olderThan. A crash between record creation and
// payment fan-out leaves exactly this state behind; the loop in main picks it
// up. Returns how many records were settled.
func (e *CommissionEngine) ReconcileUnsettledCommissions(ctx context.Context, olderThan time.Duration) int {
	cutoff := time.Now().Add(-olderThan)
	records, err := e.store.UnpaidCommissionRecordsBefore(ctx, cutoff)
	if err != nil {
		log.Printf("Commission reconciliation query failed: %v", err)
		return 0
	}

	settled := 0
	for i := range records {
		if err := e.settler.ProcessCommissionPayment(ctx, records[i].ID); err != nil {
			log.Printf("Reconciliation failed to settle commission %s: %v", records[i].ID.Hex(), err)
			continue
		}
		settled++
	}
	if settled > 0 {
		log.Printf("Commission reconciliation settled %d stuck record(s)", settled)
	}
	return settled
}
