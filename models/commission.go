package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Commission record statuses
const (
	CommissionStatusPending  = "pending"
	CommissionStatusAdjusted = "adjusted"

	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// Payment recipient types
const (
	RecipientSalesperson = "salesperson"
	RecipientOverride    = "override"
	RecipientCorp        = "corp"
)

// CommissionRecord is the ledger entry created once per monetized bid
// request. TotalCommission mirrors the rate sheet's base cost and is an audit
// figure; it is not required to equal the sum of the three split amounts.
type CommissionRecord struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	BidRequestID      primitive.ObjectID `json:"bidRequestId" bson:"bidRequestId"`
	SalespersonID     primitive.ObjectID `json:"salespersonId" bson:"salespersonId"`
	OverrideManagerID primitive.ObjectID `json:"overrideManagerId,omitempty" bson:"overrideManagerId,omitempty"`
	// ServiceCategory keeps the raw requested-service text for audit, not the
	// matched category name.
	ServiceCategory string  `json:"serviceCategory" bson:"serviceCategory"`
	TotalCommission float64 `json:"totalCommission" bson:"totalCommission"`
	SalesmanAmount  float64 `json:"salesmanAmount" bson:"salesmanAmount"`
	OverrideAmount  float64 `json:"overrideAmount" bson:"overrideAmount"`
	CorpAmount      float64 `json:"corpAmount" bson:"corpAmount"`
	// AdminRedirected marks records whose recipient is the default admin
	// because no salesperson was attributed; those never touch a
	// salesperson's running total.
	AdminRedirected bool       `json:"adminRedirected,omitempty" bson:"adminRedirected,omitempty"`
	Status          string     `json:"status" bson:"status"`
	PaymentStatus   string     `json:"paymentStatus" bson:"paymentStatus"`
	PaidAt          *time.Time `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt" bson:"createdAt"`
}

// CommissionAdjustment is an append-only audit row for post-hoc corrections
// to a record's salesman amount. Never edited or deleted.
type CommissionAdjustment struct {
	ID                 primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CommissionRecordID primitive.ObjectID `json:"commissionRecordId" bson:"commissionRecordId"`
	AdjustedBy         primitive.ObjectID `json:"adjustedBy" bson:"adjustedBy"`
	PreviousAmount     float64            `json:"previousAmount" bson:"previousAmount"`
	NewAmount          float64            `json:"newAmount" bson:"newAmount"`
	AdjustmentAmount   float64            `json:"adjustmentAmount" bson:"adjustmentAmount"`
	Reason             string             `json:"reason" bson:"reason"`
	Notes              string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
}

// CommissionPayment is one settled payout row. CommissionRecordIDs is a list
// to leave room for batched payouts; the settler currently writes singletons.
type CommissionPayment struct {
	ID                  primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	RecipientID         primitive.ObjectID   `json:"recipientId" bson:"recipientId"`
	RecipientType       string               `json:"recipientType" bson:"recipientType"`
	TotalAmount         float64              `json:"totalAmount" bson:"totalAmount"`
	CommissionRecordIDs []primitive.ObjectID `json:"commissionRecordIds" bson:"commissionRecordIds"`
	PaymentMethod       string               `json:"paymentMethod" bson:"paymentMethod"`
	Reference           string               `json:"reference,omitempty" bson:"reference,omitempty"`
	Status              string               `json:"status" bson:"status"`
	ScheduledDate       time.Time            `json:"scheduledDate" bson:"scheduledDate"`
	ProcessedAt         *time.Time           `json:"processedAt,omitempty" bson:"processedAt,omitempty"`
}

// AdjustmentRequest is the admin payload for correcting a commission record
type AdjustmentRequest struct {
	NewAmount float64 `json:"newAmount" validate:"gte=0"`
	Reason    string  `json:"reason" validate:"required"`
	Notes     string  `json:"notes"`
}

// SalespersonSummary is the per-salesperson analytics rollup
type SalespersonSummary struct {
	SalespersonID primitive.ObjectID `json:"salespersonId"`
	FullName      string             `json:"fullName,omitempty"`
	TotalEarned   float64            `json:"totalEarned"`
	TotalPaid     float64            `json:"totalPaid"`
	TotalPending  float64            `json:"totalPending"`
	RecordCount   int64              `json:"recordCount"`
	Records       []CommissionRecord `json:"records,omitempty"`
}

// TopEarner is one row of the top-earners leaderboard
type TopEarner struct {
	SalespersonID primitive.ObjectID `json:"salespersonId" bson:"_id"`
	FullName      string             `json:"fullName" bson:"fullName,omitempty"`
	TotalEarned   float64            `json:"totalEarned" bson:"totalEarned"`
	RecordCount   int64              `json:"recordCount" bson:"recordCount"`
}

// GlobalAnalytics sums the whole ledger, optionally windowed by date
type GlobalAnalytics struct {
	TotalCommission float64 `json:"totalCommission" bson:"totalCommission"`
	SalesmanTotal   float64 `json:"salesmanTotal" bson:"salesmanTotal"`
	OverrideTotal   float64 `json:"overrideTotal" bson:"overrideTotal"`
	CorpTotal       float64 `json:"corpTotal" bson:"corpTotal"`
	RecordCount     int64   `json:"recordCount" bson:"recordCount"`
}

// CommissionRecordDetail bundles a record with its adjustment history
type CommissionRecordDetail struct {
	Record      CommissionRecord       `json:"record"`
	Adjustments []CommissionAdjustment `json:"adjustments"`
}
