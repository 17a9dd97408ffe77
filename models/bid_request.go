package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bid request lifecycle statuses
const (
	BidStatusPending   = "pending"
	BidStatusContacted = "contacted"
	BidStatusBidSent   = "bid_sent"
	BidStatusWon       = "won"
	BidStatusLost      = "lost"
	BidStatusDeleted   = "deleted"
)

// BidRequest is a homeowner's service inquiry, optionally attributed to a
// salesperson, routed to a contractor. The bid_sent transition is what earns
// commission.
type BidRequest struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ServiceRequested  string             `json:"serviceRequested" bson:"serviceRequested"`
	HomeownerName     string             `json:"homeownerName" bson:"homeownerName"`
	ContactPhone      string             `json:"contactPhone,omitempty" bson:"contactPhone,omitempty"`
	SalespersonID     primitive.ObjectID `json:"salespersonId,omitempty" bson:"salespersonId,omitempty"`
	OverrideManagerID primitive.ObjectID `json:"overrideManagerId,omitempty" bson:"overrideManagerId,omitempty"`
	ContractorID      primitive.ObjectID `json:"contractorId,omitempty" bson:"contractorId,omitempty"`
	Status            string             `json:"status" bson:"status"`
	Budget            float64            `json:"budget" bson:"budget"`
	Notes             string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	LastUpdated       time.Time          `json:"lastUpdated" bson:"lastUpdated"`
}

// CreateBidRequestRequest is the intake payload
type CreateBidRequestRequest struct {
	ServiceRequested string  `json:"serviceRequested" validate:"required"`
	HomeownerName    string  `json:"homeownerName" validate:"required"`
	ContactPhone     string  `json:"contactPhone"`
	SalespersonID    string  `json:"salespersonId"`
	ContractorID     string  `json:"contractorId"`
	Budget           float64 `json:"budget" validate:"gte=0"`
	Notes            string  `json:"notes"`
}

// UpdateBidStatusRequest advances the bid request lifecycle
type UpdateBidStatusRequest struct {
	Status            string `json:"status" validate:"required,oneof=pending contacted bid_sent won lost deleted"`
	OverrideManagerID string `json:"overrideManagerId"`
}

// ValidBidStatus reports whether s is a known lifecycle status
func ValidBidStatus(s string) bool {
	switch s {
	case BidStatusPending, BidStatusContacted, BidStatusBidSent,
		BidStatusWon, BidStatusLost, BidStatusDeleted:
		return true
	}
	return false
}
