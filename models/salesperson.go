package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Salesperson struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	FullName    string             `json:"fullName" bson:"fullName"`
	Email       string             `json:"email" bson:"email"`
	PhoneNumber string             `json:"phoneNumber" bson:"phoneNumber"`
	Region      string             `json:"region" bson:"region"`
	// Commissions is the running total of salesmanAmount earned across all
	// commission records. Updated only through $inc, never read-modify-write.
	Commissions float64            `json:"commissions" bson:"commissions"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	CreatedBy   primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreateSalespersonRequest is the admin payload for onboarding a salesperson
type CreateSalespersonRequest struct {
	FullName    string `json:"fullName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	PhoneNumber string `json:"phoneNumber"`
	Region      string `json:"region"`
}
