package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServiceCategory is one row of the admin-curated rate sheet. The four
// monetary fields are copied verbatim onto every commission record that
// matches this category.
type ServiceCategory struct {
	ID                 primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name               string             `json:"name" bson:"name"`
	BaseCost           float64            `json:"baseCost" bson:"baseCost"`
	SalesmanCommission float64            `json:"salesmanCommission" bson:"salesmanCommission"`
	OverrideCommission float64            `json:"overrideCommission" bson:"overrideCommission"`
	CorpCommission     float64            `json:"corpCommission" bson:"corpCommission"`
	IsActive           bool               `json:"isActive" bson:"isActive"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ServiceCategoryRequest is the admin payload for creating or updating a
// rate-sheet row. All monetary fields must be non-negative.
type ServiceCategoryRequest struct {
	Name               string  `json:"name" validate:"required"`
	BaseCost           float64 `json:"baseCost" validate:"gte=0"`
	SalesmanCommission float64 `json:"salesmanCommission" validate:"gte=0"`
	OverrideCommission float64 `json:"overrideCommission" validate:"gte=0"`
	CorpCommission     float64 `json:"corpCommission" validate:"gte=0"`
	IsActive           *bool   `json:"isActive"`
}
