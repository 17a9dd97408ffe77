// controllers/bid_request_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nhammoud/homepros_backend/models"
	"github.com/nhammoud/homepros_backend/services"
)

// BidRequestController owns the bid request lifecycle and is the commission
// engine's only caller.
type BidRequestController struct {
	DB     *mongo.Database
	Engine *services.CommissionEngine
}

func NewBidRequestController(db *mongo.Database, engine *services.CommissionEngine) *BidRequestController {
	return &BidRequestController{DB: db, Engine: engine}
}

// CreateBidRequest is the homeowner-inquiry intake
func (bc *BidRequestController) CreateBidRequest(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.CreateBidRequestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Service requested and homeowner name are required",
		})
	}

	var salespersonID primitive.ObjectID
	if req.SalespersonID != "" {
		id, err := primitive.ObjectIDFromHex(req.SalespersonID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid salesperson ID",
			})
		}
		salespersonID = id
	}

	var contractorID primitive.ObjectID
	if req.ContractorID != "" {
		id, err := primitive.ObjectIDFromHex(req.ContractorID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid contractor ID",
			})
		}
		contractorID = id
	}

	now := time.Now()
	bid := models.BidRequest{
		ID:               primitive.NewObjectID(),
		ServiceRequested: req.ServiceRequested,
		HomeownerName:    req.HomeownerName,
		ContactPhone:     req.ContactPhone,
		SalespersonID:    salespersonID,
		ContractorID:     contractorID,
		Status:           models.BidStatusPending,
		Budget:           req.Budget,
		Notes:            req.Notes,
		CreatedAt:        now,
		LastUpdated:      now,
	}

	if _, err := bc.DB.Collection("bidRequests").InsertOne(ctx, bid); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create bid request",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Bid request created successfully",
		Data:    bid,
	})
}

// GetBidRequests lists bid requests, filterable by status and salesperson
func (bc *BidRequestController) GetBidRequests(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"status": bson.M{"$ne": models.BidStatusDeleted}}
	if status := c.QueryParam("status"); status != "" {
		if !models.ValidBidStatus(status) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Unknown bid request status",
			})
		}
		filter["status"] = status
	}
	if sp := c.QueryParam("salespersonId"); sp != "" {
		id, err := primitive.ObjectIDFromHex(sp)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid salesperson ID",
			})
		}
		filter["salespersonId"] = id
	}

	cursor, err := bc.DB.Collection("bidRequests").Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve bid requests",
		})
	}
	defer cursor.Close(ctx)

	var bids []models.BidRequest
	if err := cursor.All(ctx, &bids); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode bid requests",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bid requests retrieved successfully",
		Data:    bids,
	})
}

// GetBidRequest fetches one bid request
func (bc *BidRequestController) GetBidRequest(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid bid request ID",
		})
	}

	var bid models.BidRequest
	err = bc.DB.Collection("bidRequests").FindOne(ctx, bson.M{"_id": id}).Decode(&bid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Bid request not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve bid request",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bid request retrieved successfully",
		Data:    bid,
	})
}

// UpdateBidRequestStatus advances the lifecycle. The bid_sent transition is
// done with a conditional FindOneAndUpdate (only a document not already in
// bid_sent matches), which is what guarantees the commission engine fires at
// most once per bid request.
func (bc *BidRequestController) UpdateBidRequestStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid bid request ID",
		})
	}

	var req models.UpdateBidStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown bid request status",
		})
	}

	var overrideManagerID primitive.ObjectID
	if req.OverrideManagerID != "" {
		overrideManagerID, err = primitive.ObjectIDFromHex(req.OverrideManagerID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid override manager ID",
			})
		}
	}

	filter := bson.M{"_id": id}
	if req.Status == models.BidStatusBidSent {
		// Only transition once; a second bid_sent request matches nothing
		filter["status"] = bson.M{"$ne": models.BidStatusBidSent}
	}

	var bid models.BidRequest
	err = bc.DB.Collection("bidRequests").FindOneAndUpdate(ctx,
		filter,
		bson.M{"$set": bson.M{"status": req.Status, "lastUpdated": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&bid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Either the bid request doesn't exist or it's already bid_sent
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Bid request not found or already marked bid_sent",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update bid request status",
		})
	}

	// Commission is earned at the point the bid goes out. Failures inside the
	// engine are logged, never surfaced; the status transition above stands
	// either way.
	if req.Status == models.BidStatusBidSent {
		bc.Engine.CreateCommissionForBidRequest(ctx, &bid, bid.SalespersonID, overrideManagerID)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bid request status updated successfully",
		Data:    bid,
	})
}
