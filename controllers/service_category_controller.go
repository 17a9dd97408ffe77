// controllers/service_category_controller.go
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
	"github.com/nhammoud/homepros_backend/repositories"
)

// ServiceCategoryController administers the rate sheet. Writes invalidate the
// cached rate sheet so the matcher never works from stale splits.
type ServiceCategoryController struct {
	DB   *mongo.Database
	Repo *repositories.CommissionRepository
}

func NewServiceCategoryController(db *mongo.Database, repo *repositories.CommissionRepository) *ServiceCategoryController {
	return &ServiceCategoryController{DB: db, Repo: repo}
}

// CreateServiceCategory adds a rate-sheet row
func (sc *ServiceCategoryController) CreateServiceCategory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.ServiceCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Name is required and all amounts must be non-negative",
		})
	}

	// Name matching is case-insensitive, so uniqueness has to be too
	count, err := sc.DB.Collection("serviceCategories").CountDocuments(ctx,
		bson.M{"name": req.Name},
		options.Count().SetCollation(&options.Collation{Locale: "en", Strength: 2}),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check existing categories",
		})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Service category with this name already exists",
		})
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	category := models.ServiceCategory{
		ID:                 primitive.NewObjectID(),
		Name:               req.Name,
		BaseCost:           req.BaseCost,
		SalesmanCommission: req.SalesmanCommission,
		OverrideCommission: req.OverrideCommission,
		CorpCommission:     req.CorpCommission,
		IsActive:           isActive,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}

	if _, err := sc.DB.Collection("serviceCategories").InsertOne(ctx, category); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create service category",
		})
	}

	sc.Repo.InvalidateRateSheet(ctx)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Service category created successfully",
		Data:    category,
	})
}

// GetServiceCategories lists rate-sheet rows, optionally only active ones
func (sc *ServiceCategoryController) GetServiceCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if c.QueryParam("active") == "true" {
		filter["isActive"] = true
	}

	cursor, err := sc.DB.Collection("serviceCategories").Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve service categories",
		})
	}
	defer cursor.Close(ctx)

	var categories []models.ServiceCategory
	if err := cursor.All(ctx, &categories); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode service categories",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service categories retrieved successfully",
		Data:    categories,
	})
}

// GetServiceCategory fetches one rate-sheet row
func (sc *ServiceCategoryController) GetServiceCategory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid category ID",
		})
	}

	var category models.ServiceCategory
	err = sc.DB.Collection("serviceCategories").FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Service category not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve service category",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service category retrieved successfully",
		Data:    category,
	})
}

// UpdateServiceCategory replaces a row's rates and active flag
func (sc *ServiceCategoryController) UpdateServiceCategory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid category ID",
		})
	}

	var req models.ServiceCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Name is required and all amounts must be non-negative",
		})
	}

	update := bson.M{"$set": bson.M{
		"name":               req.Name,
		"baseCost":           req.BaseCost,
		"salesmanCommission": req.SalesmanCommission,
		"overrideCommission": req.OverrideCommission,
		"corpCommission":     req.CorpCommission,
		"updatedAt":          time.Now(),
	}}
	if req.IsActive != nil {
		update["$set"].(bson.M)["isActive"] = *req.IsActive
	}

	result, err := sc.DB.Collection("serviceCategories").UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update service category",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Service category not found",
		})
	}

	sc.Repo.InvalidateRateSheet(ctx)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service category updated successfully",
	})
}

// DeleteServiceCategory soft-deletes by deactivating; the row stays for the
// audit trail of records that already matched it
func (sc *ServiceCategoryController) DeleteServiceCategory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid category ID",
		})
	}

	result, err := sc.DB.Collection("serviceCategories").UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to deactivate service category",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Service category not found",
		})
	}

	sc.Repo.InvalidateRateSheet(ctx)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Service category deactivated successfully",
	})
}
