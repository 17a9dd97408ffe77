// controllers/salesperson_controller.go
package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/nhammoud/homepros_backend/models"
)

type SalespersonController struct {
	DB *mongo.Database
}

func NewSalespersonController(db *mongo.Database) *SalespersonController {
	return &SalespersonController{DB: db}
}

// CreateSalesperson onboards a salesperson: a login user plus the profile
// document that carries the running commission total
func (spc *SalespersonController) CreateSalesperson(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.CreateSalespersonRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Full name, email, and a password of at least 8 characters are required",
		})
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	count, err := spc.DB.Collection("users").CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check existing users",
		})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "A user with this email already exists",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to hash password",
		})
	}

	var createdBy primitive.ObjectID
	if userID, ok := c.Get("userId").(string); ok {
		createdBy, _ = primitive.ObjectIDFromHex(userID)
	}

	now := time.Now()
	salesperson := models.Salesperson{
		ID:          primitive.NewObjectID(),
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Region:      req.Region,
		Commissions: 0,
		IsActive:    true,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	user := models.User{
		ID:            primitive.NewObjectID(),
		Email:         req.Email,
		Password:      string(hashedPassword),
		FullName:      req.FullName,
		UserType:      "salesperson",
		Phone:         req.PhoneNumber,
		IsActive:      true,
		SalespersonID: &salesperson.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	salesperson.UserID = user.ID

	if _, err := spc.DB.Collection("users").InsertOne(ctx, user); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create user account",
		})
	}
	if _, err := spc.DB.Collection("salespersons").InsertOne(ctx, salesperson); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create salesperson profile",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Salesperson created successfully",
		Data:    salesperson,
	})
}

// GetAllSalespersons lists salesperson profiles with their running totals
func (spc *SalespersonController) GetAllSalespersons(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := spc.DB.Collection("salespersons").Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "fullName", Value: 1}}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve salespersons",
		})
	}
	defer cursor.Close(ctx)

	var salespersons []models.Salesperson
	if err := cursor.All(ctx, &salespersons); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode salespersons",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Salespersons retrieved successfully",
		Data:    salespersons,
	})
}

// GetSalesperson fetches one salesperson profile
func (spc *SalespersonController) GetSalesperson(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid salesperson ID",
		})
	}

	var salesperson models.Salesperson
	err = spc.DB.Collection("salespersons").FindOne(ctx, bson.M{"_id": id}).Decode(&salesperson)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Salesperson not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve salesperson",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Salesperson retrieved successfully",
		Data:    salesperson,
	})
}
