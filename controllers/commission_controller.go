// controllers/commission_controller.go
package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nhammoud/homepros_backend/middleware"
	"github.com/nhammoud/homepros_backend/models"
	"github.com/nhammoud/homepros_backend/repositories"
	"github.com/nhammoud/homepros_backend/services"
)

// CommissionController exposes the ledger to the admin dashboard: record
// listing, adjustments, manual settlement, and the analytics rollups.
type CommissionController struct {
	Repo    *repositories.CommissionRepository
	Ledger  *services.AdjustmentLedger
	Settler *services.PaymentSettler
}

func NewCommissionController(repo *repositories.CommissionRepository, ledger *services.AdjustmentLedger, settler *services.PaymentSettler) *CommissionController {
	return &CommissionController{Repo: repo, Ledger: ledger, Settler: settler}
}

// GetCommissionRecords lists ledger entries with optional filters
func (cc *CommissionController) GetCommissionRecords(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := repositories.CommissionFilter{}

	if sp := c.QueryParam("salespersonId"); sp != "" {
		id, err := primitive.ObjectIDFromHex(sp)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid salesperson ID",
			})
		}
		filter.SalespersonID = id
	}
	if ps := c.QueryParam("paymentStatus"); ps != "" {
		if ps != models.PaymentStatusPaid && ps != models.PaymentStatusUnpaid {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "paymentStatus must be paid or unpaid",
			})
		}
		filter.PaymentStatus = ps
	}

	from, to, err := parseDateWindow(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Dates must be in YYYY-MM-DD format",
		})
	}
	filter.From, filter.To = from, to

	records, err := cc.Repo.ListCommissionRecords(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve commission records",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission records retrieved successfully",
		Data:    records,
	})
}

// GetCommissionRecord fetches one record with its adjustment history
func (cc *CommissionController) GetCommissionRecord(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid commission record ID",
		})
	}

	record, err := cc.Repo.GetCommissionRecord(ctx, id)
	if err != nil {
		if err == services.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Commission record not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve commission record",
		})
	}

	adjustments, err := cc.Repo.ListAdjustments(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve adjustment history",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission record retrieved successfully",
		Data: models.CommissionRecordDetail{
			Record:      *record,
			Adjustments: adjustments,
		},
	})
}

// CreateAdjustment corrects a record's salesman amount with an audit trail
func (cc *CommissionController) CreateAdjustment(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid commission record ID",
		})
	}

	var req models.AdjustmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "A reason is required and the new amount must be non-negative",
		})
	}

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}
	adjustedBy, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID in token",
		})
	}

	adjustment, err := cc.Ledger.CreateCommissionAdjustment(ctx, id, adjustedBy, req.NewAmount, req.Reason, req.Notes)
	if err != nil {
		if err == services.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Commission record not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create adjustment",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Commission adjustment recorded successfully",
		Data:    adjustment,
	})
}

// SettleCommission manually re-runs payment settlement for one record
func (cc *CommissionController) SettleCommission(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid commission record ID",
		})
	}

	record, err := cc.Repo.GetCommissionRecord(ctx, id)
	if err != nil {
		if err == services.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Commission record not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve commission record",
		})
	}
	if record.PaymentStatus == models.PaymentStatusPaid {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Commission record is already settled",
		})
	}

	if err := cc.Settler.ProcessCommissionPayment(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to settle commission",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission settled successfully",
	})
}

// GetSalespersonSummary returns one salesperson's rollup. Admins may fetch
// anyone; a salesperson may only fetch their own.
func (cc *CommissionController) GetSalespersonSummary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("salespersonId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid salesperson ID",
		})
	}

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}
	if claims.UserType != "admin" && !cc.ownsSalespersonProfile(ctx, claims.UserID, id) {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You can only view your own commission summary",
		})
	}

	from, to, err := parseDateWindow(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Dates must be in YYYY-MM-DD format",
		})
	}

	summary, err := cc.Repo.SalespersonSummary(ctx, id, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build commission summary",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission summary retrieved successfully",
		Data:    summary,
	})
}

// GetTopEarners returns the leaderboard (default top 10)
func (cc *CommissionController) GetTopEarners(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	limit := int64(10)
	if l := c.QueryParam("limit"); l != "" {
		parsed, err := strconv.ParseInt(l, 10, 64)
		if err != nil || parsed <= 0 || parsed > 100 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "limit must be between 1 and 100",
			})
		}
		limit = parsed
	}

	earners, err := cc.Repo.TopEarners(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve top earners",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Top earners retrieved successfully",
		Data:    earners,
	})
}

// GetGlobalAnalytics returns ledger-wide totals, optionally windowed
func (cc *CommissionController) GetGlobalAnalytics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	from, to, err := parseDateWindow(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Dates must be in YYYY-MM-DD format",
		})
	}

	analytics, err := cc.Repo.GlobalAnalytics(ctx, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to compute analytics",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Analytics retrieved successfully",
		Data:    analytics,
	})
}

// ownsSalespersonProfile checks that the authenticated user's linked
// salesperson profile is the one being queried
func (cc *CommissionController) ownsSalespersonProfile(ctx context.Context, userID string, salespersonID primitive.ObjectID) bool {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false
	}
	var user models.User
	if err := cc.Repo.DB.Collection("users").FindOne(ctx, bson.M{"_id": uid}).Decode(&user); err != nil {
		return false
	}
	return user.SalespersonID != nil && *user.SalespersonID == salespersonID
}

// parseDateWindow reads optional from/to query params as a half-open
// [from, to) window; to is advanced by one day so it is inclusive of the
// named date
func parseDateWindow(c echo.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if f := c.QueryParam("from"); f != "" {
		t, err := time.Parse("2006-01-02", f)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if tq := c.QueryParam("to"); tq != "" {
		t, err := time.Parse("2006-01-02", tq)
		if err != nil {
			return nil, nil, err
		}
		end := t.AddDate(0, 0, 1)
		to = &end
	}
	return from, to, nil
}
