package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nhammoud/homepros_backend/controllers"
	"github.com/nhammoud/homepros_backend/middleware"
	"github.com/nhammoud/homepros_backend/repositories"
	"github.com/nhammoud/homepros_backend/services"
)

// RegisterCommissionRoutes sets up the commission ledger and analytics routes
func RegisterCommissionRoutes(e *echo.Echo, db *mongo.Database, repo *repositories.CommissionRepository,
	ledger *services.AdjustmentLedger, settler *services.PaymentSettler) {

	commissionController := controllers.NewCommissionController(repo, ledger, settler)

	commissions := e.Group("/api/commissions")
	commissions.Use(middleware.JWTMiddleware())
	commissions.Use(middleware.ActivityTracker(db))

	adminOnly := middleware.RequireUserType("admin")

	commissions.GET("", commissionController.GetCommissionRecords, adminOnly)
	commissions.GET("/top-earners", commissionController.GetTopEarners, adminOnly)
	commissions.GET("/analytics", commissionController.GetGlobalAnalytics, adminOnly)
	commissions.GET("/:id", commissionController.GetCommissionRecord, adminOnly)
	commissions.POST("/:id/adjustments", commissionController.CreateAdjustment, adminOnly)
	commissions.POST("/:id/settle", commissionController.SettleCommission, adminOnly)

	// Admin sees any salesperson's summary; a salesperson only their own.
	// Ownership is checked in the handler.
	commissions.GET("/summary/:salespersonId", commissionController.GetSalespersonSummary,
		middleware.RequireUserType("admin", "salesperson"))
}
