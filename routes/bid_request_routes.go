package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nhammoud/homepros_backend/controllers"
	"github.com/nhammoud/homepros_backend/middleware"
	"github.com/nhammoud/homepros_backend/services"
)

// RegisterBidRequestRoutes sets up the bid request lifecycle routes
func RegisterBidRequestRoutes(e *echo.Echo, db *mongo.Database, engine *services.CommissionEngine) {
	bidController := controllers.NewBidRequestController(db, engine)

	bids := e.Group("/api/bid-requests")
	bids.Use(middleware.JWTMiddleware())
	bids.Use(middleware.ActivityTracker(db))
	bids.Use(middleware.RequireUserType("admin", "salesperson", "contractor"))

	bids.POST("", bidController.CreateBidRequest)
	bids.GET("", bidController.GetBidRequests)
	bids.GET("/:id", bidController.GetBidRequest)
	bids.PUT("/:id/status", bidController.UpdateBidRequestStatus)
}
