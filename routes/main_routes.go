package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nhammoud/homepros_backend/repositories"
	"github.com/nhammoud/homepros_backend/services"
)

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, db *mongo.Database, repo *repositories.CommissionRepository,
	engine *services.CommissionEngine, ledger *services.AdjustmentLedger, settler *services.PaymentSettler) {

	RegisterAuthRoutes(e, db)
	RegisterAdminRoutes(e, db, repo)
	RegisterBidRequestRoutes(e, db, engine)
	RegisterCommissionRoutes(e, db, repo, ledger, settler)
}
