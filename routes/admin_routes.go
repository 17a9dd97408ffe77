package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nhammoud/homepros_backend/controllers"
	"github.com/nhammoud/homepros_backend/middleware"
	"github.com/nhammoud/homepros_backend/repositories"
)

// RegisterAdminRoutes sets up the rate sheet and salesperson management
// routes. All of them are admin-only.
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Database, repo *repositories.CommissionRepository) {
	categoryController := controllers.NewServiceCategoryController(db, repo)
	salespersonController := controllers.NewSalespersonController(db)

	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.ActivityTracker(db))
	admin.Use(middleware.RequireUserType("admin"))

	// Rate sheet CRUD
	admin.POST("/service-categories", categoryController.CreateServiceCategory)
	admin.GET("/service-categories", categoryController.GetServiceCategories)
	admin.GET("/service-categories/:id", categoryController.GetServiceCategory)
	admin.PUT("/service-categories/:id", categoryController.UpdateServiceCategory)
	admin.DELETE("/service-categories/:id", categoryController.DeleteServiceCategory)

	// Salesperson onboarding
	admin.POST("/salespersons", salespersonController.CreateSalesperson)
	admin.GET("/salespersons", salespersonController.GetAllSalespersons)
	admin.GET("/salespersons/:id", salespersonController.GetSalesperson)
}
