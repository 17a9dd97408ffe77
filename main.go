package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nhammoud/homepros_backend/config"
	"github.com/nhammoud/homepros_backend/middleware"
	"github.com/nhammoud/homepros_backend/repositories"
	"github.com/nhammoud/homepros_backend/routes"
	"github.com/nhammoud/homepros_backend/services"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis
	redisClient := config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()
	db := config.GetDatabase(client)

	// Commission payouts with no matching recipient fall back to this admin
	var defaultRecipientID primitive.ObjectID
	if hex := os.Getenv("DEFAULT_COMMISSION_RECIPIENT_ID"); hex != "" {
		defaultRecipientID, err = primitive.ObjectIDFromHex(hex)
		if err != nil {
			log.Fatalf("Invalid DEFAULT_COMMISSION_RECIPIENT_ID: %v", err)
		}
	}

	// Wire the commission pipeline
	repo := repositories.NewCommissionRepository(db, redisClient, defaultRecipientID)
	engine := services.NewCommissionEngine(repo)
	ledger := services.NewAdjustmentLedger(repo)
	settler := services.NewPaymentSettler(repo)

	// Create a new Echo instance
	e := echo.New()

	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeaders())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "HomePros Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	e.Use(httpsRedirect())

	// Register all API routes
	routes.SetupRoutes(e, db, repo, engine, ledger, settler)

	// Commission writes are not transactional, so a background pass settles
	// anything the inline settlement missed
	go func() {
		for {
			time.Sleep(5 * time.Minute)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			engine.ReconcileUnsettledCommissions(ctx, 5*time.Minute)
			cancel()
		}
	}()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}

func httpsRedirect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("X-Forwarded-Proto") == "http" {
				return c.Redirect(301, "https://"+c.Request().Host+c.Request().RequestURI)
			}
			return next(c)
		}
	}
}
