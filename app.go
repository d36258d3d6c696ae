package main

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/handlers"
	"storefront/internal/services"
)

// appDeps are the collaborators the HTTP surface needs.
type appDeps struct {
	Logger         *zap.Logger
	DB             *gorm.DB
	AuthService    *services.AuthService
	ProductService *services.ProductService
	ImagesDir      string
	CORSOrigins    string
	AccessLog      bool
}

// newApp builds the Fiber application with all routes registered.
func newApp(deps appDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Pillows & Candles",
		ErrorHandler: handlers.ErrorHandler(deps.Logger),
	})

	// --- Middleware ---
	app.Use(recover.New())
	if deps.AccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{AllowOrigins: strings.TrimSpace(deps.CORSOrigins)}))

	// --- Static images ---
	if deps.ImagesDir != "" {
		app.Static("/images", deps.ImagesDir)
	}

	// --- API Routes ---
	api := app.Group("/api")
	handlers.NewAuthHandler(deps.AuthService).RegisterRoutes(api)
	handlers.NewProductHandler(deps.ProductService).RegisterRoutes(api)

	app.Get("/health", handlers.NewHealthHandler(deps.DB).HandleHealth)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Pillows & Candles Backend is Running...")
	})

	return app
}
