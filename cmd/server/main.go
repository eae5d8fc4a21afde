package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/stonegate/stablekeeper/internal/config"
	"github.com/stonegate/stablekeeper/internal/database"
	"github.com/stonegate/stablekeeper/internal/handlers"
	"github.com/stonegate/stablekeeper/internal/middleware"
	"github.com/stonegate/stablekeeper/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create admin user if it doesn't exist
	if err := database.EnsureAdminUser(db, cfg); err != nil {
		log.Printf("Warning: Could not ensure admin user: %v", err)
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Create handler with dependencies
	h := handlers.New(db, cfg)

	// Initialize object storage for receipt images
	var storageService *services.StorageService
	if cfg.StorageEnabled() {
		storageService, err = services.NewStorageService(
			cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL,
		)
		if err != nil {
			log.Printf("Warning: Failed to initialize storage service: %v", err)
			storageService = nil
		} else {
			if err := storageService.EnsureBucket(context.Background()); err != nil {
				log.Printf("Warning: Failed to ensure S3 bucket exists: %v", err)
			}
			h.SetStorage(storageService)
		}
	} else {
		log.Println("S3 credentials not configured, receipt images will not be stored")
	}

	// Initialize AI receipt processing
	var receiptHandler *handlers.ReceiptHandler
	if cfg.AIEnabled() {
		gemini := services.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
		processor := services.NewReceiptProcessor(gemini)
		matcher := services.NewSupplyMatcher()
		receiptHandler = handlers.NewReceiptHandler(db, cfg, storageService, processor, matcher)
		log.Println("Receipt processing service initialized")
	} else {
		log.Println("GEMINI_API_KEY not configured, receipt processing disabled")
	}

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API routes
	api := app.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Get("/me", middleware.AuthRequired(cfg), h.GetCurrentUser)

	// Horse routes (authenticated)
	horses := api.Group("/horses", middleware.AuthRequired(cfg))
	horses.Get("/", h.ListHorses)
	horses.Post("/", h.CreateHorse)
	horses.Get("/:id", h.GetHorse)
	horses.Put("/:id", h.UpdateHorse)
	horses.Delete("/:id", h.DeleteHorse)

	// Supply catalog routes (authenticated)
	supplies := api.Group("/supplies", middleware.AuthRequired(cfg))
	supplies.Get("/", h.ListSupplies)
	supplies.Post("/", h.CreateSupply)
	supplies.Get("/:id", h.GetSupply)
	supplies.Put("/:id", h.UpdateSupply)
	supplies.Post("/:id/adjust-stock", h.AdjustSupplyStock)
	supplies.Delete("/:id", middleware.AdminRequired(), h.DeleteSupply)

	// Transaction routes (authenticated)
	transactions := api.Group("/transactions", middleware.AuthRequired(cfg))
	transactions.Get("/", h.ListTransactions)
	transactions.Get("/:id", h.GetTransaction)
	transactions.Post("/:id/review", h.ReviewTransaction)
	transactions.Delete("/:id", h.DeleteTransaction)

	// Receipt routes (authenticated, only if AI processing is available)
	if receiptHandler != nil {
		receipts := api.Group("/receipts", middleware.AuthRequired(cfg))
		receipts.Post("/process", receiptHandler.ProcessReceipt)
		receipts.Post("/suggest-supplies", receiptHandler.SuggestSupplies)
	}

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
