package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"rental/internal/config"
	"rental/internal/database"
	"rental/internal/handlers"
	"rental/internal/middleware"
	"rental/internal/repositories"
	"rental/internal/services"
	"rental/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(config.NewViper())
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Initialize RabbitMQ Client ---
	// Place events are optional; without RABBITMQ_URL the service runs without them.
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close() // Ensure the connection is closed on exit
		events = mqClient

		if cfg.PlaceEventsAudit {
			log.Println("Starting RabbitMQ consumer for place events...")
			if err := mqClient.ConsumePlaceEvents(rabbitmq.LogPlaceEvent); err != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", err)
			}
		}
	}

	app, cleanup, err := newApp(cfg, events)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}
	defer cleanup()

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newApp wires repositories, services and handlers into a Fiber app. The
// returned cleanup releases the database connection.
func newApp(cfg config.Config, events services.EventPublisher) (*fiber.App, func(), error) {
	// --- Initialize Repositories ---
	var (
		userRepo  repositories.UserRepository
		placeRepo repositories.PlaceRepository
		db        *gorm.DB
	)
	if cfg.DBDriver == "memory" {
		userRepo = repositories.NewMockUserRepository()
		placeRepo = repositories.NewMockPlaceRepository()
	} else {
		var err error
		db, err = database.Open(cfg.DBDriver, cfg.DatabaseDSN, cfg.DBConnectTimeout)
		if err != nil {
			return nil, nil, err
		}
		userRepo = repositories.NewGORMUserRepository(db)
		placeRepo = repositories.NewGORMPlaceRepository(db)
	}
	cleanup := func() {
		if db == nil {
			return
		}
		if err := database.Close(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	// --- Initialize Services ---
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(userRepo, tokenService, cfg.BcryptCost)
	placeService := services.NewPlaceService(placeRepo, events)
	uploadService := services.NewUploadService(cfg.UploadDir, cfg.FetchTimeout)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService, handlers.CookieOptions{
		TTL:      cfg.TokenTTL,
		Secure:   cfg.CookieSecure,
		SameSite: cfg.CookieSameSite,
	})
	placeHandler := handlers.NewPlaceHandler(placeService)
	uploadHandler := handlers.NewUploadHandler(uploadService)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    cfg.UploadBodyLimit,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New()) // Request logger
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigin,
		AllowCredentials: true,
	}))

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"events": events != nil,
		})
	})

	app.Static("/uploads", cfg.UploadDir)

	// --- API Routes ---
	authHandler.RegisterRoutes(app, middleware.Identify(tokenService))
	placeHandler.RegisterRoutes(app, middleware.AuthRequired(tokenService))
	uploadHandler.RegisterRoutes(app)

	return app, cleanup, nil
}
