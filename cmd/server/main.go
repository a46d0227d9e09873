package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/localsite/planboard/internal/config"
	"github.com/localsite/planboard/internal/database"
	"github.com/localsite/planboard/internal/handlers"
	"github.com/localsite/planboard/internal/middleware"
	"github.com/localsite/planboard/internal/types"
	"github.com/localsite/planboard/internal/upstream"

	_ "github.com/localsite/planboard/docs/api" // Swagger docs
)

// @title Planboard API
// @version 1.0.0
// @description Construction-site task/floorplan review service: proxies an upstream project-management API and serves paginated, filterable task views from a relational mirror
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localsite/planboard

// @license.name MIT

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey InternalSecret
// @in header
// @name X-Internal-Secret

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to the mirror database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Migrate the tables this service owns (sync cursors); the mirror
	// schema is provisioned by the external sync process unless asked for.
	if cfg.DBAutoMigrate {
		if err := database.MigrateMirror(db); err != nil {
			log.Fatalf("Failed to run mirror migrations: %v", err)
		}
	} else if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Upstream API plumbing
	timeout := time.Duration(cfg.UpstreamTimeoutSec) * time.Second
	tokens := upstream.NewTokenSource(cfg.UpstreamAuthURL, cfg.UpstreamAPIToken, timeout, logger)
	api := upstream.NewClient(cfg.UpstreamAPIURL, tokens, cfg.UpstreamAPIVersion, cfg.UpstreamPerPage, timeout, logger)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("planboard")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api, all behind the internal shared secret
	apiGroup := app.Group("/api")
	apiGroup.Use(middleware.InternalSecret(cfg))
	apiGroup.Use(middleware.VersionMiddleware())

	// Create handlers
	storeHandler := &handlers.StoreHandler{DB: db, Log: logger}
	remoteHandler := &handlers.RemoteHandler{API: api, DB: db, Log: logger}

	// Local mirror routes
	apiGroup.Get("/projects", storeHandler.GetProjects)
	apiGroup.Get("/floorplans", storeHandler.GetFloorplans)
	apiGroup.Get("/statuses", storeHandler.GetStatuses)
	apiGroup.Get("/tasks", storeHandler.GetTasks)
	apiGroup.Get("/tasks/export", storeHandler.ExportTasks)

	// Upstream proxy routes
	remote := apiGroup.Group("/remote")
	remote.Get("/projects", remoteHandler.GetProjects)
	remote.Get("/projects/:projectId/tasks", remoteHandler.GetTasks)
	remote.Get("/projects/:projectId/tasks/:taskId", remoteHandler.GetTask)
	remote.Get("/projects/:projectId/tasks/:taskId/bubbles", remoteHandler.GetTaskBubbles)
	remote.Get("/projects/:projectId/floorplans", remoteHandler.GetFloorplans)
	remote.Get("/projects/:projectId/floorplans/:floorplanId", remoteHandler.GetFloorplan)
	remote.Get("/projects/:projectId/statuses", remoteHandler.GetStatuses)
	remote.Get("/projects/:projectId/bubbles", remoteHandler.GetBubbles)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler converts errors escaping a handler into the standard
// JSON error envelope. Validation problems keep their message; everything
// else is generic so internals never leak.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	errorType := "unknown"

	var fiberErr *fiber.Error
	var validation *types.ValidationError
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	case errors.As(err, &validation):
		code = fiber.StatusBadRequest
		message = validation.Error()
		errorType = "validation"
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
