// cmd/server/main.go
// Local development gateway. It serves every Smart Golf function from one Fiber app,
// turning each HTTP request into the API Gateway proxy event the deployed function would
// receive, so the web client can run against localhost:8080 unchanged.
package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	// logger prints request details (method, path, status, duration) to stdout
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"

	"github.com/smartgolf/smartgolf-api/internal/app"
	"github.com/smartgolf/smartgolf-api/internal/config"
	"github.com/smartgolf/smartgolf-api/internal/database"
	"github.com/smartgolf/smartgolf-api/internal/gateway"
	"github.com/smartgolf/smartgolf-api/internal/handlers"
	"github.com/smartgolf/smartgolf-api/internal/logger"
	"github.com/smartgolf/smartgolf-api/internal/middleware"
)

func main() {
	cfg := config.Load()
	zl := logger.New(cfg.LogLevel)
	defer func() { _ = zl.Sync() }()

	// The postgres backend owns its schema; DynamoDB tables are provisioned outside the app.
	if cfg.StoreBackend == config.BackendPostgres {
		if err := database.RunMigrations(database.DefaultMigrations, cfg.DatabaseURL, zl); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}
	}

	a, err := app.New(context.Background(), cfg, zl)
	if err != nil {
		log.Fatal("Failed to initialise handlers:", err)
	}

	srv := fiber.New(fiber.Config{
		AppName: "Smart Golf API (local)",
	})

	// CORS is not configured here: every function sets its own CORS headers and answers
	// OPTIONS itself, exactly as it does behind API Gateway.
	srv.Use(fiberlogger.New())

	srv.Get("/health", handlers.HealthCheck(cfg.StoreBackend))

	// middleware.Auth plays the part of the Cognito authorizer.
	api := srv.Group("", middleware.Auth())

	// Each function handles its own methods (and answers 405 for the rest), so routes are
	// registered with All.
	api.All("/courses", gateway.Adapt(a.CoursesHandler()))
	scores := gateway.Adapt(a.ScoresHandler())
	api.All("/scores", scores)
	api.All("/scores/averages", scores)
	api.All("/users", gateway.Adapt(a.UsersHandler()))
	api.All("/flags", gateway.Adapt(a.FlagsHandler()))
	api.All("/upload-url", gateway.Adapt(a.UploadURLHandler()))
	api.All("/scorecard", gateway.Adapt(a.ScorecardHandler()))

	zl.Info("starting local gateway", zap.String("port", cfg.Port), zap.String("backend", cfg.StoreBackend))
	log.Fatal(srv.Listen(":" + cfg.Port))
}
