package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlog "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/speedlink/backend/internal/config"
	"github.com/speedlink/backend/internal/delivery/http"
	"github.com/speedlink/backend/internal/repository/postgres"
	"github.com/speedlink/backend/internal/service"
	"github.com/speedlink/backend/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using system environment")
	}

	// Configuration
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment())

	// Database connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo service.SpeedRepository
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set, serving demo data only")
		repo = postgres.NewDemoRepository()
	} else {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err == nil {
			err = pool.Ping(ctx)
		}
		if err != nil {
			log.Warn().Err(err).Msg("could not connect to database, serving demo data only")
			repo = postgres.NewDemoRepository()
		} else {
			defer pool.Close()
			log.Info().Msg("connected to PostgreSQL")
			repo = postgres.NewPostgresRepository(pool)
		}
	}

	// Dependency Injection: Services
	aggregateSvc := service.NewAggregateService(repo)
	patternSvc := service.NewPatternService(repo)
	spatialSvc := service.NewSpatialService(repo)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "Speedlink API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlog.New(fiberlog.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Routes
	http.SetupRoutes(app, aggregateSvc, patternSvc, spatialSvc, repo)

	// Graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited gracefully")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
