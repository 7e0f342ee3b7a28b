package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/speedlink/backend/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, aggregateSvc *service.AggregateService, patternSvc *service.PatternService, spatialSvc *service.SpatialService, repo service.SpeedRepository) {
	handler := NewHandler(aggregateSvc, patternSvc, spatialSvc, repo)

	// Health check
	app.Get("/health", handler.HealthCheck)

	// Aggregation endpoints
	app.Get("/aggregates/", handler.GetAggregate)
	app.Post("/aggregates/spatial_filter/", handler.SpatialFilter)
	app.Get("/aggregates/:link_id", handler.GetLinkAggregate)

	// Pattern endpoints
	app.Get("/patterns/slow_links/", handler.GetSlowLinks)
}
