package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/speedlink/backend/internal/domain"
	"github.com/speedlink/backend/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	aggregateSvc *service.AggregateService
	patternSvc   *service.PatternService
	spatialSvc   *service.SpatialService
	repo         service.SpeedRepository
}

// NewHandler creates a new handler
func NewHandler(aggregateSvc *service.AggregateService, patternSvc *service.PatternService, spatialSvc *service.SpatialService, repo service.SpeedRepository) *Handler {
	return &Handler{
		aggregateSvc: aggregateSvc,
		patternSvc:   patternSvc,
		spatialSvc:   spatialSvc,
		repo:         repo,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	status := "ok"
	if err := h.repo.Health(c.Context()); err != nil {
		log.Error().Err(err).Msg("health check failed")
		status = "degraded"
	}
	return c.JSON(fiber.Map{
		"status":  status,
		"service": "speedlink-backend",
		"version": "1.0.0",
	})
}

// GetAggregate returns per-link and overall speed averages for a day+period
func (h *Handler) GetAggregate(c *fiber.Ctx) error {
	result, err := h.aggregateSvc.Aggregate(c.Context(), c.Query("day"), c.Query("period"))
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(result)
}

// GetLinkAggregate returns the aggregate and metadata for a single link
func (h *Handler) GetLinkAggregate(c *fiber.Ctx) error {
	linkID, err := service.ParseLinkID(c.Params("link_id"))
	if err != nil {
		return h.mapError(err)
	}

	stats, err := h.aggregateSvc.AggregateForLink(c.Context(), linkID, c.Query("day"), c.Query("period"))
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(stats)
}

// GetSlowLinks returns links recurrently below a speed threshold
func (h *Handler) GetSlowLinks(c *fiber.Ctx) error {
	threshold := c.QueryFloat("threshold", -1)
	minDays := c.QueryInt("min_days", 0)

	links, err := h.patternSvc.SlowLinks(c.Context(), c.Query("period"), threshold, minDays)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(fiber.Map{
		"links": links,
		"count": len(links),
	})
}

// SpatialFilter returns aggregated links intersecting a bounding box
func (h *Handler) SpatialFilter(c *fiber.Ctx) error {
	var req domain.SpatialFilterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.spatialSvc.FilterByBounds(c.Context(), req)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(result)
}

// mapError translates the domain error taxonomy to HTTP statuses. Datastore
// failures are logged here and surfaced as opaque 500s, never retried.
func (h *Handler) mapError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		log.Error().Err(err).Msg("datastore error")
		return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
	}
}
