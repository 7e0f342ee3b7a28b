package service

import (
	"github.com/speedlink/backend/internal/domain"
)

// SpeedRepository is re-exported from domain for convenience
type SpeedRepository = domain.SpeedRepository
