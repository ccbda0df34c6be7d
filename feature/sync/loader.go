package sync

import (
	"irrigation-manager/feature/audit"
	"irrigation-manager/feature/irrigation"
	"irrigation-manager/feature/users"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Sync feature.
func NewFeature(db *gorm.DB, cat Catalog, usersSvc *users.Service, auditSvc *audit.Service, records *irrigation.Repository, logger *zap.Logger, topic, actorHeader string) *Feature {
	svc := NewService(db, cat, usersSvc, auditSvc, records, logger, topic)
	h := NewHandler(svc, actorHeader)
	return &Feature{service: svc, handler: h}
}

// Service exposes the sync service.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "sync"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
