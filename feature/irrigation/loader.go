package irrigation

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	repo    *Repository
	handler *Handler
}

// NewFeature creates a new Irrigation feature.
func NewFeature(db *gorm.DB, logger *zap.Logger) *Feature {
	repo := NewRepository(db)
	h := NewHandler(repo, logger)
	return &Feature{repo: repo, handler: h}
}

// Repository exposes the record store for other features.
func (f *Feature) Repository() *Repository {
	return f.repo
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "irrigation"
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
