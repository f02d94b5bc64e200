package scan

import (
	"tiretrack/core/storage"
	"tiretrack/feature/notes"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates a new Scan feature.
func NewFeature(store notes.Store, client storage.Client, bucket string, recognizer Recognizer, logger *zap.Logger, cfg Config) *Feature {
	svc := NewService(store, client, bucket, recognizer, logger, cfg)
	return &Feature{handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "scan"
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
