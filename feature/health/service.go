package health

import (
	"context"

	"tiretrack/core/storage"
	"tiretrack/feature/health/checks"
	"tiretrack/feature/notes"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service runs operational health checks.
type Service struct {
	db     *gorm.DB
	store  notes.Store
	client storage.Client // nil when the scan archive is disabled
	bucket string
	logger *zap.Logger
}

// NewService creates a new health service.
func NewService(db *gorm.DB, store notes.Store, client storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		store:  store,
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// StorageEnabled reports whether the scan archive is configured.
func (s *Service) StorageEnabled() bool {
	return s.client != nil
}

// CheckSchema verifies the database carries the columns the scan flow needs.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db)
}

// CheckBucket reports whether the scan archive bucket exists.
func (s *Service) CheckBucket(ctx context.Context) (bool, error) {
	return checks.CheckBucket(ctx, s.client, s.bucket)
}

// FixBucket creates the scan archive bucket.
func (s *Service) FixBucket(ctx context.Context) error {
	return checks.FixBucket(ctx, s.client, s.bucket, s.logger)
}

// CheckConsistency compares note statuses against their line-item counts.
func (s *Service) CheckConsistency(ctx context.Context) (*checks.ConsistencyReport, error) {
	return checks.CheckConsistency(ctx, s.store)
}
