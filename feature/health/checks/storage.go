package checks

import (
	"context"

	"tiretrack/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// CheckBucket reports whether the scan archive bucket exists.
func CheckBucket(ctx context.Context, client storage.Client, bucket string) (bool, error) {
	return client.BucketExists(ctx, bucket)
}

// FixBucket creates the scan archive bucket.
func FixBucket(ctx context.Context, client storage.Client, bucket string, logger *zap.Logger) error {
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return err
	}
	logger.Info("Scan archive bucket created", zap.String("bucket", bucket))
	return nil
}
