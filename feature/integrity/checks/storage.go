package checks

import (
	"context"
	"fmt"
	"strings"

	"stripe-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StorageReport describes the report archive bucket.
type StorageReport struct {
	Bucket     string `json:"bucket"`
	Exists     bool   `json:"exists"`
	Prefix     string `json:"prefix"`
	HasReports bool   `json:"has_reports"`
}

// CheckStorage checks that the archive bucket exists and whether it holds reports.
func CheckStorage(ctx context.Context, client storage.Client, bucket, prefix string) (*StorageReport, error) {
	if client == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	report := &StorageReport{Bucket: bucket, Prefix: prefix}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.Exists = exists
	if !exists {
		return report, nil
	}

	folder := prefix
	if folder != "" && !strings.HasSuffix(folder, "/") {
		folder += "/"
	}
	opts := minio.ListObjectsOptions{Prefix: folder, Recursive: true, MaxKeys: 1}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list reports: %w", obj.Err)
		}
		report.HasReports = true
		break
	}
	return report, nil
}

// FixStorage creates the archive bucket.
func FixStorage(ctx context.Context, client storage.Client, bucket, region string, logger *zap.Logger) error {
	if client == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		logger.Error("Failed to create bucket", zap.String("bucket", bucket), zap.Error(err))
		return err
	}
	logger.Info("Created missing bucket", zap.String("bucket", bucket))
	return nil
}
