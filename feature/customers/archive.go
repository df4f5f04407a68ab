package customers

import (
	"bytes"
	"context"
	"encoding/json"
	"path"

	"stripe-sync/core/reconcile"
	"stripe-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Archive uploads every finished pass summary as a JSON object.
// Upload failures are logged and never fail the pass.
type Archive struct {
	client storage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewArchive creates a report archive writing to bucket under prefix.
func NewArchive(client storage.Client, bucket, prefix string, logger *zap.Logger) *Archive {
	return &Archive{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

// ObjectName returns the key of a summary: <prefix>/<trigger>/<start>-<run id>.json.
func (a *Archive) ObjectName(s *reconcile.RunSummary) string {
	name := s.StartedAt.UTC().Format("20060102T150405Z") + "-" + s.RunID + ".json"
	return path.Join(a.prefix, string(s.Trigger), name)
}

// Report implements reconcile.Reporter.
func (a *Archive) Report(ctx context.Context, s *reconcile.RunSummary) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		a.logger.Error("Failed to encode run report", zap.String("run_id", s.RunID), zap.Error(err))
		return
	}

	name := a.ObjectName(s)
	_, err = a.client.PutObject(ctx, a.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		a.logger.Warn("Failed to archive run report",
			zap.String("bucket", a.bucket),
			zap.String("object", name),
			zap.Error(err))
		return
	}
	a.logger.Info("Run report archived", zap.String("object", name))
}
