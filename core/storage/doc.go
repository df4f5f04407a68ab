// Package storage provides the object storage client used to archive sync run reports.
//
// It wraps the MinIO Go client (S3 compatible) behind a small Client interface so the
// archive and the integrity check can be tested with core/storage/mocks.
//
// # Operations
//
//   - BucketExists / MakeBucket: verify or create the report bucket.
//   - PutObject: upload a JSON run report.
//   - ListObjects: list archived reports under a prefix.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
