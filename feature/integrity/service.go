package integrity

import (
	"context"
	"fmt"

	"stripe-sync/core/payments"
	"stripe-sync/core/platform"
	"stripe-sync/core/storage"
	"stripe-sync/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	db       *gorm.DB
	schema   platform.Schema
	client   storage.Client
	storage  storage.Config
	provider payments.Client
	logger   *zap.Logger
}

// NewService creates a new integrity service. client is nil when the report archive is
// disabled, provider is nil when no Stripe secret key is configured.
func NewService(db *gorm.DB, schema platform.Schema, client storage.Client, storageCfg storage.Config, provider payments.Client, logger *zap.Logger) *Service {
	return &Service{
		db:       db,
		schema:   schema,
		client:   client,
		storage:  storageCfg,
		provider: provider,
		logger:   logger,
	}
}

// Report combines every check.
type Report struct {
	Server   any                    `json:"server"`
	Storage  any                    `json:"storage"`
	Provider *checks.ProviderReport `json:"provider"`
}

// CheckServer validates the platform tables.
func (s *Service) CheckServer() (*checks.ServerReport, error) {
	return checks.CheckServerIntegrity(s.db, s.schema)
}

// StorageEnabled reports whether the report archive is configured.
func (s *Service) StorageEnabled() bool {
	return s.client != nil
}

// CheckStorage checks the report archive bucket.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	return checks.CheckStorage(ctx, s.client, s.storage.Bucket, s.storage.ReportPrefix)
}

// FixStorage creates the report archive bucket when it is missing.
func (s *Service) FixStorage(ctx context.Context) (*checks.StorageReport, error) {
	report, err := s.CheckStorage(ctx)
	if err != nil {
		return nil, err
	}
	if report.Exists {
		return report, nil
	}
	if err := checks.FixStorage(ctx, s.client, s.storage.Bucket, s.storage.Region, s.logger); err != nil {
		return nil, fmt.Errorf("failed to create bucket %s: %w", s.storage.Bucket, err)
	}
	report.Exists = true
	return report, nil
}

// CheckProvider pings Stripe.
func (s *Service) CheckProvider(ctx context.Context) *checks.ProviderReport {
	return checks.CheckProvider(ctx, s.provider)
}

// CheckAll runs every check. Failures are reported per section rather than returned.
func (s *Service) CheckAll(ctx context.Context) *Report {
	report := &Report{}

	if srv, err := s.CheckServer(); err != nil {
		report.Server = map[string]string{"status": "error", "error": err.Error()}
	} else {
		report.Server = srv
	}

	if !s.StorageEnabled() {
		report.Storage = map[string]string{"status": "disabled"}
	} else if st, err := s.CheckStorage(ctx); err != nil {
		report.Storage = map[string]string{"status": "error", "error": err.Error()}
	} else {
		report.Storage = st
	}

	report.Provider = s.CheckProvider(ctx)
	return report
}

// Healthy reports whether every configured check passed.
func (r *Report) Healthy() bool {
	if srv, ok := r.Server.(*checks.ServerReport); !ok || !srv.Matched {
		return false
	}
	if st, ok := r.Storage.(*checks.StorageReport); ok && !st.Exists {
		return false
	}
	if m, ok := r.Storage.(map[string]string); ok && m["status"] == "error" {
		return false
	}
	return r.Provider != nil && r.Provider.Status == "ok"
}
