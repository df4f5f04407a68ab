package checks

import (
	"context"
	"time"

	"stripe-sync/core/payments"
)

// ProviderReport describes Stripe reachability.
type ProviderReport struct {
	Status    string `json:"status"` // "ok", "error", "unconfigured"
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
}

// CheckProvider pings Stripe. A nil client means no secret key is configured.
func CheckProvider(ctx context.Context, client payments.Client) *ProviderReport {
	if client == nil {
		return &ProviderReport{Status: "unconfigured", Error: payments.ErrMissingSecretKey.Error()}
	}

	start := time.Now()
	err := client.Ping(ctx)
	report := &ProviderReport{Status: "ok", LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		report.Status, report.Error = "error", err.Error()
	}
	return report
}
