package cmd

import (
	"context"
	"fmt"

	"stripe-sync/core/reconcile"
	"stripe-sync/feature/customers"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncCmd is the parent command for reconciliation passes.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a reconciliation pass",
	Long: `Binds users without a stored Stripe customer ID to the Stripe customer sharing their email.
Users that are already mapped are skipped without calling Stripe.`,
}

var syncAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Reconcile every user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context(), reconcile.TriggerSyncAll)
	},
}

var syncRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Reconcile users registered within sync.recent_window_days",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context(), reconcile.TriggerSyncRecent)
	},
}

func init() {
	syncCmd.AddCommand(syncAllCmd, syncRecentCmd)
	RootCmd.AddCommand(syncCmd)
}

func runSync(ctx context.Context, trigger reconcile.Trigger) error {
	a, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer a.Close()

	run := a.customers.SyncAll
	if trigger == reconcile.TriggerSyncRecent {
		run = a.customers.SyncRecent
	}

	summary, err := run(ctx)
	if err != nil {
		return fmt.Errorf("sync %s failed: %w", trigger, err)
	}

	a.log.Info(customers.SummaryMessage(summary),
		zap.String("run_id", summary.RunID),
		zap.Int("scanned", summary.Scanned),
		zap.Int("mapped", summary.Mapped),
		zap.Int("skipped", summary.Skipped),
		zap.Int("unmatched", summary.Unmatched),
		zap.Int("failed", summary.Failed),
		zap.Duration("took", summary.Duration()),
	)
	for _, out := range summary.Outcomes {
		if out.Action == reconcile.ActionFailed {
			a.log.Warn("User failed", zap.Uint64("user_id", out.UserID), zap.String("email", out.Email), zap.String("error", out.Error))
		}
	}
	return nil
}
