package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

var errIntegrity = errors.New("integrity check failed")

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the platform schema, the report storage and Stripe",
	Long:  `Runs every integrity check. Storage is skipped when storage.enabled is false.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true, true)
	},
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Check the platform tables of the configured profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false, false)
	},
}

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and optionally create the report archive bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true, false)
	},
}

var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Check that Stripe is reachable and accepts the secret key",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(serverCmd, storageCmd, providerCmd)

	storageCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket when missing")
}

func runIntegrityChecks(ctx context.Context, runServer, runStorage, runProvider bool) error {
	a, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer a.Close()

	svc := a.integrity()
	logg := a.log
	healthy := true

	if runServer {
		logg.Info("Checking platform schema integrity...")
		report, err := svc.CheckServer()
		if err != nil {
			logg.Error("Platform schema check failed", zap.Error(err))
			healthy = false
		} else if report.Matched {
			logg.Info("Platform schema matches expected definition.", zap.String("profile", report.Profile))
		} else {
			healthy = false
			logg.Warn("Platform schema mismatches found", zap.String("profile", report.Profile))
			for table, tblReport := range report.Tables {
				if tblReport.Status == "ok" {
					continue
				}
				if len(tblReport.MissingColumns) > 0 {
					logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tblReport.MissingColumns))
				}
				if len(tblReport.TypeMismatches) > 0 {
					logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tblReport.TypeMismatches))
				}
			}
			for _, e := range report.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
		}
	}

	if runStorage && !svc.StorageEnabled() {
		logg.Info("Report storage is disabled, skipping.")
	} else if runStorage {
		check := svc.CheckStorage
		if fixFlag {
			check = svc.FixStorage
		}
		report, err := check(ctx)
		switch {
		case err != nil:
			healthy = false
			logg.Error("Storage check failed", zap.Error(err))
		case !report.Exists:
			healthy = false
			logg.Warn("Report bucket is missing. Run with --fix to create it.", zap.String("bucket", report.Bucket))
		default:
			logg.Info("Report bucket is present.", zap.String("bucket", report.Bucket), zap.Bool("has_reports", report.HasReports))
		}
	}

	if runProvider {
		report := svc.CheckProvider(ctx)
		if report.Status == "ok" {
			logg.Info("Stripe is reachable.", zap.Int64("latency_ms", report.LatencyMs))
		} else {
			healthy = false
			logg.Error("Stripe check failed", zap.String("status", report.Status), zap.String("error", report.Error))
		}
	}

	if !healthy {
		return errIntegrity
	}
	return nil
}
