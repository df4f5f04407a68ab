package cmd

import (
	"fmt"

	"stripe-sync/core/platform"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the platform tables when they do not exist",
	Long: `Creates the users and attribute tables of the configured profile.
Meant for the native profile and for local sqlite sandboxes; a WordPress installation already owns its tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.Close()

		schema := a.store.Schema()
		if err := platform.Migrate(cmd.Context(), a.db, schema); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		a.log.Info("Platform tables are up to date")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
