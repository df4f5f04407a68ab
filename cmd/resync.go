package cmd

import (
	"fmt"

	"stripe-sync/core/utils"

	"github.com/spf13/cobra"
)

var resyncCmd = &cobra.Command{
	Use:   "resync <user-id>",
	Short: "Force re-resolution of one user's Stripe customer",
	Long: `Searches Stripe for the user's current email and overwrites the stored customer ID.
When Stripe has no customer for the email, the stored ID is left as it was.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(args[0])
		if err != nil {
			return err
		}

		a, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer a.Close()

		logResult(a.log, a.customers.Resync(cmd.Context(), userID))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(resyncCmd)
}

func parseUserID(raw string) (uint64, error) {
	id, err := utils.ToUint64(raw)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid user id: %q", raw)
	}
	return id, nil
}
