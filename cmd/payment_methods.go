package cmd

import (
	"errors"
	"fmt"

	"stripe-sync/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var paymentMethodsCmd = &cobra.Command{
	Use:   "payment-methods <user-id>",
	Short: "List the saved cards of a mapped user",
	Long:  `Prints card metadata (brand, last four digits, expiry) of the user's Stripe customer. Unmapped users are not resolved.`,
	Args:  cobra.ExactArgs(1),
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

		pm, err := a.customers.ListPaymentMethods(cmd.Context(), userID)
		switch {
		case errors.Is(err, reconcile.ErrUserNotFound):
			a.log.Warn("No user found with this ID", zap.Uint64("user_id", userID))
			return nil
		case errors.Is(err, reconcile.ErrCustomerNotFound):
			a.log.Warn("User has no Stripe customer ID", zap.Uint64("user_id", userID))
			return nil
		case err != nil:
			return err
		}

		fmt.Printf("User %d -> %s\n", pm.UserID, pm.CustomerID)
		for _, m := range pm.PaymentMethods {
			fmt.Printf("  %-28s %-10s **** %s  %02d/%d\n", m.ID, m.Brand, m.Last4, m.ExpMonth, m.ExpYear)
		}
		a.log.Info("Payment methods listed", zap.Uint64("user_id", userID), zap.Int("count", len(pm.PaymentMethods)))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(paymentMethodsCmd)
}
