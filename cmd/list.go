package cmd

import (
	"context"
	"fmt"

	"stripe-sync/core/platform"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var listPage int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List users by mapping state",
}

var listMappedCmd = &cobra.Command{
	Use:   "mapped",
	Short: "List users with a stored Stripe customer ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd.Context(), true)
	},
}

var listUnmappedCmd = &cobra.Command{
	Use:   "unmapped",
	Short: "List users without a stored Stripe customer ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd.Context(), false)
	},
}

func init() {
	listCmd.PersistentFlags().IntVar(&listPage, "page", 1, "Page number (page size is platform.per_page)")
	listCmd.AddCommand(listMappedCmd, listUnmappedCmd)
	RootCmd.AddCommand(listCmd)
}

func runList(ctx context.Context, mapped bool) error {
	// Listing reads the platform tables only
	a, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer a.Close()

	list := a.store.ListUnmapped
	if mapped {
		list = a.store.ListMapped
	}

	page, err := list(ctx, listPage, a.store.PerPage())
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	printPage(page)
	a.log.Info("Users listed",
		zap.Bool("mapped", mapped),
		zap.Int("page", page.Page),
		zap.Int("total_pages", page.TotalPages),
		zap.Int64("total", page.Total),
	)
	return nil
}

func printPage(page *platform.Page) {
	fmt.Printf("%-10s %-40s %s\n", "ID", "EMAIL", "CUSTOMER")
	for _, u := range page.Users {
		customer := u.CustomerID
		if customer == "" {
			customer = "-"
		}
		fmt.Printf("%-10d %-40s %s\n", u.ID, u.Email, customer)
	}
	fmt.Printf("\nPage %d of %d (%d users)\n", page.Page, page.TotalPages, page.Total)
}
