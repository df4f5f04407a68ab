package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"stripe-sync/feature/customers"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <email>",
	Short: "Find the Stripe customer of one user by email",
	Long: `Finds the user with the given email and prints its Stripe customer ID.
When the user has no mapping yet, Stripe is searched and a match is saved.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer a.Close()

		logResult(a.log, a.customers.LookupOne(cmd.Context(), args[0]))
		return nil
	},
}

var lookupBatchCmd = &cobra.Command{
	Use:   "lookup-batch <emails|->",
	Short: "Look up a comma or newline separated list of emails",
	Long: `Runs a lookup for every email in the list, in order. Blank entries are skipped.
Pass "-" to read the list from standard input.

Examples:
  stripe-sync lookup-batch "a@example.com, b@example.com"
  stripe-sync lookup-batch - < emails.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := args[0]
		if raw == "-" {
			data, err := readAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read emails from stdin: %w", err)
			}
			raw = data
		}

		a, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer a.Close()

		results := a.customers.LookupList(cmd.Context(), raw)
		ok := 0
		for _, r := range results {
			logResult(a.log, r)
			if r.Success {
				ok++
			}
		}
		a.log.Info("Batch lookup finished", zap.Int("total", len(results)), zap.Int("succeeded", ok))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(lookupCmd, lookupBatchCmd)
}

func logResult(l *zap.Logger, r customers.Result) {
	if r.Success {
		l.Info(customers.FormatResult(r))
		return
	}
	l.Warn(customers.FormatResult(r))
}

func readAll(r io.Reader) (string, error) {
	var b strings.Builder
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		b.WriteString(sc.Text())
		b.WriteByte('\n')
	}
	return b.String(), sc.Err()
}
