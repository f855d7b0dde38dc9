package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cashlens/internal/core"
)

var incomeCmd = &cobra.Command{
	Use:   "income <amount>",
	Short: "Set the declared total income",
	Long: `Replace the declared total income with the given amount.

Example:
  cashlens income 2500.00`,
	Args: cobra.ExactArgs(1),
	RunE: runIncome,
}

func init() {
	rootCmd.AddCommand(incomeCmd)
}

func runIncome(cmd *cobra.Command, args []string) error {
	cents, err := core.ParseNonNegativeCents(args[0])
	if err != nil {
		return fmt.Errorf("invalid income amount %q: %w", args[0], err)
	}

	ctx := cmd.Context()
	svc, _, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	ledger, err := svc.SetIncome(ctx, cents)
	if err != nil {
		return err
	}
	fmt.Printf("Income set to %s\n", ledger.Income)
	return nil
}
