package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cashlens/internal/core"
)

var addCmd = &cobra.Command{
	Use:   "add <title> <amount> <category>",
	Short: "Record a new expense",
	Long: `Record an expense with a title, a positive decimal amount and one of
the known categories (` + categoryList() + `).

Example:
  cashlens add "Weekly groceries" 84.20 Food`,
	Args: cobra.ExactArgs(3),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	title, amount, category := args[0], args[1], args[2]

	cents, err := core.ParseDecimalToCents(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	ctx := cmd.Context()
	svc, _, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	exp, _, err := svc.AddExpense(ctx, title, cents, category)
	if err != nil {
		return err
	}
	fmt.Printf("Recorded #%d: %s %s (%s)\n", exp.ID, exp.Title, exp.Amount, exp.Category)
	return nil
}

func categoryList() string {
	names := make([]string, 0, len(core.Categories()))
	for _, c := range core.Categories() {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}
