package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cashlens/internal/services"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Erase all expenses and reset income",
	Long: `Reset the ledger to its empty state: income back to zero, all
expenses removed, persisted storage erased. Asks for confirmation
unless --yes is given.`,
	RunE: runClear,
}

var clearYes bool

func init() {
	rootCmd.AddCommand(clearCmd)

	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, _, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	gate := services.NewConfirmGate()
	gate.Request("Clear all expenses and reset income? This cannot be undone.", func(ctx context.Context) error {
		_, err := svc.ClearAll(ctx)
		return err
	})

	if !clearYes {
		msg, _ := gate.Pending()
		fmt.Printf("%s [y/N]: ", msg)
		answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			gate.Cancel()
			return fmt.Errorf("read confirmation: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
		default:
			gate.Cancel()
			fmt.Println("Aborted, ledger unchanged.")
			return nil
		}
	}

	if err := gate.Confirm(ctx); err != nil {
		return err
	}
	fmt.Println("Ledger cleared.")
	return nil
}
