package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show per-category spending with percentages",
	Long: `Print each spent-in category with its total and share of all spending,
largest first, followed by the summary triple.`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, _, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	rows := svc.Breakdown()
	sum := svc.Summary()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if len(rows) == 0 {
		fmt.Fprintln(w, "No expenses recorded.")
	} else {
		fmt.Fprintln(w, "CATEGORY\tTOTAL\tSHARE")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%.1f%%\n", r.Category, r.Total, r.Percentage)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Income\t%s\n", sum.Income)
	fmt.Fprintf(w, "Expenses\t%s\n", sum.TotalExpenses)
	fmt.Fprintf(w, "Balance\t%s\n", sum.Balance)
	return w.Flush()
}
