package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cashlens/internal/core"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses, optionally filtered and sorted",
	Long: `Print the expense list. The view can be narrowed to one category and
ordered by date, amount or title.

Sort options: dateDesc (default), amountAsc, amountDesc, titleAsc, titleDesc.

Example:
  cashlens list --category Food --sort amountDesc`,
	RunE: runList,
}

var (
	listCategory string
	listSort     string
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listCategory, "category", core.FilterAll, "category filter ("+categoryList()+", or All)")
	listCmd.Flags().StringVar(&listSort, "sort", string(core.SortDateDesc), "sort option")
}

func runList(cmd *cobra.Command, args []string) error {
	sortOpt := core.SortOption(listSort)
	if !sortOpt.Valid() {
		return fmt.Errorf("unknown sort option %q", listSort)
	}
	if listCategory != core.FilterAll {
		if _, err := core.ParseCategory(listCategory); err != nil {
			return fmt.Errorf("unknown category %q", listCategory)
		}
	}

	ctx := cmd.Context()
	svc, _, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	expenses := svc.View(listCategory, sortOpt)
	if len(expenses) == 0 {
		fmt.Println("No expenses recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAMOUNT\tCATEGORY\tDATE")
	for _, e := range expenses {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			e.ID, e.Title, e.Amount, e.Category, e.Date.Format("2006-01-02"))
	}
	return w.Flush()
}
