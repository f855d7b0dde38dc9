package core

import (
	"math"
	"sort"
)

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   Money
}

// BreakdownRow is one line of the category report: total spent in the
// category and its share of all expenses.
type BreakdownRow struct {
	Category   Category
	Total      Money
	Percentage float64
}

// Summary is the income/expenses/balance triple consumed by the chart
// and report collaborators.
type Summary struct {
	Income        Money
	TotalExpenses Money
	Balance       Money
}

// TotalExpenses sums all expense amounts. Empty input yields zero.
func TotalExpenses(expenses []Expense) Money {
	var cents int64
	for _, e := range expenses {
		cents += e.Amount.Cents
	}
	return Money{Cents: cents}
}

// Balance is income minus total expenses. A negative result is a valid,
// displayable state, not an error.
func Balance(income, totalExpenses Money) Money {
	return Money{Cents: income.Cents - totalExpenses.Cents}
}

// CategoryTotals sums amounts grouped by category. Categories with no
// expenses are absent from the result, not present with zero.
func CategoryTotals(expenses []Expense) map[Category]Money {
	totals := make(map[Category]Money)
	for _, e := range expenses {
		c := e.Category.Normalize()
		totals[c] = Money{Cents: totals[c].Cents + e.Amount.Cents}
	}
	return totals
}

// Percentage computes part/total*100 rounded to one decimal place.
// A zero total yields 0.0 rather than dividing by zero.
func Percentage(part, total Money) float64 {
	if total.Cents == 0 {
		return 0.0
	}
	pct := float64(part.Cents) / float64(total.Cents) * 100.0
	return math.Round(pct*10) / 10
}

// Breakdown returns per-category totals with percentages, ordered by
// total descending. Ties keep first-encountered category order, so the
// result is deterministic for a given expense sequence.
func Breakdown(expenses []Expense) []BreakdownRow {
	var order []Category
	totals := make(map[Category]int64)
	for _, e := range expenses {
		c := e.Category.Normalize()
		if _, seen := totals[c]; !seen {
			order = append(order, c)
		}
		totals[c] += e.Amount.Cents
	}

	grand := TotalExpenses(expenses)
	rows := make([]BreakdownRow, 0, len(order))
	for _, c := range order {
		total := Money{Cents: totals[c]}
		rows = append(rows, BreakdownRow{
			Category:   c,
			Total:      total,
			Percentage: Percentage(total, grand),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total.Cents > rows[j].Total.Cents
	})
	return rows
}

// Summarize derives the summary triple from a ledger snapshot.
func Summarize(l Ledger) Summary {
	total := TotalExpenses(l.Expenses)
	return Summary{
		Income:        l.Income,
		TotalExpenses: total,
		Balance:       Balance(l.Income, total),
	}
}
