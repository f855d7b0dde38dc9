package core

import (
	"sort"
	"strings"
)

// FilterAll passes every expense regardless of category.
const FilterAll = "All"

const (
	SortDateDesc   SortOption = "dateDesc"
	SortAmountAsc  SortOption = "amountAsc"
	SortAmountDesc SortOption = "amountDesc"
	SortTitleAsc   SortOption = "titleAsc"
	SortTitleDesc  SortOption = "titleDesc"
)

// SortOption selects the comparator for a derived view. Anything outside
// the known set falls back to SortDateDesc.
type SortOption string

func (o SortOption) Valid() bool {
	switch o {
	case SortDateDesc, SortAmountAsc, SortAmountDesc, SortTitleAsc, SortTitleDesc:
		return true
	default:
		return false
	}
}

// DeriveView applies the category filter then the sort comparator and
// returns a fresh slice; the input is never reordered or mutated. An
// empty result is a valid terminal state.
func DeriveView(expenses []Expense, filterCategory string, opt SortOption) []Expense {
	view := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if filterCategory == FilterAll || string(e.Category) == filterCategory {
			view = append(view, e)
		}
	}

	switch opt {
	case SortAmountAsc:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].Amount.Cents < view[j].Amount.Cents
		})
	case SortAmountDesc:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].Amount.Cents > view[j].Amount.Cents
		})
	case SortTitleAsc:
		sort.SliceStable(view, func(i, j int) bool {
			return strings.Compare(view[i].Title, view[j].Title) < 0
		})
	case SortTitleDesc:
		sort.SliceStable(view, func(i, j int) bool {
			return strings.Compare(view[i].Title, view[j].Title) > 0
		})
	default:
		// dateDesc: ID is the creation-order proxy
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].ID > view[j].ID
		})
	}
	return view
}
