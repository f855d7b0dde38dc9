package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"cashlens/internal/core"
)

// Wire representations of the domain types. Amounts travel both as raw
// cents and as a formatted string so clients never re-implement the
// cents arithmetic.
type moneyResponse struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
}

type expenseResponse struct {
	ID       int64         `json:"id"`
	Title    string        `json:"title"`
	Amount   moneyResponse `json:"amount"`
	Category string        `json:"category"`
	Date     time.Time     `json:"date"`
}

type summaryResponse struct {
	Income        moneyResponse `json:"income"`
	TotalExpenses moneyResponse `json:"total_expenses"`
	Balance       moneyResponse `json:"balance"`
}

type breakdownRowResponse struct {
	Category   string        `json:"category"`
	Total      moneyResponse `json:"total"`
	Percentage float64       `json:"percentage"`
}

type reportResponse struct {
	Summary summaryResponse        `json:"summary"`
	Rows    []breakdownRowResponse `json:"rows"`
}

type expensesResponse struct {
	Expenses []expenseResponse `json:"expenses"`
	Count    int               `json:"count"`
}

type pendingResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toMoney(m core.Money) moneyResponse {
	return moneyResponse{Cents: m.Cents, Formatted: m.String()}
}

func toExpense(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:       e.ID,
		Title:    e.Title,
		Amount:   toMoney(e.Amount),
		Category: e.Category.String(),
		Date:     e.Date,
	}
}

func toExpenses(expenses []core.Expense) expensesResponse {
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpense(e))
	}
	return expensesResponse{Expenses: out, Count: len(out)}
}

func toSummary(s core.Summary) summaryResponse {
	return summaryResponse{
		Income:        toMoney(s.Income),
		TotalExpenses: toMoney(s.TotalExpenses),
		Balance:       toMoney(s.Balance),
	}
}

func toReport(summary core.Summary, rows []core.BreakdownRow) reportResponse {
	out := reportResponse{
		Summary: toSummary(summary),
		Rows:    make([]breakdownRowResponse, 0, len(rows)),
	}
	for _, r := range rows {
		out.Rows = append(out.Rows, breakdownRowResponse{
			Category:   r.Category.String(),
			Total:      toMoney(r.Total),
			Percentage: r.Percentage,
		})
	}
	return out
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Response encoding failed", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}
