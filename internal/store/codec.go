package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"cashlens/internal/core"
)

// expenseRecord is the wire form of one expense. All fields round-trip
// exactly: id, title, amount in cents, category, creation date.
type expenseRecord struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Amount   int64     `json:"amount"`
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
}

// EncodeIncome serializes income as decimal cents text.
func EncodeIncome(income core.Money) string {
	return strconv.FormatInt(income.Cents, 10)
}

// DecodeIncome parses the income entry. Empty input means never-written
// state and decodes to zero; malformed input is an error so the caller
// can apply the fallback policy.
func DecodeIncome(raw string) (core.Money, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return core.Money{}, nil
	}
	cents, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return core.Money{}, fmt.Errorf("decode income %q: %w", raw, err)
	}
	if cents < 0 {
		return core.Money{}, fmt.Errorf("decode income %q: %w", raw, core.ErrNegativeIncome)
	}
	return core.Money{Cents: cents}, nil
}

// EncodeExpenses serializes the collection as a JSON array, ordered by
// ID so identical ledgers always produce identical bytes.
func EncodeExpenses(expenses []core.Expense) (string, error) {
	records := make([]expenseRecord, len(expenses))
	for i, e := range expenses {
		records[i] = expenseRecord{
			ID:       e.ID,
			Title:    e.Title,
			Amount:   e.Amount.Cents,
			Category: string(e.Category),
			Date:     e.Date.UTC(),
		}
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	b, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode expenses: %w", err)
	}
	return string(b), nil
}

// DecodeExpenses parses the expenses entry. Empty input decodes to no
// expenses; any malformed structure or record is an error and the
// caller degrades the whole collection to empty.
func DecodeExpenses(raw string) ([]core.Expense, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var records []expenseRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}
	expenses := make([]core.Expense, 0, len(records))
	seen := make(map[int64]struct{}, len(records))
	for _, r := range records {
		e := core.Expense{
			ID:       r.ID,
			Title:    r.Title,
			Amount:   core.Money{Cents: r.Amount},
			Category: core.Category(r.Category),
			Date:     r.Date,
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("decode expense %d: %w", r.ID, err)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("decode expenses: duplicate id %d", r.ID)
		}
		seen[r.ID] = struct{}{}
		expenses = append(expenses, e)
	}
	return expenses, nil
}
