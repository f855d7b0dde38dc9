package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Food     Category = "Food"
	Travel   Category = "Travel"
	Shopping Category = "Shopping"
	Bills    Category = "Bills"
	Other    Category = "Other"
)

type (
	// Category is the closed set of expense buckets.
	Category string

	Money struct {
		Cents int64
	}

	// Expense is one discrete spending entry. ID doubles as the
	// reverse-chronological sort key (creation time in Unix millis).
	Expense struct {
		ID       int64
		Title    string
		Amount   Money
		Category Category
		Date     time.Time
	}

	// Ledger is the aggregate of declared income and all expenses.
	// Income is always >= 0; the derived balance may go negative.
	Ledger struct {
		Income   Money
		Expenses []Expense
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyTitle      = errors.New("empty title")
	ErrTitleTooLong    = errors.New("title too long (max 200 characters)")
	ErrInvalidCategory = errors.New("invalid category")
	ErrNegativeIncome  = errors.New("negative income")
	ErrZeroDate        = errors.New("date cannot be zero")
)

var validationErrors = []error{
	ErrInvalidAmount,
	ErrEmptyTitle,
	ErrTitleTooLong,
	ErrInvalidCategory,
	ErrNegativeIncome,
	ErrZeroDate,
}

// IsValidation reports whether err is a recoverable domain validation
// failure, as opposed to a backend fault.
func IsValidation(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// Categories returns all valid categories in display order.
func Categories() []Category {
	return []Category{Food, Travel, Shopping, Bills, Other}
}

// ParseCategory validates a raw category string against the closed set.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if !c.Valid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

func (c Category) Valid() bool {
	switch c {
	case Food, Travel, Shopping, Bills, Other:
		return true
	default:
		return false
	}
}

// Normalize maps any out-of-set value to Other so reporting never
// drops an amount. The mutation boundary rejects such values outright
// instead.
func (c Category) Normalize() Category {
	if c.Valid() {
		return c
	}
	return Other
}

func (c Category) String() string {
	return string(c)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	title := strings.TrimSpace(e.Title)
	if len(title) == 0 {
		return ErrEmptyTitle
	}
	if len(title) > 200 {
		return ErrTitleTooLong
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if e.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// Empty returns a fresh ledger: zero income, no expenses.
func Empty() Ledger {
	return Ledger{}
}

func (l Ledger) Validate() error {
	if l.Income.Cents < 0 {
		return ErrNegativeIncome
	}
	for _, e := range l.Expenses {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing the underlying expense slice.
func (l Ledger) Clone() Ledger {
	out := Ledger{Income: l.Income}
	if len(l.Expenses) > 0 {
		out.Expenses = append([]Expense(nil), l.Expenses...)
	}
	return out
}
