// Package model defines domain types for envel budgets and transactions.
package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes recorded transactions from scheduled ones.
type Kind string

const (
	// KindNormal marks a transaction that already happened.
	KindNormal Kind = "normal"
	// KindPlanned marks a transaction scheduled for a date that may be
	// future, past, or today.
	KindPlanned Kind = "planned"
)

// Income is money entering the budget.
type Income struct {
	ID         string
	Date       string // YYYY-MM-DD
	Time       string // optional HH:MM
	Amount     float64
	Kind       Kind
	WasPlanned bool // audit marker set when a planned income is realised
	UserID     string
	Source     string
}

// Expense is money leaving the budget. Quantity is a positive multiplier;
// the actual cost is Amount * Quantity.
type Expense struct {
	ID          string
	Date        string
	Time        string
	Amount      float64
	Quantity    float64
	Kind        Kind
	WasPlanned  bool
	UserID      string
	Category    string
	Description string
}

// Cost returns the effective cost of the expense. A missing or non-positive
// quantity counts as 1, matching how legacy records omit the field.
func (e Expense) Cost() float64 {
	q := e.Quantity
	if q <= 0 {
		q = 1
	}
	return e.Amount * q
}

// RealisedAsOf reports whether the income counts toward actual balance on
// the given day: normal always, planned only once its date has arrived.
func (i Income) RealisedAsOf(today string) bool {
	return realised(i.Kind, i.Date, today)
}

// RealisedAsOf reports whether the expense counts toward actual balance on
// the given day.
func (e Expense) RealisedAsOf(today string) bool {
	return realised(e.Kind, e.Date, today)
}

func realised(kind Kind, date, today string) bool {
	if kind == KindNormal {
		return true
	}
	return kind == KindPlanned && date != "" && date <= today
}

// NewID returns a fresh opaque identifier, stable across edits.
func NewID() string {
	return uuid.NewString()
}

// ParseAmount parses a user-entered money amount. Invalid data is rejected
// here, once, so downstream sums never see NaN or negatives.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("amount must not be negative")
	}
	return v, nil
}

// ParseQuantity parses an expense multiplier. Empty input defaults to 1.
func ParseQuantity(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	if v <= 0 {
		return 0, fmt.Errorf("quantity must be positive")
	}
	return v, nil
}

// ChronoKey orders transactions by date then intra-day time. Both parts are
// zero-padded strings, so plain string comparison is chronological.
func ChronoKey(date, hhmm string) string {
	return date + "T" + hhmm
}

// EndDates holds the one or two budget-period end dates. Primary is the
// default period for the daily envelope.
type EndDates struct {
	Primary   string
	Secondary string
}

// Nearest returns the closest end date that is today or later, preferring
// the primary on ties. Empty when neither period is still open.
func (ed EndDates) Nearest(today string) string {
	candidates := make([]string, 0, 2)
	for _, d := range []string{ed.Primary, ed.Secondary} {
		if d != "" && d >= today {
			candidates = append(candidates, d)
		}
	}
	switch len(candidates) {
	case 0:
		return ""
	case 1:
		return candidates[0]
	default:
		if candidates[1] < candidates[0] {
			return candidates[1]
		}
		return candidates[0]
	}
}

// DailyEnvelope is the frozen once-per-day spending allowance record.
// BaseAmount never changes after creation on its date; only the same-day
// inflow extra may be refreshed intraday.
type DailyEnvelope struct {
	Date                  string
	BaseAmount            float64
	SetAt                 time.Time
	TodayExtraFromInflows float64
}
