// Package ledger turns raw transaction snapshots into current and derived
// budget totals: realised balances, period spending, spending limits, FIFO
// source attribution, and anomaly advisories.
package ledger

import (
	"github.com/theirongolddev/envel/internal/dates"
	"github.com/theirongolddev/envel/internal/model"
	"github.com/theirongolddev/envel/internal/stats"
)

// Snapshot is the in-memory state the aggregator computes over. Callers
// refresh it from the store before building a Ledger; the aggregator never
// reads storage itself.
type Snapshot struct {
	Incomes    []model.Income
	Expenses   []model.Expense
	EndDates   model.EndDates
	SavingGoal float64
}

// Config holds the aggregator's tunable constants.
type Config struct {
	// AnomalyTolerance is the overspend fraction of the expected-spendable
	// baseline above which the pace anomaly fires.
	AnomalyTolerance float64
	// MedianWindowDays is the trailing window for the per-day spend median.
	MedianWindowDays int
}

// DefaultConfig returns the stock aggregator constants.
func DefaultConfig() Config {
	return Config{
		AnomalyTolerance: 0.10,
		MedianWindowDays: 30,
	}
}

// Ledger computes aggregates over one snapshot. It memoizes the limit
// computations; Invalidate must be called after any snapshot mutation.
type Ledger struct {
	snap  Snapshot
	clock dates.Clock
	cfg   Config

	memo struct {
		totals   *Totals
		daily    *Limits
		forecast *Limits
	}
}

// New builds a Ledger over the given snapshot.
func New(snap Snapshot, clock dates.Clock, cfg Config) *Ledger {
	if cfg.MedianWindowDays <= 0 {
		cfg.MedianWindowDays = 30
	}
	return &Ledger{snap: snap, clock: clock, cfg: cfg}
}

// Invalidate drops all memoized results. Callers own cache staleness: call
// this after mutating transactions, end dates, or the saving goal.
func (l *Ledger) Invalidate() {
	l.memo.totals = nil
	l.memo.daily = nil
	l.memo.forecast = nil
}

// Snapshot returns the snapshot the ledger was built over.
func (l *Ledger) Snapshot() Snapshot { return l.snap }

// Clock returns the ledger's reference clock.
func (l *Ledger) Clock() dates.Clock { return l.clock }

// Totals holds realised income and expense sums.
type Totals struct {
	Income  float64
	Expense float64
}

// RealisedTotals sums realised transactions dated strictly before today.
// Today's movements are excluded so the envelope engine can fold same-day
// inflows in separately without double counting.
func (l *Ledger) RealisedTotals() Totals {
	if l.memo.totals != nil {
		return *l.memo.totals
	}
	today := l.clock.Today()
	var t Totals
	for _, in := range l.snap.Incomes {
		if in.RealisedAsOf(today) && in.Date < today {
			t.Income += in.Amount
		}
	}
	for _, ex := range l.snap.Expenses {
		if ex.RealisedAsOf(today) && ex.Date < today {
			t.Expense += ex.Cost()
		}
	}
	l.memo.totals = &t
	return t
}

// AvailableFunds returns the realised balance: income minus expense.
func (l *Ledger) AvailableFunds() float64 {
	t := l.RealisedTotals()
	return t.Income - t.Expense
}

// SpendingPeriods holds realised expense sums over the calendar windows
// anchored to today.
type SpendingPeriods struct {
	SpentToday float64
	SpentWeek  float64
	SpentMonth float64
}

// SpendingPeriods computes realised spending for today, the current ISO
// week, and the current calendar month.
func (l *Ledger) SpendingPeriods() SpendingPeriods {
	today := l.clock.Today()
	weekStart := dates.WeekStart(today)
	monthStart := dates.MonthStart(today)

	var sp SpendingPeriods
	for _, ex := range l.snap.Expenses {
		if !ex.RealisedAsOf(today) {
			continue
		}
		cost := ex.Cost()
		if ex.Date == today {
			sp.SpentToday += cost
		}
		if weekStart != "" && ex.Date >= weekStart && ex.Date <= today {
			sp.SpentWeek += cost
		}
		if monthStart != "" && ex.Date >= monthStart && ex.Date <= today {
			sp.SpentMonth += cost
		}
	}
	return sp
}

// TrailingExpenses returns the realised expense sum and transaction count
// over the trailing `days` calendar days, today included.
func (l *Ledger) TrailingExpenses(days int) (sum float64, count int) {
	today := l.clock.Today()
	from := dates.AddDays(today, -(days - 1))
	for _, ex := range l.snap.Expenses {
		if !ex.RealisedAsOf(today) {
			continue
		}
		if ex.Date >= from && ex.Date <= today {
			sum += ex.Cost()
			count++
		}
	}
	return sum, count
}

// PlannedBetween sums planned transactions falling strictly after today and
// no later than end. These are the forecast-only movements: never part of
// the realised balance.
func (l *Ledger) PlannedBetween(end string) (incomes, expenses float64) {
	if end == "" {
		return 0, 0
	}
	today := l.clock.Today()
	for _, in := range l.snap.Incomes {
		if in.Kind == model.KindPlanned && in.Date > today && in.Date <= end {
			incomes += in.Amount
		}
	}
	for _, ex := range l.snap.Expenses {
		if ex.Kind == model.KindPlanned && ex.Date > today && ex.Date <= end {
			expenses += ex.Cost()
		}
	}
	return incomes, expenses
}

// DailySpendSeries returns per-day realised expense totals for the trailing
// `days` window, oldest first, with missing days as zeros.
func (l *Ledger) DailySpendSeries(days int) []float64 {
	today := l.clock.Today()
	byDay := make(map[string]float64)
	from := dates.AddDays(today, -(days - 1))
	for _, ex := range l.snap.Expenses {
		if !ex.RealisedAsOf(today) {
			continue
		}
		if ex.Date >= from && ex.Date <= today {
			byDay[ex.Date] += ex.Cost()
		}
	}
	series := make([]float64, 0, days)
	for d := 0; d < days; d++ {
		series = append(series, byDay[dates.AddDays(from, d)])
	}
	return series
}

// GlobalMedian30d returns the median of per-day realised expense totals
// over the configured trailing window, counting spend-free days as zero.
func (l *Ledger) GlobalMedian30d() float64 {
	return stats.Median(l.DailySpendSeries(l.cfg.MedianWindowDays))
}
