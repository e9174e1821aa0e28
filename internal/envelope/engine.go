// Package envelope derives and persists the once-per-day spending
// allowance record.
package envelope

import (
	"context"
	"math"

	"github.com/theirongolddev/envel/internal/ledger"
	"github.com/theirongolddev/envel/internal/model"
)

// Store is the persistence contract the engine needs. Load returns nil
// when no record exists for the date. Errors pass through the engine
// unchanged; retries are the store's business.
type Store interface {
	Load(ctx context.Context, date string) (*model.DailyEnvelope, error)
	Save(ctx context.Context, rec model.DailyEnvelope) error
}

// Config controls envelope derivation.
type Config struct {
	// Enabled gates the whole feature; when false Update is a no-op
	// returning nil.
	Enabled bool
	// RoundingUnit is the step the base allowance is floored to.
	RoundingUnit float64
	// UseSecondary selects the secondary end date instead of the primary.
	UseSecondary bool
}

// DefaultConfig returns the stock envelope settings.
func DefaultConfig() Config {
	return Config{Enabled: true, RoundingUnit: 10}
}

// Engine computes and maintains the daily envelope.
type Engine struct {
	store Store
	cfg   Config
}

// New returns an engine over the given store.
func New(store Store, cfg Config) *Engine {
	if cfg.RoundingUnit <= 0 {
		cfg.RoundingUnit = 10
	}
	return &Engine{store: store, cfg: cfg}
}

// Update loads or creates today's envelope record. The base amount is
// frozen at first creation for the day: later edits to the underlying
// transactions never rewrite it, so spending decisions made against the
// allowance are not retroactively punished. Only the same-day inflow extra
// is refreshed on subsequent calls.
func (e *Engine) Update(ctx context.Context, l *ledger.Ledger) (*model.DailyEnvelope, error) {
	if !e.cfg.Enabled {
		return nil, nil
	}

	clock := l.Clock()
	today := clock.Today()

	rec, err := e.store.Load(ctx, today)
	if err != nil {
		return nil, err
	}

	extra := todayInflows(l, today)

	if rec == nil {
		created := model.DailyEnvelope{
			Date:                  today,
			BaseAmount:            e.ComputeBase(l),
			SetAt:                 clock.Now(),
			TodayExtraFromInflows: extra,
		}
		if err := e.store.Save(ctx, created); err != nil {
			return nil, err
		}
		return &created, nil
	}

	if rec.TodayExtraFromInflows != extra {
		rec.TodayExtraFromInflows = extra
		if err := e.store.Save(ctx, *rec); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// ComputeBase derives the daily allowance from the realised balance: the
// remainder after the saving goal reserve, spread over the days left in the
// chosen period, floored to the rounding unit. Zero when the period is
// over or nothing remains.
func (e *Engine) ComputeBase(l *ledger.Ledger) float64 {
	snap := l.Snapshot()
	totals := l.RealisedTotals()
	remaining := totals.Income - totals.Expense - snap.SavingGoal

	endDate := snap.EndDates.Primary
	if e.cfg.UseSecondary {
		endDate = snap.EndDates.Secondary
	}
	daysLeft := l.Clock().DaysLeft(endDate)

	if daysLeft <= 0 || remaining <= 0 {
		return 0
	}
	base := math.Floor(remaining/float64(daysLeft)/e.cfg.RoundingUnit) * e.cfg.RoundingUnit
	if base < 0 {
		return 0
	}
	return base
}

// todayInflows sums today's non-planned income amounts.
func todayInflows(l *ledger.Ledger, today string) float64 {
	var sum float64
	for _, in := range l.Snapshot().Incomes {
		if in.Kind == model.KindNormal && in.Date == today {
			sum += in.Amount
		}
	}
	return sum
}
