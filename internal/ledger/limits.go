package ledger

// PeriodLimit is the spendable amount and daily limit for one budget period.
type PeriodLimit struct {
	EndDate    string
	DaysLeft   int
	Spendable  float64
	DailyLimit float64
}

// Limits pairs the limit computation for both configured end dates. A zero
// EndDate means that period is not configured.
type Limits struct {
	Primary   PeriodLimit
	Secondary PeriodLimit
}

// DailyLimits computes, for each configured end date, how much can still be
// spent (realised balance minus the saving goal reserve, floored at 0) and
// the per-day share of it. Results are memoized until Invalidate.
func (l *Ledger) DailyLimits() Limits {
	if l.memo.daily != nil {
		return *l.memo.daily
	}
	remaining := l.AvailableFunds()
	lim := Limits{
		Primary:   l.periodLimit(l.snap.EndDates.Primary, remaining, false),
		Secondary: l.periodLimit(l.snap.EndDates.Secondary, remaining, false),
	}
	l.memo.daily = &lim
	return lim
}

// ForecastLimits is DailyLimits with planned transactions folded in: each
// period additionally counts planned incomes and expenses dated strictly
// after today and up to that period's end date.
func (l *Ledger) ForecastLimits() Limits {
	if l.memo.forecast != nil {
		return *l.memo.forecast
	}
	remaining := l.AvailableFunds()
	lim := Limits{
		Primary:   l.periodLimit(l.snap.EndDates.Primary, remaining, true),
		Secondary: l.periodLimit(l.snap.EndDates.Secondary, remaining, true),
	}
	l.memo.forecast = &lim
	return lim
}

func (l *Ledger) periodLimit(endDate string, remaining float64, forecast bool) PeriodLimit {
	pl := PeriodLimit{EndDate: endDate}
	if endDate == "" {
		return pl
	}
	pl.DaysLeft = l.clock.DaysLeft(endDate)

	if forecast {
		plannedIn, plannedOut := l.PlannedBetween(endDate)
		remaining += plannedIn - plannedOut
	}

	spendable := remaining - l.snap.SavingGoal
	if spendable < 0 {
		spendable = 0
	}
	pl.Spendable = spendable

	if pl.DaysLeft > 0 {
		pl.DailyLimit = spendable / float64(pl.DaysLeft)
	}
	return pl
}
