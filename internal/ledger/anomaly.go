package ledger

import (
	"fmt"

	"github.com/theirongolddev/envel/internal/dates"
)

// Anomaly is a human-readable spending advisory. Advisories inform, they
// never block anything.
type Anomaly struct {
	Code    string
	Message string
}

// Anomaly codes.
const (
	AnomalyGoalAtRisk = "goal_at_risk"
	AnomalyOverPace   = "over_pace"
)

// Anomalies compares actual realised spending against a linear spend curve
// over the current period. The curve runs from the earliest realised income
// date (month start when there are no incomes) to the nearest end date, and
// assumes the spendable baseline (income minus saving goal) is consumed
// evenly. Two conditions are flagged: the realised balance dipping below
// the saving goal reserve, and actual spend exceeding the expected curve by
// more than the configured tolerance of the baseline.
func (l *Ledger) Anomalies() []Anomaly {
	today := l.clock.Today()
	end := l.snap.EndDates.Nearest(today)
	if end == "" {
		return nil
	}

	totals := l.RealisedTotals()
	goal := l.snap.SavingGoal

	var out []Anomaly

	remaining := totals.Income - totals.Expense
	if goal > 0 && remaining < goal {
		out = append(out, Anomaly{
			Code: AnomalyGoalAtRisk,
			Message: fmt.Sprintf(
				"remaining funds (%.2f) have fallen below the savings reserve (%.2f)",
				remaining, goal),
		})
	}

	start := l.earliestIncomeDate()
	if start == "" {
		start = dates.MonthStart(today)
	}

	totalDays := dates.DaysBetween(start, end)
	if totalDays <= 0 {
		return out
	}
	elapsed := dates.DaysBetween(start, today)
	if elapsed > totalDays {
		elapsed = totalDays
	}

	baseline := totals.Income - goal
	if baseline < 0 {
		baseline = 0
	}
	expected := baseline * float64(elapsed) / float64(totalDays)

	if totals.Expense > expected+baseline*l.cfg.AnomalyTolerance {
		out = append(out, Anomaly{
			Code: AnomalyOverPace,
			Message: fmt.Sprintf(
				"spending is ahead of pace: %.2f spent vs %.2f expected by day %d of %d",
				totals.Expense, expected, elapsed, totalDays),
		})
	}

	return out
}

func (l *Ledger) earliestIncomeDate() string {
	today := l.clock.Today()
	earliest := ""
	for _, in := range l.snap.Incomes {
		if !in.RealisedAsOf(today) {
			continue
		}
		if earliest == "" || in.Date < earliest {
			earliest = in.Date
		}
	}
	return earliest
}
