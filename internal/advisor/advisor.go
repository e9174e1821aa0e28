// Package advisor decides, once per day per goal, whether and how much can
// safely be diverted from available funds into a savings goal. It only
// reads state and returns a recommendation; accepting or rejecting a
// suggestion is the caller's explicit, separate action.
package advisor

import (
	"fmt"
	"math"

	"github.com/theirongolddev/envel/internal/dates"
	"github.com/theirongolddev/envel/internal/ledger"
	"github.com/theirongolddev/envel/internal/model"
)

// Config exposes the heuristic's constants for tuning. The defaults are
// the tool's long-standing behavior; change them knowingly.
type Config struct {
	// SurplusShare caps the suggestion to this fraction of the computed
	// surplus.
	SurplusShare float64
	// FundsShare caps the suggestion to this fraction of available funds.
	FundsShare float64
	// SafetyFactor inflates the projected spending need for the rest of
	// the period.
	SafetyFactor float64
	// MinDaysLeft rejects suggestions when the budget period is closer
	// than this to ending.
	MinDaysLeft int
	// MinSampleSize is the minimum realised expense count in the window
	// for the average to be meaningful.
	MinSampleSize int
	// WindowDays is the trailing history window.
	WindowDays int
	// MinSuggestion discards amounts too small to be worth moving.
	MinSuggestion float64
}

// DefaultConfig returns the stock heuristic constants.
func DefaultConfig() Config {
	return Config{
		SurplusShare:  0.5,
		FundsShare:    0.20,
		SafetyFactor:  1.3,
		MinDaysLeft:   7,
		MinSampleSize: 10,
		WindowDays:    30,
		MinSuggestion: 10,
	}
}

// Calculation is the full intermediate breakdown, kept so a user can audit
// why a number was suggested.
type Calculation struct {
	AvailableFunds      float64
	DaysLeft            int
	DailyAverageExpense float64
	SafetyBuffer        float64
	PlannedExpenses     float64
	PlannedIncomes      float64
	RequiredFunds       float64
	PotentialSurplus    float64
	BaseSuggestion      float64
	PriorityMultiplier  float64
	DeadlineMultiplier  float64
}

// Suggestion is the advisor's answer for one goal. Amount is 0 whenever
// CanSuggest is false.
type Suggestion struct {
	CanSuggest  bool
	Amount      float64
	Reason      string
	Details     []string
	Calculation Calculation
}

// Advisor evaluates savings suggestions against one ledger snapshot.
type Advisor struct {
	cfg Config
}

// New returns an advisor with the given constants.
func New(cfg Config) *Advisor {
	d := DefaultConfig()
	if cfg.SurplusShare <= 0 {
		cfg.SurplusShare = d.SurplusShare
	}
	if cfg.FundsShare <= 0 {
		cfg.FundsShare = d.FundsShare
	}
	if cfg.SafetyFactor <= 0 {
		cfg.SafetyFactor = d.SafetyFactor
	}
	if cfg.MinDaysLeft <= 0 {
		cfg.MinDaysLeft = d.MinDaysLeft
	}
	if cfg.MinSampleSize <= 0 {
		cfg.MinSampleSize = d.MinSampleSize
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = d.WindowDays
	}
	if cfg.MinSuggestion <= 0 {
		cfg.MinSuggestion = d.MinSuggestion
	}
	return &Advisor{cfg: cfg}
}

func reject(reason string, calc Calculation, details ...string) Suggestion {
	return Suggestion{Reason: reason, Details: details, Calculation: calc}
}

// Evaluate runs the precondition chain and, when it passes, the bounded
// surplus allocation for one goal. It never mutates anything and is safe
// to call repeatedly.
func (a *Advisor) Evaluate(l *ledger.Ledger, goal model.SavingsGoal) Suggestion {
	cfg := a.cfg
	clock := l.Clock()
	today := clock.Today()
	var calc Calculation

	// Preconditions, checked in order, first failure wins.
	if goal.Status != model.GoalActive {
		return reject("goal is not active", calc)
	}
	if goal.CurrentAmount >= goal.TargetAmount {
		return reject("goal is already complete", calc)
	}
	if goal.LastSuggestionDate == today && goal.SuggestionStatus == model.SuggestionPending {
		return reject("a suggestion for today is still pending", calc)
	}

	available := l.AvailableFunds()
	calc.AvailableFunds = available
	if available <= 0 {
		return reject("no funds available", calc)
	}

	end := l.Snapshot().EndDates.Nearest(today)
	calendarDaysRemaining := dates.DaysBetween(today, end) - 1
	if end == "" || calendarDaysRemaining < 0 {
		return reject("no budget period is configured", calc)
	}

	daysLeft := calendarDaysRemaining
	if daysLeft < 1 {
		daysLeft = 1
	}
	calc.DaysLeft = daysLeft
	if daysLeft < cfg.MinDaysLeft {
		return reject(
			fmt.Sprintf("only %d days left in the budget period (minimum %d): not enough safety margin",
				daysLeft, cfg.MinDaysLeft),
			calc)
	}

	spent, count := l.TrailingExpenses(cfg.WindowDays)
	if count < cfg.MinSampleSize {
		return reject(
			fmt.Sprintf("only %d expenses in the last %d days (minimum %d): not enough history",
				count, cfg.WindowDays, cfg.MinSampleSize),
			calc)
	}

	// Core computation.
	calc.DailyAverageExpense = spent / float64(cfg.WindowDays)
	calc.SafetyBuffer = float64(daysLeft) * calc.DailyAverageExpense * cfg.SafetyFactor

	plannedIn, plannedOut := l.PlannedBetween(end)
	calc.PlannedIncomes = plannedIn
	calc.PlannedExpenses = plannedOut
	calc.RequiredFunds = calc.SafetyBuffer + plannedOut
	calc.PotentialSurplus = available + plannedIn - calc.RequiredFunds

	if calc.PotentialSurplus <= 0 {
		return reject("saving now would endanger near-term spending needs", calc,
			fmt.Sprintf("required funds %.2f exceed available %.2f plus planned income %.2f",
				calc.RequiredFunds, available, plannedIn))
	}

	calc.BaseSuggestion = math.Min(calc.PotentialSurplus*cfg.SurplusShare, available*cfg.FundsShare)
	calc.PriorityMultiplier = goal.PriorityMultiplier()
	calc.DeadlineMultiplier = deadlineMultiplier(today, goal.TargetDate)

	amount := math.Floor(calc.BaseSuggestion * calc.PriorityMultiplier * calc.DeadlineMultiplier)
	// The multipliers must never push the suggestion past the hard funds
	// cap; the safety bound holds regardless of priority or deadline.
	if hardCap := math.Floor(available * cfg.FundsShare); amount > hardCap {
		amount = hardCap
	}
	if amount < cfg.MinSuggestion {
		return reject(
			fmt.Sprintf("computed amount %.0f is below the minimum meaningful suggestion (%.0f)",
				amount, cfg.MinSuggestion),
			calc)
	}
	if remaining := goal.Remaining(); amount > remaining {
		amount = remaining
	}

	details := []string{
		fmt.Sprintf("available funds: %.2f", available),
		fmt.Sprintf("days left in period: %d", daysLeft),
		fmt.Sprintf("daily average expense (last %dd): %.2f", cfg.WindowDays, calc.DailyAverageExpense),
		fmt.Sprintf("safety buffer (%.0f%% margin): %.2f", (cfg.SafetyFactor-1)*100, calc.SafetyBuffer),
		fmt.Sprintf("planned expenses before period end: %.2f", plannedOut),
		fmt.Sprintf("planned incomes before period end: %.2f", plannedIn),
		fmt.Sprintf("potential surplus: %.2f", calc.PotentialSurplus),
		fmt.Sprintf("base suggestion: min(%.0f%% of surplus, %.0f%% of funds) = %.2f",
			cfg.SurplusShare*100, cfg.FundsShare*100, calc.BaseSuggestion),
		fmt.Sprintf("priority multiplier: %.2f", calc.PriorityMultiplier),
		fmt.Sprintf("deadline multiplier: %.2f", calc.DeadlineMultiplier),
		fmt.Sprintf("suggested amount: %.0f", amount),
	}

	return Suggestion{
		CanSuggest:  true,
		Amount:      amount,
		Reason:      "surplus available",
		Details:     details,
		Calculation: calc,
	}
}

// deadlineMultiplier boosts goals whose deadline is close. Goals without a
// target date get no boost.
func deadlineMultiplier(today, targetDate string) float64 {
	if targetDate == "" {
		return 1.0
	}
	daysUntil := dates.DaysBetween(today, targetDate) - 1
	switch {
	case daysUntil < 7:
		return 1.8
	case daysUntil < 15:
		return 1.5
	case daysUntil < 30:
		return 1.3
	case daysUntil < 60:
		return 1.15
	default:
		return 1.0
	}
}
