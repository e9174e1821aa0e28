package advisor

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/theirongolddev/envel/internal/dates"
	"github.com/theirongolddev/envel/internal/ledger"
	"github.com/theirongolddev/envel/internal/model"
)

const testToday = "2026-02-12"

func newLedger(t *testing.T, snap ledger.Snapshot) *ledger.Ledger {
	t.Helper()
	return ledger.New(snap, dates.FixedClock(testToday), ledger.DefaultConfig())
}

// richSnapshot is a healthy budget: 2000 in on Feb 1, ten expenses of 30
// through Feb 2..11, period ending Feb 28. Available funds 1700, daily
// average 10, surplus comfortably positive.
func richSnapshot() ledger.Snapshot {
	snap := ledger.Snapshot{
		Incomes:  []model.Income{{ID: "pay", Date: "2026-02-01", Amount: 2000, Kind: model.KindNormal}},
		EndDates: model.EndDates{Primary: "2026-02-28"},
	}
	for d := 2; d <= 11; d++ {
		snap.Expenses = append(snap.Expenses, model.Expense{
			ID: fmt.Sprintf("e%d", d), Date: dates.AddDays("2026-02-01", d-1),
			Amount: 30, Quantity: 1, Kind: model.KindNormal,
		})
	}
	return snap
}

func activeGoal() model.SavingsGoal {
	return model.SavingsGoal{
		ID:           "g1",
		Name:         "emergency fund",
		TargetAmount: 5000,
		Priority:     model.PriorityMedium,
		Status:       model.GoalActive,
	}
}

func TestEvaluateHappyPath(t *testing.T) {
	adv := New(DefaultConfig())
	got := adv.Evaluate(newLedger(t, richSnapshot()), activeGoal())

	if !got.CanSuggest {
		t.Fatalf("CanSuggest = false: %s", got.Reason)
	}
	// daysLeft 16, avg 10/day, safety buffer 16*10*1.3 = 208.
	// surplus = 1700 - 208 = 1492; base = min(746, 340) = 340.
	if got.Amount != 340 {
		t.Fatalf("Amount = %v, want 340", got.Amount)
	}
	c := got.Calculation
	if c.AvailableFunds != 1700 {
		t.Fatalf("AvailableFunds = %v, want 1700", c.AvailableFunds)
	}
	if c.DaysLeft != 16 {
		t.Fatalf("DaysLeft = %d, want 16", c.DaysLeft)
	}
	if c.DailyAverageExpense != 10 {
		t.Fatalf("DailyAverageExpense = %v, want 10", c.DailyAverageExpense)
	}
	if math.Abs(c.SafetyBuffer-208) > 1e-9 {
		t.Fatalf("SafetyBuffer = %v, want 208", c.SafetyBuffer)
	}
	if math.Abs(c.PotentialSurplus-1492) > 1e-9 {
		t.Fatalf("PotentialSurplus = %v, want 1492", c.PotentialSurplus)
	}
	if len(got.Details) == 0 {
		t.Fatal("Details empty")
	}
}

func TestEvaluateSafetyBoundHoldsUnderMultipliers(t *testing.T) {
	adv := New(DefaultConfig())
	goal := activeGoal()
	goal.Priority = model.PriorityHigh
	goal.TargetDate = "2026-02-16" // 4 days out: multiplier 1.8

	got := adv.Evaluate(newLedger(t, richSnapshot()), goal)
	if !got.CanSuggest {
		t.Fatalf("CanSuggest = false: %s", got.Reason)
	}
	if got.Calculation.PriorityMultiplier != 1.2 {
		t.Fatalf("PriorityMultiplier = %v, want 1.2", got.Calculation.PriorityMultiplier)
	}
	if got.Calculation.DeadlineMultiplier != 1.8 {
		t.Fatalf("DeadlineMultiplier = %v, want 1.8", got.Calculation.DeadlineMultiplier)
	}
	// 340 * 1.2 * 1.8 would be 734, but the suggestion never exceeds 20%
	// of available funds.
	if maxSafe := 1700 * 0.20; got.Amount > maxSafe {
		t.Fatalf("Amount %v exceeds the funds cap %v", got.Amount, maxSafe)
	}
	if got.Amount != 340 {
		t.Fatalf("Amount = %v, want 340", got.Amount)
	}
}

func TestEvaluatePreconditions(t *testing.T) {
	adv := New(DefaultConfig())

	t.Run("inactive goal", func(t *testing.T) {
		goal := activeGoal()
		goal.Status = model.GoalPaused
		got := adv.Evaluate(newLedger(t, richSnapshot()), goal)
		if got.CanSuggest || !strings.Contains(got.Reason, "not active") {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("completed goal", func(t *testing.T) {
		goal := activeGoal()
		goal.CurrentAmount = goal.TargetAmount
		got := adv.Evaluate(newLedger(t, richSnapshot()), goal)
		if got.CanSuggest || !strings.Contains(got.Reason, "complete") {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("pending suggestion today", func(t *testing.T) {
		goal := activeGoal()
		goal.LastSuggestionDate = testToday
		goal.SuggestionStatus = model.SuggestionPending
		got := adv.Evaluate(newLedger(t, richSnapshot()), goal)
		if got.CanSuggest || !strings.Contains(got.Reason, "pending") {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("resolved suggestion today is fine", func(t *testing.T) {
		goal := activeGoal()
		goal.LastSuggestionDate = testToday
		goal.SuggestionStatus = ""
		got := adv.Evaluate(newLedger(t, richSnapshot()), goal)
		if !got.CanSuggest {
			t.Fatalf("rejected after resolution: %s", got.Reason)
		}
	})

	t.Run("no funds", func(t *testing.T) {
		got := adv.Evaluate(newLedger(t, ledger.Snapshot{
			EndDates: model.EndDates{Primary: "2026-02-28"},
		}), activeGoal())
		if got.CanSuggest || !strings.Contains(got.Reason, "funds") {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("no period", func(t *testing.T) {
		snap := richSnapshot()
		snap.EndDates = model.EndDates{}
		got := adv.Evaluate(newLedger(t, snap), activeGoal())
		if got.CanSuggest || !strings.Contains(got.Reason, "period") {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("period too close", func(t *testing.T) {
		snap := richSnapshot()
		snap.EndDates = model.EndDates{Primary: "2026-02-15"} // 3 calendar days remain
		got := adv.Evaluate(newLedger(t, snap), activeGoal())
		if got.CanSuggest || !strings.Contains(got.Reason, "days left") {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("not enough history", func(t *testing.T) {
		snap := richSnapshot()
		snap.Expenses = snap.Expenses[:5]
		got := adv.Evaluate(newLedger(t, snap), activeGoal())
		if got.CanSuggest || !strings.Contains(got.Reason, "history") {
			t.Fatalf("got %+v", got)
		}
	})
}

func TestEvaluateSurplusExhausted(t *testing.T) {
	// Income 400 against 300 spent: available 100 cannot cover the 208
	// safety buffer.
	snap := richSnapshot()
	snap.Incomes = []model.Income{{ID: "pay", Date: "2026-02-01", Amount: 400, Kind: model.KindNormal}}

	got := New(DefaultConfig()).Evaluate(newLedger(t, snap), activeGoal())
	if got.CanSuggest {
		t.Fatalf("suggested %v with no surplus", got.Amount)
	}
	if !strings.Contains(got.Reason, "endanger") {
		t.Fatalf("Reason = %q", got.Reason)
	}
	if got.Amount != 0 {
		t.Fatalf("Amount = %v on rejection, want 0", got.Amount)
	}
}

func TestEvaluateBelowMinimum(t *testing.T) {
	snap := ledger.Snapshot{
		Incomes:  []model.Income{{ID: "pay", Date: "2026-02-01", Amount: 40, Kind: model.KindNormal}},
		EndDates: model.EndDates{Primary: "2026-02-28"},
	}
	for d := 2; d <= 11; d++ {
		snap.Expenses = append(snap.Expenses, model.Expense{
			ID: fmt.Sprintf("e%d", d), Date: dates.AddDays("2026-02-01", d-1),
			Amount: 0.3, Quantity: 1, Kind: model.KindNormal,
		})
	}

	got := New(DefaultConfig()).Evaluate(newLedger(t, snap), activeGoal())
	if got.CanSuggest {
		t.Fatalf("suggested %v, want below-minimum rejection", got.Amount)
	}
	if !strings.Contains(got.Reason, "minimum") {
		t.Fatalf("Reason = %q", got.Reason)
	}
}

func TestEvaluateCapsToGoalRemaining(t *testing.T) {
	goal := activeGoal()
	goal.TargetAmount = 100

	got := New(DefaultConfig()).Evaluate(newLedger(t, richSnapshot()), goal)
	if !got.CanSuggest {
		t.Fatalf("CanSuggest = false: %s", got.Reason)
	}
	if got.Amount != 100 {
		t.Fatalf("Amount = %v, want the goal remainder 100", got.Amount)
	}
}

func TestEvaluatePlannedMovements(t *testing.T) {
	snap := richSnapshot()
	snap.Incomes = append(snap.Incomes,
		model.Income{ID: "pi", Date: "2026-02-20", Amount: 500, Kind: model.KindPlanned})
	snap.Expenses = append(snap.Expenses,
		model.Expense{ID: "pe", Date: "2026-02-25", Amount: 100, Quantity: 1, Kind: model.KindPlanned})

	got := New(DefaultConfig()).Evaluate(newLedger(t, snap), activeGoal())
	if !got.CanSuggest {
		t.Fatalf("CanSuggest = false: %s", got.Reason)
	}
	c := got.Calculation
	if c.PlannedIncomes != 500 {
		t.Fatalf("PlannedIncomes = %v, want 500", c.PlannedIncomes)
	}
	if c.PlannedExpenses != 100 {
		t.Fatalf("PlannedExpenses = %v, want 100", c.PlannedExpenses)
	}
	if math.Abs(c.RequiredFunds-308) > 1e-9 {
		t.Fatalf("RequiredFunds = %v, want 308", c.RequiredFunds)
	}
	if math.Abs(c.PotentialSurplus-1892) > 1e-9 {
		t.Fatalf("PotentialSurplus = %v, want 1892", c.PotentialSurplus)
	}
}

func TestDeadlineMultiplier(t *testing.T) {
	tests := []struct {
		target string
		want   float64
	}{
		{"", 1.0},
		{"2026-02-16", 1.8},  // 4 days out
		{"2026-02-22", 1.5},  // 10 days
		{"2026-03-04", 1.3},  // 20 days
		{"2026-04-03", 1.15}, // 50 days
		{"2026-06-01", 1.0},  // far away
	}
	for _, tt := range tests {
		if got := deadlineMultiplier(testToday, tt.target); got != tt.want {
			t.Fatalf("deadlineMultiplier(%q) = %v, want %v", tt.target, got, tt.want)
		}
	}
}

func TestNewFillsZeroFields(t *testing.T) {
	adv := New(Config{SurplusShare: 0.4})
	if adv.cfg.SurplusShare != 0.4 {
		t.Fatalf("SurplusShare = %v, want 0.4", adv.cfg.SurplusShare)
	}
	if adv.cfg.FundsShare != 0.20 {
		t.Fatalf("FundsShare = %v, want default 0.20", adv.cfg.FundsShare)
	}
	if adv.cfg.WindowDays != 30 {
		t.Fatalf("WindowDays = %v, want default 30", adv.cfg.WindowDays)
	}
}
