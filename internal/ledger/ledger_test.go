package ledger

import (
	"testing"

	"github.com/theirongolddev/envel/internal/dates"
	"github.com/theirongolddev/envel/internal/model"
)

const testToday = "2026-02-12"

func newTestLedger(t *testing.T, snap Snapshot) *Ledger {
	t.Helper()
	return New(snap, dates.FixedClock(testToday), DefaultConfig())
}

func income(date string, amount float64) model.Income {
	return model.Income{ID: model.NewID(), Date: date, Amount: amount, Kind: model.KindNormal}
}

func plannedIncome(date string, amount float64) model.Income {
	return model.Income{ID: model.NewID(), Date: date, Amount: amount, Kind: model.KindPlanned}
}

func expense(date string, amount float64) model.Expense {
	return model.Expense{ID: model.NewID(), Date: date, Amount: amount, Quantity: 1, Kind: model.KindNormal}
}

func plannedExpense(date string, amount float64) model.Expense {
	return model.Expense{ID: model.NewID(), Date: date, Amount: amount, Quantity: 1, Kind: model.KindPlanned}
}

func TestRealisedTotalsExcludesToday(t *testing.T) {
	l := newTestLedger(t, Snapshot{
		Incomes: []model.Income{
			income("2026-02-01", 1000),
			income(testToday, 500), // same-day inflow stays out of totals
		},
		Expenses: []model.Expense{
			expense("2026-02-05", 200),
			expense(testToday, 50),
		},
	})

	got := l.RealisedTotals()
	if got.Income != 1000 {
		t.Fatalf("Income = %v, want 1000", got.Income)
	}
	if got.Expense != 200 {
		t.Fatalf("Expense = %v, want 200", got.Expense)
	}
	if funds := l.AvailableFunds(); funds != 800 {
		t.Fatalf("AvailableFunds = %v, want 800", funds)
	}
}

func TestRealisedTotalsPlannedHandling(t *testing.T) {
	l := newTestLedger(t, Snapshot{
		Incomes: []model.Income{
			plannedIncome("2026-02-10", 300), // arrived, counts
			plannedIncome("2026-02-20", 400), // future, ignored
		},
		Expenses: []model.Expense{
			plannedExpense("2026-02-08", 100),
			plannedExpense("2026-02-25", 999),
		},
	})

	got := l.RealisedTotals()
	if got.Income != 300 || got.Expense != 100 {
		t.Fatalf("totals = %+v, want income 300 expense 100", got)
	}
}

func TestRealisedTotalsQuantity(t *testing.T) {
	l := newTestLedger(t, Snapshot{
		Expenses: []model.Expense{
			{ID: "a", Date: "2026-02-05", Amount: 3, Quantity: 4, Kind: model.KindNormal},
		},
	})
	if got := l.RealisedTotals().Expense; got != 12 {
		t.Fatalf("Expense = %v, want 12", got)
	}
}

func TestSpendingPeriods(t *testing.T) {
	// testToday 2026-02-12 is a Thursday; its week starts Monday 2026-02-09.
	l := newTestLedger(t, Snapshot{
		Expenses: []model.Expense{
			expense(testToday, 10),
			expense("2026-02-10", 20),         // this week, this month
			expense("2026-02-03", 40),         // this month only
			expense("2026-01-28", 80),         // previous month
			plannedExpense("2026-02-13", 160), // future planned, excluded
		},
	})

	sp := l.SpendingPeriods()
	if sp.SpentToday != 10 {
		t.Fatalf("SpentToday = %v, want 10", sp.SpentToday)
	}
	if sp.SpentWeek != 30 {
		t.Fatalf("SpentWeek = %v, want 30", sp.SpentWeek)
	}
	if sp.SpentMonth != 70 {
		t.Fatalf("SpentMonth = %v, want 70", sp.SpentMonth)
	}
}

func TestTrailingExpenses(t *testing.T) {
	l := newTestLedger(t, Snapshot{
		Expenses: []model.Expense{
			expense(testToday, 5),
			expense("2026-01-14", 7),  // 30 days back, inside window
			expense("2026-01-13", 11), // outside
		},
	})
	sum, count := l.TrailingExpenses(30)
	if sum != 12 || count != 2 {
		t.Fatalf("TrailingExpenses = %v, %d, want 12, 2", sum, count)
	}
}

func TestPlannedBetween(t *testing.T) {
	l := newTestLedger(t, Snapshot{
		Incomes: []model.Income{
			plannedIncome("2026-02-15", 100),
			plannedIncome("2026-03-01", 200), // past end
			plannedIncome(testToday, 50),     // today is not "between"
			income("2026-02-20", 400),        // normal, never planned
		},
		Expenses: []model.Expense{
			plannedExpense("2026-02-20", 30),
			plannedExpense("2026-02-28", 40),
		},
	})

	in, out := l.PlannedBetween("2026-02-28")
	if in != 100 {
		t.Fatalf("planned incomes = %v, want 100", in)
	}
	if out != 70 {
		t.Fatalf("planned expenses = %v, want 70", out)
	}

	in, out = l.PlannedBetween("")
	if in != 0 || out != 0 {
		t.Fatalf("PlannedBetween(empty) = %v, %v, want zeros", in, out)
	}
}

func TestDailySpendSeries(t *testing.T) {
	l := newTestLedger(t, Snapshot{
		Expenses: []model.Expense{
			expense(testToday, 5),
			expense("2026-02-11", 3),
			expense("2026-02-11", 4),
		},
	})

	series := l.DailySpendSeries(7)
	if len(series) != 7 {
		t.Fatalf("series length = %d, want 7", len(series))
	}
	if series[6] != 5 {
		t.Fatalf("today = %v, want 5", series[6])
	}
	if series[5] != 7 {
		t.Fatalf("yesterday = %v, want 7", series[5])
	}
	for i := 0; i < 5; i++ {
		if series[i] != 0 {
			t.Fatalf("day %d = %v, want 0 fill", i, series[i])
		}
	}
}

func TestGlobalMedian30dCountsQuietDays(t *testing.T) {
	// One big spend among 29 quiet days: the median must be 0.
	l := newTestLedger(t, Snapshot{
		Expenses: []model.Expense{expense(testToday, 500)},
	})
	if got := l.GlobalMedian30d(); got != 0 {
		t.Fatalf("GlobalMedian30d = %v, want 0", got)
	}
}

func TestInvalidateDropsMemo(t *testing.T) {
	l := newTestLedger(t, Snapshot{
		Incomes:  []model.Income{income("2026-02-01", 100)},
		EndDates: model.EndDates{Primary: "2026-02-28"},
	})

	first := l.DailyLimits()
	if first.Primary.Spendable != 100 {
		t.Fatalf("Spendable = %v, want 100", first.Primary.Spendable)
	}

	// Mutating the snapshot behind the memo must not leak through until
	// Invalidate is called.
	l.snap.Incomes = append(l.snap.Incomes, income("2026-02-02", 50))
	if cached := l.DailyLimits(); cached.Primary.Spendable != 100 {
		t.Fatalf("memo not used: Spendable = %v", cached.Primary.Spendable)
	}

	l.Invalidate()
	if fresh := l.DailyLimits(); fresh.Primary.Spendable != 150 {
		t.Fatalf("after Invalidate Spendable = %v, want 150", fresh.Primary.Spendable)
	}
}
