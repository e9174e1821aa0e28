package envelope

import (
	"context"
	"testing"
	"time"

	"github.com/theirongolddev/envel/internal/dates"
	"github.com/theirongolddev/envel/internal/ledger"
	"github.com/theirongolddev/envel/internal/model"
)

const testToday = "2026-02-12"

// memStore is an in-memory Store for engine tests.
type memStore struct {
	recs  map[string]model.DailyEnvelope
	saves int
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[string]model.DailyEnvelope)}
}

func (m *memStore) Load(_ context.Context, date string) (*model.DailyEnvelope, error) {
	rec, ok := m.recs[date]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *memStore) Save(_ context.Context, rec model.DailyEnvelope) error {
	m.recs[rec.Date] = rec
	m.saves++
	return nil
}

func newLedger(t *testing.T, snap ledger.Snapshot) *ledger.Ledger {
	t.Helper()
	return ledger.New(snap, dates.FixedClock(testToday), ledger.DefaultConfig())
}

func TestComputeBase(t *testing.T) {
	// 3000 in, 110 out, 17 days to 2026-02-28: 2890/17 = 170 exactly.
	l := newLedger(t, ledger.Snapshot{
		Incomes:  []model.Income{{ID: "1", Date: "2026-02-01", Amount: 3000, Kind: model.KindNormal}},
		Expenses: []model.Expense{{ID: "2", Date: "2026-02-05", Amount: 110, Quantity: 1, Kind: model.KindNormal}},
		EndDates: model.EndDates{Primary: "2026-02-28"},
	})

	e := New(newMemStore(), Config{Enabled: true, RoundingUnit: 10})
	if got := e.ComputeBase(l); got != 170 {
		t.Fatalf("ComputeBase = %v, want 170", got)
	}
}

func TestComputeBaseRounding(t *testing.T) {
	snap := ledger.Snapshot{
		Incomes:  []model.Income{{ID: "1", Date: "2026-02-01", Amount: 2999, Kind: model.KindNormal}},
		EndDates: model.EndDates{Primary: "2026-02-28"},
	}
	// 2999/17 = 176.41: unit 10 floors to 170, unit 5 to 175, unit 1 to 176.
	tests := []struct {
		unit float64
		want float64
	}{
		{10, 170},
		{5, 175},
		{1, 176},
	}
	for _, tt := range tests {
		e := New(newMemStore(), Config{Enabled: true, RoundingUnit: tt.unit})
		if got := e.ComputeBase(newLedger(t, snap)); got != tt.want {
			t.Fatalf("unit %v: ComputeBase = %v, want %v", tt.unit, got, tt.want)
		}
	}
}

func TestComputeBaseEdgeCases(t *testing.T) {
	e := New(newMemStore(), Config{Enabled: true, RoundingUnit: 10})

	// Period over.
	l := newLedger(t, ledger.Snapshot{
		Incomes:  []model.Income{{ID: "1", Date: "2026-01-01", Amount: 1000, Kind: model.KindNormal}},
		EndDates: model.EndDates{Primary: "2026-02-01"},
	})
	if got := e.ComputeBase(l); got != 0 {
		t.Fatalf("expired period ComputeBase = %v, want 0", got)
	}

	// Nothing remains after the reserve.
	l = newLedger(t, ledger.Snapshot{
		Incomes:    []model.Income{{ID: "1", Date: "2026-02-01", Amount: 100, Kind: model.KindNormal}},
		EndDates:   model.EndDates{Primary: "2026-02-28"},
		SavingGoal: 100,
	})
	if got := e.ComputeBase(l); got != 0 {
		t.Fatalf("no remainder ComputeBase = %v, want 0", got)
	}
}

func TestComputeBaseSecondaryPeriod(t *testing.T) {
	l := newLedger(t, ledger.Snapshot{
		Incomes: []model.Income{{ID: "1", Date: "2026-02-01", Amount: 3200, Kind: model.KindNormal}},
		EndDates: model.EndDates{
			Primary:   "2026-02-28",
			Secondary: "2026-03-15", // 32 days left
		},
	})

	e := New(newMemStore(), Config{Enabled: true, RoundingUnit: 10, UseSecondary: true})
	// 3200/32 = 100 exactly.
	if got := e.ComputeBase(l); got != 100 {
		t.Fatalf("secondary ComputeBase = %v, want 100", got)
	}
}

func TestUpdateDisabled(t *testing.T) {
	st := newMemStore()
	e := New(st, Config{Enabled: false})
	rec, err := e.Update(context.Background(), newLedger(t, ledger.Snapshot{}))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec != nil {
		t.Fatalf("disabled Update returned %+v, want nil", rec)
	}
	if st.saves != 0 {
		t.Fatalf("disabled Update saved %d records", st.saves)
	}
}

func TestUpdateCreatesOncePerDay(t *testing.T) {
	st := newMemStore()
	e := New(st, Config{Enabled: true, RoundingUnit: 10})
	l := newLedger(t, ledger.Snapshot{
		Incomes:  []model.Income{{ID: "1", Date: "2026-02-01", Amount: 3000, Kind: model.KindNormal}},
		EndDates: model.EndDates{Primary: "2026-02-28"},
	})

	first, err := e.Update(context.Background(), l)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if first.Date != testToday {
		t.Fatalf("Date = %q, want %q", first.Date, testToday)
	}
	if first.BaseAmount != 170 {
		t.Fatalf("BaseAmount = %v, want 170", first.BaseAmount)
	}
	if first.SetAt.IsZero() {
		t.Fatal("SetAt not stamped")
	}

	second, err := e.Update(context.Background(), l)
	if err != nil {
		t.Fatalf("second Update: %v", err)
	}
	if second.BaseAmount != first.BaseAmount {
		t.Fatalf("BaseAmount changed across calls: %v -> %v", first.BaseAmount, second.BaseAmount)
	}
	if st.saves != 1 {
		t.Fatalf("saves = %d, want 1 (no-op second call)", st.saves)
	}
}

func TestUpdateBaseFrozenAgainstEdits(t *testing.T) {
	st := newMemStore()
	e := New(st, Config{Enabled: true, RoundingUnit: 10})
	snap := ledger.Snapshot{
		Incomes:  []model.Income{{ID: "1", Date: "2026-02-01", Amount: 3000, Kind: model.KindNormal}},
		EndDates: model.EndDates{Primary: "2026-02-28"},
	}

	first, err := e.Update(context.Background(), newLedger(t, snap))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	// A backdated expense lowers what ComputeBase would now yield, but the
	// stored record keeps its morning value.
	snap.Expenses = append(snap.Expenses,
		model.Expense{ID: "x", Date: "2026-02-02", Amount: 1000, Quantity: 1, Kind: model.KindNormal})
	after, err := e.Update(context.Background(), newLedger(t, snap))
	if err != nil {
		t.Fatalf("Update after edit: %v", err)
	}
	if after.BaseAmount != first.BaseAmount {
		t.Fatalf("BaseAmount rewritten: %v -> %v", first.BaseAmount, after.BaseAmount)
	}
}

func TestUpdateRefreshesTodayExtra(t *testing.T) {
	st := newMemStore()
	e := New(st, Config{Enabled: true, RoundingUnit: 10})
	snap := ledger.Snapshot{
		Incomes:  []model.Income{{ID: "1", Date: "2026-02-01", Amount: 3000, Kind: model.KindNormal}},
		EndDates: model.EndDates{Primary: "2026-02-28"},
	}

	first, err := e.Update(context.Background(), newLedger(t, snap))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if first.TodayExtraFromInflows != 0 {
		t.Fatalf("initial extra = %v, want 0", first.TodayExtraFromInflows)
	}

	snap.Incomes = append(snap.Incomes,
		model.Income{ID: "2", Date: testToday, Amount: 75, Kind: model.KindNormal})
	after, err := e.Update(context.Background(), newLedger(t, snap))
	if err != nil {
		t.Fatalf("Update after inflow: %v", err)
	}
	if after.TodayExtraFromInflows != 75 {
		t.Fatalf("extra = %v, want 75", after.TodayExtraFromInflows)
	}
	if after.BaseAmount != first.BaseAmount {
		t.Fatalf("BaseAmount changed on extra refresh")
	}

	// A planned income dated today is not an inflow.
	snap.Incomes = append(snap.Incomes,
		model.Income{ID: "3", Date: testToday, Amount: 999, Kind: model.KindPlanned})
	again, err := e.Update(context.Background(), newLedger(t, snap))
	if err != nil {
		t.Fatalf("Update with planned inflow: %v", err)
	}
	if again.TodayExtraFromInflows != 75 {
		t.Fatalf("extra = %v after planned income, want 75", again.TodayExtraFromInflows)
	}
}

func TestUpdateSetAtUsesClock(t *testing.T) {
	st := newMemStore()
	e := New(st, Config{Enabled: true, RoundingUnit: 10})
	l := newLedger(t, ledger.Snapshot{
		Incomes:  []model.Income{{ID: "1", Date: "2026-02-01", Amount: 100, Kind: model.KindNormal}},
		EndDates: model.EndDates{Primary: "2026-02-28"},
	})

	rec, err := e.Update(context.Background(), l)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)
	if !rec.SetAt.Equal(want) {
		t.Fatalf("SetAt = %v, want %v", rec.SetAt, want)
	}
}
