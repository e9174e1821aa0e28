package ledger

import (
	"testing"

	"github.com/theirongolddev/envel/internal/model"
)

func anomalyCodes(anoms []Anomaly) []string {
	codes := make([]string, len(anoms))
	for i, a := range anoms {
		codes[i] = a.Code
	}
	return codes
}

func hasCode(anoms []Anomaly, code string) bool {
	for _, a := range anoms {
		if a.Code == code {
			return true
		}
	}
	return false
}

func TestAnomaliesNoneOnPace(t *testing.T) {
	// Income 2800 on day 1 of a 28-day period, no reserve. By day 12 the
	// expected spend is 2800*12/28 = 1200; spending 1200 is exactly on pace.
	l := newTestLedger(t, Snapshot{
		Incomes:  []model.Income{income("2026-02-01", 2800)},
		Expenses: []model.Expense{expense("2026-02-10", 1200)},
		EndDates: model.EndDates{Primary: "2026-02-28"},
	})

	if got := l.Anomalies(); len(got) != 0 {
		t.Fatalf("Anomalies = %v, want none", anomalyCodes(got))
	}
}

func TestAnomaliesOverPace(t *testing.T) {
	// Tolerance is 10% of the baseline (280 here); 1200+281 trips the check.
	l := newTestLedger(t, Snapshot{
		Incomes:  []model.Income{income("2026-02-01", 2800)},
		Expenses: []model.Expense{expense("2026-02-10", 1481)},
		EndDates: model.EndDates{Primary: "2026-02-28"},
	})

	got := l.Anomalies()
	if !hasCode(got, AnomalyOverPace) {
		t.Fatalf("Anomalies = %v, want over_pace", anomalyCodes(got))
	}
}

func TestAnomaliesWithinTolerance(t *testing.T) {
	l := newTestLedger(t, Snapshot{
		Incomes:  []model.Income{income("2026-02-01", 2800)},
		Expenses: []model.Expense{expense("2026-02-10", 1479)},
		EndDates: model.EndDates{Primary: "2026-02-28"},
	})

	if got := l.Anomalies(); hasCode(got, AnomalyOverPace) {
		t.Fatalf("over_pace fired inside the tolerance band: %v", anomalyCodes(got))
	}
}

func TestAnomaliesGoalAtRisk(t *testing.T) {
	l := newTestLedger(t, Snapshot{
		Incomes:    []model.Income{income("2026-02-01", 1000)},
		Expenses:   []model.Expense{expense("2026-02-05", 900)},
		EndDates:   model.EndDates{Primary: "2026-02-28"},
		SavingGoal: 300,
	})

	got := l.Anomalies()
	if !hasCode(got, AnomalyGoalAtRisk) {
		t.Fatalf("Anomalies = %v, want goal_at_risk", anomalyCodes(got))
	}
}

func TestAnomaliesNoPeriodNoChecks(t *testing.T) {
	l := newTestLedger(t, Snapshot{
		Incomes:  []model.Income{income("2026-02-01", 100)},
		Expenses: []model.Expense{expense("2026-02-05", 99)},
	})

	if got := l.Anomalies(); got != nil {
		t.Fatalf("Anomalies without a period = %v, want nil", anomalyCodes(got))
	}
}

func TestAnomaliesReserveLowersBaseline(t *testing.T) {
	// The curve runs over income minus the reserve, so the same spending
	// trips earlier when a reserve is set.
	snap := Snapshot{
		Incomes:  []model.Income{income("2026-02-01", 2800)},
		Expenses: []model.Expense{expense("2026-02-10", 1300)},
		EndDates: model.EndDates{Primary: "2026-02-28"},
	}

	if got := newTestLedger(t, snap).Anomalies(); hasCode(got, AnomalyOverPace) {
		t.Fatalf("over_pace fired without a reserve: %v", anomalyCodes(got))
	}

	snap.SavingGoal = 1000
	got := newTestLedger(t, snap).Anomalies()
	if !hasCode(got, AnomalyOverPace) {
		t.Fatalf("over_pace missing with reserve: %v", anomalyCodes(got))
	}
}
