package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/envel/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "budget.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestIncomeRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := model.Income{
		ID:     "i1",
		Date:   "2026-02-01",
		Time:   "09:30",
		Amount: 1500,
		Kind:   model.KindNormal,
		UserID: "ana",
		Source: "salary",
	}
	if err := s.AddIncome(ctx, in); err != nil {
		t.Fatalf("AddIncome: %v", err)
	}

	got, err := s.Incomes(ctx)
	if err != nil {
		t.Fatalf("Incomes: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d incomes, want 1", len(got))
	}
	if got[0] != in {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got[0], in)
	}
}

func TestExpenseRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ex := model.Expense{
		ID:          "e1",
		Date:        "2026-02-05",
		Amount:      12.5,
		Quantity:    2,
		Kind:        model.KindPlanned,
		UserID:      "bo",
		Category:    "food",
		Description: "groceries",
	}
	if err := s.AddExpense(ctx, ex); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	got, err := s.Expenses(ctx)
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}
	if len(got) != 1 || got[0] != ex {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestAddReplacesByID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := model.Income{ID: "i1", Date: "2026-02-01", Amount: 100, Kind: model.KindNormal}
	if err := s.AddIncome(ctx, in); err != nil {
		t.Fatalf("AddIncome: %v", err)
	}
	in.Amount = 150
	if err := s.AddIncome(ctx, in); err != nil {
		t.Fatalf("AddIncome replace: %v", err)
	}

	got, _ := s.Incomes(ctx)
	if len(got) != 1 || got[0].Amount != 150 {
		t.Fatalf("replace failed: %+v", got)
	}
}

func TestDeleteTransaction(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_ = s.AddIncome(ctx, model.Income{ID: "i1", Date: "2026-02-01", Amount: 1, Kind: model.KindNormal})
	_ = s.AddExpense(ctx, model.Expense{ID: "e1", Date: "2026-02-01", Amount: 1, Quantity: 1, Kind: model.KindNormal})

	if err := s.DeleteTransaction(ctx, "i1"); err != nil {
		t.Fatalf("delete income: %v", err)
	}
	if err := s.DeleteTransaction(ctx, "e1"); err != nil {
		t.Fatalf("delete expense: %v", err)
	}
	if err := s.DeleteTransaction(ctx, "nope"); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("delete missing = %v, want ErrTransactionNotFound", err)
	}
}

func TestRealise(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_ = s.AddExpense(ctx, model.Expense{
		ID: "e1", Date: "2026-02-05", Amount: 10, Quantity: 1, Kind: model.KindPlanned,
	})

	if err := s.Realise(ctx, "e1"); err != nil {
		t.Fatalf("Realise: %v", err)
	}
	got, _ := s.Expenses(ctx)
	if got[0].Kind != model.KindNormal {
		t.Fatalf("Kind = %q, want normal", got[0].Kind)
	}
	if !got[0].WasPlanned {
		t.Fatal("WasPlanned not set")
	}

	// Already realised: the flip is one-shot.
	if err := s.Realise(ctx, "e1"); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("second Realise = %v, want ErrTransactionNotFound", err)
	}
}

func TestGoalLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	g := model.SavingsGoal{
		ID:           "g1",
		Name:         "vacation",
		TargetAmount: 1000,
		Priority:     model.PriorityHigh,
		Status:       model.GoalActive,
	}
	if err := s.SaveGoal(ctx, g); err != nil {
		t.Fatalf("SaveGoal: %v", err)
	}

	got, err := s.Goal(ctx, "g1")
	if err != nil {
		t.Fatalf("Goal: %v", err)
	}
	if got != g {
		t.Fatalf("goal mismatch:\n got %+v\nwant %+v", got, g)
	}

	if err := s.MarkSuggestionPending(ctx, "g1", "2026-02-12", 340); err != nil {
		t.Fatalf("MarkSuggestionPending: %v", err)
	}
	got, _ = s.Goal(ctx, "g1")
	if got.SuggestionStatus != model.SuggestionPending {
		t.Fatalf("SuggestionStatus = %q, want pending", got.SuggestionStatus)
	}
	if got.LastSuggestionDate != "2026-02-12" || got.LastSuggestionAmount != 340 {
		t.Fatalf("suggestion fields = %q %v", got.LastSuggestionDate, got.LastSuggestionAmount)
	}

	if err := s.AddContribution(ctx, "g1", 340); err != nil {
		t.Fatalf("AddContribution: %v", err)
	}
	got, _ = s.Goal(ctx, "g1")
	if got.CurrentAmount != 340 {
		t.Fatalf("CurrentAmount = %v, want 340", got.CurrentAmount)
	}
	if got.SuggestionStatus != "" {
		t.Fatalf("SuggestionStatus = %q, want cleared", got.SuggestionStatus)
	}

	// Reaching the target completes the goal.
	if err := s.AddContribution(ctx, "g1", 660); err != nil {
		t.Fatalf("AddContribution: %v", err)
	}
	got, _ = s.Goal(ctx, "g1")
	if got.Status != model.GoalCompleted {
		t.Fatalf("Status = %q, want completed", got.Status)
	}

	if err := s.DeleteGoal(ctx, "g1"); err != nil {
		t.Fatalf("DeleteGoal: %v", err)
	}
	if _, err := s.Goal(ctx, "g1"); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("Goal after delete = %v, want ErrGoalNotFound", err)
	}
}

func TestAddContributionValidation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.AddContribution(ctx, "g1", 0); err == nil {
		t.Fatal("zero contribution accepted")
	}
	if err := s.AddContribution(ctx, "missing", 10); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("missing goal = %v, want ErrGoalNotFound", err)
	}
}

func TestRejectSuggestion(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	g := model.SavingsGoal{ID: "g1", Name: "x", TargetAmount: 100, Status: model.GoalActive}
	_ = s.SaveGoal(ctx, g)
	_ = s.MarkSuggestionPending(ctx, "g1", "2026-02-12", 50)

	if err := s.RejectSuggestion(ctx, "g1"); err != nil {
		t.Fatalf("RejectSuggestion: %v", err)
	}
	got, _ := s.Goal(ctx, "g1")
	if got.SuggestionStatus != "" {
		t.Fatalf("SuggestionStatus = %q, want cleared", got.SuggestionStatus)
	}
	// The suggestion date survives as an audit trail.
	if got.LastSuggestionDate != "2026-02-12" {
		t.Fatalf("LastSuggestionDate = %q", got.LastSuggestionDate)
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if rec, err := s.Load(ctx, "2026-02-12"); err != nil || rec != nil {
		t.Fatalf("Load absent = %+v, %v, want nil, nil", rec, err)
	}

	rec := model.DailyEnvelope{
		Date:                  "2026-02-12",
		BaseAmount:            170,
		SetAt:                 time.Date(2026, 2, 12, 8, 0, 0, 0, time.UTC),
		TodayExtraFromInflows: 25,
	}
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, "2026-02-12")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatal("Load returned nil after Save")
	}
	if got.BaseAmount != 170 || got.TodayExtraFromInflows != 25 {
		t.Fatalf("record = %+v", got)
	}
	if !got.SetAt.Equal(rec.SetAt) {
		t.Fatalf("SetAt = %v, want %v", got.SetAt, rec.SetAt)
	}
}

func TestFileStateRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	fs := FileState{Path: "/tmp/export.csv", MtimeNs: 12345, SizeBytes: 678, ImportedRows: 9}
	if err := s.SaveFileState(ctx, fs); err != nil {
		t.Fatalf("SaveFileState: %v", err)
	}

	got, err := s.TrackedFiles(ctx)
	if err != nil {
		t.Fatalf("TrackedFiles: %v", err)
	}
	if got["/tmp/export.csv"] != fs {
		t.Fatalf("tracked = %+v, want %+v", got["/tmp/export.csv"], fs)
	}
}
