// Package store provides the SQLite-backed budget database: transactions,
// savings goals, and daily envelope records.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/envel/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Sentinel errors callers branch on.
var (
	ErrGoalNotFound        = errors.New("savings goal not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Store wraps the budget database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the budget database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening budget db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddIncome inserts or replaces an income.
func (s *Store) AddIncome(ctx context.Context, in model.Income) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO incomes
		(id, date, time, amount, kind, was_planned, user_id, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Date, in.Time, in.Amount, string(in.Kind), boolToInt(in.WasPlanned),
		in.UserID, in.Source,
	)
	return err
}

// AddExpense inserts or replaces an expense.
func (s *Store) AddExpense(ctx context.Context, ex model.Expense) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO expenses
		(id, date, time, amount, quantity, kind, was_planned, user_id, category, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ex.ID, ex.Date, ex.Time, ex.Amount, ex.Quantity, string(ex.Kind),
		boolToInt(ex.WasPlanned), ex.UserID, ex.Category, ex.Description,
	)
	return err
}

// Incomes returns the full income list, order not guaranteed.
func (s *Store) Incomes(ctx context.Context) ([]model.Income, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, date, time, amount, kind, was_planned, user_id, source FROM incomes")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Income
	for rows.Next() {
		var in model.Income
		var kind string
		var wasPlanned int
		if err := rows.Scan(&in.ID, &in.Date, &in.Time, &in.Amount, &kind,
			&wasPlanned, &in.UserID, &in.Source); err != nil {
			return nil, err
		}
		in.Kind = model.Kind(kind)
		in.WasPlanned = wasPlanned != 0
		out = append(out, in)
	}
	return out, rows.Err()
}

// Expenses returns the full expense list, order not guaranteed.
func (s *Store) Expenses(ctx context.Context) ([]model.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, date, time, amount, quantity, kind, was_planned, user_id, category, description FROM expenses")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Expense
	for rows.Next() {
		var ex model.Expense
		var kind string
		var wasPlanned int
		if err := rows.Scan(&ex.ID, &ex.Date, &ex.Time, &ex.Amount, &ex.Quantity,
			&kind, &wasPlanned, &ex.UserID, &ex.Category, &ex.Description); err != nil {
			return nil, err
		}
		ex.Kind = model.Kind(kind)
		ex.WasPlanned = wasPlanned != 0
		out = append(out, ex)
	}
	return out, rows.Err()
}

// DeleteTransaction removes the income or expense with the given id.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM incomes WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	res, err = s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// Realise flips a planned transaction to normal and marks the audit flag.
func (s *Store) Realise(ctx context.Context, id string) error {
	for _, table := range []string{"incomes", "expenses"} {
		res, err := s.db.ExecContext(ctx,
			"UPDATE "+table+" SET kind = ?, was_planned = 1 WHERE id = ? AND kind = ?",
			string(model.KindNormal), id, string(model.KindPlanned))
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return nil
		}
	}
	return ErrTransactionNotFound
}

// --- savings goals ---

const goalColumns = `id, name, description, icon, target_amount, current_amount,
	target_date, priority, status, last_suggestion_date, last_suggestion_amount,
	suggestion_status`

func scanGoal(row interface{ Scan(...any) error }) (model.SavingsGoal, error) {
	var g model.SavingsGoal
	var status string
	err := row.Scan(&g.ID, &g.Name, &g.Description, &g.Icon, &g.TargetAmount,
		&g.CurrentAmount, &g.TargetDate, &g.Priority, &status,
		&g.LastSuggestionDate, &g.LastSuggestionAmount, &g.SuggestionStatus)
	g.Status = model.GoalStatus(status)
	return g, err
}

// Goals returns all savings goals.
func (s *Store) Goals(ctx context.Context) ([]model.SavingsGoal, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+goalColumns+" FROM savings_goals ORDER BY priority, name")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.SavingsGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Goal returns one savings goal by id.
func (s *Store) Goal(ctx context.Context, id string) (model.SavingsGoal, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+goalColumns+" FROM savings_goals WHERE id = ?", id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return g, ErrGoalNotFound
	}
	return g, err
}

// SaveGoal inserts or replaces a savings goal.
func (s *Store) SaveGoal(ctx context.Context, g model.SavingsGoal) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO savings_goals
		(`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Description, g.Icon, g.TargetAmount, g.CurrentAmount,
		g.TargetDate, g.Priority, string(g.Status), g.LastSuggestionDate,
		g.LastSuggestionAmount, g.SuggestionStatus,
	)
	return err
}

// DeleteGoal removes a savings goal.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM savings_goals WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGoalNotFound
	}
	return nil
}

// MarkSuggestionPending records an outstanding suggestion for the goal.
// The advisor itself never calls this; the command layer does, after
// showing the suggestion to the user.
func (s *Store) MarkSuggestionPending(ctx context.Context, id, date string, amount float64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE savings_goals SET
		last_suggestion_date = ?, last_suggestion_amount = ?, suggestion_status = ?
		WHERE id = ?`,
		date, amount, model.SuggestionPending, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGoalNotFound
	}
	return nil
}

// AddContribution increases the goal's saved amount, resolving any pending
// suggestion and completing the goal when the target is reached.
func (s *Store) AddContribution(ctx context.Context, id string, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("contribution must be positive")
	}
	g, err := s.Goal(ctx, id)
	if err != nil {
		return err
	}
	g.CurrentAmount += amount
	g.SuggestionStatus = ""
	if g.Completed() {
		g.Status = model.GoalCompleted
	}
	return s.SaveGoal(ctx, g)
}

// RejectSuggestion clears the goal's pending suggestion.
func (s *Store) RejectSuggestion(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE savings_goals SET suggestion_status = '' WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGoalNotFound
	}
	return nil
}

// --- daily envelopes ---

// Load returns the envelope record for the given date, or nil when absent.
func (s *Store) Load(ctx context.Context, date string) (*model.DailyEnvelope, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT date, base_amount, set_at, today_extra FROM daily_envelopes WHERE date = ?", date)

	var rec model.DailyEnvelope
	var setAt string
	err := row.Scan(&rec.Date, &rec.BaseAmount, &setAt, &rec.TodayExtraFromInflows)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if t, perr := time.Parse(time.RFC3339, setAt); perr == nil {
		rec.SetAt = t
	}
	return &rec, nil
}

// Save stores the envelope record for its date.
func (s *Store) Save(ctx context.Context, rec model.DailyEnvelope) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO daily_envelopes
		(date, base_amount, set_at, today_extra)
		VALUES (?, ?, ?, ?)`,
		rec.Date, rec.BaseAmount, rec.SetAt.UTC().Format(time.RFC3339), rec.TodayExtraFromInflows,
	)
	return err
}

// --- import tracking ---

// FileState records one imported file's fingerprint, used to skip files
// that have not changed since the last import.
type FileState struct {
	Path         string
	MtimeNs      int64
	SizeBytes    int64
	ImportedRows int
}

// TrackedFiles returns the import fingerprints keyed by path.
func (s *Store) TrackedFiles(ctx context.Context) (map[string]FileState, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT path, mtime_ns, size_bytes, imported_rows FROM import_files")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]FileState)
	for rows.Next() {
		var fs FileState
		if err := rows.Scan(&fs.Path, &fs.MtimeNs, &fs.SizeBytes, &fs.ImportedRows); err != nil {
			return nil, err
		}
		out[fs.Path] = fs
	}
	return out, rows.Err()
}

// SaveFileState records a file's fingerprint after a successful import.
func (s *Store) SaveFileState(ctx context.Context, fs FileState) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO import_files
		(path, mtime_ns, size_bytes, imported_rows)
		VALUES (?, ?, ?, ?)`,
		fs.Path, fs.MtimeNs, fs.SizeBytes, fs.ImportedRows,
	)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
