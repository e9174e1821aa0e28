// Package cmd implements the envel CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/theirongolddev/envel/internal/advisor"
	"github.com/theirongolddev/envel/internal/cli"
	"github.com/theirongolddev/envel/internal/config"
	"github.com/theirongolddev/envel/internal/dates"
	"github.com/theirongolddev/envel/internal/ledger"
	"github.com/theirongolddev/envel/internal/model"
	"github.com/theirongolddev/envel/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDBPath string
	flagToday  string
	flagUser   string
)

var rootCmd = &cobra.Command{
	Use:   "envel",
	Short: "Household budget CLI",
	Long:  "Track incomes and expenses, daily spending envelopes, and savings goals.",
	RunE:  runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Budget database path (default: XDG data dir)")
	rootCmd.PersistentFlags().StringVar(&flagToday, "today", "", "Override today's date (YYYY-MM-DD), for what-if runs")
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "Filter to one user's transactions")
}

// appContext bundles what every command needs: config, the open store, the
// reference clock, and a ledger over the current snapshot.
type appContext struct {
	cfg   config.Config
	st    *store.Store
	clock dates.Clock
	led   *ledger.Ledger
}

// openApp loads config, opens the store, and builds a ledger over a fresh
// snapshot. Callers must Close it.
func openApp(ctx context.Context) (*appContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.General.CurrencySymbol != "" {
		cli.Symbol = cfg.General.CurrencySymbol
	}

	dbPath := flagDBPath
	if dbPath == "" {
		dbPath = config.DBPath()
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	clock := dates.NewClock(cfg.General.Timezone)
	if flagToday != "" {
		if !dates.Valid(flagToday) {
			_ = st.Close()
			return nil, fmt.Errorf("invalid --today date %q", flagToday)
		}
		clock = dates.FixedClock(flagToday)
	}

	app := &appContext{cfg: cfg, st: st, clock: clock}
	if err := app.reload(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return app, nil
}

func (a *appContext) Close() {
	_ = a.st.Close()
}

// reload re-reads the transaction snapshot and rebuilds the ledger. Any
// command that mutates the store calls this before computing.
func (a *appContext) reload(ctx context.Context) error {
	incomes, err := a.st.Incomes(ctx)
	if err != nil {
		return fmt.Errorf("loading incomes: %w", err)
	}
	expenses, err := a.st.Expenses(ctx)
	if err != nil {
		return fmt.Errorf("loading expenses: %w", err)
	}

	snap := ledger.Snapshot{
		Incomes:  incomes,
		Expenses: expenses,
		EndDates: model.EndDates{
			Primary:   a.cfg.Budget.EndDatePrimary,
			Secondary: a.cfg.Budget.EndDateSecondary,
		},
		SavingGoal: a.cfg.Budget.SavingGoal,
	}

	if a.led != nil {
		a.led.Invalidate()
	}
	a.led = ledger.New(snap, a.clock, ledger.DefaultConfig())
	return nil
}

// advisorConfig maps the config file's overrides onto the advisor defaults.
func (a *appContext) advisorConfig() advisor.Config {
	cfg := advisor.DefaultConfig()
	ac := a.cfg.Advisor
	if ac.SurplusShare > 0 {
		cfg.SurplusShare = ac.SurplusShare
	}
	if ac.FundsShare > 0 {
		cfg.FundsShare = ac.FundsShare
	}
	if ac.SafetyFactor > 0 {
		cfg.SafetyFactor = ac.SafetyFactor
	}
	if ac.MinDaysLeft > 0 {
		cfg.MinDaysLeft = ac.MinDaysLeft
	}
	if ac.MinSampleSize > 0 {
		cfg.MinSampleSize = ac.MinSampleSize
	}
	if ac.MinSuggestion > 0 {
		cfg.MinSuggestion = ac.MinSuggestion
	}
	return cfg
}
