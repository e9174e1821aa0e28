package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/envel/internal/advisor"
	"github.com/theirongolddev/envel/internal/analytics"
	"github.com/theirongolddev/envel/internal/config"
	"github.com/theirongolddev/envel/internal/dates"
	"github.com/theirongolddev/envel/internal/envelope"
	"github.com/theirongolddev/envel/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive dashboard",
	Long:  "Launch the full-screen budget dashboard.",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	load := func(ctx context.Context) (tui.Data, error) {
		if err := app.reload(ctx); err != nil {
			return tui.Data{}, err
		}
		return buildDashboard(ctx, app)
	}

	save := func(endDate string, savingGoal float64) error {
		if !dates.Valid(endDate) {
			return fmt.Errorf("invalid date %q", endDate)
		}
		app.cfg.Budget.EndDatePrimary = endDate
		app.cfg.Budget.SavingGoal = savingGoal
		if err := config.Save(app.cfg); err != nil {
			return err
		}
		return app.reload(context.Background())
	}

	needSetup := app.cfg.Budget.EndDatePrimary == ""
	program := tea.NewProgram(tui.NewApp(load, save, needSetup), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// buildDashboard computes one full Data snapshot for the TUI from the
// current ledger, including the envelope refresh and per-goal suggestions.
func buildDashboard(ctx context.Context, app *appContext) (tui.Data, error) {
	eng := envelope.New(app.st, envelope.Config{
		Enabled:      app.cfg.Envelope.Enabled,
		RoundingUnit: app.cfg.Envelope.RoundingUnit,
		UseSecondary: app.cfg.Envelope.UseSecondary,
	})
	env, err := eng.Update(ctx, app.led)
	if err != nil {
		return tui.Data{}, fmt.Errorf("updating envelope: %w", err)
	}

	goals, err := app.st.Goals(ctx)
	if err != nil {
		return tui.Data{}, fmt.Errorf("loading goals: %w", err)
	}

	adv := advisor.New(app.advisorConfig())
	suggestions := make(map[string]advisor.Suggestion, len(goals))
	for _, g := range goals {
		suggestions[g.ID] = adv.Evaluate(app.led, g)
	}

	return tui.Data{
		Today:       app.clock.Today(),
		Totals:      app.led.RealisedTotals(),
		Funds:       app.led.AvailableFunds(),
		Periods:     app.led.SpendingPeriods(),
		Limits:      app.led.DailyLimits(),
		Envelope:    env,
		SpendSeries: app.led.DailySpendSeries(30),
		Buckets:     analytics.Comparisons(app.led.Snapshot(), app.clock, analytics.Weekly, flagUser),
		Goals:       goals,
		Suggestions: suggestions,
		Anomalies:   app.led.Anomalies(),
	}, nil
}
