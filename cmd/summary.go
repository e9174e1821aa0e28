package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/envel/internal/cli"
	"github.com/theirongolddev/envel/internal/envelope"
	"github.com/theirongolddev/envel/internal/ledger"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Budget overview: funds, limits, envelope, and advisories",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	led := app.led
	totals := led.RealisedTotals()
	funds := led.AvailableFunds()
	periods := led.SpendingPeriods()

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BUDGET  %s", app.clock.Today())))
	fmt.Println()

	rows := [][]string{
		{"Income (realised)", cli.FormatMoney(totals.Income)},
		{"Expenses (realised)", cli.FormatMoney(totals.Expense)},
		{"Available funds", cli.FormatMoney(funds)},
		{"Savings reserve", cli.FormatMoney(led.Snapshot().SavingGoal)},
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Funds",
		Headers: []string{"Item", "Amount"},
		Rows:    rows,
	}))

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Spending",
		Headers: []string{"Window", "Spent"},
		Rows: [][]string{
			{"Today", cli.FormatMoney(periods.SpentToday)},
			{"This week", cli.FormatMoney(periods.SpentWeek)},
			{"This month", cli.FormatMoney(periods.SpentMonth)},
		},
	}))

	renderLimits("Limits", led.DailyLimits())
	renderLimits("Forecast (incl. planned)", led.ForecastLimits())

	// Today's envelope
	eng := envelope.New(app.st, envelope.Config{
		Enabled:      app.cfg.Envelope.Enabled,
		RoundingUnit: app.cfg.Envelope.RoundingUnit,
		UseSecondary: app.cfg.Envelope.UseSecondary,
	})
	rec, err := eng.Update(ctx, led)
	if err != nil {
		return fmt.Errorf("updating envelope: %w", err)
	}
	if rec != nil {
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Daily envelope",
			Headers: []string{"Field", "Value"},
			Rows: [][]string{
				{"Allowance", cli.FormatMoney(rec.BaseAmount)},
				{"Extra from today's income", cli.FormatMoney(rec.TodayExtraFromInflows)},
			},
		}))
	}

	for _, an := range led.Anomalies() {
		fmt.Printf("  %s\n", cli.Warn(an.Message))
	}
	fmt.Println()

	return nil
}

func renderLimits(title string, lim ledger.Limits) {
	rows := [][]string{}
	for _, pl := range []ledger.PeriodLimit{lim.Primary, lim.Secondary} {
		if pl.EndDate == "" {
			continue
		}
		rows = append(rows, []string{
			pl.EndDate,
			fmt.Sprintf("%d", pl.DaysLeft),
			cli.FormatMoney(pl.Spendable),
			cli.FormatMoney(pl.DailyLimit),
		})
	}
	if len(rows) == 0 {
		return
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   title,
		Headers: []string{"Period end", "Days", "Spendable", "Per day"},
		Rows:    rows,
	}))
}
