package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/envel/internal/cli"
	"github.com/theirongolddev/envel/internal/envelope"

	"github.com/spf13/cobra"
)

var envelopeCmd = &cobra.Command{
	Use:   "envelope",
	Short: "Show today's spending envelope",
	Long: "Derives (or refreshes) today's frozen spending allowance. The base " +
		"amount is set once per day; only the same-day income extra changes intraday.",
	RunE: runEnvelope,
}

func init() {
	rootCmd.AddCommand(envelopeCmd)
}

func runEnvelope(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	eng := envelope.New(app.st, envelope.Config{
		Enabled:      app.cfg.Envelope.Enabled,
		RoundingUnit: app.cfg.Envelope.RoundingUnit,
		UseSecondary: app.cfg.Envelope.UseSecondary,
	})
	rec, err := eng.Update(ctx, app.led)
	if err != nil {
		return fmt.Errorf("updating envelope: %w", err)
	}
	if rec == nil {
		fmt.Println("\n  The daily envelope is disabled. Enable it in the config.")
		return nil
	}

	spentToday := app.led.SpendingPeriods().SpentToday
	allowance := rec.BaseAmount + rec.TodayExtraFromInflows

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("ENVELOPE  %s", rec.Date)))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Base allowance", cli.FormatMoney(rec.BaseAmount)},
			{"Extra from today's income", cli.FormatMoney(rec.TodayExtraFromInflows)},
			{"Spent today", cli.FormatMoney(spentToday)},
			{"Set at", rec.SetAt.Format("15:04")},
		},
	}))

	if allowance > 0 {
		fmt.Printf("  %s\n", cli.RenderBar(spentToday/allowance, 30))
	}
	fmt.Println()

	return nil
}
