package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/envel/internal/analytics"
	"github.com/theirongolddev/envel/internal/cli"
	"github.com/theirongolddev/envel/internal/dates"

	"github.com/spf13/cobra"
)

var flagHistoryDays int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Per-day spending table with median and volatility",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryDays, "days", "n", 30, "Trailing window in days")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	led := app.led
	today := app.clock.Today()
	series := led.DailySpendSeries(flagHistoryDays)
	from := dates.AddDays(today, -(flagHistoryDays - 1))

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SPENDING  Last %dd", flagHistoryDays)))
	fmt.Println()

	rows := make([][]string, 0, len(series))
	// Most recent day first, matching how people scan the table.
	for i := len(series) - 1; i >= 0; i-- {
		day := dates.AddDays(from, i)
		rows = append(rows, []string{
			day,
			cli.FormatDayOfWeek(day),
			cli.FormatMoney(series[i]),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "Spent"},
		Rows:    rows,
	}))

	fmt.Printf("  %s\n", cli.RenderSparkline(series))
	fmt.Printf("  Median/day: %s   Volatility: %s\n",
		cli.FormatMoney(led.GlobalMedian30d()),
		cli.FormatMoney(analytics.SpendVolatility(led)),
	)

	if top := analytics.TopCategories(led.Snapshot(), 5); len(top) > 0 {
		fmt.Println()
		fmt.Println("  Top categories:")
		for _, c := range top {
			fmt.Printf("    %-16s %d txns\n", c.Category, c.Count)
		}
	}
	fmt.Println()
	return nil
}
