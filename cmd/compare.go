package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/envel/internal/analytics"
	"github.com/theirongolddev/envel/internal/cli"

	"github.com/spf13/cobra"
)

var flagCompareMonthly bool

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare spending across trailing weeks or months",
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().BoolVarP(&flagCompareMonthly, "monthly", "m", false, "Monthly buckets instead of weekly")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	period := analytics.Weekly
	title := "WEEKLY COMPARISON"
	if flagCompareMonthly {
		period = analytics.Monthly
		title = "MONTHLY COMPARISON"
	}

	buckets := analytics.Comparisons(app.led.Snapshot(), app.clock, period, flagUser)

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	rows := make([][]string, 0, len(buckets))
	spends := make([]float64, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, []string{
			b.Label,
			cli.FormatMoney(b.IncomeSum),
			cli.FormatMoney(b.ExpenseSum),
			fmt.Sprintf("%d", b.TransactionCount),
			cli.FormatMoney(b.AvgDailySpend),
		})
		spends = append(spends, b.ExpenseSum)
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Period", "Income", "Expenses", "Txns", "Avg/day"},
		Rows:    rows,
	}))

	if len(buckets) >= 2 {
		last := buckets[len(buckets)-1]
		prev := buckets[len(buckets)-2]
		fmt.Printf("  %s  vs previous: %s\n",
			cli.RenderSparkline(spends),
			cli.FormatDelta(last.ExpenseSum, prev.ExpenseSum))
	}
	fmt.Println()

	return nil
}
