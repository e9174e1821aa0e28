package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/envel/internal/cli"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show what is left of each income after FIFO spending",
	Long: "Attributes spending to incomes oldest-first, so each income shows " +
		"how much of it is still unspent.",
	RunE: runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	balances := app.led.SourcesRemaining()
	if len(balances) == 0 {
		fmt.Println("\n  No realised incomes yet.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("INCOME SOURCES"))
	fmt.Println()

	rows := make([][]string, 0, len(balances))
	var totalLeft float64
	for _, b := range balances {
		label := b.Income.Source
		if label == "" {
			label = "(unlabeled)"
		}
		rows = append(rows, []string{
			label,
			b.Income.Date,
			cli.FormatMoney(b.Income.Amount),
			cli.FormatMoney(b.Left),
		})
		totalLeft += b.Left
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Source", "Date", "Amount", "Left"},
		Rows:    rows,
	}))
	fmt.Printf("  Total unspent: %s\n\n", cli.FormatMoney(totalLeft))

	return nil
}
