package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/envel/internal/cli"
	"github.com/theirongolddev/envel/internal/ingest"
)

var flagImportDryRun bool

var importCmd = &cobra.Command{
	Use:   "import <file-or-dir>",
	Short: "Import bank CSV exports",
	Long: `Import transactions from bank CSV exports. A directory is walked
recursively; files unchanged since the last import are skipped. Sign
decides direction: negative amounts become expenses, positive incomes.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagImportDryRun, "dry-run", false, "Parse and report without writing")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	im := ingest.New(app.st, flagUser, flagImportDryRun)
	res, err := im.Run(cmd.Context(), args[0], nil)
	if err != nil {
		return err
	}

	if res.TotalFiles == 0 {
		fmt.Println(cli.Muted("no CSV files found"))
		return nil
	}

	label := "imported"
	if flagImportDryRun {
		label = "would import"
	}
	fmt.Printf("%s %d file(s): %d income(s), %d expense(s)\n",
		label, res.Imported, res.NewIncomes, res.NewExpenses)
	if res.Skipped > 0 {
		fmt.Println(cli.Muted(fmt.Sprintf("%d unchanged file(s) skipped", res.Skipped)))
	}
	if res.FileErrors > 0 || res.RowErrors > 0 {
		fmt.Println(cli.Warn(fmt.Sprintf("%d file error(s), %d row(s) rejected", res.FileErrors, res.RowErrors)))
	}
	return nil
}
