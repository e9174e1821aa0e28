package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/envel/internal/cli"
	"github.com/theirongolddev/envel/internal/dates"
	"github.com/theirongolddev/envel/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagAddDate     string
	flagAddTime     string
	flagAddPlanned  bool
	flagAddQuantity string
	flagAddCategory string
	flagAddSource   string
	flagAddDesc     string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new transaction",
}

var addIncomeCmd = &cobra.Command{
	Use:   "income <amount>",
	Short: "Record an income",
	Args:  cobra.ExactArgs(1),
	RunE:  runAddIncome,
}

var addExpenseCmd = &cobra.Command{
	Use:   "expense <amount>",
	Short: "Record an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runAddExpense,
}

func init() {
	addCmd.PersistentFlags().StringVar(&flagAddDate, "date", "", "Transaction date (default: today)")
	addCmd.PersistentFlags().StringVar(&flagAddTime, "time", "", "Transaction time HH:MM")
	addCmd.PersistentFlags().BoolVar(&flagAddPlanned, "planned", false, "Mark as planned/scheduled")
	addExpenseCmd.Flags().StringVar(&flagAddQuantity, "qty", "", "Quantity multiplier (default 1)")
	addExpenseCmd.Flags().StringVar(&flagAddCategory, "category", "", "Expense category")
	addExpenseCmd.Flags().StringVar(&flagAddDesc, "desc", "", "Expense description")
	addIncomeCmd.Flags().StringVar(&flagAddSource, "source", "", "Income source label")
	addCmd.AddCommand(addIncomeCmd)
	addCmd.AddCommand(addExpenseCmd)
	rootCmd.AddCommand(addCmd)
}

func addDefaults(app *appContext) (date string, kind model.Kind, err error) {
	date = flagAddDate
	if date == "" {
		date = app.clock.Today()
	} else if !dates.Valid(date) {
		return "", "", fmt.Errorf("invalid date %q (want YYYY-MM-DD)", date)
	}
	kind = model.KindNormal
	if flagAddPlanned {
		kind = model.KindPlanned
	}
	return date, kind, nil
}

func runAddIncome(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	amount, err := model.ParseAmount(args[0])
	if err != nil {
		return err
	}
	date, kind, err := addDefaults(app)
	if err != nil {
		return err
	}

	in := model.Income{
		ID:     model.NewID(),
		Date:   date,
		Time:   flagAddTime,
		Amount: amount,
		Kind:   kind,
		UserID: app.cfg.General.UserID,
		Source: flagAddSource,
	}
	if err := app.st.AddIncome(ctx, in); err != nil {
		return fmt.Errorf("saving income: %w", err)
	}

	fmt.Printf("  Recorded income of %s on %s (%s)\n", cli.FormatMoney(amount), date, in.ID)
	return nil
}

func runAddExpense(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	amount, err := model.ParseAmount(args[0])
	if err != nil {
		return err
	}
	qty, err := model.ParseQuantity(flagAddQuantity)
	if err != nil {
		return err
	}
	date, kind, err := addDefaults(app)
	if err != nil {
		return err
	}

	ex := model.Expense{
		ID:          model.NewID(),
		Date:        date,
		Time:        flagAddTime,
		Amount:      amount,
		Quantity:    qty,
		Kind:        kind,
		UserID:      app.cfg.General.UserID,
		Category:    flagAddCategory,
		Description: flagAddDesc,
	}
	if err := app.st.AddExpense(ctx, ex); err != nil {
		return fmt.Errorf("saving expense: %w", err)
	}

	fmt.Printf("  Recorded expense of %s on %s (%s)\n", cli.FormatMoney(ex.Cost()), date, ex.ID)
	return nil
}
