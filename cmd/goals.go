package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/envel/internal/advisor"
	"github.com/theirongolddev/envel/internal/cli"
	"github.com/theirongolddev/envel/internal/dates"
	"github.com/theirongolddev/envel/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagGoalTarget    string
	flagGoalDate      string
	flagGoalPriority  int
	flagGoalDesc      string
	flagGoalIcon      string
	flagSuggestMark   bool
	flagContribAmount string
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Manage savings goals and suggestions",
	RunE:  runGoalsList,
}

var goalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List savings goals",
	RunE:  runGoalsList,
}

var goalsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a savings goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsAdd,
}

var goalsSuggestCmd = &cobra.Command{
	Use:   "suggest [goal-id]",
	Short: "Ask the advisor what is safe to save",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGoalsSuggest,
}

var goalsAcceptCmd = &cobra.Command{
	Use:   "accept <goal-id>",
	Short: "Accept the pending suggestion (or contribute --amount)",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsAccept,
}

var goalsRejectCmd = &cobra.Command{
	Use:   "reject <goal-id>",
	Short: "Reject the pending suggestion",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsReject,
}

var goalsDeleteCmd = &cobra.Command{
	Use:   "delete <goal-id>",
	Short: "Delete a savings goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsDelete,
}

func init() {
	goalsAddCmd.Flags().StringVar(&flagGoalTarget, "target", "", "Target amount (required)")
	goalsAddCmd.Flags().StringVar(&flagGoalDate, "by", "", "Optional deadline (YYYY-MM-DD)")
	goalsAddCmd.Flags().IntVar(&flagGoalPriority, "priority", model.PriorityMedium, "Priority: 1 high, 2 medium, 3 low")
	goalsAddCmd.Flags().StringVar(&flagGoalDesc, "desc", "", "Description")
	goalsAddCmd.Flags().StringVar(&flagGoalIcon, "icon", "", "Icon name")
	_ = goalsAddCmd.MarkFlagRequired("target")

	goalsSuggestCmd.Flags().BoolVar(&flagSuggestMark, "mark", false, "Record the suggestion as pending for today")
	goalsAcceptCmd.Flags().StringVar(&flagContribAmount, "amount", "", "Contribution amount (default: pending suggestion)")

	goalsCmd.AddCommand(goalsListCmd, goalsAddCmd, goalsSuggestCmd, goalsAcceptCmd, goalsRejectCmd, goalsDeleteCmd)
	rootCmd.AddCommand(goalsCmd)
}

func runGoalsList(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	goals, err := app.st.Goals(ctx)
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		fmt.Println("\n  No savings goals yet. Create one with `envel goals add`.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SAVINGS GOALS"))
	fmt.Println()

	rows := make([][]string, 0, len(goals))
	for _, g := range goals {
		progress := 0.0
		if g.TargetAmount > 0 {
			progress = g.CurrentAmount / g.TargetAmount
		}
		rows = append(rows, []string{
			g.Name,
			string(g.Status),
			cli.FormatMoney(g.CurrentAmount),
			cli.FormatMoney(g.TargetAmount),
			cli.FormatPercent(progress),
			g.TargetDate,
			g.ID,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Goal", "Status", "Saved", "Target", "Progress", "By", "ID"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

func runGoalsAdd(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	target, err := model.ParseAmount(flagGoalTarget)
	if err != nil {
		return err
	}
	if target <= 0 {
		return fmt.Errorf("target must be greater than zero")
	}
	if flagGoalDate != "" && !dates.Valid(flagGoalDate) {
		return fmt.Errorf("invalid deadline %q (want YYYY-MM-DD)", flagGoalDate)
	}
	if flagGoalPriority < model.PriorityHigh || flagGoalPriority > model.PriorityLow {
		return fmt.Errorf("priority must be 1, 2, or 3")
	}

	g := model.SavingsGoal{
		ID:           model.NewID(),
		Name:         args[0],
		Description:  flagGoalDesc,
		Icon:         flagGoalIcon,
		TargetAmount: target,
		TargetDate:   flagGoalDate,
		Priority:     flagGoalPriority,
		Status:       model.GoalActive,
	}
	if err := app.st.SaveGoal(ctx, g); err != nil {
		return fmt.Errorf("saving goal: %w", err)
	}
	fmt.Printf("  Created goal %q targeting %s (%s)\n", g.Name, cli.FormatMoney(target), g.ID)
	return nil
}

func runGoalsSuggest(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	var goals []model.SavingsGoal
	if len(args) == 1 {
		g, err := app.st.Goal(ctx, args[0])
		if err != nil {
			return err
		}
		goals = []model.SavingsGoal{g}
	} else {
		goals, err = app.st.Goals(ctx)
		if err != nil {
			return err
		}
	}

	adv := advisor.New(app.advisorConfig())
	today := app.clock.Today()

	for _, g := range goals {
		sug := adv.Evaluate(app.led, g)
		fmt.Println()
		if !sug.CanSuggest {
			fmt.Printf("  %s: no suggestion (%s)\n", g.Name, sug.Reason)
			for _, d := range sug.Details {
				fmt.Printf("    %s\n", cli.Muted(d))
			}
			continue
		}

		fmt.Printf("  %s: you could safely save %s today\n", g.Name, cli.FormatMoney(sug.Amount))
		for _, d := range sug.Details {
			fmt.Printf("    %s\n", cli.Muted(d))
		}
		if flagSuggestMark {
			if err := app.st.MarkSuggestionPending(ctx, g.ID, today, sug.Amount); err != nil {
				return err
			}
			fmt.Printf("    recorded as pending; accept with `envel goals accept %s`\n", g.ID)
		}
	}
	fmt.Println()
	return nil
}

func runGoalsAccept(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	g, err := app.st.Goal(ctx, args[0])
	if err != nil {
		return err
	}

	amount := g.LastSuggestionAmount
	if flagContribAmount != "" {
		amount, err = model.ParseAmount(flagContribAmount)
		if err != nil {
			return err
		}
	}
	if amount <= 0 {
		return fmt.Errorf("nothing to contribute: no pending suggestion and no --amount given")
	}

	if err := app.st.AddContribution(ctx, g.ID, amount); err != nil {
		return err
	}

	updated, err := app.st.Goal(ctx, g.ID)
	if err != nil {
		return err
	}
	fmt.Printf("  Added %s to %q (%s of %s saved)\n",
		cli.FormatMoney(amount), updated.Name,
		cli.FormatMoney(updated.CurrentAmount), cli.FormatMoney(updated.TargetAmount))
	if updated.Status == model.GoalCompleted {
		fmt.Println("  Goal completed!")
	}
	return nil
}

func runGoalsReject(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.st.RejectSuggestion(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("  Suggestion rejected.")
	return nil
}

func runGoalsDelete(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.st.DeleteGoal(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("  Goal deleted.")
	return nil
}
