package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/envel/internal/config"
	"github.com/theirongolddev/envel/internal/dates"
	"github.com/theirongolddev/envel/internal/model"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	cfg, _ := config.Load()

	fmt.Println()
	fmt.Println("  Welcome to envel!")
	fmt.Println()

	// 1. Budget period
	fmt.Println("  1. When does your current budget period end?")
	fmt.Println("     This is usually your next payday (YYYY-MM-DD).")
	if cfg.Budget.EndDatePrimary != "" {
		fmt.Printf("     Current: %s\n", cfg.Budget.EndDatePrimary)
	}
	fmt.Print("     > ")
	primary, _ := reader.ReadString('\n')
	primary = strings.TrimSpace(primary)
	if primary != "" {
		if !dates.Valid(primary) {
			return fmt.Errorf("invalid date %q", primary)
		}
		cfg.Budget.EndDatePrimary = primary
	}
	fmt.Println()

	fmt.Println("  2. Optional second period end date (Enter to skip)")
	fmt.Print("     > ")
	secondary, _ := reader.ReadString('\n')
	secondary = strings.TrimSpace(secondary)
	if secondary != "" {
		if !dates.Valid(secondary) {
			return fmt.Errorf("invalid date %q", secondary)
		}
		cfg.Budget.EndDateSecondary = secondary
	}
	fmt.Println()

	// 3. Savings reserve
	fmt.Println("  3. Savings reserve")
	fmt.Println("     Amount kept untouchable before any spending limit is computed.")
	if cfg.Budget.SavingGoal > 0 {
		fmt.Printf("     Current: %.2f\n", cfg.Budget.SavingGoal)
	}
	fmt.Print("     > ")
	goalStr, _ := reader.ReadString('\n')
	goalStr = strings.TrimSpace(goalStr)
	if goalStr != "" {
		goal, err := model.ParseAmount(goalStr)
		if err != nil {
			return err
		}
		cfg.Budget.SavingGoal = goal
	}
	fmt.Println()

	// 4. Envelope rounding
	fmt.Println("  4. Daily envelope rounding")
	fmt.Println("     (1) 1 (exact)")
	fmt.Println("     (2) 5")
	fmt.Println("     (3) 10 [default]")
	fmt.Print("     > ")
	choice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(choice) {
	case "1":
		cfg.Envelope.RoundingUnit = 1
	case "2":
		cfg.Envelope.RoundingUnit = 5
	default:
		cfg.Envelope.RoundingUnit = 10
	}
	cfg.Envelope.Enabled = true
	fmt.Println()

	// 5. Timezone
	fmt.Printf("  5. Timezone [%s] (Enter to keep)\n", cfg.General.Timezone)
	fmt.Print("     > ")
	tz, _ := reader.ReadString('\n')
	tz = strings.TrimSpace(tz)
	if tz != "" {
		cfg.General.Timezone = tz
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `envel setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
