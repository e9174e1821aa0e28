package cmd

import (
	"fmt"

	"github.com/theirongolddev/envel/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Timezone: %s\n", cfg.General.Timezone)
	fmt.Printf("    Currency: %s\n", cfg.General.CurrencySymbol)
	if cfg.General.UserID != "" {
		fmt.Printf("    User:     %s\n", cfg.General.UserID)
	}
	fmt.Println()

	fmt.Println("  [Budget]")
	fmt.Printf("    Savings reserve:  %.2f\n", cfg.Budget.SavingGoal)
	if cfg.Budget.EndDatePrimary != "" {
		fmt.Printf("    Period end:       %s\n", cfg.Budget.EndDatePrimary)
	} else {
		fmt.Println("    Period end:       not set")
	}
	if cfg.Budget.EndDateSecondary != "" {
		fmt.Printf("    Second period:    %s\n", cfg.Budget.EndDateSecondary)
	}
	fmt.Println()

	fmt.Println("  [Envelope]")
	fmt.Printf("    Enabled:       %v\n", cfg.Envelope.Enabled)
	fmt.Printf("    Rounding unit: %.0f\n", cfg.Envelope.RoundingUnit)
	fmt.Printf("    Use secondary: %v\n", cfg.Envelope.UseSecondary)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `envel setup` to reconfigure.")
	return nil
}
