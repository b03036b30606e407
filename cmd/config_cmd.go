package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tend/internal/config"
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

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Printf("  Database:    %s\n", dbPath(cfg))
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Week starts:  %s\n", cfg.WeekStartDay())
	fmt.Printf("    Default days: %d\n", cfg.General.DefaultDays)
	fmt.Println()

	fmt.Println("  [Budget]")
	fmt.Printf("    Period:   %s\n", cfg.Budget.Period)
	fmt.Printf("    Currency: %s\n", cfg.Budget.Currency)
	fmt.Println()

	fmt.Println("  [Cycle]")
	fmt.Printf("    Default length:  %d days\n", cfg.Cycle.Length)
	fmt.Printf("    Period duration: %d days\n", cfg.Cycle.PeriodDuration)
	fmt.Printf("    Predict:         %v\n", cfg.Cycle.Predict)
	fmt.Println()

	fmt.Println("  [Water]")
	fmt.Printf("    Daily goal: %d ml\n", cfg.Water.DailyGoalML)
	fmt.Printf("    Glass:      %d ml\n", cfg.Water.GlassML)
	fmt.Println()

	fmt.Println("  [Sleep]")
	fmt.Printf("    Target: %.1f h\n", cfg.Sleep.TargetHours)
	fmt.Println()

	fmt.Println("  [Recipes]")
	if id, key := config.GetEdamamCredentials(cfg); id != "" && key != "" {
		fmt.Printf("    Edamam:      %s / %s\n", id, maskAPIKey(key))
	} else {
		fmt.Println("    Edamam:      not configured")
	}
	if key := config.GetSpoonacularKey(cfg); key != "" {
		fmt.Printf("    Spoonacular: %s\n", maskAPIKey(key))
	} else {
		fmt.Println("    Spoonacular: not configured")
	}
	fmt.Printf("    Max suggestions: %d\n", cfg.Recipes.MaxSuggestions)
	fmt.Println()

	fmt.Println("  [Reminders]")
	fmt.Printf("    Address:  %s\n", cfg.Reminders.Addr)
	fmt.Printf("    Interval: %s\n", cfg.PollInterval())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `tend setup` to reconfigure.")
	return nil
}
