package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tend/internal/config"
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
	ask := func() string {
		fmt.Print("     > ")
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	// Load existing config or defaults
	cfg, _ := config.Load()

	fmt.Println()
	fmt.Println("  Welcome to tend!")
	fmt.Println()

	// 1. Week start
	fmt.Println("  1. First day of the week")
	fmt.Println("     (1) Monday [default]")
	fmt.Println("     (2) Sunday")
	if ask() == "2" {
		cfg.General.WeekStart = "sunday"
	} else {
		cfg.General.WeekStart = "monday"
	}
	fmt.Println()

	// 2. Budget
	fmt.Println("  2. Budget period")
	fmt.Println("     (1) Monthly [default]")
	fmt.Println("     (2) Weekly")
	if ask() == "2" {
		cfg.Budget.Period = "weekly"
	} else {
		cfg.Budget.Period = "monthly"
	}
	fmt.Printf("     Currency symbol [%s]\n", cfg.Budget.Currency)
	if sym := ask(); sym != "" {
		cfg.Budget.Currency = sym
	}
	fmt.Println()

	// 3. Water goal
	fmt.Printf("  3. Daily water goal in ml [%d]\n", cfg.Water.DailyGoalML)
	if v := ask(); v != "" {
		ml, err := strconv.Atoi(v)
		if err != nil || ml < 250 || ml > 10000 {
			fmt.Println("     Keeping the current goal (want 250-10000).")
		} else {
			cfg.Water.DailyGoalML = ml
		}
	}
	fmt.Println()

	// 4. Recipe service
	fmt.Println("  4. Spoonacular API key (optional)")
	fmt.Println("     For online recipe suggestions. Leave blank to use the built-in catalog.")
	if existing := config.GetSpoonacularKey(cfg); existing != "" {
		fmt.Printf("     Current: %s\n", maskAPIKey(existing))
	}
	if key := ask(); key != "" {
		cfg.Recipes.SpoonacularKey = key
	}
	fmt.Println()

	// 5. Theme
	fmt.Println("  5. Color theme")
	fmt.Println("     (1) Flexoki Dark [default]")
	fmt.Println("     (2) Catppuccin Mocha")
	fmt.Println("     (3) Tokyo Night")
	fmt.Println("     (4) Terminal (ANSI 16)")
	switch ask() {
	case "2":
		cfg.Appearance.Theme = "catppuccin-mocha"
	case "3":
		cfg.Appearance.Theme = "tokyo-night"
	case "4":
		cfg.Appearance.Theme = "terminal"
	default:
		cfg.Appearance.Theme = "flexoki-dark"
	}

	// Save
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `tend setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
