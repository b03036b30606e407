package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tend/internal/cli"
	"github.com/theirongolddev/tend/internal/meal"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/recipe"
)

var (
	flagMealTags     []string
	flagMealQuery    string
	flagMealMaxCal   float64
	flagMealSlot     string
	flagMealServings int
	flagMealDays     int
	flagMealDiet     string
	flagMealHealth   []string
	flagMealLimit    int
	flagMealSave     int
	flagMealTimeout  time.Duration
)

var mealCmd = &cobra.Command{
	Use:     "meal",
	Aliases: []string{"meals"},
	Short:   "This week's meal plan",
	RunE:    runMealPlan,
}

var mealCatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the meal catalog",
	RunE:  runMealCatalog,
}

var mealSetCmd = &cobra.Command{
	Use:   "set <YYYY-MM-DD> <slot> <meal>",
	Short: "Plan a meal for a day and slot",
	Args:  cobra.ExactArgs(3),
	RunE:  runMealSet,
}

var mealClearCmd = &cobra.Command{
	Use:   "clear <YYYY-MM-DD> <slot>",
	Short: "Clear a planned slot",
	Args:  cobra.ExactArgs(2),
	RunE:  runMealClear,
}

var mealShopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Shopping list for the planned meals",
	RunE:  runMealShop,
}

var mealNutritionCmd = &cobra.Command{
	Use:   "nutrition",
	Short: "Daily nutrition totals for the planned meals",
	RunE:  runMealNutrition,
}

var mealSuggestCmd = &cobra.Command{
	Use:   "suggest [query]",
	Short: "Suggest recipes from the catalog and configured recipe services",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMealSuggest,
}

func init() {
	mealCatalogCmd.Flags().StringSliceVar(&flagMealTags, "tag", nil, "Require tag (repeatable)")
	mealCatalogCmd.Flags().StringVar(&flagMealQuery, "query", "", "Match name or ingredient")
	mealCatalogCmd.Flags().Float64Var(&flagMealMaxCal, "max-calories", 0, "Maximum calories per serving")
	mealCatalogCmd.Flags().StringVar(&flagMealSlot, "slot", "", "Only meals suited to this slot")

	mealSetCmd.Flags().IntVarP(&flagMealServings, "servings", "s", 1, "Servings")

	for _, c := range []*cobra.Command{mealShopCmd, mealNutritionCmd} {
		c.Flags().IntVarP(&flagMealDays, "days", "n", 7, "Days from the reference day")
	}

	mealSuggestCmd.Flags().StringVar(&flagMealDiet, "diet", "", "Diet label, e.g. balanced or vegetarian")
	mealSuggestCmd.Flags().StringSliceVar(&flagMealHealth, "health", nil, "Health label, e.g. gluten-free (repeatable)")
	mealSuggestCmd.Flags().IntVar(&flagMealLimit, "limit", 0, "Maximum suggestions (default from config)")
	mealSuggestCmd.Flags().IntVar(&flagMealSave, "save", 0, "Save suggestion N to your meals so it can be planned")
	mealSuggestCmd.Flags().DurationVar(&flagMealTimeout, "timeout", 15*time.Second, "Recipe service timeout")

	mealCmd.AddCommand(mealCatalogCmd, mealSetCmd, mealClearCmd, mealShopCmd, mealNutritionCmd, mealSuggestCmd)
	rootCmd.AddCommand(mealCmd)
}

func runMealPlan(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	day, err := referenceDay()
	if err != nil {
		return err
	}
	days := meal.WeekDays(day, s.cfg.WeekStartDay())
	plan := s.st.MealPlan()

	headers := []string{"Day"}
	for _, slot := range model.Slots {
		headers = append(headers, strings.ToUpper(string(slot[:1]))+string(slot[1:]))
	}
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		planned := meal.ForDay(plan, model.DayKey(d))
		row := []string{cli.FormatDay(d)}
		for _, slot := range model.Slots {
			cell := "-"
			if e, ok := planned[slot]; ok {
				cell = e.MealName
				if e.Servings > 1 {
					cell += fmt.Sprintf(" x%d", e.Servings)
				}
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("MEAL PLAN  week of %s", cli.FormatDay(days[0]))))
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:   headers,
		Rows:      rows,
		LeftAlign: true,
	}))
	return nil
}

func runMealCatalog(_ *cobra.Command, _ []string) error {
	f := meal.Filter{Tags: flagMealTags, Query: flagMealQuery, MaxCalories: flagMealMaxCal}
	if flagMealSlot != "" {
		slot, err := meal.ParseSlot(flagMealSlot)
		if err != nil {
			return err
		}
		f.Slot = slot
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	cat := s.st.Catalog()
	meals := cat.Find(f)
	if len(meals) == 0 {
		fmt.Println("\n  No meals match.")
		fmt.Printf("  Known tags: %s\n", strings.Join(cat.Tags(), ", "))
		return nil
	}

	rows := make([][]string, 0, len(meals))
	for _, m := range meals {
		prep := ""
		if m.PrepMinutes > 0 {
			prep = fmt.Sprintf("%dm", m.PrepMinutes)
		}
		rows = append(rows, []string{
			m.Name,
			fmt.Sprintf("%.0f", m.Nutrition.Calories),
			fmt.Sprintf("%.0f", m.Nutrition.Protein),
			prep,
			strings.Join(m.Tags, ", "),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Catalog (%d of %d)", len(meals), cat.Len()),
		Headers: []string{"Meal", "kcal", "Protein", "Prep", "Tags"},
		Rows:    rows,
	}))
	return nil
}

func runMealSet(_ *cobra.Command, args []string) error {
	slot, err := meal.ParseSlot(args[1])
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	e, err := s.st.SetMeal(model.MealPlanEntry{Day: args[0], Slot: slot, MealName: args[2], Servings: flagMealServings})
	if err != nil {
		return err
	}
	fmt.Printf("  %s %s: %s (%d servings)\n", e.Day, e.Slot, e.MealName, e.Servings)
	return nil
}

func runMealClear(_ *cobra.Command, args []string) error {
	if _, err := model.ParseDay(args[0]); err != nil {
		return model.Invalid("day", "%v", err)
	}
	slot, err := meal.ParseSlot(args[1])
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.st.ClearMeal(args[0], slot); err != nil {
		return err
	}
	fmt.Printf("  %s %s cleared.\n", args[0], slot)
	return nil
}

// planWindow returns the plan entries from the reference day for --days days.
func planWindow(s *session) ([]model.MealPlanEntry, time.Time, time.Time, error) {
	from, err := referenceDay()
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}
	if flagMealDays < 1 {
		return nil, time.Time{}, time.Time{}, model.Invalid("days", "must be at least 1")
	}
	to := from.AddDate(0, 0, flagMealDays)
	return meal.InWindow(s.st.MealPlan(), from, to), from, to, nil
}

func runMealShop(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	entries, from, to, err := planWindow(s)
	if err != nil {
		return err
	}
	items := meal.ShoppingList(entries, s.st.Catalog())
	if len(items) == 0 {
		fmt.Println("\n  Nothing planned in this window.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SHOPPING  %s - %s", cli.FormatDay(from), cli.FormatDay(to.AddDate(0, 0, -1)))))
	fmt.Println()
	for _, line := range meal.Lines(items) {
		fmt.Printf("  [ ] %s\n", line)
	}
	fmt.Println()
	return nil
}

func runMealNutrition(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	entries, _, _, err := planWindow(s)
	if err != nil {
		return err
	}
	days := meal.PlanNutrition(entries, s.st.Catalog())
	if len(days) == 0 {
		fmt.Println("\n  Nothing planned in this window.")
		return nil
	}

	var total model.Nutrition
	rows := make([][]string, 0, len(days)+2)
	for _, d := range days {
		total = total.Add(d.Total)
		rows = append(rows, []string{
			d.Day,
			fmt.Sprintf("%d", d.Meals),
			fmt.Sprintf("%.0f", d.Total.Calories),
			fmt.Sprintf("%.0f", d.Total.Protein),
			fmt.Sprintf("%.0f", d.Total.Carbs),
			fmt.Sprintf("%.0f", d.Total.Fat),
		})
	}
	avg := total.Scale(1 / float64(len(days)))
	rows = append(rows, []string{cli.Separator}, []string{
		"Daily avg", "",
		fmt.Sprintf("%.0f", avg.Calories),
		fmt.Sprintf("%.0f", avg.Protein),
		fmt.Sprintf("%.0f", avg.Carbs),
		fmt.Sprintf("%.0f", avg.Fat),
	})

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Planned Nutrition",
		Headers: []string{"Day", "Meals", "kcal", "Protein g", "Carbs g", "Fat g"},
		Rows:    rows,
	}))
	return nil
}

func runMealSuggest(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	q := recipe.Query{Diet: flagMealDiet, Health: flagMealHealth, Limit: flagMealLimit}
	if len(args) > 0 {
		q.Text = args[0]
	}
	if q.Limit <= 0 {
		q.Limit = s.cfg.Recipes.MaxSuggestions
	}

	var suggestions []model.Meal
	providers := recipe.FromConfig(s.cfg)
	if len(providers) > 0 && q.Text != "" {
		ctx, cancel := context.WithTimeout(context.Background(), flagMealTimeout)
		defer cancel()
		info("Searching %d recipe services...", len(providers))
		suggestions = recipe.Suggest(ctx, providers, q)
	}
	if len(suggestions) == 0 {
		if len(providers) == 0 {
			info("No recipe service configured; suggesting from the catalog. Run tend setup to add one.")
		}
		f := meal.Filter{Query: q.Text}
		if q.Diet != "" {
			f.Tags = append(f.Tags, q.Diet)
		}
		f.Tags = append(f.Tags, q.Health...)
		suggestions = s.st.Catalog().Find(f)
		if q.Limit > 0 && len(suggestions) > q.Limit {
			suggestions = suggestions[:q.Limit]
		}
	}
	if len(suggestions) == 0 {
		fmt.Println("\n  No suggestions found.")
		return nil
	}

	if flagMealSave > 0 {
		if flagMealSave > len(suggestions) {
			return model.Invalid("save", "pick a suggestion between 1 and %d", len(suggestions))
		}
		m, err := s.st.SaveCustomMeal(suggestions[flagMealSave-1])
		if err != nil {
			return err
		}
		fmt.Printf("  Saved %q. Plan it with: tend meal set <day> <slot> %q\n", m.Name, m.Name)
		return nil
	}

	rows := make([][]string, 0, len(suggestions))
	for i, m := range suggestions {
		src := m.Source
		if src == "" {
			src = "catalog"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			m.Name,
			fmt.Sprintf("%.0f", m.Nutrition.Calories),
			fmt.Sprintf("%.0f", m.Nutrition.Protein),
			src,
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Suggestions",
		Headers: []string{"#", "Meal", "kcal", "Protein", "Source"},
		Rows:    rows,
	}))
	fmt.Println(cli.RenderMuted("  Save one with --save N"))
	return nil
}
