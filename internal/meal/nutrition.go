package meal

import (
	"sort"
	"strings"

	"github.com/theirongolddev/tend/internal/model"
)

// Per-unit nutrition for common ingredients. Gram and millilitre entries are
// per 100 units; everything else is per single unit.
var ingredientNutrition = map[string]struct {
	unit string
	n    model.Nutrition
}{
	"apple":           {"pc", model.Nutrition{Calories: 95, Protein: 0.5, Carbs: 25, Fat: 0.3}},
	"avocado":         {"pc", model.Nutrition{Calories: 240, Protein: 3, Carbs: 13, Fat: 22}},
	"banana":          {"pc", model.Nutrition{Calories: 105, Protein: 1.3, Carbs: 27, Fat: 0.4}},
	"black beans":     {"g", model.Nutrition{Calories: 132, Protein: 8.9, Carbs: 24, Fat: 0.5}},
	"broccoli":        {"g", model.Nutrition{Calories: 34, Protein: 2.8, Carbs: 7, Fat: 0.4}},
	"brown rice":      {"g", model.Nutrition{Calories: 370, Protein: 7.9, Carbs: 77, Fat: 2.9}},
	"chicken breast":  {"g", model.Nutrition{Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6}},
	"chickpeas":       {"g", model.Nutrition{Calories: 164, Protein: 8.9, Carbs: 27, Fat: 2.6}},
	"eggs":            {"pc", model.Nutrition{Calories: 72, Protein: 6.3, Carbs: 0.4, Fat: 4.8}},
	"feta":            {"g", model.Nutrition{Calories: 264, Protein: 14, Carbs: 4, Fat: 21}},
	"greek yogurt":    {"g", model.Nutrition{Calories: 97, Protein: 9, Carbs: 3.9, Fat: 5}},
	"ground beef":     {"g", model.Nutrition{Calories: 250, Protein: 26, Carbs: 0, Fat: 15}},
	"milk":            {"ml", model.Nutrition{Calories: 50, Protein: 3.4, Carbs: 4.8, Fat: 2}},
	"olive oil":       {"tbsp", model.Nutrition{Calories: 119, Protein: 0, Carbs: 0, Fat: 13.5}},
	"peanut butter":   {"tbsp", model.Nutrition{Calories: 94, Protein: 4, Carbs: 3, Fat: 8}},
	"quinoa":          {"g", model.Nutrition{Calories: 368, Protein: 14, Carbs: 64, Fat: 6}},
	"red lentils":     {"g", model.Nutrition{Calories: 358, Protein: 24, Carbs: 63, Fat: 2}},
	"rolled oats":     {"g", model.Nutrition{Calories: 389, Protein: 17, Carbs: 66, Fat: 7}},
	"salmon fillet":   {"g", model.Nutrition{Calories: 208, Protein: 20, Carbs: 0, Fat: 13}},
	"spaghetti":       {"g", model.Nutrition{Calories: 371, Protein: 13, Carbs: 75, Fat: 1.5}},
	"spinach":         {"g", model.Nutrition{Calories: 23, Protein: 2.9, Carbs: 3.6, Fat: 0.4}},
	"sweet potato":    {"pc", model.Nutrition{Calories: 112, Protein: 2, Carbs: 26, Fat: 0.1}},
	"tomato":          {"pc", model.Nutrition{Calories: 22, Protein: 1.1, Carbs: 4.8, Fat: 0.2}},
	"tortilla":        {"pc", model.Nutrition{Calories: 140, Protein: 4, Carbs: 24, Fat: 3.5}},
	"turkey slices":   {"g", model.Nutrition{Calories: 104, Protein: 17, Carbs: 4, Fat: 2}},
	"protein powder":  {"g", model.Nutrition{Calories: 400, Protein: 80, Carbs: 8, Fat: 6}},
	"mixed berries":   {"g", model.Nutrition{Calories: 50, Protein: 0.7, Carbs: 12, Fat: 0.3}},
	"sourdough bread": {"slice", model.Nutrition{Calories: 120, Protein: 4, Carbs: 23, Fat: 1}},
}

// IngredientNutrition estimates the nutrition of an ingredient line. ok is
// false when the ingredient or its unit is not in the table.
func IngredientNutrition(ing model.Ingredient) (model.Nutrition, bool) {
	entry, ok := ingredientNutrition[normalize(ing.Name)]
	if !ok || !strings.EqualFold(entry.unit, ing.Unit) {
		return model.Nutrition{}, false
	}
	factor := ing.Quantity
	if entry.unit == "g" || entry.unit == "ml" {
		factor /= 100
	}
	return entry.n.Scale(factor), true
}

// Estimate returns per-serving nutrition for a meal from its ingredients.
// Meals that already carry nutrition are returned unchanged. covered is the
// share of ingredients found in the table.
func Estimate(m model.Meal) (n model.Nutrition, covered float64) {
	if m.Nutrition.Calories > 0 {
		return m.Nutrition, 1
	}
	if len(m.Ingredients) == 0 {
		return model.Nutrition{}, 0
	}
	found := 0
	for _, ing := range m.Ingredients {
		v, ok := IngredientNutrition(ing)
		if !ok {
			continue
		}
		found++
		n = n.Add(v)
	}
	return n, float64(found) / float64(len(m.Ingredients))
}

// DayNutrition totals the planned meals of one day.
type DayNutrition struct {
	Day      string
	Total    model.Nutrition
	Meals    int
	Servings int
}

// PlanNutrition sums per-serving nutrition times servings for each planned
// day, in day order. Unknown meals are skipped.
func PlanNutrition(entries []model.MealPlanEntry, meals Lookup) []DayNutrition {
	byDay := make(map[string]*DayNutrition)
	for _, e := range entries {
		m, ok := meals.Lookup(e.MealName)
		if !ok {
			continue
		}
		n, _ := Estimate(m)
		servings := e.Servings
		if servings < 1 {
			servings = 1
		}
		dn, ok := byDay[e.Day]
		if !ok {
			dn = &DayNutrition{Day: e.Day}
			byDay[e.Day] = dn
		}
		dn.Total = dn.Total.Add(n.Scale(float64(servings)))
		dn.Meals++
		dn.Servings += servings
	}

	out := make([]DayNutrition, 0, len(byDay))
	for _, dn := range byDay {
		out = append(out, *dn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}
