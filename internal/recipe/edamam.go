package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/theirongolddev/tend/internal/model"
)

const edamamBaseURL = "https://api.edamam.com"

// Edamam searches the Edamam recipe API.
type Edamam struct {
	appID   string
	appKey  string
	baseURL string
	http    *http.Client
}

// NewEdamam creates a client. Returns nil if either credential is empty.
// An empty baseURL uses the public endpoint.
func NewEdamam(appID, appKey, baseURL string) *Edamam {
	appID, appKey = strings.TrimSpace(appID), strings.TrimSpace(appKey)
	if appID == "" || appKey == "" {
		return nil
	}
	if baseURL == "" {
		baseURL = edamamBaseURL
	}
	return &Edamam{
		appID:   appID,
		appKey:  appKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// Name implements Provider.
func (c *Edamam) Name() string { return "edamam" }

// Search implements Provider.
func (c *Edamam) Search(ctx context.Context, q Query) ([]model.Meal, error) {
	params := url.Values{}
	params.Set("type", "public")
	params.Set("q", q.Text)
	params.Set("app_id", c.appID)
	params.Set("app_key", c.appKey)
	if q.Diet != "" {
		params.Set("diet", q.Diet)
	}
	for _, h := range q.Health {
		params.Add("health", h)
	}

	body, err := get(ctx, c.http, c.baseURL+"/api/recipes/v2?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp edamamResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("recipe: parsing edamam response: %w", err)
	}

	meals := make([]model.Meal, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		if hit.Recipe.Label == "" {
			continue
		}
		meals = append(meals, edamamMeal(hit.Recipe))
	}
	return meals, nil
}

// edamamMeal converts a whole-recipe result into a per-serving meal.
func edamamMeal(r edamamRecipe) model.Meal {
	servings := r.Yield
	if servings < 1 {
		servings = 1
	}

	m := model.Meal{
		Name:        strings.TrimSpace(r.Label),
		Source:      "Edamam",
		URL:         r.URL,
		PrepMinutes: int(r.TotalTime),
		Nutrition: model.Nutrition{
			Calories: round1(r.Calories / servings),
			Protein:  round1(r.TotalNutrients["PROCNT"].Quantity / servings),
			Carbs:    round1(r.TotalNutrients["CHOCDF"].Quantity / servings),
			Fat:      round1(r.TotalNutrients["FAT"].Quantity / servings),
		},
	}
	if r.Source != "" {
		m.Summary = "From " + r.Source + "."
	}

	for _, ing := range r.Ingredients {
		qty, unit := ing.Quantity, normalizeUnit(ing.Measure)
		if qty <= 0 && ing.Weight > 0 {
			qty, unit = ing.Weight, "g"
		}
		if strings.TrimSpace(ing.Food) == "" || qty <= 0 {
			continue
		}
		m.Ingredients = append(m.Ingredients, model.Ingredient{
			Name:      strings.TrimSpace(ing.Food),
			Quantity:  round1(qty / servings),
			Unit:      unit,
			PerPerson: true,
		})
	}

	m.Tags = tagSet(r.DietLabels, r.HealthLabels, splitMealTypes(r.MealType))
	return m
}

// splitMealTypes turns "lunch/dinner" into separate slot tags.
func splitMealTypes(types []string) []string {
	var out []string
	for _, t := range types {
		out = append(out, strings.Split(t, "/")...)
	}
	return out
}

// normalizeUnit maps provider measure names onto the short units the
// built-in catalog uses.
func normalizeUnit(measure string) string {
	switch strings.ToLower(strings.TrimSpace(measure)) {
	case "gram", "grams", "g":
		return "g"
	case "kilogram", "kilograms", "kg":
		return "kg"
	case "milliliter", "milliliters", "millilitre", "ml":
		return "ml"
	case "liter", "liters", "litre", "l":
		return "l"
	case "tablespoon", "tablespoons", "tbsp", "tbs":
		return "tbsp"
	case "teaspoon", "teaspoons", "tsp":
		return "tsp"
	case "cup", "cups":
		return "cup"
	case "ounce", "ounces", "oz":
		return "oz"
	case "pound", "pounds", "lb", "lbs":
		return "lb"
	case "", "<unit>", "serving", "servings", "piece", "pieces", "whole", "large", "medium", "small":
		return "pc"
	}
	return strings.ToLower(strings.TrimSpace(measure))
}

// tagSet merges label lists into lower-case, de-duplicated tags.
func tagSet(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, t := range list {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
