package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/theirongolddev/tend/internal/model"
)

const spoonacularBaseURL = "https://api.spoonacular.com"

// Spoonacular searches the Spoonacular recipe API.
type Spoonacular struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewSpoonacular creates a client. Returns nil if the key is empty.
// An empty baseURL uses the public endpoint.
func NewSpoonacular(apiKey, baseURL string) *Spoonacular {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	if baseURL == "" {
		baseURL = spoonacularBaseURL
	}
	return &Spoonacular{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// Name implements Provider.
func (c *Spoonacular) Name() string { return "spoonacular" }

// Search implements Provider.
func (c *Spoonacular) Search(ctx context.Context, q Query) ([]model.Meal, error) {
	params := url.Values{}
	params.Set("query", q.Text)
	params.Set("addRecipeInformation", "true")
	params.Set("addRecipeNutrition", "true")
	params.Set("fillIngredients", "true")
	if q.Diet != "" {
		params.Set("diet", q.Diet)
	}
	if len(q.Health) > 0 {
		params.Set("intolerances", strings.Join(q.Health, ","))
	}
	if q.Limit > 0 {
		params.Set("number", strconv.Itoa(q.Limit))
	}

	header := http.Header{}
	header.Set("x-api-key", c.apiKey)
	body, err := get(ctx, c.http, c.baseURL+"/recipes/complexSearch?"+params.Encode(), header)
	if err != nil {
		return nil, err
	}

	var resp spoonacularResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("recipe: parsing spoonacular response: %w", err)
	}

	meals := make([]model.Meal, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.Title == "" {
			continue
		}
		meals = append(meals, spoonacularMeal(r))
	}
	return meals, nil
}

// spoonacularMeal converts a result into a per-serving meal. Nutrition is
// already per serving; ingredient amounts are for the whole recipe.
func spoonacularMeal(r spoonacularRecipe) model.Meal {
	servings := float64(r.Servings)
	if servings < 1 {
		servings = 1
	}

	m := model.Meal{
		Name:        strings.TrimSpace(r.Title),
		Source:      "Spoonacular",
		URL:         r.SourceURL,
		PrepMinutes: r.ReadyInMinutes,
		Summary:     StripHTML(r.Summary),
		Tags:        tagSet(r.Diets, r.DishTypes),
	}

	if r.Nutrition != nil {
		for _, n := range r.Nutrition.Nutrients {
			switch strings.ToLower(n.Name) {
			case "calories":
				m.Nutrition.Calories = round1(n.Amount)
			case "protein":
				m.Nutrition.Protein = round1(n.Amount)
			case "carbohydrates":
				m.Nutrition.Carbs = round1(n.Amount)
			case "fat":
				m.Nutrition.Fat = round1(n.Amount)
			}
		}
	}

	for _, ing := range r.ExtendedIngredients {
		if strings.TrimSpace(ing.Name) == "" || ing.Amount <= 0 {
			continue
		}
		m.Ingredients = append(m.Ingredients, model.Ingredient{
			Name:      strings.TrimSpace(ing.Name),
			Quantity:  round1(ing.Amount / servings),
			Unit:      normalizeUnit(ing.Unit),
			PerPerson: true,
		})
	}
	return m
}

// StripHTML returns the visible text of an HTML fragment with whitespace
// collapsed.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc.Find("script, style").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})
	return strings.Join(strings.Fields(doc.Text()), " ")
}
