package recipe

import (
	"context"

	"github.com/theirongolddev/tend/internal/model"
)

// Query describes what to look for.
type Query struct {
	Text   string
	Diet   string   // e.g. "balanced", "vegetarian"
	Health []string // e.g. "gluten-free"
	Limit  int
}

// Provider searches one recipe service.
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) ([]model.Meal, error)
}

// edamamResponse is the subset of the Edamam recipe search response we read.
type edamamResponse struct {
	Hits []struct {
		Recipe edamamRecipe `json:"recipe"`
	} `json:"hits"`
}

type edamamRecipe struct {
	Label          string                    `json:"label"`
	URL            string                    `json:"url"`
	Source         string                    `json:"source"`
	Yield          float64                   `json:"yield"`
	Calories       float64                   `json:"calories"`
	TotalTime      float64                   `json:"totalTime"`
	DietLabels     []string                  `json:"dietLabels"`
	HealthLabels   []string                  `json:"healthLabels"`
	MealType       []string                  `json:"mealType"`
	Ingredients    []edamamIngredient        `json:"ingredients"`
	TotalNutrients map[string]edamamNutrient `json:"totalNutrients"`
}

type edamamIngredient struct {
	Food     string  `json:"food"`
	Quantity float64 `json:"quantity"`
	Measure  string  `json:"measure"`
	Weight   float64 `json:"weight"`
}

type edamamNutrient struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// spoonacularResponse is the subset of the Spoonacular complex search
// response we read.
type spoonacularResponse struct {
	Results []spoonacularRecipe `json:"results"`
}

type spoonacularRecipe struct {
	ID                  int                     `json:"id"`
	Title               string                  `json:"title"`
	ReadyInMinutes      int                     `json:"readyInMinutes"`
	Servings            int                     `json:"servings"`
	SourceURL           string                  `json:"sourceUrl"`
	Summary             string                  `json:"summary"`
	Diets               []string                `json:"diets"`
	DishTypes           []string                `json:"dishTypes"`
	ExtendedIngredients []spoonacularIngredient `json:"extendedIngredients"`
	Nutrition           *struct {
		Nutrients []struct {
			Name   string  `json:"name"`
			Amount float64 `json:"amount"`
			Unit   string  `json:"unit"`
		} `json:"nutrients"`
	} `json:"nutrition"`
}

type spoonacularIngredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}
