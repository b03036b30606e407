package model

// Ingredient is one line of a recipe. PerPerson quantities scale with the
// number of servings planned.
type Ingredient struct {
	Name      string  `json:"name" yaml:"name"`
	Quantity  float64 `json:"quantity" yaml:"quantity"`
	Unit      string  `json:"unit" yaml:"unit"`
	PerPerson bool    `json:"perPerson" yaml:"per_person"`
}

// Nutrition is per serving.
type Nutrition struct {
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fat      float64 `json:"fat" yaml:"fat"`
}

// Add returns n + o.
func (n Nutrition) Add(o Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Carbs:    n.Carbs + o.Carbs,
		Fat:      n.Fat + o.Fat,
	}
}

// Scale returns n multiplied by f.
func (n Nutrition) Scale(f float64) Nutrition {
	return Nutrition{
		Calories: n.Calories * f,
		Protein:  n.Protein * f,
		Carbs:    n.Carbs * f,
		Fat:      n.Fat * f,
	}
}

// Meal is a recipe from the built-in catalog or a recipe provider.
type Meal struct {
	Name        string       `json:"name" yaml:"name"`
	Ingredients []Ingredient `json:"ingredients" yaml:"ingredients"`
	Nutrition   Nutrition    `json:"nutrition" yaml:"nutrition"`
	Tags        []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
	PrepMinutes int          `json:"prepMinutes,omitempty" yaml:"prep_minutes,omitempty"`
	Source      string       `json:"source,omitempty" yaml:"source,omitempty"`
	URL         string       `json:"url,omitempty" yaml:"url,omitempty"`
	Summary     string       `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Slot is a meal slot within a day.
type Slot string

const (
	Breakfast Slot = "breakfast"
	Lunch     Slot = "lunch"
	Dinner    Slot = "dinner"
	Snack     Slot = "snack"
)

// Slots lists meal slots in display order.
var Slots = []Slot{Breakfast, Lunch, Dinner, Snack}

// Valid reports whether s is a known slot.
func (s Slot) Valid() bool {
	for _, v := range Slots {
		if v == s {
			return true
		}
	}
	return false
}

// MealPlanEntry assigns a meal to a day and slot.
type MealPlanEntry struct {
	Day      string `json:"day" yaml:"day"`
	Slot     Slot   `json:"slot" yaml:"slot"`
	MealName string `json:"meal" yaml:"meal"`
	Servings int    `json:"servings" yaml:"servings"`
}
