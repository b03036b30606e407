// Package meal holds the built-in recipe catalog and the meal plan
// arithmetic: nutrition totals and shopping lists.
package meal

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/tend/internal/model"
)

//go:embed catalog.json
var catalogJSON []byte

// Lookup resolves a meal by name.
type Lookup interface {
	Lookup(name string) (model.Meal, bool)
}

// Catalog is an immutable set of meals indexed by lower-cased name.
type Catalog struct {
	meals []model.Meal
	index map[string]int
}

// Builtin returns the embedded catalog.
func Builtin() *Catalog {
	var meals []model.Meal
	if err := json.Unmarshal(catalogJSON, &meals); err != nil {
		panic(fmt.Sprintf("meal: embedded catalog is invalid: %v", err))
	}
	for i := range meals {
		meals[i].Source = "builtin"
	}
	return NewCatalog(meals)
}

// NewCatalog builds a catalog. Later meals with a duplicate name win.
func NewCatalog(meals []model.Meal) *Catalog {
	c := &Catalog{index: make(map[string]int, len(meals))}
	for _, m := range meals {
		key := normalize(m.Name)
		if i, ok := c.index[key]; ok {
			c.meals[i] = m
			continue
		}
		c.index[key] = len(c.meals)
		c.meals = append(c.meals, m)
	}
	return c
}

// With returns a new catalog with extra meals layered on top.
func (c *Catalog) With(extra ...model.Meal) *Catalog {
	all := append(append([]model.Meal(nil), c.meals...), extra...)
	return NewCatalog(all)
}

// Lookup finds a meal by name, case-insensitively.
func (c *Catalog) Lookup(name string) (model.Meal, bool) {
	i, ok := c.index[normalize(name)]
	if !ok {
		return model.Meal{}, false
	}
	return c.meals[i], true
}

// All returns every meal sorted by name.
func (c *Catalog) All() []model.Meal {
	out := append([]model.Meal(nil), c.meals...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of meals.
func (c *Catalog) Len() int {
	return len(c.meals)
}

// Filter selects catalog meals. Zero fields match everything.
type Filter struct {
	Tags        []string
	Query       string
	MaxCalories float64
	Slot        model.Slot
}

// Find returns the meals matching f, sorted by name. All tags must match.
func (c *Catalog) Find(f Filter) []model.Meal {
	var out []model.Meal
	for _, m := range c.All() {
		if f.MaxCalories > 0 && m.Nutrition.Calories > f.MaxCalories {
			continue
		}
		if f.Query != "" && !matchesQuery(m, f.Query) {
			continue
		}
		if f.Slot != "" && !hasTag(m, string(f.Slot)) {
			continue
		}
		ok := true
		for _, tag := range f.Tags {
			if !hasTag(m, tag) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, m)
		}
	}
	return out
}

// Tags returns every tag in use, sorted.
func (c *Catalog) Tags() []string {
	seen := make(map[string]struct{})
	for _, m := range c.meals {
		for _, t := range m.Tags {
			seen[strings.ToLower(t)] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func hasTag(m model.Meal, tag string) bool {
	for _, t := range m.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func matchesQuery(m model.Meal, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if strings.Contains(strings.ToLower(m.Name), q) {
		return true
	}
	for _, ing := range m.Ingredients {
		if strings.Contains(strings.ToLower(ing.Name), q) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
