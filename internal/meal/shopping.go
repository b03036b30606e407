package meal

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tend/internal/model"
)

// Item is one aggregated shopping list line.
type Item struct {
	Name     string
	Unit     string
	Quantity decimal.Decimal
	Meals    int
}

// String formats the item as "Name: 2.5 kg".
func (i Item) String() string {
	q := i.Quantity.Round(2).String()
	if i.Unit == "" {
		return fmt.Sprintf("%s: %s", i.Name, q)
	}
	return fmt.Sprintf("%s: %s %s", i.Name, q, i.Unit)
}

type itemKey struct {
	name string
	unit string
}

// ShoppingList sums ingredient quantities over the plan entries. Per-person
// quantities are multiplied by the entry's servings; the rest are needed once
// per planned meal. Quantities are summed per (name, unit), so the result does
// not depend on entry order. Entries naming an unknown meal are skipped.
func ShoppingList(entries []model.MealPlanEntry, meals Lookup) []Item {
	items := make(map[itemKey]*Item)

	for _, e := range entries {
		m, ok := meals.Lookup(e.MealName)
		if !ok {
			continue
		}
		servings := e.Servings
		if servings < 1 {
			servings = 1
		}
		for _, ing := range m.Ingredients {
			if strings.TrimSpace(ing.Name) == "" {
				continue
			}
			qty := decimal.NewFromFloat(ing.Quantity)
			if ing.PerPerson {
				qty = qty.Mul(decimal.NewFromInt(int64(servings)))
			}
			key := itemKey{name: normalize(ing.Name), unit: strings.ToLower(strings.TrimSpace(ing.Unit))}
			it, ok := items[key]
			if !ok {
				it = &Item{Name: strings.TrimSpace(ing.Name), Unit: key.unit}
				items[key] = it
			} else if ing.Name < it.Name {
				it.Name = strings.TrimSpace(ing.Name)
			}
			it.Quantity = it.Quantity.Add(qty)
			it.Meals++
		}
	}

	out := make([]Item, 0, len(items))
	for _, it := range items {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].Unit < out[j].Unit
	})
	return out
}

// Lines formats a shopping list as display strings.
func Lines(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.String()
	}
	return out
}

// InWindow returns plan entries whose day falls in [from, to).
func InWindow(entries []model.MealPlanEntry, from, to time.Time) []model.MealPlanEntry {
	fromKey, toKey := model.DayKey(from), model.DayKey(to)
	var out []model.MealPlanEntry
	for _, e := range entries {
		if e.Day >= fromKey && e.Day < toKey {
			out = append(out, e)
		}
	}
	return out
}
