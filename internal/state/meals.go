package state

import (
	"strings"

	"github.com/theirongolddev/tend/internal/meal"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/store"
)

// MealPlan returns every plan entry.
func (s *State) MealPlan() []model.MealPlanEntry {
	return append([]model.MealPlanEntry(nil), s.snap.MealPlan...)
}

// CustomMeals returns saved non-catalog meals.
func (s *State) CustomMeals() []model.Meal {
	return append([]model.Meal(nil), s.snap.CustomMeals...)
}

// SetMeal assigns a meal to a day and slot, replacing what was there.
func (s *State) SetMeal(e model.MealPlanEntry) (model.MealPlanEntry, error) {
	if e.Day == "" {
		e.Day = s.Today()
	}
	if e.Servings == 0 {
		e.Servings = 1
	}
	cat := s.Catalog()
	if err := meal.ValidateEntry(e, cat); err != nil {
		return model.MealPlanEntry{}, err
	}
	m, _ := cat.Lookup(e.MealName)
	e.MealName = m.Name

	next := s.Snapshot()
	next.MealPlan = meal.Set(next.MealPlan, e)
	if err := s.commit(next, store.KeyMealPlan); err != nil {
		return model.MealPlanEntry{}, err
	}
	return e, nil
}

// ClearMeal empties a slot. Clearing an empty slot is not an error.
func (s *State) ClearMeal(day string, slot model.Slot) error {
	next := s.Snapshot()
	next.MealPlan = meal.Clear(next.MealPlan, day, slot)
	if len(next.MealPlan) == len(s.snap.MealPlan) {
		return nil
	}
	return s.commit(next, store.KeyMealPlan)
}

// SaveCustomMeal stores a meal (typically a recipe suggestion) so it can be
// planned. A meal with the same name is replaced.
func (s *State) SaveCustomMeal(m model.Meal) (model.Meal, error) {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return model.Meal{}, model.Invalid("name", "is required")
	}
	if m.Source == "" {
		m.Source = "custom"
	}
	next := s.Snapshot()
	next.CustomMeals = filter(next.CustomMeals, func(x model.Meal) bool { return !strings.EqualFold(x.Name, m.Name) })
	next.CustomMeals = append(next.CustomMeals, m)
	if err := s.commit(next, store.KeyCustomMeals); err != nil {
		return model.Meal{}, err
	}
	return m, nil
}
