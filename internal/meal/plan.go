package meal

import (
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/tend/internal/model"
)

// WeekDays returns the seven days of t's week.
func WeekDays(t time.Time, weekStart time.Weekday) []time.Time {
	start := model.WeekStart(t, weekStart)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// ForDay returns the entries planned on day, keyed by slot.
func ForDay(entries []model.MealPlanEntry, day string) map[model.Slot]model.MealPlanEntry {
	out := make(map[model.Slot]model.MealPlanEntry)
	for _, e := range entries {
		if e.Day == day {
			out[e.Slot] = e
		}
	}
	return out
}

// Set replaces the entry for (day, slot), returning the new plan sorted by
// day then slot order.
func Set(entries []model.MealPlanEntry, e model.MealPlanEntry) []model.MealPlanEntry {
	out := Clear(entries, e.Day, e.Slot)
	out = append(out, e)
	SortPlan(out)
	return out
}

// Clear removes the entry for (day, slot), if any.
func Clear(entries []model.MealPlanEntry, day string, slot model.Slot) []model.MealPlanEntry {
	out := make([]model.MealPlanEntry, 0, len(entries))
	for _, e := range entries {
		if e.Day == day && e.Slot == slot {
			continue
		}
		out = append(out, e)
	}
	return out
}

// SortPlan orders entries by day, then slot position.
func SortPlan(entries []model.MealPlanEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Day != entries[j].Day {
			return entries[i].Day < entries[j].Day
		}
		return slotIndex(entries[i].Slot) < slotIndex(entries[j].Slot)
	})
}

func slotIndex(s model.Slot) int {
	for i, v := range model.Slots {
		if v == s {
			return i
		}
	}
	return len(model.Slots)
}

// ParseSlot accepts a slot name or its first letter.
func ParseSlot(s string) (model.Slot, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, slot := range model.Slots {
		if s == string(slot) || (len(s) == 1 && s[0] == slot[0]) {
			return slot, nil
		}
	}
	return "", model.Invalid("slot", "must be breakfast, lunch, dinner or snack, got %q", s)
}

// ValidateEntry checks a plan entry against the catalog.
func ValidateEntry(e model.MealPlanEntry, meals Lookup) error {
	if _, err := model.ParseDay(e.Day); err != nil {
		return model.Invalid("day", "%v", err)
	}
	if !e.Slot.Valid() {
		return model.Invalid("slot", "unknown slot %q", e.Slot)
	}
	if e.Servings < 1 || e.Servings > 20 {
		return model.Invalid("servings", "must be between 1 and 20, got %d", e.Servings)
	}
	if _, ok := meals.Lookup(e.MealName); !ok {
		return model.Invalid("meal", "%q is not in the catalog", e.MealName)
	}
	return nil
}
