package meal

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/theirongolddev/tend/internal/model"
)

func testCatalog() *Catalog {
	return NewCatalog([]model.Meal{
		{
			Name: "Pasta",
			Tags: []string{"dinner"},
			Ingredients: []model.Ingredient{
				{Name: "Spaghetti", Quantity: 100, Unit: "g", PerPerson: true},
				{Name: "Garlic", Quantity: 2, Unit: "clove", PerPerson: false},
				{Name: "Olive oil", Quantity: 1.5, Unit: "tbsp", PerPerson: false},
			},
			Nutrition: model.Nutrition{Calories: 500},
		},
		{
			Name: "Garlic Bread",
			Tags: []string{"snack"},
			Ingredients: []model.Ingredient{
				{Name: "garlic", Quantity: 3, Unit: "clove", PerPerson: false},
				{Name: "Baguette", Quantity: 0.5, Unit: "pc", PerPerson: true},
				{Name: "Olive oil", Quantity: 10, Unit: "ml", PerPerson: false},
			},
			Nutrition: model.Nutrition{Calories: 200},
		},
	})
}

func TestShoppingList(t *testing.T) {
	entries := []model.MealPlanEntry{
		{Day: "2024-01-01", Slot: model.Dinner, MealName: "Pasta", Servings: 2},
		{Day: "2024-01-02", Slot: model.Dinner, MealName: "pasta", Servings: 3},
		{Day: "2024-01-02", Slot: model.Snack, MealName: "Garlic Bread", Servings: 4},
		{Day: "2024-01-03", Slot: model.Lunch, MealName: "Mystery Stew", Servings: 2},
	}

	got := Lines(ShoppingList(entries, testCatalog()))
	want := []string{
		"Baguette: 2 pc",
		"Garlic: 7 clove",
		"Olive oil: 10 ml",
		"Olive oil: 3 tbsp",
		"Spaghetti: 500 g",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ShoppingList =\n%v\nwant\n%v", got, want)
	}
}

func TestShoppingListOrderIndependent(t *testing.T) {
	cat := Builtin()
	all := cat.All()
	rng := rand.New(rand.NewSource(42))

	var entries []model.MealPlanEntry
	for i := 0; i < 30; i++ {
		m := all[rng.Intn(len(all))]
		entries = append(entries, model.MealPlanEntry{
			Day:      model.AddDays("2024-01-01", i%7),
			Slot:     model.Slots[i%4],
			MealName: m.Name,
			Servings: 1 + rng.Intn(4),
		})
	}

	want := Lines(ShoppingList(entries, cat))
	for round := 0; round < 10; round++ {
		shuffled := append([]model.MealPlanEntry(nil), entries...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		if got := Lines(ShoppingList(shuffled, cat)); !reflect.DeepEqual(got, want) {
			t.Fatalf("round %d: order changed result\n%v\nwant\n%v", round, got, want)
		}
	}

	half := len(entries) / 2
	merged := mergeItems(ShoppingList(entries[:half], cat), ShoppingList(entries[half:], cat))
	if got := Lines(merged); !reflect.DeepEqual(got, want) {
		t.Errorf("split aggregation differs\n%v\nwant\n%v", got, want)
	}
}

func mergeItems(a, b []Item) []Item {
	var entries []model.MealPlanEntry
	var meals []model.Meal
	for i, it := range append(append([]Item(nil), a...), b...) {
		q, _ := it.Quantity.Float64()
		name := fmt.Sprintf("%d-%s", i, it.Name)
		meals = append(meals, model.Meal{Name: name, Ingredients: []model.Ingredient{{Name: it.Name, Unit: it.Unit, Quantity: q}}})
		entries = append(entries, model.MealPlanEntry{MealName: name, Servings: 1})
	}
	return ShoppingList(entries, NewCatalog(meals))
}

func TestBuiltinCatalog(t *testing.T) {
	cat := Builtin()
	if cat.Len() < 10 {
		t.Fatalf("catalog has %d meals", cat.Len())
	}
	m, ok := cat.Lookup("  overnight   OATS ")
	if !ok || m.Name != "Overnight Oats" {
		t.Fatalf("Lookup = %+v, %v", m, ok)
	}
	for _, meal := range cat.All() {
		if len(meal.Ingredients) == 0 || meal.Nutrition.Calories == 0 {
			t.Errorf("%s has no ingredients or nutrition", meal.Name)
		}
	}
}

func TestFind(t *testing.T) {
	cat := Builtin()

	vegan := cat.Find(Filter{Tags: []string{"vegan"}, Slot: model.Dinner})
	for _, m := range vegan {
		if !hasTag(m, "vegan") || !hasTag(m, "dinner") {
			t.Errorf("%s does not match filter", m.Name)
		}
	}
	if len(vegan) == 0 {
		t.Error("no vegan dinners")
	}

	light := cat.Find(Filter{MaxCalories: 300})
	for _, m := range light {
		if m.Nutrition.Calories > 300 {
			t.Errorf("%s has %v kcal", m.Name, m.Nutrition.Calories)
		}
	}

	byIngredient := cat.Find(Filter{Query: "salmon"})
	if len(byIngredient) != 1 {
		t.Errorf("query salmon matched %d meals", len(byIngredient))
	}
}

func TestSetAndClear(t *testing.T) {
	var plan []model.MealPlanEntry
	plan = Set(plan, model.MealPlanEntry{Day: "2024-01-02", Slot: model.Dinner, MealName: "A", Servings: 1})
	plan = Set(plan, model.MealPlanEntry{Day: "2024-01-01", Slot: model.Lunch, MealName: "B", Servings: 1})
	plan = Set(plan, model.MealPlanEntry{Day: "2024-01-02", Slot: model.Breakfast, MealName: "C", Servings: 1})
	plan = Set(plan, model.MealPlanEntry{Day: "2024-01-02", Slot: model.Dinner, MealName: "D", Servings: 2})

	var names []string
	for _, e := range plan {
		names = append(names, e.MealName)
	}
	if !reflect.DeepEqual(names, []string{"B", "C", "D"}) {
		t.Errorf("plan order = %v, want [B C D]", names)
	}

	plan = Clear(plan, "2024-01-02", model.Dinner)
	if len(plan) != 2 {
		t.Errorf("len after clear = %d, want 2", len(plan))
	}
	if _, ok := ForDay(plan, "2024-01-02")[model.Breakfast]; !ok {
		t.Error("breakfast missing after clearing dinner")
	}
}

func TestInWindow(t *testing.T) {
	plan := []model.MealPlanEntry{{Day: "2024-01-01"}, {Day: "2024-01-07"}, {Day: "2024-01-08"}}
	from, _ := model.ParseDay("2024-01-01")
	got := InWindow(plan, from, from.AddDate(0, 0, 7))
	if len(got) != 2 {
		t.Errorf("InWindow = %v, want first two entries", got)
	}
}

func TestPlanNutrition(t *testing.T) {
	entries := []model.MealPlanEntry{
		{Day: "2024-01-02", MealName: "Pasta", Servings: 2},
		{Day: "2024-01-01", MealName: "Garlic Bread", Servings: 1},
		{Day: "2024-01-02", MealName: "Garlic Bread", Servings: 1},
		{Day: "2024-01-02", MealName: "Unknown", Servings: 1},
	}
	days := PlanNutrition(entries, testCatalog())
	if len(days) != 2 || days[0].Day != "2024-01-01" {
		t.Fatalf("days = %+v", days)
	}
	if days[1].Total.Calories != 1200 || days[1].Meals != 2 {
		t.Errorf("2024-01-02 = %+v, want 1200 kcal over 2 meals", days[1])
	}
}

func TestEstimateFromIngredients(t *testing.T) {
	m := model.Meal{Ingredients: []model.Ingredient{
		{Name: "Chicken breast", Quantity: 200, Unit: "g"},
		{Name: "Eggs", Quantity: 2, Unit: "pc"},
		{Name: "Dragonfruit", Quantity: 1, Unit: "pc"},
	}}
	n, covered := Estimate(m)
	if n.Calories != 330+144 {
		t.Errorf("calories = %v, want 474", n.Calories)
	}
	if covered < 0.66 || covered > 0.67 {
		t.Errorf("covered = %v, want 2/3", covered)
	}
}

func TestParseSlot(t *testing.T) {
	for in, want := range map[string]model.Slot{"dinner": model.Dinner, "B": model.Breakfast, " snack ": model.Snack} {
		got, err := ParseSlot(in)
		if err != nil || got != want {
			t.Errorf("ParseSlot(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseSlot("brunch"); err == nil {
		t.Error("ParseSlot accepted brunch")
	}
}

func TestWeekDays(t *testing.T) {
	wed, _ := model.ParseDay("2024-01-17")
	days := WeekDays(wed, time.Sunday)
	if model.DayKey(days[0]) != "2024-01-14" || model.DayKey(days[6]) != "2024-01-20" {
		t.Errorf("WeekDays = %s..%s", model.DayKey(days[0]), model.DayKey(days[6]))
	}
}
