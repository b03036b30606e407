package calendar

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tend/internal/budget"
	"github.com/theirongolddev/tend/internal/model"
)

func day(s string) time.Time {
	t, err := model.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleInput(t *testing.T) Input {
	t.Helper()
	internet := model.ScheduledPayment{
		ID:        "p1",
		Name:      "Internet",
		Amount:    decimal.RequireFromString("39.99"),
		Date:      "2024-01-02",
		Frequency: model.MonthlyRepeat,
	}
	_, paymentEvent, err := budget.FanOut(internet)
	if err != nil {
		t.Fatalf("FanOut: %v", err)
	}
	dentist := day("2024-01-01").Add(10 * time.Hour)

	return Input{
		Events: []model.CalendarEvent{
			paymentEvent,
			{ID: "e1", Title: "Dentist", Start: dentist, End: dentist.Add(time.Hour), Type: model.EventGeneral},
		},
		Todos: []model.Todo{
			{ID: "t1", Title: "Call mom", Due: "2024-01-02"},
			{ID: "t2", Title: "Already done", Due: "2024-01-02", Done: true},
			{ID: "t3", Title: "Someday"},
		},
		MealPlan: []model.MealPlanEntry{
			{Day: "2024-01-01", Slot: model.Dinner, MealName: "Pasta", Servings: 2},
			{Day: "2024-01-05", Slot: model.Lunch, MealName: "Salad", Servings: 1},
		},
		Payments: []model.ScheduledPayment{internet},
		Cycle:    model.CycleSettings{StartDate: "2024-01-01", Length: 28, PeriodDuration: 5},
	}
}

func titles(items []model.AgendaItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestAgendaMergesSources(t *testing.T) {
	items := Agenda(sampleInput(t), day("2024-01-01"), day("2024-01-03"))

	want := []string{
		"Period starts",
		"Dentist",
		"Dinner: Pasta (x2)",
		"Internet (39.99)",
		"Period",
		"To-do: Call mom",
	}
	got := titles(items)
	if len(got) != len(want) {
		t.Fatalf("agenda = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d = %q, want %q", i, got[i], want[i])
		}
	}

	for _, it := range items {
		if it.Color == "" {
			t.Errorf("%q has no color", it.Title)
		}
	}
	if items[2].Type != model.EventMeal || items[3].Type != model.EventPayment {
		t.Errorf("types = %s, %s", items[2].Type, items[3].Type)
	}
}

func TestAgendaProjectsMonthlyPayments(t *testing.T) {
	items := Agenda(sampleInput(t), day("2024-02-01"), day("2024-02-03"))

	got := titles(items)
	want := []string{"Period", "Internet (39.99)", "Period"}
	if len(got) != len(want) {
		t.Fatalf("agenda = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d = %q, want %q", i, got[i], want[i])
		}
	}
	if items[1].Source != "p1" {
		t.Errorf("projected payment source = %q, want p1", items[1].Source)
	}
}

func TestAgendaWithoutCycle(t *testing.T) {
	in := sampleInput(t)
	in.Cycle = model.CycleSettings{}
	for _, it := range Agenda(in, day("2024-01-01"), day("2024-01-08")) {
		if it.Type == model.EventCycle {
			t.Errorf("untracked cycle produced %q", it.Title)
		}
	}
}

func TestGroupByDay(t *testing.T) {
	days := GroupByDay(Agenda(sampleInput(t), day("2024-01-01"), day("2024-01-08")))
	if len(days) == 0 || !days[0].Date.Equal(day("2024-01-01")) {
		t.Fatalf("first day = %+v", days)
	}
	for i := 1; i < len(days); i++ {
		if !days[i].Date.After(days[i-1].Date) {
			t.Errorf("days out of order at %d", i)
		}
	}
	last := days[len(days)-1]
	final := last.Items[len(last.Items)-1]
	if model.DayKey(last.Date) != "2024-01-05" || final.Title != "Lunch: Salad" {
		t.Errorf("last day = %s %q", model.DayKey(last.Date), final.Title)
	}
}
