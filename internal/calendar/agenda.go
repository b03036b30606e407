// Package calendar merges everything that has a date into one agenda:
// stored events, to-dos, planned meals, scheduled payments and predicted
// cycle days.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/tend/internal/budget"
	"github.com/theirongolddev/tend/internal/cycle"
	"github.com/theirongolddev/tend/internal/model"
)

// Input is the data an agenda is built from.
type Input struct {
	Events   []model.CalendarEvent
	Todos    []model.Todo
	MealPlan []model.MealPlanEntry
	Payments []model.ScheduledPayment
	Cycle    model.CycleSettings
}

// slotTimes places planned meals on the day.
var slotTimes = map[model.Slot]time.Duration{
	model.Breakfast: 8 * time.Hour,
	model.Lunch:     12*time.Hour + 30*time.Minute,
	model.Snack:     15 * time.Hour,
	model.Dinner:    19 * time.Hour,
}

const mealLength = 45 * time.Minute

// Agenda returns every item that falls in [from, to), sorted by start time
// then title.
func Agenda(in Input, from, to time.Time) []model.AgendaItem {
	var items []model.AgendaItem

	stored := make(map[string]bool, len(in.Events))
	for _, ev := range in.Events {
		stored[ev.ID] = true
		if !overlaps(ev.Start, ev.End, from, to) {
			continue
		}
		items = append(items, model.AgendaItem{
			Start:  ev.Start,
			End:    ev.End,
			Title:  ev.Title,
			Type:   ev.Type,
			Color:  colorOr(ev.Color, ev.Type),
			AllDay: ev.AllDay,
			Source: ev.ID,
		})
	}

	for _, td := range in.Todos {
		if td.Done || td.Due == "" {
			continue
		}
		due, err := model.ParseDay(td.Due)
		if err != nil || due.Before(model.StartOfDay(from)) || !due.Before(to) {
			continue
		}
		items = append(items, model.AgendaItem{
			Start:  due,
			End:    due.AddDate(0, 0, 1),
			Title:  "To-do: " + td.Title,
			Type:   model.EventGeneral,
			Color:  model.EventGeneral.DefaultColor(),
			AllDay: true,
			Source: td.ID,
		})
	}

	for _, e := range in.MealPlan {
		day, err := model.ParseDay(e.Day)
		if err != nil {
			continue
		}
		start := day.Add(slotTimes[e.Slot])
		if !overlaps(start, start.Add(mealLength), from, to) {
			continue
		}
		title := fmt.Sprintf("%s: %s", capitalize(string(e.Slot)), e.MealName)
		if e.Servings > 1 {
			title += fmt.Sprintf(" (x%d)", e.Servings)
		}
		items = append(items, model.AgendaItem{
			Start:  start,
			End:    start.Add(mealLength),
			Title:  title,
			Type:   model.EventMeal,
			Color:  model.EventMeal.DefaultColor(),
			Source: e.Day + "/" + string(e.Slot),
		})
	}

	for _, occ := range budget.Upcoming(in.Payments, model.StartOfDay(from), to) {
		// The first due date is already on the calendar as a stored event.
		if occ.Payment.Date == model.DayKey(occ.Due) && stored[budget.DerivedEventID(occ.Payment.ID)] {
			continue
		}
		items = append(items, model.AgendaItem{
			Start:  occ.Due,
			End:    occ.Due.AddDate(0, 0, 1),
			Title:  fmt.Sprintf("%s (%s)", occ.Payment.Name, occ.Payment.Amount.StringFixed(2)),
			Type:   model.EventPayment,
			Color:  model.EventPayment.DefaultColor(),
			AllDay: true,
			Source: occ.Payment.ID,
		})
	}

	if in.Cycle.StartDate != "" {
		for _, p := range cycle.Predict(in.Cycle, model.StartOfDay(from), to) {
			items = append(items, model.AgendaItem{
				Start:  p.Day,
				End:    p.Day.AddDate(0, 0, 1),
				Title:  cycleTitle(p),
				Type:   model.EventCycle,
				Color:  model.EventCycle.DefaultColor(),
				AllDay: true,
				Source: "cycle",
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Start.Equal(items[j].Start) {
			return items[i].Start.Before(items[j].Start)
		}
		return items[i].Title < items[j].Title
	})
	return items
}

// Day is the agenda for one calendar day.
type Day struct {
	Date  time.Time
	Items []model.AgendaItem
}

// GroupByDay splits a sorted agenda into days, keeping empty days out.
func GroupByDay(items []model.AgendaItem) []Day {
	var days []Day
	for _, it := range items {
		d := model.StartOfDay(it.Start)
		if n := len(days); n > 0 && days[n-1].Date.Equal(d) {
			days[n-1].Items = append(days[n-1].Items, it)
			continue
		}
		days = append(days, Day{Date: d, Items: []model.AgendaItem{it}})
	}
	return days
}

func overlaps(start, end, from, to time.Time) bool {
	if end.Before(start) || end.IsZero() {
		end = start
	}
	if !start.Before(to) {
		return false
	}
	return end.After(from) || !start.Before(from)
}

func colorOr(c string, t model.EventType) string {
	if c != "" {
		return c
	}
	return t.DefaultColor()
}

func cycleTitle(p cycle.Prediction) string {
	switch {
	case p.PeriodStart:
		return "Period starts"
	case p.Phase == cycle.Menstruation:
		return "Period"
	default:
		return "Ovulation"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
