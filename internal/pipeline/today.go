package pipeline

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tend/internal/budget"
	"github.com/theirongolddev/tend/internal/calendar"
	"github.com/theirongolddev/tend/internal/config"
	"github.com/theirongolddev/tend/internal/cycle"
	"github.com/theirongolddev/tend/internal/habit"
	"github.com/theirongolddev/tend/internal/meal"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/state"
)

// upcomingDays is how far ahead the summary looks for payments.
const upcomingDays = 7

// HabitStatus is a habit as shown on the summary.
type HabitStatus struct {
	Habit  model.Habit
	Status string
	Done   bool
	Streak int
}

// Summary is the cross-feature view of a single day.
type Summary struct {
	Day time.Time

	Period      model.Period
	Budget      model.PeriodStats
	BudgetLabel string
	Remaining   decimal.Decimal

	Habits     []HabitStatus
	HabitsDone int

	Meals     []model.MealPlanEntry
	Nutrition model.Nutrition

	Cycle cycle.Status

	Water model.DailyWater
	Sleep model.DailySleep

	Agenda    []model.AgendaItem
	Upcoming  []budget.Occurrence
	OpenTodos int
}

// Today builds the summary for day.
func Today(st *state.State, cfg config.Config, day time.Time) Summary {
	day = model.StartOfDay(day)
	key := model.DayKey(day)
	weekStart := cfg.WeekStartDay()
	s := Summary{Day: day}

	settings := BudgetSettings(st, cfg)
	s.Period = settings.Period
	s.Budget = budget.Current(st.Transactions(), s.Period, weekStart, day)
	s.BudgetLabel = budget.PeriodLabel(s.Budget.Start, s.Period)
	s.Remaining = budget.Remaining(settings, s.Budget)

	for _, h := range st.Habits() {
		hs := HabitStatus{
			Habit:  h,
			Status: habit.Status(h, day, weekStart),
			Done:   habit.Complete(h, day, weekStart),
			Streak: habit.Streak(h, day),
		}
		if hs.Done {
			s.HabitsDone++
		}
		s.Habits = append(s.Habits, hs)
	}

	planned := meal.ForDay(st.MealPlan(), key)
	for _, slot := range model.Slots {
		if e, ok := planned[slot]; ok {
			s.Meals = append(s.Meals, e)
		}
	}
	if n := meal.PlanNutrition(s.Meals, st.Catalog()); len(n) > 0 {
		s.Nutrition = n[0].Total
	}

	cs := CycleSettings(st.CycleSettings(), cfg)
	if cs.StartDate != "" {
		s.Cycle = cycle.Calculate(cs, day, cfg.Cycle.Predict)
	} else {
		s.Cycle = cycle.Status{Phase: cycle.NotTracked}
	}

	s.Water = AggregateWater(st.WaterLog(), day, day, cfg.Water.DailyGoalML)[0]
	s.Sleep = AggregateSleep(st.SleepLog(), day, day)[0]

	s.Agenda = calendar.Agenda(AgendaInput(st, cfg), day, day.AddDate(0, 0, 1))
	s.Upcoming = budget.Upcoming(st.ScheduledPayments(), day, day.AddDate(0, 0, upcomingDays))

	for _, td := range st.Todos() {
		if !td.Done {
			s.OpenTodos++
		}
	}
	return s
}

// BudgetSettings resolves the stored budget settings against the configured
// default period.
func BudgetSettings(st *state.State, cfg config.Config) model.BudgetSettings {
	p, err := budget.ParsePeriod(cfg.Budget.Period)
	if err != nil {
		p = model.Monthly
	}
	return st.BudgetSettings(p)
}

// CycleSettings fills unset stored settings from the configured defaults.
func CycleSettings(cs model.CycleSettings, cfg config.Config) model.CycleSettings {
	if cs.Length <= 0 {
		cs.Length = cfg.Cycle.Length
	}
	if cs.PeriodDuration <= 0 {
		cs.PeriodDuration = cfg.Cycle.PeriodDuration
	}
	return cs
}

// AgendaInput gathers the collections an agenda is built from.
func AgendaInput(st *state.State, cfg config.Config) calendar.Input {
	return calendar.Input{
		Events:   st.Events(),
		Todos:    st.Todos(),
		MealPlan: st.MealPlan(),
		Payments: st.ScheduledPayments(),
		Cycle:    CycleSettings(st.CycleSettings(), cfg),
	}
}
