package state

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/store"
)

var fixedNow = time.Date(2024, 1, 17, 9, 30, 0, 0, time.Local)

func newState(t *testing.T) (*State, *store.Store) {
	t.Helper()
	kv, err := store.Open(filepath.Join(t.TempDir(), "tend.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	n := 0
	s, err := Load(kv,
		WithClock(func() time.Time { return fixedNow }),
		WithIDs(func() string { n++; return fmt.Sprintf("id%03d", n) }),
	)
	require.NoError(t, err)
	return s, kv
}

func reload(t *testing.T, kv *store.Store) *State {
	t.Helper()
	s, err := Load(kv, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return s
}

func TestLoadEmpty(t *testing.T) {
	s, _ := newState(t)
	assert.Empty(t, s.Transactions())
	assert.Empty(t, s.Habits())
	assert.Equal(t, model.Monthly, s.BudgetSettings("").Period)
	assert.Equal(t, model.Weekly, s.BudgetSettings(model.Weekly).Period)
	assert.Equal(t, "2024-01-17", s.Today())
}

func TestAddTransactionPersists(t *testing.T) {
	s, kv := newState(t)

	tx, err := s.AddTransaction(model.Transaction{
		Type:     model.Expense,
		Category: " Groceries ",
		Amount:   decimal.NewFromInt(40),
		Variable: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "id001", tx.ID)
	assert.Equal(t, "2024-01-17", tx.Date)
	assert.Equal(t, "Groceries", tx.Category)

	got, err := reload(t, kv).Transaction("id001")
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(40)))
	assert.True(t, got.Pending())
}

func TestAddTransactionValidation(t *testing.T) {
	s, kv := newState(t)

	_, err := s.AddTransaction(model.Transaction{Type: model.Expense, Category: "Food"})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "amount", ve.Field)

	assert.Empty(t, reload(t, kv).Transactions())
}

func TestLogActualAndDelete(t *testing.T) {
	s, kv := newState(t)
	tx, err := s.AddTransaction(model.Transaction{Type: model.Expense, Category: "Fuel", Amount: decimal.NewFromInt(60), Variable: true})
	require.NoError(t, err)

	updated, err := s.LogActual("id0", decimal.RequireFromString("55.20"))
	require.NoError(t, err)
	require.NotNil(t, updated.Actual)
	assert.Equal(t, "55.2", updated.Effective().String())
	assert.False(t, updated.Pending())

	_, err = s.LogActual("nope", decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.DeleteTransaction(tx.ID))
	assert.Empty(t, reload(t, kv).Transactions())
}

func TestAmbiguousPrefix(t *testing.T) {
	s, _ := newState(t)
	for i := 0; i < 2; i++ {
		_, err := s.AddTodo(fmt.Sprintf("todo %d", i), "")
		require.NoError(t, err)
	}
	_, err := s.ToggleTodo("id")
	assert.True(t, errors.Is(err, ErrAmbiguous))

	td, err := s.ToggleTodo("id002")
	require.NoError(t, err)
	assert.True(t, td.Done)
}

func TestScheduledPaymentFanOutIsReversible(t *testing.T) {
	s, kv := newState(t)

	_, err := s.AddTransaction(model.Transaction{Type: model.Income, Category: "Salary", Amount: decimal.NewFromInt(2000)})
	require.NoError(t, err)
	_, err = s.AddEvent(model.CalendarEvent{Title: "Dentist", Start: fixedNow})
	require.NoError(t, err)

	beforeTx := s.Transactions()
	beforeEv := s.Events()

	sp, err := s.AddScheduledPayment(model.ScheduledPayment{
		Name:      "Rent",
		Amount:    decimal.NewFromInt(900),
		Date:      "2024-02-01",
		Category:  "Housing",
		Frequency: model.MonthlyRepeat,
	})
	require.NoError(t, err)

	persisted := reload(t, kv)
	require.Len(t, persisted.ScheduledPayments(), 1)
	tx, err := persisted.Transaction("scheduled-" + sp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Housing", tx.Category)
	assert.Equal(t, sp.ID, tx.ScheduledID)

	var found bool
	for _, ev := range persisted.Events() {
		if ev.ID == "payment-"+sp.ID {
			found = true
			assert.Equal(t, model.EventPayment, ev.Type)
		}
	}
	assert.True(t, found, "derived event missing")

	var ve *model.ValidationError
	require.ErrorAs(t, s.DeleteTransaction(tx.ID), &ve, "derived transaction goes with its payment")
	_, err = s.Transaction(tx.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeleteScheduledPayment(sp.ID))
	assert.Equal(t, beforeTx, s.Transactions())
	assert.Equal(t, beforeEv, s.Events())
	assert.Empty(t, s.ScheduledPayments())

	persisted = reload(t, kv)
	assert.Equal(t, txIDs(beforeTx), txIDs(persisted.Transactions()))
	assert.Equal(t, eventIDs(beforeEv), eventIDs(persisted.Events()))
	assert.Empty(t, persisted.ScheduledPayments())
}

func txIDs(txs []model.Transaction) []string {
	ids := make([]string, len(txs))
	for i, tx := range txs {
		ids[i] = tx.ID
	}
	return ids
}

func eventIDs(evs []model.CalendarEvent) []string {
	ids := make([]string, len(evs))
	for i, ev := range evs {
		ids[i] = ev.ID
	}
	return ids
}

func TestScheduledPaymentRejectsBadInput(t *testing.T) {
	s, _ := newState(t)
	_, err := s.AddScheduledPayment(model.ScheduledPayment{Name: "", Amount: decimal.NewFromInt(5), Date: "2024-01-01"})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, s.Transactions())
	assert.Empty(t, s.Events())
}

func TestHabitLifecycle(t *testing.T) {
	s, kv := newState(t)

	h, err := s.AddHabit(model.Habit{Name: "Stretch", Type: model.WeeklyFrequency, TargetPerWeek: 3})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, h.CreatedAt)

	_, err = s.AddHabit(model.Habit{Name: "stretch"})
	require.Error(t, err, "duplicate names are rejected")

	_, err = s.RecordHabit("Stretch", "")
	require.NoError(t, err)
	h, err = s.RecordHabit(h.ID, "2024-01-17")
	require.NoError(t, err)
	assert.Equal(t, 2, h.History["2024-01-17"])

	h, err = s.DecrementHabit("stretch", "2024-01-17")
	require.NoError(t, err)
	assert.Equal(t, 1, h.History["2024-01-17"])

	h, err = s.SetHabitReminder(h.ID, &model.ReminderTime{Hour: 7, Minute: 30})
	require.NoError(t, err)

	persisted, err := reload(t, kv).Habit(h.ID)
	require.NoError(t, err)
	require.NotNil(t, persisted.Reminder)
	assert.Equal(t, 7, persisted.Reminder.Hour)
	assert.Equal(t, 1, persisted.History["2024-01-17"])

	_, err = s.SetHabitReminder(h.ID, &model.ReminderTime{Hour: 25})
	require.Error(t, err)

	require.NoError(t, s.DeleteHabit(h.ID))
	assert.Empty(t, reload(t, kv).Habits())
}

func TestMealPlan(t *testing.T) {
	s, kv := newState(t)

	e, err := s.SetMeal(model.MealPlanEntry{Day: "2024-01-18", Slot: model.Dinner, MealName: "lentil soup", Servings: 2})
	require.NoError(t, err)
	assert.Equal(t, "Lentil Soup", e.MealName)

	_, err = s.SetMeal(model.MealPlanEntry{Day: "2024-01-18", Slot: model.Dinner, MealName: "Vegetable Curry"})
	require.NoError(t, err)
	plan := reload(t, kv).MealPlan()
	require.Len(t, plan, 1)
	assert.Equal(t, "Vegetable Curry", plan[0].MealName)
	assert.Equal(t, 1, plan[0].Servings)

	_, err = s.SetMeal(model.MealPlanEntry{Day: "2024-01-18", Slot: model.Lunch, MealName: "Pizza Deluxe"})
	require.Error(t, err)

	_, err = s.SaveCustomMeal(model.Meal{Name: "Pizza Deluxe", Ingredients: []model.Ingredient{{Name: "Dough", Quantity: 1, Unit: "pc", PerPerson: true}}})
	require.NoError(t, err)
	_, err = s.SetMeal(model.MealPlanEntry{Day: "2024-01-18", Slot: model.Lunch, MealName: "Pizza Deluxe"})
	require.NoError(t, err)

	require.NoError(t, s.ClearMeal("2024-01-18", model.Dinner))
	require.NoError(t, s.ClearMeal("2024-01-18", model.Dinner))
	plan = reload(t, kv).MealPlan()
	require.Len(t, plan, 1)
	assert.Equal(t, model.Lunch, plan[0].Slot)
}

func TestHealthLogs(t *testing.T) {
	s, kv := newState(t)

	require.NoError(t, s.SetCycleSettings(model.CycleSettings{StartDate: "2024-01-01", Length: 28, PeriodDuration: 5}))
	require.Error(t, s.SetCycleSettings(model.CycleSettings{Length: 5, PeriodDuration: 5}))

	_, err := s.LogCycle(model.CycleLogEntry{Date: "2024-01-02", Flow: "Heavy"})
	require.NoError(t, err)
	_, err = s.LogCycle(model.CycleLogEntry{Date: "2024-01-02", Flow: "medium", Mood: "calm"})
	require.NoError(t, err)
	_, err = s.LogCycle(model.CycleLogEntry{Flow: "gushing"})
	require.Error(t, err)

	_, err = s.LogSleep(model.SleepEntry{Bedtime: "23:15", WakeTime: "07:00", Quality: 4})
	require.NoError(t, err)
	_, err = s.LogSleep(model.SleepEntry{Bedtime: "late", WakeTime: "07:00"})
	require.Error(t, err)

	_, err = s.AddWater("", 250)
	require.NoError(t, err)
	_, err = s.AddWater("", 500)
	require.NoError(t, err)
	_, err = s.AddWater("", 0)
	require.Error(t, err)

	removed, ok, err := s.UndoWater("")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 500, removed.Amount)

	_, ok, err = s.UndoWater("2023-01-01")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.UpdateProfile(model.Profile{Name: " Sam ", HeightCm: 170, WeightKg: 65}))

	p := reload(t, kv)
	assert.Equal(t, 28, p.CycleSettings().Length)
	require.Len(t, p.CycleLog(), 1)
	assert.Equal(t, "medium", p.CycleLog()[0].Flow)
	require.Len(t, p.SleepLog(), 1)
	assert.Equal(t, "2024-01-17", p.SleepLog()[0].Date)
	require.Len(t, p.WaterLog(), 1)
	assert.Equal(t, 250, p.WaterLog()[0].Amount)
	assert.Equal(t, "Sam", p.Profile().Name)
}

func TestReplace(t *testing.T) {
	s, kv := newState(t)
	_, err := s.AddTodo("old", "")
	require.NoError(t, err)

	snap := model.Snapshot{
		Todos:   []model.Todo{{ID: "t1", Title: "imported"}},
		Profile: model.Profile{Name: "Imported"},
	}
	require.NoError(t, s.Replace(snap))

	p := reload(t, kv)
	require.Len(t, p.Todos(), 1)
	assert.Equal(t, "imported", p.Todos()[0].Title)
	assert.Equal(t, "Imported", p.Profile().Name)

	keys, err := kv.Keys()
	require.NoError(t, err)
	assert.Len(t, keys, len(store.AllKeys))
}

func TestEventDefaults(t *testing.T) {
	s, _ := newState(t)

	ev, err := s.AddEvent(model.CalendarEvent{Title: "Yoga", Start: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, model.EventGeneral, ev.Type)
	assert.Equal(t, fixedNow.Add(time.Hour), ev.End)
	assert.NotEmpty(t, ev.Color)

	_, err = s.AddEvent(model.CalendarEvent{Title: "Backwards", Start: fixedNow, End: fixedNow.Add(-time.Minute)})
	require.Error(t, err)

	require.NoError(t, s.DeleteEvent(ev.ID))
	assert.Empty(t, s.Events())
}
