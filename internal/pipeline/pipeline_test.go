package pipeline

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/tend/internal/config"
	"github.com/theirongolddev/tend/internal/cycle"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/source"
	"github.com/theirongolddev/tend/internal/state"
	"github.com/theirongolddev/tend/internal/store"
)

var fixedNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)

func day(s string) time.Time {
	t, err := model.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func openTest(t *testing.T) (*store.Store, *state.State) {
	t.Helper()
	kv, result, err := Open(filepath.Join(t.TempDir(), "tend.db"),
		state.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv, result.State
}

func TestAggregateWaterFillsGaps(t *testing.T) {
	entries := []model.WaterEntry{
		{Date: "2024-01-13", Amount: 250},
		{Date: "2024-01-13", Amount: 500},
		{Date: "2024-01-15", Amount: 300},
		{Date: "2024-01-20", Amount: 999},
	}
	days := AggregateWater(entries, day("2024-01-12"), day("2024-01-15"), 2000)

	require.Len(t, days, 4)
	assert.Equal(t, "2024-01-15", model.DayKey(days[0].Date), "most recent first")
	assert.Equal(t, 300, days[0].Total)
	assert.Equal(t, 0, days[1].Total)
	assert.Equal(t, 750, days[2].Total)
	assert.Equal(t, 2, days[2].Drinks)
	assert.Equal(t, 2000, days[3].Goal)
}

func TestWaterStreak(t *testing.T) {
	rows := func(totals ...int) []model.DailyWater {
		out := make([]model.DailyWater, len(totals))
		for i, v := range totals {
			out[i] = model.DailyWater{Total: v, Goal: 2000}
		}
		return out
	}
	tests := []struct {
		name string
		days []model.DailyWater
		want int
	}{
		{"today met", rows(2000, 2100, 500), 2},
		{"today pending", rows(300, 2000, 2500, 100, 2000), 2},
		{"nothing", rows(0, 0), 0},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WaterStreak(tt.days))
		})
	}
}

func TestSleepAggregation(t *testing.T) {
	entries := []model.SleepEntry{
		{Date: "2024-01-13", Bedtime: "23:00", WakeTime: "07:00", Quality: 4},
		{Date: "2024-01-14", Bedtime: "01:30", WakeTime: "07:00", Quality: 2},
		{Date: "2024-01-15", Bedtime: "bad", WakeTime: "07:00"},
	}
	days := AggregateSleep(entries, day("2024-01-12"), day("2024-01-15"))
	require.Len(t, days, 4)
	assert.False(t, days[0].Logged, "unparseable entry is not logged")
	assert.Equal(t, 5*time.Hour+30*time.Minute, days[1].Duration)
	assert.Equal(t, 8*time.Hour, days[2].Duration)

	sum := SummarizeSleep(days, 7*time.Hour)
	assert.Equal(t, 2, sum.Nights)
	assert.Equal(t, 1, sum.NightsOnGoal)
	assert.Equal(t, 6*time.Hour+45*time.Minute, sum.AvgDuration)
	assert.InDelta(t, 3.0, sum.AvgQuality, 0.001)
	assert.Equal(t, 5*time.Hour+30*time.Minute, sum.Shortest)
	assert.Equal(t, 8*time.Hour, sum.Longest)
}

func TestToday(t *testing.T) {
	_, st := openTest(t)
	cfg := config.DefaultConfig()

	_, err := st.AddTransaction(model.Transaction{Type: model.Income, Category: "Salary", Date: "2024-01-01", Amount: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	_, err = st.AddTransaction(model.Transaction{Type: model.Expense, Category: "Food", Date: "2024-01-10", Amount: decimal.NewFromInt(40)})
	require.NoError(t, err)

	_, err = st.AddHabit(model.Habit{Name: "Walk", Type: model.DailyBoolean})
	require.NoError(t, err)
	_, err = st.AddHabit(model.Habit{Name: "Read", Type: model.WeeklyFrequency, TargetPerWeek: 3})
	require.NoError(t, err)
	_, err = st.RecordHabit("Walk", "2024-01-15")
	require.NoError(t, err)

	_, err = st.SetMeal(model.MealPlanEntry{Day: "2024-01-15", Slot: model.Breakfast, MealName: "Overnight Oats", Servings: 1})
	require.NoError(t, err)
	require.NoError(t, st.SetCycleSettings(model.CycleSettings{StartDate: "2024-01-01", Length: 28, PeriodDuration: 5}))
	for i := 0; i < 2; i++ {
		_, err = st.AddWater("2024-01-15", 250)
		require.NoError(t, err)
	}
	_, err = st.LogSleep(model.SleepEntry{Date: "2024-01-15", Bedtime: "23:00", WakeTime: "07:00", Quality: 4})
	require.NoError(t, err)
	_, err = st.AddTodo("Call the bank", "2024-01-15")
	require.NoError(t, err)

	s := Today(st, cfg, fixedNow)

	assert.Equal(t, model.Monthly, s.Period)
	assert.Equal(t, "2024-01", s.Budget.Key)
	assert.True(t, s.Remaining.Equal(decimal.NewFromInt(960)), "remaining = %s", s.Remaining)

	require.Len(t, s.Habits, 2)
	assert.Equal(t, 1, s.HabitsDone)
	assert.Equal(t, "done today", s.Habits[0].Status)
	assert.Equal(t, 1, s.Habits[0].Streak)
	assert.Equal(t, "0 of 3 per week", s.Habits[1].Status)

	require.Len(t, s.Meals, 1)
	assert.Greater(t, s.Nutrition.Calories, 0.0)

	assert.Equal(t, cycle.Ovulation, s.Cycle.Phase)
	assert.Equal(t, 15, s.Cycle.Day)

	assert.Equal(t, 500, s.Water.Total)
	assert.Equal(t, 8*time.Hour, s.Sleep.Duration)
	assert.Equal(t, 1, s.OpenTodos)

	var titles []string
	for _, it := range s.Agenda {
		titles = append(titles, it.Title)
	}
	assert.Contains(t, titles, "To-do: Call the bank")
	assert.Contains(t, titles, "Ovulation")
	assert.Contains(t, titles, "Breakfast: Overnight Oats")
}

func TestTodayUsesConfiguredPeriod(t *testing.T) {
	_, st := openTest(t)
	cfg := config.DefaultConfig()
	cfg.Budget.Period = "weekly"

	// Sunday before and Monday of the week containing fixedNow.
	_, err := st.AddTransaction(model.Transaction{Type: model.Expense, Category: "Food", Date: "2024-01-14", Amount: decimal.NewFromInt(30)})
	require.NoError(t, err)
	_, err = st.AddTransaction(model.Transaction{Type: model.Expense, Category: "Food", Date: "2024-01-15", Amount: decimal.NewFromInt(12)})
	require.NoError(t, err)

	s := Today(st, cfg, fixedNow)
	assert.Equal(t, model.Weekly, s.Period)
	assert.Equal(t, "2024-01-15", s.Budget.Key)
	assert.True(t, s.Budget.Expenses.Equal(decimal.NewFromInt(12)), "expenses = %s", s.Budget.Expenses)
	assert.Equal(t, model.Weekly, BudgetSettings(st, cfg).Period)

	// A stored period wins over the configured one.
	require.NoError(t, st.UpdateBudgetSettings(model.BudgetSettings{Period: model.Monthly}))
	s = Today(st, cfg, fixedNow)
	assert.Equal(t, model.Monthly, s.Period)
	assert.Equal(t, "2024-01", s.Budget.Key)
}

func TestTodayEmpty(t *testing.T) {
	_, st := openTest(t)
	s := Today(st, config.DefaultConfig(), fixedNow)
	assert.False(t, s.Cycle.Tracked)
	assert.Equal(t, cycle.NotTracked, s.Cycle.Phase)
	assert.Empty(t, s.Habits)
	assert.True(t, s.Remaining.IsZero())
	assert.Equal(t, 2000, s.Water.Goal)
}

func writeDump(t *testing.T, dir, name, body string, mtime time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestImportNewestWinsAndSkipsUnchanged(t *testing.T) {
	kv, st := openTest(t)
	dir := t.TempDir()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	writeDump(t, dir, "a.json", `{
		"todos": [{"id":"old","title":"Old todo","done":false}],
		"profile": "{\"name\":\"Sam\"}"
	}`, base)
	writeDump(t, dir, "b.json", `{
		"todos": "[{\"id\":\"new\",\"title\":\"New todo\",\"done\":false}]",
		"waterLog": "garbage",
		"theme": "dark"
	}`, base.Add(time.Hour))

	files, err := source.ScanDir(dir)
	require.NoError(t, err)

	var calls atomic.Int32
	res, err := Import(st, kv, files, false, func(_, total int) {
		calls.Add(1)
		assert.Equal(t, 2, total)
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.ParsedFiles)
	assert.Equal(t, 1, res.ParseErrors)
	assert.Equal(t, 1, res.UnknownKeys)
	assert.Equal(t, []string{store.KeyProfile, store.KeyTodos}, res.Keys)
	assert.Equal(t, int32(2), calls.Load())

	require.Len(t, st.Todos(), 1)
	assert.Equal(t, "new", st.Todos()[0].ID)
	assert.Equal(t, "Sam", st.Profile().Name)

	reloaded, err := Load(kv)
	require.NoError(t, err)
	assert.Equal(t, "new", reloaded.State.Todos()[0].ID)
	assert.Equal(t, len(store.AllKeys), reloaded.Keys, "import persists every feature key")

	again, err := Import(st, kv, files, false, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Unchanged)
	assert.Zero(t, again.ParsedFiles)

	forced, err := Import(st, kv, files, true, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, forced.ParsedFiles)
}
