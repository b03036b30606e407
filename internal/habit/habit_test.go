package habit

import (
	"math/rand"
	"testing"
	"time"

	"github.com/theirongolddev/tend/internal/model"
)

func day(s string) time.Time {
	t, err := model.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRecordByType(t *testing.T) {
	daily := model.Habit{Type: model.DailyBoolean}
	daily = Record(daily, "2024-01-01")
	if Value(daily, "2024-01-01") != 1 {
		t.Fatalf("daily not checked: %v", daily.History)
	}
	daily = Record(daily, "2024-01-01")
	if _, ok := daily.History["2024-01-01"]; ok {
		t.Fatalf("daily not unchecked: %v", daily.History)
	}

	weekly := model.Habit{Type: model.WeeklyFrequency, TargetPerWeek: 3}
	weekly = Record(Record(weekly, "2024-01-01"), "2024-01-01")
	if Value(weekly, "2024-01-01") != 2 {
		t.Fatalf("weekly value = %d, want 2", Value(weekly, "2024-01-01"))
	}
	weekly = Decrement(weekly, "2024-01-01")
	if Value(weekly, "2024-01-01") != 1 {
		t.Fatalf("after decrement = %d, want 1", Value(weekly, "2024-01-01"))
	}
}

func TestUpdatesDoNotMutateInput(t *testing.T) {
	orig := model.Habit{Type: model.DailyBoolean, History: map[string]int{"2024-01-01": 1}}
	_ = Toggle(orig, "2024-01-02")
	_ = Increment(orig, "2024-01-01")
	if len(orig.History) != 1 || orig.History["2024-01-01"] != 1 {
		t.Errorf("input history mutated: %v", orig.History)
	}
}

func TestWeeklyProgressEqualsSumOfDays(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	h := model.Habit{Type: model.WeeklyFrequency, TargetPerWeek: 5}
	monday := day("2024-01-15")

	want := 0
	for i := 0; i < 40; i++ {
		offset := rng.Intn(14) - 3
		d := monday.AddDate(0, 0, offset)
		h = Increment(h, model.DayKey(d))
		if offset >= 0 && offset < 7 {
			want++
		}
	}

	for i := 0; i < 7; i++ {
		if got := WeeklyProgress(h, monday.AddDate(0, 0, i), time.Monday); got != want {
			t.Fatalf("WeeklyProgress on day %d = %d, want %d", i, got, want)
		}
	}
}

func TestStreak(t *testing.T) {
	h := model.Habit{Type: model.DailyBoolean, History: map[string]int{
		"2024-01-10": 1, "2024-01-11": 1, "2024-01-12": 1, "2024-01-08": 1,
	}}

	if got := Streak(h, day("2024-01-12")); got != 3 {
		t.Errorf("Streak including today = %d, want 3", got)
	}
	if got := Streak(h, day("2024-01-13")); got != 3 {
		t.Errorf("Streak with today open = %d, want 3", got)
	}
	if got := Streak(h, day("2024-01-14")); got != 0 {
		t.Errorf("Streak after a missed day = %d, want 0", got)
	}
}

func TestQuitStreak(t *testing.T) {
	created := day("2024-01-01").Add(15 * time.Hour)
	h := model.Habit{Type: model.QuitHabit, CreatedAt: created, History: map[string]int{}}

	if got := Streak(h, day("2024-01-10")); got != 10 {
		t.Errorf("clean days since creation = %d, want 10", got)
	}

	h = Record(h, "2024-01-05")
	if got := Streak(h, day("2024-01-10")); got != 5 {
		t.Errorf("clean days since slip = %d, want 5", got)
	}
	if got := Status(h, day("2024-01-06"), time.Monday); got != "1 day clean" {
		t.Errorf("Status = %q", got)
	}

	h = Record(h, "2024-01-10")
	if got := Streak(h, day("2024-01-10")); got != 0 {
		t.Errorf("slip today = %d, want 0", got)
	}
}

func TestStatusAndComplete(t *testing.T) {
	today := day("2024-01-17")
	weekly := model.Habit{Type: model.WeeklyFrequency, TargetPerWeek: 3, History: map[string]int{
		"2024-01-15": 1, "2024-01-17": 1, "2024-01-10": 4,
	}}
	if got := Status(weekly, today, time.Monday); got != "2 of 3 per week" {
		t.Errorf("Status = %q, want 2 of 3 per week", got)
	}
	if Complete(weekly, today, time.Monday) {
		t.Error("weekly habit complete below target")
	}
	weekly = Increment(weekly, "2024-01-18")
	if !Complete(weekly, today, time.Monday) {
		t.Error("weekly habit incomplete at target")
	}

	daily := model.Habit{Type: model.DailyBoolean}
	if got := Status(daily, today, time.Monday); got != "not done" {
		t.Errorf("Status = %q", got)
	}
}

func TestCompletionRate(t *testing.T) {
	h := model.Habit{Type: model.DailyBoolean, History: map[string]int{"2024-01-10": 1, "2024-01-09": 1}}
	if got := CompletionRate(h, day("2024-01-10"), 4); got != 0.5 {
		t.Errorf("CompletionRate = %v, want 0.5", got)
	}
}

func TestValidateAndParse(t *testing.T) {
	if _, err := ParseType("monthly"); err == nil {
		t.Error("ParseType accepted monthly")
	}
	typ, err := ParseType("weekly")
	if err != nil || typ != model.WeeklyFrequency {
		t.Errorf("ParseType(weekly) = %v, %v", typ, err)
	}
	if err := Validate(model.Habit{Name: "Run", Type: model.WeeklyFrequency}); err == nil {
		t.Error("weekly habit without target accepted")
	}
	r, err := ParseReminder("07:45")
	if err != nil || r.Hour != 7 || r.Minute != 45 {
		t.Errorf("ParseReminder = %+v, %v", r, err)
	}
	if _, err := ParseReminder("7pm"); err == nil {
		t.Error("ParseReminder accepted 7pm")
	}
}
