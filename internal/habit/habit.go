// Package habit interprets habit histories. All functions are pure: updates
// return a new habit and leave the input untouched.
package habit

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/tend/internal/model"
)

// Value returns the recorded count for day.
func Value(h model.Habit, day string) int {
	return h.History[day]
}

// DoneOn reports whether the habit counts as kept on day. For quit habits a
// day is kept when no slip was recorded.
func DoneOn(h model.Habit, day string) bool {
	if h.Type == model.QuitHabit {
		return Value(h, day) == 0
	}
	return Value(h, day) > 0
}

// WeekRange returns the [start, end) week containing t.
func WeekRange(t time.Time, weekStart time.Weekday) (time.Time, time.Time) {
	start := model.WeekStart(t, weekStart)
	return start, start.AddDate(0, 0, 7)
}

// WeeklyProgress sums daily values over the 7 days of t's week.
func WeeklyProgress(h model.Habit, t time.Time, weekStart time.Weekday) int {
	start, _ := WeekRange(t, weekStart)
	total := 0
	for i := 0; i < 7; i++ {
		total += Value(h, model.DayKey(start.AddDate(0, 0, i)))
	}
	return total
}

// Record applies the natural action for the habit type: toggle a daily
// check, add a weekly completion, or toggle a slip on a quit habit.
func Record(h model.Habit, day string) model.Habit {
	if h.Type == model.WeeklyFrequency {
		return Increment(h, day)
	}
	return Toggle(h, day)
}

// Toggle flips day between recorded (1) and unrecorded.
func Toggle(h model.Habit, day string) model.Habit {
	out := withHistoryCopy(h)
	if out.History[day] > 0 {
		delete(out.History, day)
	} else {
		out.History[day] = 1
	}
	return out
}

// Increment adds one completion on day.
func Increment(h model.Habit, day string) model.Habit {
	out := withHistoryCopy(h)
	out.History[day]++
	return out
}

// Decrement removes one completion on day, dropping the entry at zero.
func Decrement(h model.Habit, day string) model.Habit {
	out := withHistoryCopy(h)
	if out.History[day] <= 1 {
		delete(out.History, day)
	} else {
		out.History[day]--
	}
	return out
}

func withHistoryCopy(h model.Habit) model.Habit {
	hist := make(map[string]int, len(h.History)+1)
	for k, v := range h.History {
		hist[k] = v
	}
	h.History = hist
	return h
}

// Streak counts consecutive kept days ending today. For daily and weekly
// habits an unchecked today does not break the streak; it starts from
// yesterday. For quit habits it is the number of clean days since the last
// slip, or since creation.
func Streak(h model.Habit, today time.Time) int {
	today = model.StartOfDay(today)
	if h.Type == model.QuitHabit {
		return cleanDays(h, today)
	}

	d := today
	if !DoneOn(h, model.DayKey(d)) {
		d = d.AddDate(0, 0, -1)
	}
	n := 0
	for DoneOn(h, model.DayKey(d)) {
		n++
		d = d.AddDate(0, 0, -1)
	}
	return n
}

func cleanDays(h model.Habit, today time.Time) int {
	todayKey := model.DayKey(today)
	last := ""
	for day, v := range h.History {
		if v > 0 && day <= todayKey && day > last {
			last = day
		}
	}
	var from time.Time
	if last != "" {
		slip, err := model.ParseDay(last)
		if err != nil {
			return 0
		}
		from = slip.AddDate(0, 0, 1)
	} else if !h.CreatedAt.IsZero() {
		from = model.StartOfDay(h.CreatedAt.In(today.Location()))
	} else {
		return 0
	}
	n := model.DaysBetween(from, today) + 1
	if n < 0 {
		return 0
	}
	return n
}

// CompletionRate returns the share of the last days days (ending today) on
// which the habit was kept.
func CompletionRate(h model.Habit, today time.Time, days int) float64 {
	if days <= 0 {
		return 0
	}
	kept := 0
	d := model.StartOfDay(today)
	for i := 0; i < days; i++ {
		if DoneOn(h, model.DayKey(d.AddDate(0, 0, -i))) {
			kept++
		}
	}
	return float64(kept) / float64(days)
}

// Status is the one-line progress shown next to a habit.
func Status(h model.Habit, today time.Time, weekStart time.Weekday) string {
	switch h.Type {
	case model.WeeklyFrequency:
		return fmt.Sprintf("%d of %d per week", WeeklyProgress(h, today, weekStart), h.TargetPerWeek)
	case model.QuitHabit:
		n := Streak(h, today)
		if n == 1 {
			return "1 day clean"
		}
		return fmt.Sprintf("%d days clean", n)
	default:
		if DoneOn(h, model.DayKey(today)) {
			return "done today"
		}
		return "not done"
	}
}

// Complete reports whether the habit needs no more attention today.
func Complete(h model.Habit, today time.Time, weekStart time.Weekday) bool {
	switch h.Type {
	case model.WeeklyFrequency:
		return WeeklyProgress(h, today, weekStart) >= h.TargetPerWeek
	case model.QuitHabit:
		return DoneOn(h, model.DayKey(today))
	default:
		return DoneOn(h, model.DayKey(today))
	}
}

// ParseType accepts the stored names and short aliases.
func ParseType(s string) (model.HabitType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "daily_boolean", "":
		return model.DailyBoolean, nil
	case "weekly", "weekly_frequency":
		return model.WeeklyFrequency, nil
	case "quit", "quit_habit":
		return model.QuitHabit, nil
	}
	return "", model.Invalid("type", "must be daily, weekly or quit, got %q", s)
}

// Validate checks a habit before it is stored.
func Validate(h model.Habit) error {
	if strings.TrimSpace(h.Name) == "" {
		return model.Invalid("name", "is required")
	}
	if !h.Type.Valid() {
		return model.Invalid("type", "unknown habit type %q", h.Type)
	}
	if h.Type == model.WeeklyFrequency && (h.TargetPerWeek < 1 || h.TargetPerWeek > 50) {
		return model.Invalid("target", "must be between 1 and 50 per week, got %d", h.TargetPerWeek)
	}
	if r := h.Reminder; r != nil && (r.Hour < 0 || r.Hour > 23 || r.Minute < 0 || r.Minute > 59) {
		return model.Invalid("reminder", "invalid time %02d:%02d", r.Hour, r.Minute)
	}
	return nil
}

// ParseReminder parses "HH:MM" into a reminder time.
func ParseReminder(s string) (*model.ReminderTime, error) {
	d, err := model.ParseClock(s)
	if err != nil {
		return nil, model.Invalid("reminder", "%v", err)
	}
	return &model.ReminderTime{Hour: int(d.Hours()), Minute: int(d.Minutes()) % 60}, nil
}
