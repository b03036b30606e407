package model

import "time"

// HabitType selects how a habit's history is interpreted.
type HabitType string

const (
	// DailyBoolean is done or not done each day.
	DailyBoolean HabitType = "daily_boolean"
	// WeeklyFrequency counts completions toward a weekly target.
	WeeklyFrequency HabitType = "weekly_frequency"
	// QuitHabit records slips; a clean day has no entry.
	QuitHabit HabitType = "quit_habit"
)

// Valid reports whether t is a known habit type.
func (t HabitType) Valid() bool {
	return t == DailyBoolean || t == WeeklyFrequency || t == QuitHabit
}

// ReminderTime is a local wall-clock time of day.
type ReminderTime struct {
	Hour   int `json:"hour" yaml:"hour"`
	Minute int `json:"minute" yaml:"minute"`
}

// Habit is a tracked habit. History maps a day key to a count: 1 for a
// checked daily habit, the number of completions for a weekly one, 1 for a
// slip on a quit habit.
type Habit struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Type          HabitType      `json:"type" yaml:"type"`
	TargetPerWeek int            `json:"targetPerWeek,omitempty" yaml:"target_per_week,omitempty"`
	History       map[string]int `json:"history" yaml:"history"`
	Reminder      *ReminderTime  `json:"reminder,omitempty" yaml:"reminder,omitempty"`
	CreatedAt     time.Time      `json:"createdAt" yaml:"created_at"`
}
