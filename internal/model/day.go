package model

import (
	"fmt"
	"time"
)

// DayLayout is the calendar-day key format used throughout stored data.
const DayLayout = "2006-01-02"

// DayKey formats t as a local calendar day.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses a calendar day in the local time zone.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves a day key by n calendar days.
func AddDays(day string, n int) string {
	t, err := ParseDay(day)
	if err != nil {
		return day
	}
	return DayKey(t.AddDate(0, 0, n))
}

// WeekStart returns local midnight of the first day of t's week.
func WeekStart(t time.Time, weekStart time.Weekday) time.Time {
	day := StartOfDay(t)
	back := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -back)
}

// DaysBetween returns whole calendar days from a to b, ignoring clock time
// and DST shifts.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
