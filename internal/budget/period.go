// Package budget buckets transactions into weeks or months and derives the
// records that scheduled payments imply.
package budget

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/tend/internal/model"
)

// ParsePeriod accepts "week", "weekly", "month" or "monthly".
func ParsePeriod(s string) (model.Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week", "weekly", "w":
		return model.Weekly, nil
	case "month", "monthly", "m", "":
		return model.Monthly, nil
	}
	return "", model.Invalid("period", "must be weekly or monthly, got %q", s)
}

// PeriodRange returns the half-open [start, end) period containing t.
func PeriodRange(t time.Time, p model.Period, weekStart time.Weekday) (time.Time, time.Time) {
	if p == model.Weekly {
		start := model.WeekStart(t, weekStart)
		return start, start.AddDate(0, 0, 7)
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// PeriodKey returns the bucket key for t: the first day of the week
// ("2024-01-15") for weekly periods, "2024-01" for monthly ones.
func PeriodKey(t time.Time, p model.Period, weekStart time.Weekday) string {
	start, _ := PeriodRange(t, p, weekStart)
	if p == model.Weekly {
		return model.DayKey(start)
	}
	return start.Format("2006-01")
}

// PeriodLabel is a human label for the period starting at start.
func PeriodLabel(start time.Time, p model.Period) string {
	if p == model.Weekly {
		end := start.AddDate(0, 0, 6)
		return fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2"))
	}
	return start.Format("January 2006")
}
