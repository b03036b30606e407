// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount with a currency symbol, two decimals and
// comma separators. e.g., 1234.5 -> "$1,234.50"
func FormatMoney(d decimal.Decimal, symbol string) string {
	if d.IsNegative() {
		return "-" + FormatMoney(d.Neg(), symbol)
	}
	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return symbol + fixed
	}
	return symbol + FormatNumber(n) + "." + frac
}

// FormatML formats a water amount, switching to litres from 1000 ml.
// e.g., 250 -> "250 ml", 1750 -> "1.75 L"
func FormatML(ml int) string {
	if ml >= 1000 || ml <= -1000 {
		s := strconv.FormatFloat(float64(ml)/1000, 'f', 2, 64)
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
		return s + " L"
	}
	return fmt.Sprintf("%d ml", ml)
}

// FormatHours formats a duration as hours and minutes.
// e.g., 7h30m -> "7h 30m", 45m -> "45m"
func FormatHours(d time.Duration) string {
	if d <= 0 {
		return "0m"
	}
	d = d.Round(time.Minute)
	hours := int(d / time.Hour)
	mins := int((d % time.Hour) / time.Minute)
	if hours > 0 {
		return fmt.Sprintf("%dh %02dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDelta formats the change between two amounts with an explicit sign.
func FormatDelta(current, previous decimal.Decimal, symbol string) string {
	delta := current.Sub(previous)
	if delta.IsNegative() {
		return "-" + FormatMoney(delta.Neg(), symbol)
	}
	return "+" + FormatMoney(delta, symbol)
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// FormatDay formats a date for headings. e.g., "Mon Jan 15"
func FormatDay(t time.Time) string {
	return t.Format("Mon Jan 2")
}

// FormatClock formats the time of day, or "all day".
func FormatClock(t time.Time, allDay bool) string {
	if allDay {
		return "all day"
	}
	return t.Format("15:04")
}
