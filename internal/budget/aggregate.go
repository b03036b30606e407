package budget

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tend/internal/model"
)

// FilterByTime returns transactions whose date falls in [since, until).
// Transactions with unparseable dates are dropped.
func FilterByTime(txs []model.Transaction, since, until time.Time) []model.Transaction {
	var out []model.Transaction
	for _, tx := range txs {
		d, err := model.ParseDay(tx.Date)
		if err != nil {
			continue
		}
		if !d.Before(since) && d.Before(until) {
			out = append(out, tx)
		}
	}
	return out
}

// Aggregate buckets transactions into periods, most recent first. Every
// transaction lands in exactly one bucket.
func Aggregate(txs []model.Transaction, p model.Period, weekStart time.Weekday) []model.PeriodStats {
	buckets := make(map[string]*model.PeriodStats)

	for _, tx := range txs {
		d, err := model.ParseDay(tx.Date)
		if err != nil {
			continue
		}
		key := PeriodKey(d, p, weekStart)
		ps, ok := buckets[key]
		if !ok {
			start, end := PeriodRange(d, p, weekStart)
			ps = &model.PeriodStats{Key: key, Start: start, End: end}
			buckets[key] = ps
		}
		accumulate(ps, tx)
	}

	result := make([]model.PeriodStats, 0, len(buckets))
	for _, ps := range buckets {
		result = append(result, *ps)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Start.After(result[j].Start)
	})
	return result
}

// Current returns totals for the period containing now, including an empty
// period when nothing has been recorded yet.
func Current(txs []model.Transaction, p model.Period, weekStart time.Weekday, now time.Time) model.PeriodStats {
	start, end := PeriodRange(now, p, weekStart)
	ps := model.PeriodStats{
		Key:   PeriodKey(now, p, weekStart),
		Start: start,
		End:   end,
	}
	for _, tx := range FilterByTime(txs, start, end) {
		accumulate(&ps, tx)
	}
	return ps
}

func accumulate(ps *model.PeriodStats, tx model.Transaction) {
	ps.Transactions++
	switch tx.Type {
	case model.Income:
		ps.Income = ps.Income.Add(tx.Effective())
	case model.Expense:
		ps.Planned = ps.Planned.Add(tx.Amount)
		if tx.Actual != nil {
			ps.Logged = ps.Logged.Add(*tx.Actual)
		}
		if tx.Pending() {
			ps.Pending++
			return
		}
		ps.Expenses = ps.Expenses.Add(tx.Effective())
	}
}

// ByCategory totals counted expenses per category in [since, until),
// largest first, with utilisation against the configured limits.
func ByCategory(txs []model.Transaction, since, until time.Time, limits map[string]decimal.Decimal) []model.CategoryStats {
	byName := make(map[string]*model.CategoryStats)
	total := decimal.Zero

	for _, tx := range FilterByTime(txs, since, until) {
		if tx.Type != model.Expense || !tx.Counts() {
			continue
		}
		name := tx.Category
		if name == "" {
			name = "Uncategorized"
		}
		cs, ok := byName[name]
		if !ok {
			cs = &model.CategoryStats{Category: name}
			if lim, ok := lookupLimit(limits, name); ok {
				cs.Limit = &lim
			}
			byName[name] = cs
		}
		cs.Spent = cs.Spent.Add(tx.Effective())
		cs.Transactions++
		total = total.Add(tx.Effective())
	}

	result := make([]model.CategoryStats, 0, len(byName))
	for _, cs := range byName {
		if total.IsPositive() {
			cs.SharePercent, _ = cs.Spent.Div(total).Mul(decimal.NewFromInt(100)).Float64()
		}
		result = append(result, *cs)
	}
	sort.Slice(result, func(i, j int) bool {
		if c := result[i].Spent.Cmp(result[j].Spent); c != 0 {
			return c > 0
		}
		return result[i].Category < result[j].Category
	})
	return result
}

func lookupLimit(limits map[string]decimal.Decimal, category string) (decimal.Decimal, bool) {
	if lim, ok := limits[category]; ok {
		return lim, true
	}
	for k, lim := range limits {
		if strings.EqualFold(k, category) {
			return lim, true
		}
	}
	return decimal.Zero, false
}

// Remaining returns the settings income minus counted expenses for a period.
func Remaining(settings model.BudgetSettings, ps model.PeriodStats) decimal.Decimal {
	base := settings.Income
	if base.IsZero() {
		base = ps.Income
	}
	return base.Sub(ps.Expenses)
}

// SortByDate orders transactions newest first, ties broken by id.
func SortByDate(txs []model.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].Date != txs[j].Date {
			return txs[i].Date > txs[j].Date
		}
		return txs[i].ID < txs[j].ID
	})
}

// ValidateTransaction checks user input before it is stored.
func ValidateTransaction(tx model.Transaction) error {
	if !tx.Type.Valid() {
		return model.Invalid("type", "must be expense or income, got %q", tx.Type)
	}
	if strings.TrimSpace(tx.Category) == "" {
		return model.Invalid("category", "is required")
	}
	if !tx.Amount.IsPositive() {
		return model.Invalid("amount", "must be a positive number")
	}
	if tx.Actual != nil && tx.Actual.IsNegative() {
		return model.Invalid("actual", "must not be negative")
	}
	if _, err := model.ParseDay(tx.Date); err != nil {
		return model.Invalid("date", "%v", err)
	}
	return nil
}

// ParseAmount parses a user-entered money amount.
func ParseAmount(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(s), "$€£"))
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero, model.Invalid(field, "%q is not a number", s)
	}
	if !d.IsPositive() {
		return decimal.Zero, model.Invalid(field, "must be a positive number")
	}
	return d, nil
}
