// Package pipeline orchestrates loading, importing and the cross-feature
// aggregations the dashboard and reports are built from.
package pipeline

import (
	"sort"
	"time"

	"github.com/theirongolddev/tend/internal/model"
)

// AggregateWater computes per-day hydration for every day in
// [since, until], most recent first. Days without drinks are zero rows.
func AggregateWater(entries []model.WaterEntry, since, until time.Time, goal int) []model.DailyWater {
	dayMap := make(map[string]*model.DailyWater)
	fillDays(since, until, func(key string, day time.Time) {
		dayMap[key] = &model.DailyWater{Date: day, Goal: goal}
	})

	for _, e := range entries {
		dw, ok := dayMap[e.Date]
		if !ok {
			continue
		}
		dw.Total += e.Amount
		dw.Drinks++
	}

	days := make([]model.DailyWater, 0, len(dayMap))
	for _, dw := range dayMap {
		days = append(days, *dw)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})
	return days
}

// AggregateSleep computes one row per day in [since, until], most recent
// first. Entries whose times do not parse are treated as not logged.
func AggregateSleep(entries []model.SleepEntry, since, until time.Time) []model.DailySleep {
	dayMap := make(map[string]*model.DailySleep)
	fillDays(since, until, func(key string, day time.Time) {
		dayMap[key] = &model.DailySleep{Date: day}
	})

	for _, e := range entries {
		ds, ok := dayMap[e.Date]
		if !ok {
			continue
		}
		d, err := e.Duration()
		if err != nil {
			continue
		}
		ds.Duration = d
		ds.Quality = e.Quality
		ds.Logged = true
	}

	days := make([]model.DailySleep, 0, len(dayMap))
	for _, ds := range dayMap {
		days = append(days, *ds)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})
	return days
}

// SummarizeSleep averages the logged nights in days.
func SummarizeSleep(days []model.DailySleep, target time.Duration) model.SleepSummary {
	var (
		sum          model.SleepSummary
		total        time.Duration
		qualitySum   int
		qualityCount int
	)
	for _, d := range days {
		if !d.Logged {
			continue
		}
		sum.Nights++
		total += d.Duration
		if d.Quality > 0 {
			qualitySum += d.Quality
			qualityCount++
		}
		if target > 0 && d.Duration >= target {
			sum.NightsOnGoal++
		}
		if sum.Shortest == 0 || d.Duration < sum.Shortest {
			sum.Shortest = d.Duration
		}
		if d.Duration > sum.Longest {
			sum.Longest = d.Duration
		}
	}
	if sum.Nights > 0 {
		sum.AvgDuration = total / time.Duration(sum.Nights)
	}
	if qualityCount > 0 {
		sum.AvgQuality = float64(qualitySum) / float64(qualityCount)
	}
	return sum
}

// WaterStreak counts consecutive days ending at the most recent row that met
// the goal. The most recent day is skipped if it has not met the goal yet.
func WaterStreak(days []model.DailyWater) int {
	streak := 0
	for i, d := range days {
		if d.Goal > 0 && d.Total >= d.Goal {
			streak++
			continue
		}
		if i == 0 {
			continue
		}
		break
	}
	return streak
}

// fillDays calls fn for every calendar day in [since, until].
func fillDays(since, until time.Time, fn func(key string, day time.Time)) {
	end := model.StartOfDay(until)
	for day := model.StartOfDay(since); !day.After(end); day = day.AddDate(0, 0, 1) {
		fn(model.DayKey(day), day)
	}
}
