package model

import (
	"fmt"
	"time"
)

// SleepEntry is one night of sleep, keyed by the day the user woke up.
// Bedtime and WakeTime are "HH:MM" wall-clock times.
type SleepEntry struct {
	Date     string `json:"date" yaml:"date"`
	Bedtime  string `json:"bedtime" yaml:"bedtime"`
	WakeTime string `json:"wakeTime" yaml:"wake_time"`
	Quality  int    `json:"quality,omitempty" yaml:"quality,omitempty"`
	Notes    string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Duration returns time asleep, wrapping past midnight when the wake time
// is earlier than the bedtime.
func (s SleepEntry) Duration() (time.Duration, error) {
	bed, err := ParseClock(s.Bedtime)
	if err != nil {
		return 0, err
	}
	wake, err := ParseClock(s.WakeTime)
	if err != nil {
		return 0, err
	}
	d := wake - bed
	if d <= 0 {
		d += 24 * time.Hour
	}
	return d, nil
}

// ParseClock parses "HH:MM" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

// WaterEntry is a single drink.
type WaterEntry struct {
	Date   string    `json:"date" yaml:"date"`
	Amount int       `json:"amount" yaml:"amount"`
	At     time.Time `json:"at" yaml:"at"`
}

// Profile holds personal details used for goals and display.
type Profile struct {
	Name      string   `json:"name" yaml:"name"`
	BirthDate string   `json:"birthDate,omitempty" yaml:"birth_date,omitempty"`
	HeightCm  float64  `json:"heightCm,omitempty" yaml:"height_cm,omitempty"`
	WeightKg  float64  `json:"weightKg,omitempty" yaml:"weight_kg,omitempty"`
	Goals     []string `json:"goals,omitempty" yaml:"goals,omitempty"`
}

// BMI returns the body mass index, or 0 when height or weight is unknown.
func (p Profile) BMI() float64 {
	if p.HeightCm <= 0 || p.WeightKg <= 0 {
		return 0
	}
	m := p.HeightCm / 100
	return p.WeightKg / (m * m)
}

// DailyWater holds hydration for a single calendar day.
type DailyWater struct {
	Date   time.Time
	Total  int
	Drinks int
	Goal   int
}

// DailySleep holds sleep for a single calendar day.
type DailySleep struct {
	Date     time.Time
	Duration time.Duration
	Quality  int
	Logged   bool
}

// SleepSummary aggregates a window of sleep entries.
type SleepSummary struct {
	Nights       int
	AvgDuration  time.Duration
	AvgQuality   float64
	NightsOnGoal int
	Shortest     time.Duration
	Longest      time.Duration
}
