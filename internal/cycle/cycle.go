// Package cycle computes cycle day and phase from a tracked start date.
package cycle

import (
	"time"

	"github.com/theirongolddev/tend/internal/model"
)

// Phase is a named part of the cycle.
type Phase string

const (
	NotTracked   Phase = "Not tracked"
	Menstruation Phase = "Menstruation"
	Follicular   Phase = "Follicular Phase"
	Ovulation    Phase = "Ovulation (Fertile Window)"
	Luteal       Phase = "Luteal Phase"
	Awaiting     Phase = "Awaiting new cycle"
)

// Order returns the phase's position within a cycle, used for ordering
// and coloring. Untracked sorts first, awaiting last.
func (p Phase) Order() int {
	switch p {
	case Menstruation:
		return 1
	case Follicular:
		return 2
	case Ovulation:
		return 3
	case Luteal:
		return 4
	case Awaiting:
		return 5
	default:
		return 0
	}
}

// lutealDays is the fixed length of the luteal phase; ovulation falls this
// many days before the end of the cycle.
const lutealDays = 14

// OvulationDay returns the zero-based offset of ovulation within a cycle.
func OvulationDay(length int) int {
	return length - lutealDays
}

// DayOffset returns whole calendar days from start to target, ignoring
// clock time and DST shifts.
func DayOffset(start, target time.Time) int {
	return model.DaysBetween(start, target)
}

// PhaseFor buckets a zero-based offset into a phase. Offsets at or past the
// cycle length mean the next period has not been logged yet.
func PhaseFor(offset, length, periodDuration int) Phase {
	ov := OvulationDay(length)
	switch {
	case offset < 0:
		return NotTracked
	case offset < periodDuration:
		return Menstruation
	case offset < ov:
		return Follicular
	case offset <= ov+1:
		return Ovulation
	case offset < length:
		return Luteal
	default:
		return Awaiting
	}
}

// Status describes a target day relative to the tracked cycle.
type Status struct {
	Tracked bool
	// Offset is the raw number of days since the start date.
	Offset int
	// Day is the one-based day within the current cycle.
	Day   int
	Phase Phase
	// Cycle counts whole cycles elapsed since the start date.
	Cycle           int
	DaysUntilPeriod int
	NextPeriod      time.Time
}

// Calculate returns the cycle status of target. With predict set, phases
// repeat every cycle length; without it, any day past the first cycle is
// reported as awaiting a new cycle.
func Calculate(s model.CycleSettings, target time.Time, predict bool) Status {
	s = withDefaults(s)
	start, err := model.ParseDay(s.StartDate)
	if err != nil {
		return Status{Phase: NotTracked}
	}

	offset := DayOffset(start, target)
	if offset < 0 {
		return Status{Phase: NotTracked, Offset: offset}
	}

	st := Status{
		Tracked: true,
		Offset:  offset,
		Day:     offset%s.Length + 1,
		Cycle:   offset / s.Length,
	}
	if predict {
		st.Phase = PhaseFor(offset%s.Length, s.Length, s.PeriodDuration)
	} else {
		st.Phase = PhaseFor(offset, s.Length, s.PeriodDuration)
	}
	st.NextPeriod = start.AddDate(0, 0, (st.Cycle+1)*s.Length)
	st.DaysUntilPeriod = DayOffset(target, st.NextPeriod)
	return st
}

// FertileWindow returns the inclusive first and last fertile days of the
// cycle containing target: five days before ovulation through the day after,
// never overlapping the period. ok is false when the period leaves no window.
func FertileWindow(s model.CycleSettings, target time.Time) (time.Time, time.Time, bool) {
	s = withDefaults(s)
	st := Calculate(s, target, true)
	if !st.Tracked {
		return time.Time{}, time.Time{}, false
	}
	start, _ := model.ParseDay(s.StartDate)
	cycleStart := start.AddDate(0, 0, st.Cycle*s.Length)
	ov := OvulationDay(s.Length)
	from := ov - 5
	if from < s.PeriodDuration {
		from = s.PeriodDuration
	}
	if from > ov+1 {
		return time.Time{}, time.Time{}, false
	}
	return cycleStart.AddDate(0, 0, from), cycleStart.AddDate(0, 0, ov+1), true
}

// Prediction is a predicted phase for one day.
type Prediction struct {
	Day         time.Time
	Phase       Phase
	PeriodStart bool
}

// Predict returns the period and ovulation days in [from, to).
func Predict(s model.CycleSettings, from, to time.Time) []Prediction {
	s = withDefaults(s)
	var out []Prediction
	for d := model.StartOfDay(from); d.Before(to); d = d.AddDate(0, 0, 1) {
		st := Calculate(s, d, true)
		if !st.Tracked {
			continue
		}
		if st.Phase == Menstruation || st.Phase == Ovulation {
			out = append(out, Prediction{Day: d, Phase: st.Phase, PeriodStart: st.Day == 1})
		}
	}
	return out
}

// Validate checks user-entered settings.
func Validate(s model.CycleSettings) error {
	if s.StartDate != "" {
		if _, err := model.ParseDay(s.StartDate); err != nil {
			return model.Invalid("start date", "%v", err)
		}
	}
	if s.Length < 15 || s.Length > 60 {
		return model.Invalid("cycle length", "must be between 15 and 60 days, got %d", s.Length)
	}
	if s.PeriodDuration < 1 || s.PeriodDuration > 10 {
		return model.Invalid("period duration", "must be between 1 and 10 days, got %d", s.PeriodDuration)
	}
	if ov := OvulationDay(s.Length); s.PeriodDuration > ov {
		return model.Invalid("period duration", "must end by ovulation on day %d of a %d-day cycle, got %d", ov+1, s.Length, s.PeriodDuration)
	}
	return nil
}

func withDefaults(s model.CycleSettings) model.CycleSettings {
	if s.Length <= 0 {
		s.Length = 28
	}
	if s.PeriodDuration <= 0 {
		s.PeriodDuration = 5
	}
	return s
}
