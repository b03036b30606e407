package state

import (
	"sort"
	"strings"

	"github.com/theirongolddev/tend/internal/cycle"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/store"
)

// CycleSettings returns stored cycle settings.
func (s *State) CycleSettings() model.CycleSettings {
	return s.snap.CycleSettings
}

// CycleLog returns the cycle journal, oldest first.
func (s *State) CycleLog() []model.CycleLogEntry {
	return append([]model.CycleLogEntry(nil), s.snap.CycleLog...)
}

// SleepLog returns sleep entries, oldest first.
func (s *State) SleepLog() []model.SleepEntry {
	return append([]model.SleepEntry(nil), s.snap.SleepLog...)
}

// WaterLog returns every drink.
func (s *State) WaterLog() []model.WaterEntry {
	return append([]model.WaterEntry(nil), s.snap.WaterLog...)
}

// Profile returns the user profile.
func (s *State) Profile() model.Profile {
	return s.snap.Profile
}

// SetCycleSettings validates and stores cycle settings.
func (s *State) SetCycleSettings(cs model.CycleSettings) error {
	if err := cycle.Validate(cs); err != nil {
		return err
	}
	next := s.Snapshot()
	next.CycleSettings = cs
	return s.commit(next, store.KeyCycleSettings)
}

// LogCycle stores a journal entry, replacing any entry for the same date.
// Logging flow on the day after the predicted cycle end does not move the
// start date; use SetCycleSettings for that.
func (s *State) LogCycle(e model.CycleLogEntry) (model.CycleLogEntry, error) {
	if e.Date == "" {
		e.Date = s.Today()
	}
	if _, err := model.ParseDay(e.Date); err != nil {
		return model.CycleLogEntry{}, model.Invalid("date", "%v", err)
	}
	e.Flow = strings.ToLower(strings.TrimSpace(e.Flow))
	switch e.Flow {
	case "", model.FlowNone, model.FlowLight, model.FlowMedium, model.FlowHeavy, "spotting":
	default:
		return model.CycleLogEntry{}, model.Invalid("flow", "must be none, spotting, light, medium or heavy, got %q", e.Flow)
	}

	next := s.Snapshot()
	next.CycleLog = filter(next.CycleLog, func(x model.CycleLogEntry) bool { return x.Date != e.Date })
	next.CycleLog = append(next.CycleLog, e)
	sort.Slice(next.CycleLog, func(i, j int) bool { return next.CycleLog[i].Date < next.CycleLog[j].Date })
	if err := s.commit(next, store.KeyCycleLog); err != nil {
		return model.CycleLogEntry{}, err
	}
	return e, nil
}

// LogSleep stores a night of sleep, replacing any entry for the same date.
func (s *State) LogSleep(e model.SleepEntry) (model.SleepEntry, error) {
	if e.Date == "" {
		e.Date = s.Today()
	}
	if _, err := model.ParseDay(e.Date); err != nil {
		return model.SleepEntry{}, model.Invalid("date", "%v", err)
	}
	if _, err := e.Duration(); err != nil {
		return model.SleepEntry{}, model.Invalid("time", "%v", err)
	}
	if e.Quality < 0 || e.Quality > 5 {
		return model.SleepEntry{}, model.Invalid("quality", "must be between 1 and 5, got %d", e.Quality)
	}

	next := s.Snapshot()
	next.SleepLog = filter(next.SleepLog, func(x model.SleepEntry) bool { return x.Date != e.Date })
	next.SleepLog = append(next.SleepLog, e)
	sort.Slice(next.SleepLog, func(i, j int) bool { return next.SleepLog[i].Date < next.SleepLog[j].Date })
	if err := s.commit(next, store.KeySleepLog); err != nil {
		return model.SleepEntry{}, err
	}
	return e, nil
}

// AddWater records a drink of ml millilitres on day.
func (s *State) AddWater(day string, ml int) (model.WaterEntry, error) {
	if day == "" {
		day = s.Today()
	}
	if _, err := model.ParseDay(day); err != nil {
		return model.WaterEntry{}, model.Invalid("date", "%v", err)
	}
	if ml <= 0 || ml > 5000 {
		return model.WaterEntry{}, model.Invalid("amount", "must be between 1 and 5000 ml, got %d", ml)
	}
	e := model.WaterEntry{Date: day, Amount: ml, At: s.now()}

	next := s.Snapshot()
	next.WaterLog = append(next.WaterLog, e)
	if err := s.commit(next, store.KeyWaterLog); err != nil {
		return model.WaterEntry{}, err
	}
	return e, nil
}

// UndoWater removes the most recent drink on day. ok is false when there
// was nothing to undo.
func (s *State) UndoWater(day string) (model.WaterEntry, bool, error) {
	if day == "" {
		day = s.Today()
	}
	last := -1
	for i, e := range s.snap.WaterLog {
		if e.Date == day && (last < 0 || !e.At.Before(s.snap.WaterLog[last].At)) {
			last = i
		}
	}
	if last < 0 {
		return model.WaterEntry{}, false, nil
	}
	removed := s.snap.WaterLog[last]
	next := s.Snapshot()
	next.WaterLog = append(next.WaterLog[:last], next.WaterLog[last+1:]...)
	if err := s.commit(next, store.KeyWaterLog); err != nil {
		return model.WaterEntry{}, false, err
	}
	return removed, true, nil
}

// UpdateProfile validates and stores the profile.
func (s *State) UpdateProfile(p model.Profile) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.BirthDate != "" {
		if _, err := model.ParseDay(p.BirthDate); err != nil {
			return model.Invalid("birth date", "%v", err)
		}
	}
	if p.HeightCm < 0 || p.HeightCm > 300 {
		return model.Invalid("height", "must be between 0 and 300 cm")
	}
	if p.WeightKg < 0 || p.WeightKg > 700 {
		return model.Invalid("weight", "must be between 0 and 700 kg")
	}
	next := s.Snapshot()
	next.Profile = p
	return s.commit(next, store.KeyProfile)
}
