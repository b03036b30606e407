package state

import (
	"strings"

	"github.com/theirongolddev/tend/internal/habit"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/store"
)

// Habits returns all habits.
func (s *State) Habits() []model.Habit {
	return append([]model.Habit(nil), s.snap.Habits...)
}

// Habit finds a habit by id, id prefix or exact name.
func (s *State) Habit(ref string) (model.Habit, error) {
	i, err := s.findHabit(ref)
	if err != nil {
		return model.Habit{}, err
	}
	return s.snap.Habits[i], nil
}

func (s *State) findHabit(ref string) (int, error) {
	hs := s.snap.Habits
	for i, h := range hs {
		if strings.EqualFold(h.Name, strings.TrimSpace(ref)) {
			return i, nil
		}
	}
	return resolve("habit", len(hs), func(i int) string { return hs[i].ID }, ref)
}

// AddHabit validates and stores a new habit.
func (s *State) AddHabit(h model.Habit) (model.Habit, error) {
	h.Name = strings.TrimSpace(h.Name)
	if h.Type == "" {
		h.Type = model.DailyBoolean
	}
	if err := habit.Validate(h); err != nil {
		return model.Habit{}, err
	}
	for _, existing := range s.snap.Habits {
		if strings.EqualFold(existing.Name, h.Name) {
			return model.Habit{}, model.Invalid("name", "a habit named %q already exists", existing.Name)
		}
	}
	if h.ID == "" {
		h.ID = s.newID()
	}
	if h.History == nil {
		h.History = map[string]int{}
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = s.now()
	}

	next := s.Snapshot()
	next.Habits = append(next.Habits, h)
	if err := s.commit(next, store.KeyHabits); err != nil {
		return model.Habit{}, err
	}
	return h, nil
}

// DeleteHabit removes a habit.
func (s *State) DeleteHabit(ref string) error {
	i, err := s.findHabit(ref)
	if err != nil {
		return err
	}
	next := s.Snapshot()
	next.Habits = append(next.Habits[:i], next.Habits[i+1:]...)
	return s.commit(next, store.KeyHabits)
}

// RecordHabit applies the habit type's natural action for day.
func (s *State) RecordHabit(ref, day string) (model.Habit, error) {
	return s.updateHabit(ref, day, habit.Record)
}

// DecrementHabit undoes one completion on day.
func (s *State) DecrementHabit(ref, day string) (model.Habit, error) {
	return s.updateHabit(ref, day, habit.Decrement)
}

func (s *State) updateHabit(ref, day string, apply func(model.Habit, string) model.Habit) (model.Habit, error) {
	if day == "" {
		day = s.Today()
	}
	if _, err := model.ParseDay(day); err != nil {
		return model.Habit{}, model.Invalid("date", "%v", err)
	}
	i, err := s.findHabit(ref)
	if err != nil {
		return model.Habit{}, err
	}
	next := s.Snapshot()
	next.Habits[i] = apply(next.Habits[i], day)
	if err := s.commit(next, store.KeyHabits); err != nil {
		return model.Habit{}, err
	}
	return next.Habits[i], nil
}

// SetHabitReminder sets or, with nil, clears a habit's daily reminder.
func (s *State) SetHabitReminder(ref string, r *model.ReminderTime) (model.Habit, error) {
	i, err := s.findHabit(ref)
	if err != nil {
		return model.Habit{}, err
	}
	next := s.Snapshot()
	h := next.Habits[i]
	h.Reminder = r
	if err := habit.Validate(h); err != nil {
		return model.Habit{}, err
	}
	next.Habits[i] = h
	if err := s.commit(next, store.KeyHabits); err != nil {
		return model.Habit{}, err
	}
	return h, nil
}
