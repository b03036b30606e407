// Package state is the shared container behind every feature. It loads all
// collections from the store at startup and writes the affected keys back on
// every mutation. Mutations are applied in memory only after the write
// succeeds. A State is not safe for concurrent use; callers mutate it from a
// single goroutine.
package state

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/tend/internal/meal"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/store"
)

// ErrNotFound is returned when an id matches no record.
var ErrNotFound = errors.New("not found")

// ErrAmbiguous is returned when an id prefix matches several records.
var ErrAmbiguous = errors.New("ambiguous id")

// State holds every persisted collection.
type State struct {
	kv      *store.Store
	snap    model.Snapshot
	now     func() time.Time
	newID   func() string
	builtin *meal.Catalog
}

// Option configures a State.
type Option func(*State)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

// WithIDs overrides id generation.
func WithIDs(next func() string) Option {
	return func(s *State) { s.newID = next }
}

// Load reads every feature key from kv. Missing keys load as empty
// collections.
func Load(kv *store.Store, opts ...Option) (*State, error) {
	s := &State{
		kv:      kv,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
		builtin: meal.Builtin(),
	}
	for _, opt := range opts {
		opt(s)
	}

	loaders := []struct {
		key string
		dst any
	}{
		{store.KeyTransactions, &s.snap.Transactions},
		{store.KeyBudgetSettings, &s.snap.BudgetSettings},
		{store.KeyScheduledPayments, &s.snap.ScheduledPayments},
		{store.KeyCalendarEvents, &s.snap.Events},
		{store.KeyTodos, &s.snap.Todos},
		{store.KeyHabits, &s.snap.Habits},
		{store.KeyMealPlan, &s.snap.MealPlan},
		{store.KeyCustomMeals, &s.snap.CustomMeals},
		{store.KeyCycleSettings, &s.snap.CycleSettings},
		{store.KeyCycleLog, &s.snap.CycleLog},
		{store.KeySleepLog, &s.snap.SleepLog},
		{store.KeyWaterLog, &s.snap.WaterLog},
		{store.KeyProfile, &s.snap.Profile},
	}
	for _, l := range loaders {
		if err := kv.Decode(l.key, l.dst); err != nil {
			return nil, fmt.Errorf("loading state: %w", err)
		}
	}
	return s, nil
}

// Snapshot returns a copy of every collection.
func (s *State) Snapshot() model.Snapshot {
	return copySnapshot(s.snap)
}

// Now returns the state's current time.
func (s *State) Now() time.Time {
	return s.now()
}

// Today returns the current day key.
func (s *State) Today() string {
	return model.DayKey(s.now())
}

// Catalog returns the built-in meals layered with saved custom meals.
func (s *State) Catalog() *meal.Catalog {
	if len(s.snap.CustomMeals) == 0 {
		return s.builtin
	}
	return s.builtin.With(s.snap.CustomMeals...)
}

// Replace swaps in a whole snapshot (import, restore) and persists every key.
func (s *State) Replace(snap model.Snapshot) error {
	return s.commit(copySnapshot(snap), store.AllKeys...)
}

// commit writes the given keys from next, then adopts next.
func (s *State) commit(next model.Snapshot, keys ...string) error {
	values := make(map[string][]byte, len(keys))
	for _, key := range keys {
		raw, err := store.Encode(valueFor(&next, key))
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		values[key] = raw
	}
	if err := s.kv.PutMany(values); err != nil {
		return fmt.Errorf("saving %s: %w", strings.Join(keys, ", "), err)
	}
	s.snap = next
	return nil
}

func valueFor(snap *model.Snapshot, key string) any {
	switch key {
	case store.KeyTransactions:
		return nonNil(snap.Transactions)
	case store.KeyBudgetSettings:
		return snap.BudgetSettings
	case store.KeyScheduledPayments:
		return nonNil(snap.ScheduledPayments)
	case store.KeyCalendarEvents:
		return nonNil(snap.Events)
	case store.KeyTodos:
		return nonNil(snap.Todos)
	case store.KeyHabits:
		return nonNil(snap.Habits)
	case store.KeyMealPlan:
		return nonNil(snap.MealPlan)
	case store.KeyCustomMeals:
		return nonNil(snap.CustomMeals)
	case store.KeyCycleSettings:
		return snap.CycleSettings
	case store.KeyCycleLog:
		return nonNil(snap.CycleLog)
	case store.KeySleepLog:
		return nonNil(snap.SleepLog)
	case store.KeyWaterLog:
		return nonNil(snap.WaterLog)
	case store.KeyProfile:
		return snap.Profile
	}
	panic("state: unknown key " + key)
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

func copySnapshot(in model.Snapshot) model.Snapshot {
	out := in
	out.Transactions = append([]model.Transaction(nil), in.Transactions...)
	out.ScheduledPayments = append([]model.ScheduledPayment(nil), in.ScheduledPayments...)
	out.Events = append([]model.CalendarEvent(nil), in.Events...)
	out.Todos = append([]model.Todo(nil), in.Todos...)
	out.Habits = append([]model.Habit(nil), in.Habits...)
	out.MealPlan = append([]model.MealPlanEntry(nil), in.MealPlan...)
	out.CustomMeals = append([]model.Meal(nil), in.CustomMeals...)
	out.CycleLog = append([]model.CycleLogEntry(nil), in.CycleLog...)
	out.SleepLog = append([]model.SleepEntry(nil), in.SleepLog...)
	out.WaterLog = append([]model.WaterEntry(nil), in.WaterLog...)
	return out
}

// resolve finds the index of the record whose id equals q or uniquely
// starts with it.
func resolve(kind string, n int, idAt func(int) string, q string) (int, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return -1, fmt.Errorf("%s: empty id: %w", kind, ErrNotFound)
	}
	match := -1
	for i := 0; i < n; i++ {
		id := idAt(i)
		if id == q {
			return i, nil
		}
		if strings.HasPrefix(id, q) {
			if match >= 0 {
				return -1, fmt.Errorf("%s %q: %w", kind, q, ErrAmbiguous)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("%s %q: %w", kind, q, ErrNotFound)
	}
	return match, nil
}
