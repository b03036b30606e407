// Package reminder runs the local reminder daemon: a once-a-day scheduler
// fed from the stored habits and payments, and an HTTP API that exposes
// status, fired reminders and a live event stream.
package reminder

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/theirongolddev/tend/internal/model"
)

// Reminder is a daily reminder at a wall-clock time.
type Reminder struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
	// LastFired is the day key of the last day the reminder fired.
	LastFired string `json:"last_fired,omitempty"`
}

// Clock returns the reminder time formatted as HH:MM.
func (r Reminder) Clock() string {
	return fmt.Sprintf("%02d:%02d", r.Hour, r.Minute)
}

// Scheduler holds reminders and decides which are due. It is safe for
// concurrent use.
type Scheduler struct {
	mu    sync.Mutex
	items map[string]*Reminder
	// firedOn outlives cancellation so a reminder that is dropped and
	// scheduled again the same day does not fire twice.
	firedOn map[string]firing
}

type firing struct {
	day          string
	hour, minute int
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{items: make(map[string]*Reminder), firedOn: make(map[string]firing)}
}

// Schedule adds a reminder or replaces the one with the same id. A reminder
// that already fired today at the same time stays fired, even if it was
// cancelled in between.
func (s *Scheduler) Schedule(id, title string, hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return model.Invalid("time", "must be a valid HH:MM, got %02d:%02d", hour, minute)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := &Reminder{ID: id, Title: title, Hour: hour, Minute: minute}
	if f, ok := s.firedOn[id]; ok && f.hour == hour && f.minute == minute {
		r.LastFired = f.day
	}
	s.items[id] = r
	return nil
}

// Cancel removes a reminder, reporting whether it existed.
func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[id]
	delete(s.items, id)
	return ok
}

// Retain cancels every reminder whose id is not in keep.
func (s *Scheduler) Retain(keep map[string]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.items {
		if !keep[id] {
			delete(s.items, id)
		}
	}
}

// Len returns the number of scheduled reminders.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// List returns every reminder ordered by time of day, then title.
func (s *Scheduler) List() []Reminder {
	s.mu.Lock()
	out := make([]Reminder, 0, len(s.items))
	for _, r := range s.items {
		out = append(out, *r)
	}
	s.mu.Unlock()

	sortReminders(out)
	return out
}

// Due returns the reminders whose time has passed today and that have not
// fired today, and marks them fired. A reminder fires at most once a day.
func (s *Scheduler) Due(now time.Time) []Reminder {
	today := model.DayKey(now)
	minuteOfDay := now.Hour()*60 + now.Minute()

	s.mu.Lock()
	var due []Reminder
	for _, r := range s.items {
		if r.LastFired == today || r.Hour*60+r.Minute > minuteOfDay {
			continue
		}
		r.LastFired = today
		s.firedOn[r.ID] = firing{day: today, hour: r.Hour, minute: r.Minute}
		due = append(due, *r)
	}
	for id, f := range s.firedOn {
		if f.day != today {
			delete(s.firedOn, id)
		}
	}
	s.mu.Unlock()

	sortReminders(due)
	return due
}

func sortReminders(rs []Reminder) {
	sort.Slice(rs, func(i, j int) bool {
		ti, tj := rs[i].Hour*60+rs[i].Minute, rs[j].Hour*60+rs[j].Minute
		if ti != tj {
			return ti < tj
		}
		if rs[i].Title != rs[j].Title {
			return rs[i].Title < rs[j].Title
		}
		return rs[i].ID < rs[j].ID
	})
}
