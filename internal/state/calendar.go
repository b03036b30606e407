package state

import (
	"strings"
	"time"

	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/store"
)

const defaultEventLength = time.Hour

// Events returns stored calendar events.
func (s *State) Events() []model.CalendarEvent {
	return append([]model.CalendarEvent(nil), s.snap.Events...)
}

// Todos returns all to-do items.
func (s *State) Todos() []model.Todo {
	return append([]model.Todo(nil), s.snap.Todos...)
}

// AddEvent validates and stores a calendar event.
func (s *State) AddEvent(ev model.CalendarEvent) (model.CalendarEvent, error) {
	ev.Title = strings.TrimSpace(ev.Title)
	if ev.Title == "" {
		return model.CalendarEvent{}, model.Invalid("title", "is required")
	}
	if ev.Type == "" {
		ev.Type = model.EventGeneral
	}
	if !ev.Type.Valid() {
		return model.CalendarEvent{}, model.Invalid("type", "unknown event type %q", ev.Type)
	}
	if ev.Start.IsZero() {
		return model.CalendarEvent{}, model.Invalid("start", "is required")
	}
	if ev.End.IsZero() {
		ev.End = ev.Start.Add(defaultEventLength)
		if ev.AllDay {
			ev.End = ev.Start.AddDate(0, 0, 1)
		}
	}
	if ev.End.Before(ev.Start) {
		return model.CalendarEvent{}, model.Invalid("end", "must not be before start")
	}
	if ev.Color == "" {
		ev.Color = ev.Type.DefaultColor()
	}
	if ev.ID == "" {
		ev.ID = s.newID()
	}

	next := s.Snapshot()
	next.Events = append(next.Events, ev)
	if err := s.commit(next, store.KeyCalendarEvents); err != nil {
		return model.CalendarEvent{}, err
	}
	return ev, nil
}

// DeleteEvent removes a calendar event.
func (s *State) DeleteEvent(id string) error {
	evs := s.snap.Events
	i, err := resolve("event", len(evs), func(i int) string { return evs[i].ID }, id)
	if err != nil {
		return err
	}
	next := s.Snapshot()
	next.Events = append(next.Events[:i], next.Events[i+1:]...)
	return s.commit(next, store.KeyCalendarEvents)
}

// AddTodo stores a new to-do item. due may be empty.
func (s *State) AddTodo(title, due string) (model.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Todo{}, model.Invalid("title", "is required")
	}
	if due != "" {
		if _, err := model.ParseDay(due); err != nil {
			return model.Todo{}, model.Invalid("due", "%v", err)
		}
	}
	td := model.Todo{ID: s.newID(), Title: title, Due: due, CreatedAt: s.now()}

	next := s.Snapshot()
	next.Todos = append(next.Todos, td)
	if err := s.commit(next, store.KeyTodos); err != nil {
		return model.Todo{}, err
	}
	return td, nil
}

// ToggleTodo flips a to-do's done flag.
func (s *State) ToggleTodo(id string) (model.Todo, error) {
	tds := s.snap.Todos
	i, err := resolve("todo", len(tds), func(i int) string { return tds[i].ID }, id)
	if err != nil {
		return model.Todo{}, err
	}
	next := s.Snapshot()
	next.Todos[i].Done = !next.Todos[i].Done
	if err := s.commit(next, store.KeyTodos); err != nil {
		return model.Todo{}, err
	}
	return next.Todos[i], nil
}

// DeleteTodo removes a to-do item.
func (s *State) DeleteTodo(id string) error {
	tds := s.snap.Todos
	i, err := resolve("todo", len(tds), func(i int) string { return tds[i].ID }, id)
	if err != nil {
		return err
	}
	next := s.Snapshot()
	next.Todos = append(next.Todos[:i], next.Todos[i+1:]...)
	return s.commit(next, store.KeyTodos)
}
