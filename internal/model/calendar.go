package model

import "time"

// EventType tags what a calendar entry represents.
type EventType string

const (
	EventGeneral EventType = "event"
	EventMeal    EventType = "meal"
	EventHabit   EventType = "habit"
	EventPayment EventType = "payment"
	EventCycle   EventType = "cycle"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventGeneral, EventMeal, EventHabit, EventPayment, EventCycle:
		return true
	}
	return false
}

// CalendarEvent is a stored calendar entry.
type CalendarEvent struct {
	ID     string    `json:"id" yaml:"id"`
	Title  string    `json:"title" yaml:"title"`
	Start  time.Time `json:"start" yaml:"start"`
	End    time.Time `json:"end" yaml:"end"`
	Color  string    `json:"color,omitempty" yaml:"color,omitempty"`
	Type   EventType `json:"type" yaml:"type"`
	AllDay bool      `json:"allDay,omitempty" yaml:"all_day,omitempty"`
}

// Todo is a to-do item shown alongside the calendar.
type Todo struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Due       string    `json:"due,omitempty" yaml:"due,omitempty"`
	Done      bool      `json:"done" yaml:"done"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// AgendaItem is a read-only merged view entry. Source points back at the
// record it came from (event id, todo id, meal slot, payment id).
type AgendaItem struct {
	Start  time.Time
	End    time.Time
	Title  string
	Type   EventType
	Color  string
	AllDay bool
	Source string
	Done   bool
}

// DefaultColor returns the display color for entries of this type.
func (t EventType) DefaultColor() string {
	switch t {
	case EventMeal:
		return "#879A39"
	case EventHabit:
		return "#4385BE"
	case EventPayment:
		return "#DA702C"
	case EventCycle:
		return "#CE5D97"
	default:
		return "#8B7EC8"
	}
}
