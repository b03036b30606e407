package reminder

import (
	"fmt"
	"time"

	"github.com/theirongolddev/tend/internal/budget"
	"github.com/theirongolddev/tend/internal/habit"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/state"
)

// Payment reminders fire at this time on the due date.
const (
	paymentHour   = 9
	paymentMinute = 0
)

// HabitReminderID is the scheduler id for a habit's reminder.
func HabitReminderID(habitID string) string {
	return "habit:" + habitID
}

// PaymentReminderID is the scheduler id for one due date of a payment.
func PaymentReminderID(paymentID string, due time.Time) string {
	return "payment:" + paymentID + ":" + model.DayKey(due)
}

// Sync makes the scheduler match the stored data for the day of now. Habits
// with a reminder time that are not yet complete get a reminder; so does
// every scheduled payment due that day. Everything else is cancelled.
func Sync(s *Scheduler, st *state.State, weekStart time.Weekday, now time.Time) error {
	keep := make(map[string]bool)

	for _, h := range st.Habits() {
		if h.Reminder == nil || habit.Complete(h, now, weekStart) {
			continue
		}
		id := HabitReminderID(h.ID)
		if err := s.Schedule(id, "Habit: "+h.Name, h.Reminder.Hour, h.Reminder.Minute); err != nil {
			return fmt.Errorf("habit %s: %w", h.Name, err)
		}
		keep[id] = true
	}

	today := model.StartOfDay(now)
	for _, occ := range budget.Upcoming(st.ScheduledPayments(), today, today.AddDate(0, 0, 1)) {
		id := PaymentReminderID(occ.Payment.ID, occ.Due)
		title := fmt.Sprintf("Payment due: %s (%s)", occ.Payment.Name, occ.Payment.Amount.StringFixed(2))
		if err := s.Schedule(id, title, paymentHour, paymentMinute); err != nil {
			return err
		}
		keep[id] = true
	}

	s.Retain(keep)
	return nil
}
