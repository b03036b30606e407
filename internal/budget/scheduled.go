package budget

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/tend/internal/model"
)

// DerivedTransactionID is the id of the transaction a payment creates.
func DerivedTransactionID(paymentID string) string {
	return "scheduled-" + paymentID
}

// DerivedEventID is the id of the calendar event a payment creates.
func DerivedEventID(paymentID string) string {
	return "payment-" + paymentID
}

// ValidatePayment checks a scheduled payment before it is stored.
func ValidatePayment(sp model.ScheduledPayment) error {
	if strings.TrimSpace(sp.Name) == "" {
		return model.Invalid("name", "is required")
	}
	if !sp.Amount.IsPositive() {
		return model.Invalid("amount", "must be a positive number")
	}
	if _, err := model.ParseDay(sp.Date); err != nil {
		return model.Invalid("date", "%v", err)
	}
	if sp.Type != "" && !sp.Type.Valid() {
		return model.Invalid("type", "must be expense or income, got %q", sp.Type)
	}
	switch sp.Frequency {
	case "", model.OneTime, model.MonthlyRepeat:
	default:
		return model.Invalid("frequency", "must be one-time or monthly, got %q", sp.Frequency)
	}
	return nil
}

// FanOut returns the transaction and calendar event derived from a payment.
// Only the first occurrence is materialised; monthly repeats are projected
// for display by Upcoming.
func FanOut(sp model.ScheduledPayment) (model.Transaction, model.CalendarEvent, error) {
	day, err := model.ParseDay(sp.Date)
	if err != nil {
		return model.Transaction{}, model.CalendarEvent{}, err
	}
	typ := sp.Type
	if typ == "" {
		typ = model.Expense
	}
	category := sp.Category
	if category == "" {
		category = "Bills"
	}

	tx := model.Transaction{
		ID:          DerivedTransactionID(sp.ID),
		Type:        typ,
		Category:    category,
		Name:        sp.Name,
		Date:        sp.Date,
		Amount:      sp.Amount,
		ScheduledID: sp.ID,
	}
	ev := model.CalendarEvent{
		ID:     DerivedEventID(sp.ID),
		Title:  fmt.Sprintf("%s (%s)", sp.Name, sp.Amount.StringFixed(2)),
		Start:  day,
		End:    day.AddDate(0, 0, 1),
		Color:  model.EventPayment.DefaultColor(),
		Type:   model.EventPayment,
		AllDay: true,
	}
	return tx, ev, nil
}

// Occurrence is one projected due date of a scheduled payment.
type Occurrence struct {
	Payment model.ScheduledPayment
	Due     time.Time
}

// Upcoming projects payment due dates in [from, to), earliest first.
// Monthly payments recur on the same day of month, clamped to short months.
func Upcoming(payments []model.ScheduledPayment, from, to time.Time) []Occurrence {
	var out []Occurrence
	for _, sp := range payments {
		first, err := model.ParseDay(sp.Date)
		if err != nil {
			continue
		}
		if sp.Frequency != model.MonthlyRepeat {
			if !first.Before(from) && first.Before(to) {
				out = append(out, Occurrence{Payment: sp, Due: first})
			}
			continue
		}
		for i := 0; ; i++ {
			due := addMonthsClamped(first, i)
			if !due.Before(to) {
				break
			}
			if !due.Before(from) {
				out = append(out, Occurrence{Payment: sp, Due: due})
			}
		}
	}
	sortOccurrences(out)
	return out
}

func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, t.Location())
}

func sortOccurrences(occ []Occurrence) {
	sort.Slice(occ, func(i, j int) bool {
		if !occ[i].Due.Equal(occ[j].Due) {
			return occ[i].Due.Before(occ[j].Due)
		}
		return occ[i].Payment.Name < occ[j].Payment.Name
	})
}
