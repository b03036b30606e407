package state

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tend/internal/budget"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/store"
)

// Transactions returns all transactions.
func (s *State) Transactions() []model.Transaction {
	return append([]model.Transaction(nil), s.snap.Transactions...)
}

// BudgetSettings returns the stored budget settings. An unset period falls
// back to fallback, and to monthly when fallback is not a period either.
func (s *State) BudgetSettings(fallback model.Period) model.BudgetSettings {
	bs := s.snap.BudgetSettings
	if !bs.Period.Valid() {
		bs.Period = fallback
	}
	if !bs.Period.Valid() {
		bs.Period = model.Monthly
	}
	return bs
}

// ScheduledPayments returns all scheduled payments.
func (s *State) ScheduledPayments() []model.ScheduledPayment {
	return append([]model.ScheduledPayment(nil), s.snap.ScheduledPayments...)
}

// Transaction finds a transaction by id or unique id prefix.
func (s *State) Transaction(id string) (model.Transaction, error) {
	i, err := s.findTransaction(id)
	if err != nil {
		return model.Transaction{}, err
	}
	return s.snap.Transactions[i], nil
}

func (s *State) findTransaction(id string) (int, error) {
	txs := s.snap.Transactions
	return resolve("transaction", len(txs), func(i int) string { return txs[i].ID }, id)
}

// AddTransaction validates and stores a new transaction. A missing date
// defaults to today; a missing id is generated.
func (s *State) AddTransaction(tx model.Transaction) (model.Transaction, error) {
	if tx.Date == "" {
		tx.Date = s.Today()
	}
	tx.Category = strings.TrimSpace(tx.Category)
	if err := budget.ValidateTransaction(tx); err != nil {
		return model.Transaction{}, err
	}
	if tx.ID == "" {
		tx.ID = s.newID()
	}

	next := s.Snapshot()
	next.Transactions = append(next.Transactions, tx)
	if err := s.commit(next, store.KeyTransactions); err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

// LogActual records the real amount of a transaction.
func (s *State) LogActual(id string, amount decimal.Decimal) (model.Transaction, error) {
	if amount.IsNegative() {
		return model.Transaction{}, model.Invalid("amount", "must not be negative")
	}
	i, err := s.findTransaction(id)
	if err != nil {
		return model.Transaction{}, err
	}

	next := s.Snapshot()
	a := amount
	next.Transactions[i].Actual = &a
	if err := s.commit(next, store.KeyTransactions); err != nil {
		return model.Transaction{}, err
	}
	return next.Transactions[i], nil
}

// DeleteTransaction removes a transaction. Transactions derived from a
// scheduled payment go away with the payment and cannot be deleted alone.
func (s *State) DeleteTransaction(id string) error {
	i, err := s.findTransaction(id)
	if err != nil {
		return err
	}
	if s.snap.Transactions[i].ScheduledID != "" {
		return model.Invalid("transaction", "belongs to a scheduled payment; remove the payment instead")
	}
	next := s.Snapshot()
	next.Transactions = append(next.Transactions[:i], next.Transactions[i+1:]...)
	return s.commit(next, store.KeyTransactions)
}

// UpdateBudgetSettings validates and stores budget settings.
func (s *State) UpdateBudgetSettings(bs model.BudgetSettings) error {
	if !bs.Period.Valid() {
		return model.Invalid("period", "must be weekly or monthly, got %q", bs.Period)
	}
	if bs.Income.IsNegative() {
		return model.Invalid("income", "must not be negative")
	}
	for cat, lim := range bs.CategoryLimits {
		if !lim.IsPositive() {
			return model.Invalid("limit", "%s: must be a positive number", cat)
		}
	}
	next := s.Snapshot()
	next.BudgetSettings = bs
	return s.commit(next, store.KeyBudgetSettings)
}

// AddScheduledPayment stores a payment together with its derived
// transaction and calendar event, all in one write.
func (s *State) AddScheduledPayment(sp model.ScheduledPayment) (model.ScheduledPayment, error) {
	if sp.Type == "" {
		sp.Type = model.Expense
	}
	if sp.Frequency == "" {
		sp.Frequency = model.OneTime
	}
	if err := budget.ValidatePayment(sp); err != nil {
		return model.ScheduledPayment{}, err
	}
	if sp.ID == "" {
		sp.ID = s.newID()
	}
	tx, ev, err := budget.FanOut(sp)
	if err != nil {
		return model.ScheduledPayment{}, err
	}

	next := s.Snapshot()
	next.ScheduledPayments = append(next.ScheduledPayments, sp)
	next.Transactions = append(next.Transactions, tx)
	next.Events = append(next.Events, ev)
	if err := s.commit(next, store.KeyScheduledPayments, store.KeyTransactions, store.KeyCalendarEvents); err != nil {
		return model.ScheduledPayment{}, err
	}
	return sp, nil
}

// DeleteScheduledPayment removes a payment and the records derived from it.
func (s *State) DeleteScheduledPayment(id string) error {
	sps := s.snap.ScheduledPayments
	i, err := resolve("scheduled payment", len(sps), func(i int) string { return sps[i].ID }, id)
	if err != nil {
		return err
	}
	pid := sps[i].ID
	txID, evID := budget.DerivedTransactionID(pid), budget.DerivedEventID(pid)

	next := s.Snapshot()
	next.ScheduledPayments = append(next.ScheduledPayments[:i], next.ScheduledPayments[i+1:]...)
	next.Transactions = filter(next.Transactions, func(tx model.Transaction) bool { return tx.ID != txID })
	next.Events = filter(next.Events, func(ev model.CalendarEvent) bool { return ev.ID != evID })
	return s.commit(next, store.KeyScheduledPayments, store.KeyTransactions, store.KeyCalendarEvents)
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
