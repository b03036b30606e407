package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxType distinguishes money in from money out.
type TxType string

const (
	Expense TxType = "expense"
	Income  TxType = "income"
)

// Valid reports whether t is a known transaction type.
func (t TxType) Valid() bool {
	return t == Expense || t == Income
}

// Transaction is a budgeted or logged money movement.
// Amount is the budgeted figure; Actual is set once the real amount is known.
type Transaction struct {
	ID          string           `json:"id" yaml:"id"`
	Type        TxType           `json:"type" yaml:"type"`
	Category    string           `json:"category" yaml:"category"`
	Name        string           `json:"name,omitempty" yaml:"name,omitempty"`
	Date        string           `json:"date" yaml:"date"`
	Amount      decimal.Decimal  `json:"amount" yaml:"amount"`
	Actual      *decimal.Decimal `json:"actualAmount,omitempty" yaml:"actual,omitempty"`
	Variable    bool             `json:"isVariable,omitempty" yaml:"variable,omitempty"`
	ScheduledID string           `json:"scheduledId,omitempty" yaml:"scheduled_id,omitempty"`
}

// Effective returns the actual amount if logged, else the budgeted amount.
func (t Transaction) Effective() decimal.Decimal {
	if t.Actual != nil {
		return *t.Actual
	}
	return t.Amount
}

// Pending reports a variable expense whose real amount is still unknown.
func (t Transaction) Pending() bool {
	return t.Type == Expense && t.Variable && t.Actual == nil
}

// Counts reports whether the transaction contributes to totals.
// Variable expenses only count once their actual amount is logged.
func (t Transaction) Counts() bool {
	return !t.Pending()
}

// Period is the budgeting horizon.
type Period string

const (
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	return p == Weekly || p == Monthly
}

// BudgetSettings holds the user's budgeting horizon and limits.
type BudgetSettings struct {
	Period         Period                     `json:"period" yaml:"period"`
	Income         decimal.Decimal            `json:"income" yaml:"income"`
	CategoryLimits map[string]decimal.Decimal `json:"categoryLimits,omitempty" yaml:"category_limits,omitempty"`
}

// Frequency describes how often a scheduled payment recurs.
type Frequency string

const (
	OneTime       Frequency = "one-time"
	MonthlyRepeat Frequency = "monthly"
)

// ScheduledPayment is a planned payment. Creating one also creates a
// transaction and a calendar event derived from it.
type ScheduledPayment struct {
	ID        string          `json:"id" yaml:"id"`
	Name      string          `json:"name" yaml:"name"`
	Amount    decimal.Decimal `json:"amount" yaml:"amount"`
	Date      string          `json:"date" yaml:"date"`
	Category  string          `json:"category" yaml:"category"`
	Type      TxType          `json:"type" yaml:"type"`
	Frequency Frequency       `json:"frequency" yaml:"frequency"`
}

// PeriodStats holds budget totals for one week or month.
type PeriodStats struct {
	Key          string
	Start        time.Time
	End          time.Time
	Income       decimal.Decimal
	Expenses     decimal.Decimal
	Planned      decimal.Decimal
	Logged       decimal.Decimal
	Pending      int
	Transactions int
}

// Net is income minus counted expenses.
func (p PeriodStats) Net() decimal.Decimal {
	return p.Income.Sub(p.Expenses)
}

// CategoryStats holds expense totals for one category.
type CategoryStats struct {
	Category     string
	Spent        decimal.Decimal
	Limit        *decimal.Decimal
	Transactions int
	SharePercent float64
}

// UsedPercent returns spent/limit as a percentage, or 0 without a limit.
func (c CategoryStats) UsedPercent() float64 {
	if c.Limit == nil || c.Limit.IsZero() {
		return 0
	}
	pct, _ := c.Spent.Div(*c.Limit).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}
