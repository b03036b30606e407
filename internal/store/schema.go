package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kv (
    key                  TEXT PRIMARY KEY,
    value                TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);
`

// Feature keys. Each holds one JSON blob for a whole collection.
const (
	KeyTransactions      = "transactions"
	KeyBudgetSettings    = "budgetSettings"
	KeyScheduledPayments = "scheduledPayments"
	KeyCalendarEvents    = "calendarEvents"
	KeyTodos             = "todos"
	KeyHabits            = "habits"
	KeyMealPlan          = "mealPlan"
	KeyCustomMeals       = "customMeals"
	KeyCycleSettings     = "cycleSettings"
	KeyCycleLog          = "cycleLog"
	KeySleepLog          = "sleepLog"
	KeyWaterLog          = "waterLog"
	KeyProfile           = "profile"
)

// AllKeys lists every feature key in a stable order.
var AllKeys = []string{
	KeyTransactions,
	KeyBudgetSettings,
	KeyScheduledPayments,
	KeyCalendarEvents,
	KeyTodos,
	KeyHabits,
	KeyMealPlan,
	KeyCustomMeals,
	KeyCycleSettings,
	KeyCycleLog,
	KeySleepLog,
	KeyWaterLog,
	KeyProfile,
}
