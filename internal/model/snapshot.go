package model

// Snapshot is every persisted collection at once. It is the unit of
// import, backup and restore.
type Snapshot struct {
	Transactions      []Transaction      `json:"transactions" yaml:"transactions"`
	BudgetSettings    BudgetSettings     `json:"budgetSettings" yaml:"budget_settings"`
	ScheduledPayments []ScheduledPayment `json:"scheduledPayments" yaml:"scheduled_payments"`
	Events            []CalendarEvent    `json:"calendarEvents" yaml:"calendar_events"`
	Todos             []Todo             `json:"todos" yaml:"todos"`
	Habits            []Habit            `json:"habits" yaml:"habits"`
	MealPlan          []MealPlanEntry    `json:"mealPlan" yaml:"meal_plan"`
	CustomMeals       []Meal             `json:"customMeals" yaml:"custom_meals"`
	CycleSettings     CycleSettings      `json:"cycleSettings" yaml:"cycle_settings"`
	CycleLog          []CycleLogEntry    `json:"cycleLog" yaml:"cycle_log"`
	SleepLog          []SleepEntry       `json:"sleepLog" yaml:"sleep_log"`
	WaterLog          []WaterEntry       `json:"waterLog" yaml:"water_log"`
	Profile           Profile            `json:"profile" yaml:"profile"`
}
