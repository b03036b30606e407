package budget

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tend/internal/model"
)

func date(s string) time.Time {
	t, err := model.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestWeekStart(t *testing.T) {
	wed := date("2024-01-17")
	if got := model.WeekStart(wed, time.Monday); !got.Equal(date("2024-01-15")) {
		t.Errorf("monday week start = %s, want 2024-01-15", got.Format(model.DayLayout))
	}
	if got := model.WeekStart(wed, time.Sunday); !got.Equal(date("2024-01-14")) {
		t.Errorf("sunday week start = %s, want 2024-01-14", got.Format(model.DayLayout))
	}
	mon := date("2024-01-15")
	if got := model.WeekStart(mon, time.Monday); !got.Equal(mon) {
		t.Errorf("week start of a monday = %s, want itself", got.Format(model.DayLayout))
	}
}

func TestPeriodKey(t *testing.T) {
	tests := []struct {
		day  string
		p    model.Period
		want string
	}{
		{"2024-01-17", model.Monthly, "2024-01"},
		{"2024-01-31", model.Monthly, "2024-01"},
		{"2024-02-01", model.Monthly, "2024-02"},
		{"2024-01-17", model.Weekly, "2024-01-15"},
		{"2024-01-21", model.Weekly, "2024-01-15"},
		{"2024-01-22", model.Weekly, "2024-01-22"},
		{"2024-01-01", model.Weekly, "2024-01-01"},
		{"2023-12-31", model.Weekly, "2023-12-25"},
	}
	for _, tt := range tests {
		if got := PeriodKey(date(tt.day), tt.p, time.Monday); got != tt.want {
			t.Errorf("PeriodKey(%s, %s) = %s, want %s", tt.day, tt.p, got, tt.want)
		}
	}
}

func TestPeriodRangeContainsDay(t *testing.T) {
	for _, p := range []model.Period{model.Weekly, model.Monthly} {
		d := date("2024-03-05")
		for i := 0; i < 120; i++ {
			day := d.AddDate(0, 0, i)
			start, end := PeriodRange(day, p, time.Monday)
			if day.Before(start) || !day.Before(end) {
				t.Fatalf("%s: %s not in [%s, %s)", p, day, start, end)
			}
		}
	}
}

func sampleTransactions() []model.Transaction {
	return []model.Transaction{
		{ID: "rent", Type: model.Expense, Category: "Housing", Date: "2024-01-01", Amount: dec("100")},
		{ID: "food", Type: model.Expense, Category: "Groceries", Date: "2024-01-10", Amount: dec("50"), Variable: true},
		{ID: "fuel", Type: model.Expense, Category: "Transport", Date: "2024-01-12", Amount: dec("60"), Variable: true, Actual: decPtr("55")},
		{ID: "pay", Type: model.Income, Category: "Salary", Date: "2024-01-25", Amount: dec("1000")},
		{ID: "cafe", Type: model.Expense, Category: "Groceries", Date: "2024-02-03", Amount: dec("20")},
		{ID: "bad", Type: model.Expense, Category: "Groceries", Date: "not-a-date", Amount: dec("5")},
	}
}

func TestAggregateMonthly(t *testing.T) {
	periods := Aggregate(sampleTransactions(), model.Monthly, time.Monday)
	if len(periods) != 2 {
		t.Fatalf("len(periods) = %d, want 2", len(periods))
	}
	if periods[0].Key != "2024-02" || periods[1].Key != "2024-01" {
		t.Fatalf("order = %s, %s; want most recent first", periods[0].Key, periods[1].Key)
	}

	jan := periods[1]
	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"income", jan.Income, "1000"},
		{"expenses", jan.Expenses, "155"},
		{"planned", jan.Planned, "210"},
		{"logged", jan.Logged, "55"},
		{"net", jan.Net(), "845"},
	}
	for _, c := range checks {
		if !c.got.Equal(dec(c.want)) {
			t.Errorf("jan %s = %s, want %s", c.name, c.got, c.want)
		}
	}
	if jan.Pending != 1 {
		t.Errorf("jan pending = %d, want 1", jan.Pending)
	}

	total := 0
	for _, p := range periods {
		total += p.Transactions
	}
	if total != 5 {
		t.Errorf("bucketed %d transactions, want 5 (each valid one exactly once)", total)
	}
}

func TestAggregateWeekly(t *testing.T) {
	txs := []model.Transaction{
		{ID: "sat", Type: model.Expense, Category: "Groceries", Date: "2024-01-13", Amount: dec("10")},
		{ID: "sun", Type: model.Expense, Category: "Dining", Date: "2024-01-14", Amount: dec("20")},
		{ID: "gas", Type: model.Expense, Category: "Utilities", Date: "2024-01-14", Amount: dec("40"), Variable: true},
		{ID: "mon", Type: model.Expense, Category: "Transport", Date: "2024-01-15", Amount: dec("30")},
		{ID: "pay", Type: model.Income, Category: "Salary", Date: "2024-01-15", Amount: dec("100")},
	}

	type bucket struct {
		key          string
		income       string
		expenses     string
		planned      string
		pending      int
		transactions int
	}
	tests := []struct {
		name      string
		weekStart time.Weekday
		want      []bucket
	}{
		{"monday start", time.Monday, []bucket{
			{"2024-01-15", "100", "30", "30", 0, 2},
			{"2024-01-08", "0", "30", "70", 1, 3},
		}},
		{"sunday start", time.Sunday, []bucket{
			{"2024-01-14", "100", "50", "90", 1, 4},
			{"2024-01-07", "0", "10", "10", 0, 1},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			periods := Aggregate(txs, model.Weekly, tt.weekStart)
			if len(periods) != len(tt.want) {
				t.Fatalf("len(periods) = %d, want %d", len(periods), len(tt.want))
			}
			for i, w := range tt.want {
				got := periods[i]
				if got.Key != w.key {
					t.Errorf("periods[%d].Key = %s, want %s", i, got.Key, w.key)
				}
				if got.Start.Weekday() != tt.weekStart {
					t.Errorf("%s starts on %s, want %s", got.Key, got.Start.Weekday(), tt.weekStart)
				}
				if !got.Income.Equal(dec(w.income)) {
					t.Errorf("%s income = %s, want %s", got.Key, got.Income, w.income)
				}
				if !got.Expenses.Equal(dec(w.expenses)) {
					t.Errorf("%s expenses = %s, want %s (pending excluded)", got.Key, got.Expenses, w.expenses)
				}
				if !got.Planned.Equal(dec(w.planned)) {
					t.Errorf("%s planned = %s, want %s", got.Key, got.Planned, w.planned)
				}
				if got.Pending != w.pending {
					t.Errorf("%s pending = %d, want %d", got.Key, got.Pending, w.pending)
				}
				if got.Transactions != w.transactions {
					t.Errorf("%s transactions = %d, want %d", got.Key, got.Transactions, w.transactions)
				}
			}
		})
	}
}

func TestCurrentEmptyPeriod(t *testing.T) {
	ps := Current(sampleTransactions(), model.Weekly, time.Monday, date("2024-06-05"))
	if ps.Transactions != 0 || !ps.Expenses.IsZero() {
		t.Errorf("expected empty period, got %+v", ps)
	}
	if ps.Key != "2024-06-03" {
		t.Errorf("key = %s, want 2024-06-03", ps.Key)
	}
}

func TestByCategory(t *testing.T) {
	limits := map[string]decimal.Decimal{"housing": dec("200")}
	cats := ByCategory(sampleTransactions(), date("2024-01-01"), date("2024-02-01"), limits)

	if len(cats) != 2 {
		t.Fatalf("len(cats) = %d, want 2 (pending variable expense excluded)", len(cats))
	}
	if cats[0].Category != "Housing" || !cats[0].Spent.Equal(dec("100")) {
		t.Errorf("cats[0] = %s %s, want Housing 100", cats[0].Category, cats[0].Spent)
	}
	if cats[0].Limit == nil || cats[0].UsedPercent() != 50 {
		t.Errorf("housing limit not applied: %+v", cats[0])
	}
	if cats[1].Category != "Transport" || !cats[1].Spent.Equal(dec("55")) {
		t.Errorf("cats[1] = %s %s, want Transport 55", cats[1].Category, cats[1].Spent)
	}
}

func TestFanOut(t *testing.T) {
	sp := model.ScheduledPayment{
		ID:        "abc",
		Name:      "Internet",
		Amount:    dec("39.99"),
		Date:      "2024-03-15",
		Frequency: model.MonthlyRepeat,
	}
	tx, ev, err := FanOut(sp)
	if err != nil {
		t.Fatalf("FanOut: %v", err)
	}
	if tx.ID != "scheduled-abc" || ev.ID != "payment-abc" {
		t.Errorf("ids = %s / %s", tx.ID, ev.ID)
	}
	if tx.Type != model.Expense || tx.Category != "Bills" || !tx.Amount.Equal(sp.Amount) {
		t.Errorf("transaction = %+v", tx)
	}
	if ev.Type != model.EventPayment || !ev.AllDay || !ev.Start.Equal(date("2024-03-15")) {
		t.Errorf("event = %+v", ev)
	}
	if ev.Title != "Internet (39.99)" {
		t.Errorf("title = %q", ev.Title)
	}
}

func TestUpcomingClampsMonthEnd(t *testing.T) {
	payments := []model.ScheduledPayment{
		{ID: "1", Name: "Rent", Amount: dec("900"), Date: "2024-01-31", Frequency: model.MonthlyRepeat},
		{ID: "2", Name: "Gift", Amount: dec("30"), Date: "2024-03-10", Frequency: model.OneTime},
		{ID: "3", Name: "Old", Amount: dec("5"), Date: "2023-01-10", Frequency: model.OneTime},
	}
	occ := Upcoming(payments, date("2024-02-01"), date("2024-05-01"))

	var got []string
	for _, o := range occ {
		got = append(got, o.Payment.Name+"@"+model.DayKey(o.Due))
	}
	want := []string{"Rent@2024-02-29", "Gift@2024-03-10", "Rent@2024-03-31", "Rent@2024-04-30"}
	if len(got) != len(want) {
		t.Fatalf("occurrences = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("occurrence %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestValidateTransaction(t *testing.T) {
	ok := model.Transaction{Type: model.Expense, Category: "Food", Date: "2024-01-01", Amount: dec("1")}
	if err := ValidateTransaction(ok); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	tests := []struct {
		name  string
		mut   func(*model.Transaction)
		field string
	}{
		{"type", func(tx *model.Transaction) { tx.Type = "transfer" }, "type"},
		{"category", func(tx *model.Transaction) { tx.Category = " " }, "category"},
		{"zero amount", func(tx *model.Transaction) { tx.Amount = decimal.Zero }, "amount"},
		{"date", func(tx *model.Transaction) { tx.Date = "01/02/2024" }, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := ok
			tt.mut(&tx)
			var ve *model.ValidationError
			if err := ValidateTransaction(tx); !errors.As(err, &ve) || ve.Field != tt.field {
				t.Errorf("err = %v, want validation error on %s", err, tt.field)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("amount", " $1,234.50 ")
	if err != nil {
		t.Fatalf("ParseAmount: %v", err)
	}
	if !got.Equal(dec("1234.5")) {
		t.Errorf("ParseAmount = %s, want 1234.5", got)
	}
	for _, bad := range []string{"", "abc", "-5", "0"} {
		if _, err := ParseAmount("amount", bad); err == nil {
			t.Errorf("ParseAmount(%q) accepted", bad)
		}
	}
}
