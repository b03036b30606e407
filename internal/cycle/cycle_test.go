package cycle

import (
	"testing"
	"time"

	"github.com/theirongolddev/tend/internal/model"
)

func day(s string) time.Time {
	t, err := model.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

var settings = model.CycleSettings{StartDate: "2024-01-01", Length: 28, PeriodDuration: 5}

func TestCalculateScenario(t *testing.T) {
	tests := []struct {
		target string
		day    int
		phase  Phase
	}{
		{"2024-01-01", 1, Menstruation},
		{"2024-01-03", 3, Menstruation},
		{"2024-01-06", 6, Follicular},
		{"2024-01-10", 10, Follicular},
		{"2024-01-15", 15, Ovulation},
		{"2024-01-16", 16, Ovulation},
		{"2024-01-17", 17, Luteal},
		{"2024-01-20", 20, Luteal},
		{"2024-01-28", 28, Luteal},
		{"2024-01-29", 1, Menstruation},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			st := Calculate(settings, day(tt.target), true)
			if !st.Tracked {
				t.Fatal("not tracked")
			}
			if st.Day != tt.day {
				t.Errorf("Day = %d, want %d", st.Day, tt.day)
			}
			if st.Phase != tt.phase {
				t.Errorf("Phase = %q, want %q", st.Phase, tt.phase)
			}
		})
	}
}

func TestCalculateWithoutPrediction(t *testing.T) {
	st := Calculate(settings, day("2024-02-02"), false)
	if st.Phase != Awaiting {
		t.Errorf("Phase = %q, want %q", st.Phase, Awaiting)
	}
	if st.Day != 5 {
		t.Errorf("Day = %d, want 5", st.Day)
	}
}

func TestCalculateBeforeStart(t *testing.T) {
	st := Calculate(settings, day("2023-12-31"), true)
	if st.Tracked || st.Phase != NotTracked {
		t.Errorf("status = %+v, want not tracked", st)
	}
	if st := Calculate(model.CycleSettings{}, day("2024-01-01"), true); st.Tracked {
		t.Errorf("empty settings tracked: %+v", st)
	}
}

func TestDayFormulaAndMonotonicPhases(t *testing.T) {
	start := day("2024-01-01")
	for _, length := range []int{21, 26, 28, 32, 35} {
		for _, period := range []int{3, 5, 7} {
			s := model.CycleSettings{StartDate: "2024-01-01", Length: length, PeriodDuration: period}
			prevOrder := 0
			for off := 0; off < length*3; off++ {
				target := start.AddDate(0, 0, off)
				st := Calculate(s, target, true)
				if want := off%length + 1; st.Day != want {
					t.Fatalf("len=%d off=%d: Day = %d, want %d", length, off, st.Day, want)
				}
				if st.Day == 1 {
					prevOrder = 0
				}
				if st.Phase.Order() < prevOrder {
					t.Fatalf("len=%d period=%d day=%d: phase %q went backwards", length, period, st.Day, st.Phase)
				}
				prevOrder = st.Phase.Order()
			}
		}
	}
}

func TestDayOffsetAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	a := time.Date(2024, 3, 9, 0, 0, 0, 0, loc)
	b := time.Date(2024, 3, 11, 0, 0, 0, 0, loc)
	if got := DayOffset(a, b); got != 2 {
		t.Errorf("DayOffset across DST = %d, want 2", got)
	}
}

func TestNextPeriod(t *testing.T) {
	st := Calculate(settings, day("2024-01-20"), true)
	if !st.NextPeriod.Equal(day("2024-01-29")) {
		t.Errorf("NextPeriod = %s, want 2024-01-29", st.NextPeriod.Format(model.DayLayout))
	}
	if st.DaysUntilPeriod != 9 {
		t.Errorf("DaysUntilPeriod = %d, want 9", st.DaysUntilPeriod)
	}
}

func TestFertileWindow(t *testing.T) {
	from, to, ok := FertileWindow(settings, day("2024-02-05"))
	if !ok {
		t.Fatal("window not found")
	}
	if got := model.DayKey(from); got != "2024-02-07" {
		t.Errorf("from = %s, want 2024-02-07", got)
	}
	if got := model.DayKey(to); got != "2024-02-13" {
		t.Errorf("to = %s, want 2024-02-13", got)
	}

	short := model.CycleSettings{StartDate: "2024-01-01", Length: 20, PeriodDuration: 6}
	from, to, ok = FertileWindow(short, day("2024-01-03"))
	if !ok || model.DayKey(from) != "2024-01-07" || model.DayKey(to) != "2024-01-08" {
		t.Errorf("short cycle window = %s..%s ok=%v, want 2024-01-07..2024-01-08",
			model.DayKey(from), model.DayKey(to), ok)
	}

	overlap := model.CycleSettings{StartDate: "2024-01-01", Length: 20, PeriodDuration: 10}
	if from, to, ok := FertileWindow(overlap, day("2024-01-03")); ok {
		t.Errorf("period past ovulation gave window %s..%s", model.DayKey(from), model.DayKey(to))
	}
}

func TestPredict(t *testing.T) {
	preds := Predict(settings, day("2024-01-01"), day("2024-01-29"))
	var period, ovulation, starts int
	for _, p := range preds {
		switch p.Phase {
		case Menstruation:
			period++
		case Ovulation:
			ovulation++
		}
		if p.PeriodStart {
			starts++
		}
	}
	if period != 5 || ovulation != 2 || starts != 1 {
		t.Errorf("period=%d ovulation=%d starts=%d, want 5/2/1", period, ovulation, starts)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(settings); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}
	bad := []model.CycleSettings{
		{StartDate: "2024-13-01", Length: 28, PeriodDuration: 5},
		{Length: 10, PeriodDuration: 5},
		{Length: 28, PeriodDuration: 0},
		{Length: 28, PeriodDuration: 14},
		{StartDate: "2024-01-01", Length: 20, PeriodDuration: 10},
		{Length: 15, PeriodDuration: 2},
	}
	for _, s := range []model.CycleSettings{
		{Length: 20, PeriodDuration: 6},
		{Length: 15, PeriodDuration: 1},
	} {
		if err := Validate(s); err != nil {
			t.Errorf("Validate(%+v) = %v", s, err)
		}
	}
	for _, s := range bad {
		if err := Validate(s); err == nil {
			t.Errorf("Validate(%+v) accepted", s)
		}
	}
}

func TestSummarize(t *testing.T) {
	logs := []model.CycleLogEntry{
		{Date: "2024-01-02", Flow: "medium", Symptoms: []string{"Cramps"}},
		{Date: "2024-01-01", Flow: "heavy", Symptoms: []string{"cramps", "headache"}, Mood: "Tired"},
		{Date: "2024-01-10", Mood: "happy"},
		{Date: "2024-01-30", Flow: "light"},
		{Date: "2024-01-31", Flow: "heavy", Symptoms: []string{"bloating"}},
	}
	sum := Summarize(logs)

	if sum.FlowDays != 4 {
		t.Errorf("FlowDays = %d, want 4", sum.FlowDays)
	}
	if len(sum.PeriodStarts) != 2 || sum.PeriodStarts[0] != "2024-01-01" || sum.PeriodStarts[1] != "2024-01-30" {
		t.Errorf("PeriodStarts = %v", sum.PeriodStarts)
	}
	if sum.AverageLength != 29 {
		t.Errorf("AverageLength = %v, want 29", sum.AverageLength)
	}
	if len(sum.TopSymptoms) == 0 || sum.TopSymptoms[0] != (SymptomCount{"cramps", 2}) {
		t.Errorf("TopSymptoms = %v", sum.TopSymptoms)
	}
	if sum.MoodCounts["tired"] != 1 {
		t.Errorf("MoodCounts = %v", sum.MoodCounts)
	}
}
