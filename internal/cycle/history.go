package cycle

import (
	"sort"
	"strings"

	"github.com/theirongolddev/tend/internal/model"
)

// SymptomCount is how often a symptom was logged.
type SymptomCount struct {
	Symptom string
	Count   int
}

// Summary condenses a cycle journal.
type Summary struct {
	Entries         int
	FlowDays        int
	PeriodStarts    []string
	ObservedLengths []int
	AverageLength   float64
	TopSymptoms     []SymptomCount
	MoodCounts      map[string]int
}

// Summarize derives period starts, observed cycle lengths and symptom
// frequencies from the log. A period start is a flow day whose previous
// calendar day had no flow.
func Summarize(entries []model.CycleLogEntry) Summary {
	sorted := append([]model.CycleLogEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	sum := Summary{Entries: len(sorted), MoodCounts: make(map[string]int)}
	flow := make(map[string]bool)
	symptoms := make(map[string]int)

	for _, e := range sorted {
		if hasFlow(e.Flow) {
			flow[e.Date] = true
			sum.FlowDays++
		}
		for _, s := range e.Symptoms {
			s = strings.ToLower(strings.TrimSpace(s))
			if s != "" {
				symptoms[s]++
			}
		}
		if e.Mood != "" {
			sum.MoodCounts[strings.ToLower(e.Mood)]++
		}
	}

	for _, e := range sorted {
		if flow[e.Date] && !flow[model.AddDays(e.Date, -1)] {
			sum.PeriodStarts = append(sum.PeriodStarts, e.Date)
		}
	}

	total := 0
	for i := 1; i < len(sum.PeriodStarts); i++ {
		a, errA := model.ParseDay(sum.PeriodStarts[i-1])
		b, errB := model.ParseDay(sum.PeriodStarts[i])
		if errA != nil || errB != nil {
			continue
		}
		n := DayOffset(a, b)
		sum.ObservedLengths = append(sum.ObservedLengths, n)
		total += n
	}
	if len(sum.ObservedLengths) > 0 {
		sum.AverageLength = float64(total) / float64(len(sum.ObservedLengths))
	}

	for s, n := range symptoms {
		sum.TopSymptoms = append(sum.TopSymptoms, SymptomCount{Symptom: s, Count: n})
	}
	sort.Slice(sum.TopSymptoms, func(i, j int) bool {
		if sum.TopSymptoms[i].Count != sum.TopSymptoms[j].Count {
			return sum.TopSymptoms[i].Count > sum.TopSymptoms[j].Count
		}
		return sum.TopSymptoms[i].Symptom < sum.TopSymptoms[j].Symptom
	})
	return sum
}

func hasFlow(f string) bool {
	switch strings.ToLower(f) {
	case model.FlowLight, model.FlowMedium, model.FlowHeavy, "spotting":
		return true
	}
	return false
}
