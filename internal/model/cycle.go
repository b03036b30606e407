package model

// CycleSettings anchors cycle tracking. StartDate is the first day of the
// most recent period; empty means tracking has not been set up.
type CycleSettings struct {
	StartDate      string `json:"startDate" yaml:"start_date"`
	Length         int    `json:"cycleLength" yaml:"length"`
	PeriodDuration int    `json:"periodDuration" yaml:"period_duration"`
}

// Flow intensity values.
const (
	FlowNone   = "none"
	FlowLight  = "light"
	FlowMedium = "medium"
	FlowHeavy  = "heavy"
)

// CycleLogEntry is a daily cycle journal entry.
type CycleLogEntry struct {
	Date        string   `json:"date" yaml:"date"`
	Flow        string   `json:"flow,omitempty" yaml:"flow,omitempty"`
	Mood        string   `json:"mood,omitempty" yaml:"mood,omitempty"`
	Symptoms    []string `json:"symptoms,omitempty" yaml:"symptoms,omitempty"`
	Temperature float64  `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	Notes       string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}
