package model

// Type groups insights for display.
type Type string

const (
	TypeTrend  Type = "trend"
	TypeBudget Type = "budget"
	TypeGood   Type = "good"
	TypeWarn   Type = "warn"
	TypeSubs   Type = "subs"
	TypeGoal   Type = "goal"
)

// Severity orders insights; higher weight ranks first.
type Severity string

const (
	SeverityLow  Severity = "low"
	SeverityMed  Severity = "med"
	SeverityHigh Severity = "high"
)

// Weight returns 3 for high, 2 for med, 1 for low and 0 otherwise.
func (s Severity) Weight() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMed:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// MetaTimestamp is the meta key holding a candidate's recency in Unix
// milliseconds. It is only used for ranking and removed from results.
const MetaTimestamp = "timestamp"

// Insight is one ranked, human-readable observation.
type Insight struct {
	ID       string         `json:"id"`
	Type     Type           `json:"type"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Meta     map[string]any `json:"meta,omitempty"`
}
