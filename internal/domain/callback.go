package domain

import "time"

// DefaultIcon is used for sources configured without an icon.
const DefaultIcon = "🔷"

// Source describes one MIS dashboard to inspect. Loaded once per run.
type Source struct {
	Name        string `validate:"required"`
	Icon        string
	URL         string `validate:"required,url"`
	FilterLabel string
	ProposalCol int  `validate:"gte=0"`
	RemarksCol  int  `validate:"gte=0"`
	MemberCol   *int `validate:"omitempty,gte=0"`
	Active      bool
	Scanner     string
}

// MaxColumn returns the highest column index a row must contain.
func (s Source) MaxColumn() int {
	highest := max(s.ProposalCol, s.RemarksCol)
	if s.MemberCol != nil {
		highest = max(highest, *s.MemberCol)
	}
	return highest
}

// Row is the ordered cell text of a single table row.
type Row []string

// CallbackEvent is a scheduled follow-up extracted from a row.
type CallbackEvent struct {
	Source     string
	Icon       string
	ProposalID string
	Member     string
	Remarks    string
	DueAt      time.Time
}

// Buckets accumulates classified events across all sources of a run.
type Buckets struct {
	Upcoming []CallbackEvent
	Missed   []CallbackEvent
}

// Empty reports whether neither bucket holds an event.
func (b Buckets) Empty() bool {
	return len(b.Upcoming) == 0 && len(b.Missed) == 0
}

// RunStatus enumerates how a monitoring run ended.
type RunStatus string

const (
	StatusDisabled RunStatus = "disabled"
	StatusCooldown RunStatus = "cooldown"
	StatusNothing  RunStatus = "nothing_to_report"
	StatusSent     RunStatus = "sent"
	StatusUnsent   RunStatus = "not_sent"
	StatusFailed   RunStatus = "failed"
)

// RunResult summarizes a completed run.
type RunResult struct {
	ID       string
	Status   RunStatus
	Buckets  Buckets
	Message  string
	Started  time.Time
	Finished time.Time
}

// Describe returns the operator-facing summary of a status.
func (s RunStatus) Describe() string {
	switch s {
	case StatusDisabled:
		return "Master switch is off, nothing checked."
	case StatusCooldown:
		return "Cooldown active, run skipped."
	case StatusNothing:
		return "Nothing to report."
	case StatusSent:
		return "Notification sent."
	case StatusUnsent:
		return "No notification channel configured, alert not sent."
	case StatusFailed:
		return "Run failed."
	default:
		return string(s)
	}
}
