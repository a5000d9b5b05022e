package broadcast

import "fmt"

// Outcome is the terminal state of one recipient.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSuccess
	OutcomeBlocked
	OutcomeDeactivated
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeSuccess:
		return "success"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeDeactivated:
		return "deactivated"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Stats aggregates outcomes for one run.
type Stats struct {
	Total       int
	Success     int
	Blocked     int
	Deactivated int
	Failed      int
}

// Processed counts recipients that reached a terminal state.
func (s Stats) Processed() int {
	return s.Success + s.Blocked + s.Deactivated + s.Failed
}

func (s *Stats) record(o Outcome) {
	switch o {
	case OutcomeSuccess:
		s.Success++
	case OutcomeBlocked:
		s.Blocked++
	case OutcomeDeactivated:
		s.Deactivated++
	case OutcomeFailed:
		s.Failed++
	}
}

// FormatStats renders the HTML status panel.
func FormatStats(s Stats, done bool) string {
	header := "Broadcast Progress"
	if done {
		header = "Broadcast Completed"
	}
	return fmt.Sprintf("<u>%s</u>\n\n"+
		"• Total users: %d\n"+
		"• Successful: %d\n"+
		"• Blocked users: %d\n"+
		"• Deleted accounts: %d\n"+
		"• Unsuccessful: %d",
		header, s.Total, s.Success, s.Blocked, s.Deactivated, s.Failed)
}
