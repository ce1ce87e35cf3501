package usecase

import (
	"fmt"
	"strings"

	"CallbackNotifier/internal/domain"
)

const alertHeader = "🔔 Callback Alerts"

var alertSeparator = strings.Repeat("─", 30)

// FormatAlert renders the buckets into a single chat message. It returns an
// empty string when there is nothing to report.
func FormatAlert(b domain.Buckets, futureMin int) string {
	if b.Empty() {
		return ""
	}

	lines := []string{alertHeader, ""}

	if len(b.Missed) > 0 {
		lines = append(lines, fmt.Sprintf(" **%d Missed:**", len(b.Missed)))
		for _, event := range b.Missed {
			lines = append(lines, formatEvent(event))
		}
	}

	if len(b.Missed) > 0 && len(b.Upcoming) > 0 {
		lines = append(lines, alertSeparator)
	}

	if len(b.Upcoming) > 0 {
		lines = append(lines, fmt.Sprintf(" **%d due in %d min:**", len(b.Upcoming), futureMin))
		for _, event := range b.Upcoming {
			lines = append(lines, formatEvent(event))
		}
	}

	return strings.Join(lines, "\n")
}

func formatEvent(event domain.CallbackEvent) string {
	var member string
	if event.Member != "" {
		member = fmt.Sprintf(" – **%s**", event.Member)
	}
	return fmt.Sprintf("• [%s %s] `%s`%s – %s", event.Source, event.Icon, event.ProposalID, member, event.Remarks)
}
