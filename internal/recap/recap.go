// Package recap renders the plain-text conference recap report.
package recap

import (
	"fmt"
	"strings"

	"fieldnote/api/internal/store"
)

// Render builds the recap document for a conference. Sessions must already
// be ordered by start time ascending; the renderer does not sort.
func Render(conference store.Conference, sessions []store.SessionDetail) string {
	var b strings.Builder

	fmt.Fprintf(&b, "CONFERENCE RECAP: %s\n", conference.Name)
	fmt.Fprintf(&b, "Location: %s\n", orNA(conference.Location))
	fmt.Fprintf(&b, "Dates: %s - %s\n\n", orNA(conference.StartDate), orNA(conference.EndDate))
	fmt.Fprintf(&b, "Total Sessions: %d\n\n", len(sessions))
	b.WriteString("SESSIONS:\n\n")

	if len(sessions) == 0 {
		b.WriteString("No sessions recorded.\n")
	}
	for i, detail := range sessions {
		title := detail.Session.Title
		if title == "" {
			title = "Untitled Session"
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, title)
		fmt.Fprintf(&b, "   Date: %s\n", detail.Session.StartedAt.Format("2006-01-02 15:04"))

		if detail.Contact != nil {
			fmt.Fprintf(&b, "   Contact: %s", detail.Contact.FullName)
			if detail.Contact.Company != "" {
				fmt.Fprintf(&b, " (%s)", detail.Contact.Company)
			}
			b.WriteString("\n")
		}
		if detail.Meeting != nil && detail.Meeting.Summary != "" {
			fmt.Fprintf(&b, "   Summary: %s\n", detail.Meeting.Summary)
		}
		b.WriteString("\n")
	}

	if conference.Notes != "" {
		fmt.Fprintf(&b, "\nNOTES:\n%s\n", conference.Notes)
	}

	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
