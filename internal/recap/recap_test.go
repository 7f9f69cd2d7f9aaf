package recap

import (
	"strings"
	"testing"
	"time"

	"fieldnote/api/internal/store"
)

func TestRenderEmptyConference(t *testing.T) {
	conference := store.Conference{
		Name:      "DevConf 2026",
		Location:  "Berlin",
		StartDate: "2026-03-01",
		EndDate:   "2026-03-03",
	}

	got := Render(conference, nil)
	want := "CONFERENCE RECAP: DevConf 2026\n" +
		"Location: Berlin\n" +
		"Dates: 2026-03-01 - 2026-03-03\n\n" +
		"Total Sessions: 0\n\n" +
		"SESSIONS:\n\n" +
		"No sessions recorded.\n"

	if got != want {
		t.Fatalf("unexpected recap:\n%q\nwant:\n%q", got, want)
	}
}

func TestRenderMissingFieldsFallBackToNA(t *testing.T) {
	got := Render(store.Conference{Name: "Mystery Meet"}, nil)
	if !strings.Contains(got, "Location: N/A\n") {
		t.Fatalf("expected N/A location, got:\n%s", got)
	}
	if !strings.Contains(got, "Dates: N/A - N/A\n") {
		t.Fatalf("expected N/A dates, got:\n%s", got)
	}
}

func TestRenderSessionsWithContactAndMeeting(t *testing.T) {
	started := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	contact := store.Contact{FullName: "Ada Lovelace", Company: "Acme Corp"}
	meeting := store.Meeting{Summary: "Agreed on a pilot"}

	sessions := []store.SessionDetail{
		{
			Session: store.ConferenceSession{Title: "Met at booth 12", StartedAt: started},
			Contact: &contact,
			Meeting: &meeting,
		},
		{
			Session: store.ConferenceSession{StartedAt: started.Add(2 * time.Hour)},
		},
	}
	conference := store.Conference{Name: "DevConf 2026", Notes: "Great turnout this year."}

	got := Render(conference, sessions)

	if !strings.Contains(got, "Total Sessions: 2\n") {
		t.Fatalf("expected session count, got:\n%s", got)
	}
	if !strings.Contains(got, "1. Met at booth 12\n   Date: 2026-03-02 09:30\n   Contact: Ada Lovelace (Acme Corp)\n   Summary: Agreed on a pilot\n") {
		t.Fatalf("expected full first session block, got:\n%s", got)
	}
	if !strings.Contains(got, "2. Untitled Session\n") {
		t.Fatalf("expected untitled fallback, got:\n%s", got)
	}
	if strings.Contains(got, "No sessions recorded.") {
		t.Fatalf("empty marker should not appear with sessions:\n%s", got)
	}
	if !strings.HasSuffix(got, "\nNOTES:\nGreat turnout this year.\n") {
		t.Fatalf("expected trailing notes block, got:\n%s", got)
	}
}

func TestRenderContactWithoutCompany(t *testing.T) {
	contact := store.Contact{FullName: "Grace Hopper"}
	sessions := []store.SessionDetail{
		{Session: store.ConferenceSession{Title: "Hallway chat"}, Contact: &contact},
	}

	got := Render(store.Conference{Name: "DevConf"}, sessions)
	if !strings.Contains(got, "   Contact: Grace Hopper\n") {
		t.Fatalf("expected contact line without parens, got:\n%s", got)
	}
	if strings.Contains(got, "Grace Hopper (") {
		t.Fatalf("no company should mean no parenthetical:\n%s", got)
	}
}
