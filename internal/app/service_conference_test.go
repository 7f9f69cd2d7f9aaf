package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestAddSessionChecksEveryReference(t *testing.T) {
	svc, _, _ := newTestService(t)
	user := signUpUser(t, svc, "me@corp.io", "Me")
	other := signUpUser(t, svc, "other@corp.io", "Other")
	ctx := context.Background()

	conference, err := svc.CreateConference(ctx, user.UserID, ConferenceInput{Name: "DevConf"})
	if err != nil {
		t.Fatalf("create conference: %v", err)
	}
	foreignContact, err := svc.UpsertContact(ctx, other.UserID, ContactInput{FullName: "Bob"})
	if err != nil {
		t.Fatalf("foreign contact: %v", err)
	}

	var de *DomainError

	_, err = svc.AddSession(ctx, user.UserID, SessionInput{Title: "No conference"})
	if !errors.As(err, &de) || de.Code != "VALIDATION_ERROR" {
		t.Fatalf("missing conference_id should be VALIDATION_ERROR, got %v", err)
	}

	_, err = svc.AddSession(ctx, user.UserID, SessionInput{ConferenceID: "conf_missing"})
	if !errors.As(err, &de) || de.Status != 404 {
		t.Fatalf("unknown conference should be 404, got %v", err)
	}

	_, err = svc.AddSession(ctx, user.UserID, SessionInput{
		ConferenceID: conference.ID,
		ContactID:    foreignContact.ID,
	})
	if !errors.As(err, &de) || de.Status != 404 {
		t.Fatalf("foreign contact should be 404, got %v", err)
	}

	// Nothing should have been written by the failed attempts.
	details, err := svc.ListSessions(ctx, user.UserID, conference.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(details) != 0 {
		t.Fatalf("expected no sessions after failed adds, got %d", len(details))
	}
}

func TestAddSessionDefaultsStartTime(t *testing.T) {
	svc, _, _ := newTestService(t)
	user := signUpUser(t, svc, "me@corp.io", "Me")
	ctx := context.Background()

	fixed := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	conference, err := svc.CreateConference(ctx, user.UserID, ConferenceInput{Name: "DevConf"})
	if err != nil {
		t.Fatalf("create conference: %v", err)
	}

	session, err := svc.AddSession(ctx, user.UserID, SessionInput{
		ConferenceID: conference.ID,
		Title:        "Keynote debrief",
	})
	if err != nil {
		t.Fatalf("add session: %v", err)
	}
	if !session.StartedAt.Equal(fixed) {
		t.Fatalf("expected default start %v, got %v", fixed, session.StartedAt)
	}

	explicit := fixed.Add(-2 * time.Hour)
	session, err = svc.AddSession(ctx, user.UserID, SessionInput{
		ConferenceID: conference.ID,
		StartedAt:    &explicit,
	})
	if err != nil {
		t.Fatalf("add session: %v", err)
	}
	if !session.StartedAt.Equal(explicit) {
		t.Fatalf("expected explicit start %v, got %v", explicit, session.StartedAt)
	}
}

func TestGenerateRecapStoresAndSignsReport(t *testing.T) {
	svc, _, blobStore := newTestService(t)
	user := signUpUser(t, svc, "me@corp.io", "Me")
	ctx := context.Background()

	fixed := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	conference, err := svc.CreateConference(ctx, user.UserID, ConferenceInput{
		Name:      "DevConf 2026",
		Location:  "Berlin",
		StartDate: "2026-03-01",
		EndDate:   "2026-03-03",
	})
	if err != nil {
		t.Fatalf("create conference: %v", err)
	}
	contact, err := svc.UpsertContact(ctx, user.UserID, ContactInput{FullName: "Ada Lovelace", Company: "Acme Corp"})
	if err != nil {
		t.Fatalf("contact: %v", err)
	}
	if _, err := svc.AddSession(ctx, user.UserID, SessionInput{
		ConferenceID: conference.ID,
		ContactID:    contact.ID,
		Title:        "Met at booth 12",
	}); err != nil {
		t.Fatalf("add session: %v", err)
	}

	result, err := svc.GenerateRecap(ctx, user.UserID, conference.ID)
	if err != nil {
		t.Fatalf("generate recap: %v", err)
	}

	if result.ExpiresIn != 3600 {
		t.Fatalf("expected 3600s link validity, got %d", result.ExpiresIn)
	}
	wantPath := fmt.Sprintf("%s/conference-recap-%s-%d.txt", user.UserID, conference.ID, fixed.UnixMilli())
	if result.Recap.StoragePath != wantPath {
		t.Fatalf("expected path %q, got %q", wantPath, result.Recap.StoragePath)
	}
	if !strings.Contains(result.DownloadURL, "expires=3600") {
		t.Fatalf("expected signed url carrying expiry, got %q", result.DownloadURL)
	}

	data, contentType, ok := blobStore.Get(wantPath)
	if !ok {
		t.Fatal("recap not stored")
	}
	if contentType != "text/plain" {
		t.Fatalf("expected text/plain, got %q", contentType)
	}
	content := string(data)
	if !strings.HasPrefix(content, "CONFERENCE RECAP: DevConf 2026\n") {
		t.Fatalf("unexpected recap header:\n%s", content)
	}
	if !strings.Contains(content, "1. Met at booth 12\n") {
		t.Fatalf("expected session entry:\n%s", content)
	}
	if !strings.Contains(content, "Contact: Ada Lovelace (Acme Corp)") {
		t.Fatalf("expected contact line:\n%s", content)
	}
}

func TestGenerateRecapEmptyConference(t *testing.T) {
	svc, _, blobStore := newTestService(t)
	user := signUpUser(t, svc, "me@corp.io", "Me")
	ctx := context.Background()

	conference, err := svc.CreateConference(ctx, user.UserID, ConferenceInput{Name: "Quiet Conf"})
	if err != nil {
		t.Fatalf("create conference: %v", err)
	}

	result, err := svc.GenerateRecap(ctx, user.UserID, conference.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	data, _, ok := blobStore.Get(result.Recap.StoragePath)
	if !ok {
		t.Fatal("recap not stored")
	}
	if !strings.Contains(string(data), "No sessions recorded.\n") {
		t.Fatalf("expected empty marker:\n%s", data)
	}
}

func TestGenerateRecapForeignConferenceIs404(t *testing.T) {
	svc, _, _ := newTestService(t)
	owner := signUpUser(t, svc, "me@corp.io", "Me")
	intruder := signUpUser(t, svc, "other@corp.io", "Other")
	ctx := context.Background()

	conference, err := svc.CreateConference(ctx, owner.UserID, ConferenceInput{Name: "Private Conf"})
	if err != nil {
		t.Fatalf("create conference: %v", err)
	}

	_, err = svc.GenerateRecap(ctx, intruder.UserID, conference.ID)
	var de *DomainError
	if !errors.As(err, &de) || de.Status != 404 {
		t.Fatalf("expected 404 for foreign conference, got %v", err)
	}
}
