package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreOwnershipScoping(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.InsertContact(ctx, Contact{ID: "ct_1", UserID: "usr_a", FullName: "Ada"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, err := s.GetContact(ctx, "ct_1", "usr_a"); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if _, err := s.GetContact(ctx, "ct_1", "usr_b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign lookup should be ErrNotFound, got %v", err)
	}

	mine, _ := s.ListContacts(ctx, "usr_a")
	theirs, _ := s.ListContacts(ctx, "usr_b")
	if len(mine) != 1 || len(theirs) != 0 {
		t.Fatalf("expected 1/0 contacts, got %d/%d", len(mine), len(theirs))
	}
}

func TestMemoryStoreDomainUniquenessPerOwner(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := CompanyDomain{ID: "cd_1", CompanyID: "co_1", Domain: "acme.io", OwnerUserID: "usr_a"}
	if err := s.InsertCompanyDomain(ctx, first); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	err := s.InsertCompanyDomain(ctx, CompanyDomain{ID: "cd_2", CompanyID: "co_2", Domain: "acme.io", OwnerUserID: "usr_a"})
	var dup *DuplicateDomainError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateDomainError, got %v", err)
	}
	if dup.ExistingCompanyID != "co_1" {
		t.Fatalf("expected existing company co_1, got %s", dup.ExistingCompanyID)
	}

	// Same domain under a different owner is fine.
	if err := s.InsertCompanyDomain(ctx, CompanyDomain{ID: "cd_3", CompanyID: "co_3", Domain: "acme.io", OwnerUserID: "usr_b"}); err != nil {
		t.Fatalf("different owner insert: %v", err)
	}
}

func TestMemoryStoreFindSessionByNote(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	noteID := "note_1"
	session := ConferenceSession{
		ID: "sess_1", ConferenceID: "conf_1", NoteID: &noteID,
		Title: "Met at booth 12", OwnerUserID: "usr_a", StartedAt: time.Now(),
	}
	if err := s.InsertSession(ctx, session); err != nil {
		t.Fatalf("insert: %v", err)
	}

	found, err := s.FindSessionByNote(ctx, "note_1", "conf_1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != "sess_1" {
		t.Fatalf("expected sess_1, got %s", found.ID)
	}

	if _, err := s.FindSessionByNote(ctx, "note_1", "conf_other"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other conference should be ErrNotFound, got %v", err)
	}
	if _, err := s.FindSessionByNote(ctx, "note_other", "conf_1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other note should be ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreListSessionDetailsOrdersAndJoins(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	contact := Contact{ID: "ct_1", UserID: "usr_a", FullName: "Ada", Company: "Acme"}
	if err := s.InsertContact(ctx, contact); err != nil {
		t.Fatalf("insert contact: %v", err)
	}
	meeting := Meeting{ID: "mtg_1", OwnerUserID: "usr_a", Summary: "Pilot agreed"}
	if err := s.InsertMeeting(ctx, meeting); err != nil {
		t.Fatalf("insert meeting: %v", err)
	}

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	contactID, meetingID := "ct_1", "mtg_1"
	later := ConferenceSession{ID: "sess_2", ConferenceID: "conf_1", OwnerUserID: "usr_a", StartedAt: base.Add(time.Hour)}
	earlier := ConferenceSession{
		ID: "sess_1", ConferenceID: "conf_1", OwnerUserID: "usr_a",
		ContactID: &contactID, MeetingID: &meetingID, StartedAt: base,
	}
	// Insert out of order; listing must sort by start time.
	if err := s.InsertSession(ctx, later); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.InsertSession(ctx, earlier); err != nil {
		t.Fatalf("insert: %v", err)
	}

	details, err := s.ListSessionDetails(ctx, "conf_1", "usr_a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(details))
	}
	if details[0].Session.ID != "sess_1" || details[1].Session.ID != "sess_2" {
		t.Fatalf("expected start-time order, got %s then %s", details[0].Session.ID, details[1].Session.ID)
	}
	if details[0].Contact == nil || details[0].Contact.FullName != "Ada" {
		t.Fatalf("expected joined contact, got %+v", details[0].Contact)
	}
	if details[0].Meeting == nil || details[0].Meeting.Summary != "Pilot agreed" {
		t.Fatalf("expected joined meeting, got %+v", details[0].Meeting)
	}
	if details[1].Contact != nil || details[1].Meeting != nil {
		t.Fatal("bare session should not join anything")
	}

	foreign, err := s.ListSessionDetails(ctx, "conf_1", "usr_b")
	if err != nil {
		t.Fatalf("foreign list: %v", err)
	}
	if len(foreign) != 0 {
		t.Fatalf("foreign owner should see no sessions, got %d", len(foreign))
	}
}

func TestMemoryStoreSearch(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.InsertNote(ctx, Note{
		ID: "note_1", UserID: "usr_a",
		Transcript: "Discussed the product launch roadmap",
		Tags:       []string{"hot-lead"},
	}); err != nil {
		t.Fatalf("insert note: %v", err)
	}
	if err := s.InsertContact(ctx, Contact{ID: "ct_1", UserID: "usr_a", FullName: "Ada Lovelace", Company: "Acme"}); err != nil {
		t.Fatalf("insert contact: %v", err)
	}

	notes, err := s.SearchNotes(ctx, "usr_a", "LAUNCH", 10)
	if err != nil || len(notes) != 1 {
		t.Fatalf("expected 1 note for case-insensitive match, got %d err=%v", len(notes), err)
	}
	notes, _ = s.SearchNotes(ctx, "usr_b", "launch", 10)
	if len(notes) != 0 {
		t.Fatalf("foreign user should see no notes, got %d", len(notes))
	}

	contacts, err := s.SearchContacts(ctx, "usr_a", "lovelace", 10)
	if err != nil || len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d err=%v", len(contacts), err)
	}
}

func TestMemoryStoreRefreshSessions(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.CreateUser(ctx, User{ID: "usr_1", Email: "ada@acme.io"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := s.SaveRefreshSession(ctx, "hash-1", "usr_1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("save: %v", err)
	}

	user, err := s.LookupRefreshSession(ctx, "hash-1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if user.ID != "usr_1" {
		t.Fatalf("expected usr_1, got %s", user.ID)
	}

	if err := s.SaveRefreshSession(ctx, "hash-old", "usr_1", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("save expired: %v", err)
	}
	if _, err := s.LookupRefreshSession(ctx, "hash-old"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired session should be ErrNotFound, got %v", err)
	}

	if err := s.RevokeRefreshSession(ctx, "hash-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := s.LookupRefreshSession(ctx, "hash-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("revoked session should be ErrNotFound, got %v", err)
	}
}
