package app

import (
	"context"
	"errors"
	"testing"
)

func TestUpsertContactAutoLinksCompany(t *testing.T) {
	svc, st, _ := newTestService(t)
	user := signUpUser(t, svc, "me@corp.io", "Me")
	ctx := context.Background()

	first, err := svc.UpsertContact(ctx, user.UserID, ContactInput{
		FullName: "Ada Lovelace",
		Email:    "ada@acme.io",
		Company:  "Acme Corp",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if first.CompanyID == nil {
		t.Fatal("expected auto-linked company")
	}

	second, err := svc.UpsertContact(ctx, user.UserID, ContactInput{
		FullName: "Grace Hopper",
		Email:    "grace@acme.io",
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.CompanyID == nil || *second.CompanyID != *first.CompanyID {
		t.Fatal("contacts on the same domain must share a company")
	}

	companies, _ := st.ListCompanies(ctx, user.UserID)
	if len(companies) != 1 {
		t.Fatalf("expected one auto-created company, got %d", len(companies))
	}
}

func TestUpsertContactFreeMailSkipsLinking(t *testing.T) {
	svc, _, _ := newTestService(t)
	user := signUpUser(t, svc, "me@corp.io", "Me")

	contact, err := svc.UpsertContact(context.Background(), user.UserID, ContactInput{
		FullName: "Ada Lovelace",
		Email:    "ada@gmail.com",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if contact.CompanyID != nil {
		t.Fatalf("free-mail contact must not be linked, got %q", *contact.CompanyID)
	}
}

func TestUpsertContactValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	user := signUpUser(t, svc, "me@corp.io", "Me")

	_, err := svc.UpsertContact(context.Background(), user.UserID, ContactInput{
		Email:       "not-an-email",
		LinkedinURL: "https://example.com/nope",
	})
	var de *DomainError
	if !errors.As(err, &de) || de.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestUpsertContactUpdateExisting(t *testing.T) {
	svc, _, _ := newTestService(t)
	user := signUpUser(t, svc, "me@corp.io", "Me")
	ctx := context.Background()

	created, err := svc.UpsertContact(ctx, user.UserID, ContactInput{FullName: "Ada"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpsertContact(ctx, user.UserID, ContactInput{
		ID:       created.ID,
		FullName: "Ada Lovelace",
		Title:    "Engineer",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID || updated.FullName != "Ada Lovelace" || updated.Title != "Engineer" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	var de *DomainError
	_, err = svc.UpsertContact(ctx, user.UserID, ContactInput{ID: "ct_missing", FullName: "Ghost"})
	if !errors.As(err, &de) || de.Status != 404 {
		t.Fatalf("expected 404 for unknown id, got %v", err)
	}
}

func TestUpsertCompanyDuplicateDomainConflicts(t *testing.T) {
	svc, st, _ := newTestService(t)
	user := signUpUser(t, svc, "me@corp.io", "Me")
	ctx := context.Background()

	first, err := svc.UpsertCompany(ctx, user.UserID, CompanyInput{Name: "Acme", Domain: "acme.io"})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	_, err = svc.UpsertCompany(ctx, user.UserID, CompanyInput{Name: "Acme Clone", Domain: "https://www.acme.io/"})
	var de *DomainError
	if !errors.As(err, &de) || de.Code != "DUPLICATE_DOMAIN" {
		t.Fatalf("expected DUPLICATE_DOMAIN, got %v", err)
	}
	details, ok := de.Details.(map[string]any)
	if !ok || details["existing_company_id"] != first.ID {
		t.Fatalf("expected existing_company_id %s, got %v", first.ID, de.Details)
	}

	// The losing upsert must not leave an orphaned company behind.
	companies, _ := st.ListCompanies(ctx, user.UserID)
	if len(companies) != 1 {
		t.Fatalf("expected one company after the conflict, got %d", len(companies))
	}
}

func TestUpsertCompanySameDomainDifferentOwnersOK(t *testing.T) {
	svc, _, _ := newTestService(t)
	a := signUpUser(t, svc, "a@corp.io", "A")
	b := signUpUser(t, svc, "b@corp.io", "B")
	ctx := context.Background()

	if _, err := svc.UpsertCompany(ctx, a.UserID, CompanyInput{Name: "Acme", Domain: "acme.io"}); err != nil {
		t.Fatalf("owner a: %v", err)
	}
	if _, err := svc.UpsertCompany(ctx, b.UserID, CompanyInput{Name: "Acme", Domain: "acme.io"}); err != nil {
		t.Fatalf("owner b should not conflict with a: %v", err)
	}
}

func TestUpsertCompanyUpdateKeepsOwnDomain(t *testing.T) {
	svc, _, _ := newTestService(t)
	user := signUpUser(t, svc, "me@corp.io", "Me")
	ctx := context.Background()

	created, err := svc.UpsertCompany(ctx, user.UserID, CompanyInput{Name: "Acme", Domain: "acme.io"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Re-upserting the same company with its own domain is not a conflict.
	updated, err := svc.UpsertCompany(ctx, user.UserID, CompanyInput{
		ID: created.ID, Name: "Acme Inc", Domain: "acme.io", City: "Berlin",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Acme Inc" || updated.City != "Berlin" {
		t.Fatalf("unexpected update: %+v", updated)
	}
}

func TestCreateMeetingChecksContactOwnership(t *testing.T) {
	svc, st, _ := newTestService(t)
	user := signUpUser(t, svc, "me@corp.io", "Me")
	other := signUpUser(t, svc, "other@corp.io", "Other")
	ctx := context.Background()

	mine, err := svc.UpsertContact(ctx, user.UserID, ContactInput{FullName: "Ada"})
	if err != nil {
		t.Fatalf("my contact: %v", err)
	}
	theirs, err := svc.UpsertContact(ctx, other.UserID, ContactInput{FullName: "Bob"})
	if err != nil {
		t.Fatalf("their contact: %v", err)
	}

	_, err = svc.CreateMeeting(ctx, user.UserID, MeetingInput{
		Summary:  "Should fail",
		Contacts: []MeetingContactInput{{ContactID: mine.ID}, {ContactID: theirs.ID}},
	})
	var de *DomainError
	if !errors.As(err, &de) || de.Status != 404 {
		t.Fatalf("foreign contact should be 404, got %v", err)
	}

	meeting, err := svc.CreateMeeting(ctx, user.UserID, MeetingInput{
		Summary:  "Pilot agreed",
		Contacts: []MeetingContactInput{{ContactID: mine.ID, Role: "champion"}},
	})
	if err != nil {
		t.Fatalf("create meeting: %v", err)
	}
	if _, err := st.GetMeeting(ctx, meeting.ID, user.UserID); err != nil {
		t.Fatalf("meeting not persisted: %v", err)
	}
}
