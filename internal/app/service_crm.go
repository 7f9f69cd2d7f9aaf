package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fieldnote/api/internal/crm"
	"fieldnote/api/internal/store"
	"fieldnote/api/internal/util"
	"fieldnote/api/internal/validate"
)

type ContactInput struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Company     string `json:"company"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	LinkedinURL string `json:"linkedin_url"`
	AvatarURL   string `json:"avatar_url"`
	Title       string `json:"title"`
}

// UpsertContact validates the payload, auto-links a company by email domain,
// and inserts or updates the contact.
func (s *Service) UpsertContact(ctx context.Context, userID string, in ContactInput) (store.Contact, error) {
	var v validate.Errors
	fullName := v.Required("full_name", in.FullName)
	fullName = v.MaxLen("full_name", fullName, 100)
	company := v.MaxLen("company", in.Company, 100)
	email := v.Email("email", in.Email)
	phone := v.Phone("phone", in.Phone)
	linkedin := v.LinkedinURL("linkedin_url", in.LinkedinURL)
	avatar := v.URL("avatar_url", in.AvatarURL)
	title := v.MaxLen("title", in.Title, 100)
	if !v.Empty() {
		return store.Contact{}, validationError(v.List())
	}

	companyID, err := s.linker.LinkByEmail(ctx, userID, email, company)
	if err != nil {
		return store.Contact{}, fmt.Errorf("link company: %w", err)
	}

	now := s.now().UTC()
	if in.ID != "" {
		existing, err := s.store.GetContact(ctx, in.ID, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return store.Contact{}, notFoundError()
			}
			return store.Contact{}, err
		}
		existing.FullName = fullName
		existing.Company = company
		existing.Email = email
		existing.Phone = phone
		existing.LinkedinURL = linkedin
		existing.AvatarURL = avatar
		existing.Title = title
		existing.CompanyID = companyID
		existing.UpdatedAt = now
		if err := s.store.UpdateContact(ctx, existing); err != nil {
			return store.Contact{}, err
		}
		s.search.IndexContact(existing)
		return existing, nil
	}

	contact := store.Contact{
		ID:          util.NewID("ct"),
		UserID:      userID,
		FullName:    fullName,
		Company:     company,
		Email:       email,
		Phone:       phone,
		LinkedinURL: linkedin,
		AvatarURL:   avatar,
		Title:       title,
		CompanyID:   companyID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.InsertContact(ctx, contact); err != nil {
		return store.Contact{}, err
	}
	s.search.IndexContact(contact)
	return contact, nil
}

func (s *Service) GetContact(ctx context.Context, userID, id string) (store.Contact, error) {
	contact, err := s.store.GetContact(ctx, id, userID)
	if errors.Is(err, store.ErrNotFound) {
		return store.Contact{}, notFoundError()
	}
	return contact, err
}

func (s *Service) ListContacts(ctx context.Context, userID string) ([]store.Contact, error) {
	return s.store.ListContacts(ctx, userID)
}

type CompanyInput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Domain      string `json:"domain"`
	WebsiteURL  string `json:"website_url"`
	Phone       string `json:"phone"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	Industry    string `json:"industry"`
	LinkedinURL string `json:"linkedin_url"`
	Notes       string `json:"notes"`
}

// UpsertCompany validates the payload and enforces per-owner domain
// uniqueness. A new company claims its domain row before the company row is
// written, so a losing race never leaves an orphaned company behind.
func (s *Service) UpsertCompany(ctx context.Context, userID string, in CompanyInput) (store.Company, error) {
	var v validate.Errors
	name := v.Required("name", in.Name)
	name = v.MaxLen("name", name, 100)
	rawDomain := v.MaxLen("domain", in.Domain, 100)
	website := v.URL("website_url", in.WebsiteURL)
	website = v.MaxLen("website_url", website, 255)
	phone := v.Phone("phone", in.Phone)
	city := v.MaxLen("city", in.City, 100)
	state := v.MaxLen("state", in.State, 100)
	country := v.MaxLen("country", in.Country, 100)
	industry := v.MaxLen("industry", in.Industry, 100)
	linkedin := v.LinkedinURL("linkedin_url", in.LinkedinURL)
	notes := v.MaxLen("notes", in.Notes, 5000)
	if !v.Empty() {
		return store.Company{}, validationError(v.List())
	}

	domain := ""
	if rawDomain != "" {
		domain = crm.NormalizeDomain(rawDomain)
	}

	now := s.now().UTC()
	company := store.Company{
		ID:          in.ID,
		OwnerUserID: userID,
		Name:        name,
		Domain:      domain,
		WebsiteURL:  website,
		Phone:       phone,
		City:        city,
		State:       state,
		Country:     country,
		Industry:    industry,
		LinkedinURL: linkedin,
		Notes:       notes,
		UpdatedAt:   now,
	}

	if in.ID == "" {
		company.ID = util.NewID("co")
		company.CreatedAt = now
		if domain != "" {
			if err := s.claimDomain(ctx, userID, company.ID, domain, now); err != nil {
				return store.Company{}, err
			}
		}
		if err := s.store.InsertCompany(ctx, company); err != nil {
			return store.Company{}, err
		}
		return company, nil
	}

	existing, err := s.store.GetCompany(ctx, in.ID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Company{}, notFoundError()
		}
		return store.Company{}, err
	}
	company.CreatedAt = existing.CreatedAt
	if domain != "" && domain != existing.Domain {
		if err := s.claimDomain(ctx, userID, company.ID, domain, now); err != nil {
			return store.Company{}, err
		}
	}
	if err := s.store.UpdateCompany(ctx, company); err != nil {
		return store.Company{}, err
	}
	return company, nil
}

func (s *Service) claimDomain(ctx context.Context, userID, companyID, domain string, now time.Time) error {
	err := s.store.InsertCompanyDomain(ctx, store.CompanyDomain{
		ID:          util.NewID("cd"),
		CompanyID:   companyID,
		Domain:      domain,
		OwnerUserID: userID,
		CreatedAt:   now,
	})
	var dup *store.DuplicateDomainError
	if errors.As(err, &dup) {
		if dup.ExistingCompanyID == companyID {
			return nil
		}
		return duplicateDomainError(dup.ExistingCompanyID)
	}
	return err
}

func (s *Service) GetCompany(ctx context.Context, userID, id string) (store.Company, error) {
	company, err := s.store.GetCompany(ctx, id, userID)
	if errors.Is(err, store.ErrNotFound) {
		return store.Company{}, notFoundError()
	}
	return company, err
}

func (s *Service) ListCompanies(ctx context.Context, userID string) ([]store.Company, error) {
	return s.store.ListCompanies(ctx, userID)
}

type MeetingContactInput struct {
	ContactID string `json:"contact_id"`
	Role      string `json:"role"`
}

type MeetingInput struct {
	HappenedAt *time.Time            `json:"happened_at"`
	Location   string                `json:"location"`
	Event      string                `json:"event"`
	NotesRaw   string                `json:"notes_raw"`
	Summary    string                `json:"summary"`
	Contacts   []MeetingContactInput `json:"contacts"`
}

// CreateMeeting records an interaction and links the named contacts. Every
// contact is ownership-checked before anything is written.
func (s *Service) CreateMeeting(ctx context.Context, userID string, in MeetingInput) (store.Meeting, error) {
	var v validate.Errors
	location := v.MaxLen("location", in.Location, 200)
	event := v.MaxLen("event", in.Event, 200)
	notesRaw := v.MaxLen("notes_raw", in.NotesRaw, 10000)
	summary := v.MaxLen("summary", in.Summary, 2000)
	for i, link := range in.Contacts {
		if link.ContactID == "" {
			v.Add(fmt.Sprintf("contacts[%d].contact_id", i), "contact_id is required")
		}
		v.MaxLen(fmt.Sprintf("contacts[%d].role", i), link.Role, 100)
	}
	if !v.Empty() {
		return store.Meeting{}, validationError(v.List())
	}

	for _, link := range in.Contacts {
		if _, err := s.store.GetContact(ctx, link.ContactID, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return store.Meeting{}, notFoundError()
			}
			return store.Meeting{}, err
		}
	}

	now := s.now().UTC()
	happenedAt := now
	if in.HappenedAt != nil {
		happenedAt = in.HappenedAt.UTC()
	}

	meeting := store.Meeting{
		ID:          util.NewID("mtg"),
		OwnerUserID: userID,
		HappenedAt:  happenedAt,
		Location:    location,
		Event:       event,
		NotesRaw:    notesRaw,
		Summary:     summary,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.InsertMeeting(ctx, meeting); err != nil {
		return store.Meeting{}, err
	}

	for _, link := range in.Contacts {
		err := s.store.LinkContactToMeeting(ctx, store.ContactMeeting{
			ContactID: link.ContactID,
			MeetingID: meeting.ID,
			Role:      link.Role,
		})
		if err != nil {
			return store.Meeting{}, err
		}
	}
	return meeting, nil
}

func (s *Service) GetMeeting(ctx context.Context, userID, id string) (store.Meeting, error) {
	meeting, err := s.store.GetMeeting(ctx, id, userID)
	if errors.Is(err, store.ErrNotFound) {
		return store.Meeting{}, notFoundError()
	}
	return meeting, err
}
