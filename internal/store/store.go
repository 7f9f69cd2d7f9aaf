// Package store defines the persistence boundary: the entity types, the
// Store interface and two implementations — an insertion-ordered in-memory
// map for tests and demo mode, and a SQL adapter running on pgx or sqlite.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound covers both "row does not exist" and "row owned by someone
// else"; callers must not be able to tell the two apart.
var ErrNotFound = errors.New("not found")

// DuplicateDomainError reports a company-domain uniqueness violation and
// carries the id of the company already holding the domain.
type DuplicateDomainError struct {
	ExistingCompanyID string
}

func (e *DuplicateDomainError) Error() string {
	return fmt.Sprintf("domain already registered to company %s", e.ExistingCompanyID)
}

// Store is the full persistence surface. Every read and write that touches
// an owned entity filters by the owner column.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)

	// Contacts
	InsertContact(ctx context.Context, contact Contact) error
	UpdateContact(ctx context.Context, contact Contact) error
	GetContact(ctx context.Context, id, userID string) (Contact, error)
	ListContacts(ctx context.Context, userID string) ([]Contact, error)

	// Companies and their domain join rows
	InsertCompany(ctx context.Context, company Company) error
	UpdateCompany(ctx context.Context, company Company) error
	GetCompany(ctx context.Context, id, ownerUserID string) (Company, error)
	ListCompanies(ctx context.Context, ownerUserID string) ([]Company, error)
	GetCompanyDomain(ctx context.Context, ownerUserID, domain string) (CompanyDomain, error)
	// InsertCompanyDomain returns *DuplicateDomainError when the
	// (owner, domain) pair already exists.
	InsertCompanyDomain(ctx context.Context, domain CompanyDomain) error

	// Notes
	InsertNote(ctx context.Context, n Note) error
	GetNote(ctx context.Context, id, userID string) (Note, error)
	// GetNoteAnyOwner resolves a note without the ownership filter; the
	// update path needs the real owner to distinguish 403 from 404.
	GetNoteAnyOwner(ctx context.Context, id string) (Note, error)
	ListNotes(ctx context.Context, userID string) ([]Note, error)
	UpdateNote(ctx context.Context, n Note) error

	// Business cards
	InsertCard(ctx context.Context, card BusinessCard) error
	GetCard(ctx context.Context, id, userID string) (BusinessCard, error)
	UpdateCard(ctx context.Context, card BusinessCard) error
	ListCards(ctx context.Context, userID string) ([]BusinessCard, error)

	// Meetings
	InsertMeeting(ctx context.Context, meeting Meeting) error
	GetMeeting(ctx context.Context, id, ownerUserID string) (Meeting, error)
	LinkContactToMeeting(ctx context.Context, link ContactMeeting) error

	// Conferences, sessions, recaps
	InsertConference(ctx context.Context, conference Conference) error
	GetConference(ctx context.Context, id, ownerUserID string) (Conference, error)
	ListConferences(ctx context.Context, ownerUserID string) ([]Conference, error)
	InsertSession(ctx context.Context, session ConferenceSession) error
	FindSessionByNote(ctx context.Context, noteID, conferenceID string) (ConferenceSession, error)
	// ListSessionDetails returns sessions with joined contact/meeting rows,
	// ordered by started_at ascending.
	ListSessionDetails(ctx context.Context, conferenceID, ownerUserID string) ([]SessionDetail, error)
	InsertRecap(ctx context.Context, recap ConferenceRecap) error

	// Substring search fallback used when Meilisearch is unavailable
	SearchNotes(ctx context.Context, userID, query string, limit int) ([]Note, error)
	SearchContacts(ctx context.Context, userID, query string, limit int) ([]Contact, error)

	// Refresh sessions (relational fallback when redis is not configured)
	SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (User, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error

	Ping(ctx context.Context) error
}
