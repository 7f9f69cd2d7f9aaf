package store

import (
	"time"

	"fieldnote/api/internal/note"
)

type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	DemoMode     bool
	CreatedAt    time.Time
}

// Contact is owned by exactly one user; CompanyID is set by the auto-linker
// or a later manual association.
type Contact struct {
	ID          string
	UserID      string
	FullName    string
	Company     string
	Email       string
	Phone       string
	LinkedinURL string
	AvatarURL   string
	Title       string
	CompanyID   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Company keeps Domain as a display field; uniqueness per owner is enforced
// through CompanyDomain rows so a company can later hold several domains.
type Company struct {
	ID          string
	OwnerUserID string
	Name        string
	Domain      string
	WebsiteURL  string
	Phone       string
	City        string
	State       string
	Country     string
	Industry    string
	LinkedinURL string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CompanyDomain struct {
	ID          string
	CompanyID   string
	Domain      string
	OwnerUserID string
	CreatedAt   time.Time
}

type Note struct {
	ID         string
	UserID     string
	ContactID  *string
	AudioURL   string
	PhotoURLs  []string
	Transcript string
	Summary    []string
	NextStep   string
	DueDate    *time.Time
	Tags       []string
	Status     note.Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CardExtracted is the structured guess produced by the OCR engine.
type CardExtracted struct {
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

type BusinessCard struct {
	ID            string
	UserID        string
	ContactID     *string
	ImageURL      string
	OCRText       string
	Extracted     CardExtracted
	LinkedinGuess string
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Meeting struct {
	ID          string
	OwnerUserID string
	HappenedAt  time.Time
	Location    string
	Event       string
	NotesRaw    string
	Summary     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ContactMeeting struct {
	ContactID string
	MeetingID string
	Role      string
}

type Conference struct {
	ID          string
	OwnerUserID string
	Name        string
	StartDate   string
	EndDate     string
	Location    string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ConferenceSession records one contact interaction inside a conference.
// NoteID, when set, keys the at-most-one-session-per-note-and-conference rule.
type ConferenceSession struct {
	ID           string
	ConferenceID string
	ContactID    *string
	MeetingID    *string
	NoteID       *string
	Title        string
	StartedAt    time.Time
	OwnerUserID  string
	CreatedAt    time.Time
}

// SessionDetail is a session joined with its optional contact and meeting,
// as needed by recap rendering.
type SessionDetail struct {
	Session ConferenceSession
	Contact *Contact
	Meeting *Meeting
}

type ConferenceRecap struct {
	ID           string
	ConferenceID string
	StoragePath  string
	GeneratedAt  time.Time
	OwnerUserID  string
}
