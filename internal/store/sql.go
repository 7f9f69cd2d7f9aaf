package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"fieldnote/api/internal/note"
)

// SQLStore implements Store on database/sql. The SQL sticks to the subset
// shared by postgres (pgx) and sqlite (modernc), so one adapter serves both.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) DB() *sql.DB {
	return s.db
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func marshalList(items []string) string {
	if items == nil {
		items = []string{}
	}
	data, _ := json.Marshal(items)
	return string(data)
}

func unmarshalList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []string{}
	}
	return items
}

func (s *SQLStore) CreateUser(ctx context.Context, user User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, full_name, password_hash, demo_mode, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.Email, user.FullName, user.PasswordHash, user.DemoMode, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, full_name, password_hash, demo_mode, created_at
		FROM users WHERE LOWER(email) = LOWER($1)
	`, email))
}

func (s *SQLStore) GetUserByID(ctx context.Context, id string) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, full_name, password_hash, demo_mode, created_at
		FROM users WHERE id = $1
	`, id))
}

func (s *SQLStore) scanUser(row *sql.Row) (User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.FullName, &user.PasswordHash, &user.DemoMode, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

const contactColumns = `id, user_id, full_name, company, email, phone, linkedin_url, avatar_url, title, company_id, created_at, updated_at`

func (s *SQLStore) InsertContact(ctx context.Context, contact Contact) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contacts (`+contactColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, contact.ID, contact.UserID, contact.FullName, contact.Company, contact.Email, contact.Phone,
		contact.LinkedinURL, contact.AvatarURL, contact.Title, contact.CompanyID, contact.CreatedAt, contact.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (s *SQLStore) UpdateContact(ctx context.Context, contact Contact) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE contacts
		SET full_name=$1, company=$2, email=$3, phone=$4, linkedin_url=$5, avatar_url=$6, title=$7, company_id=$8, updated_at=$9
		WHERE id=$10 AND user_id=$11
	`, contact.FullName, contact.Company, contact.Email, contact.Phone, contact.LinkedinURL,
		contact.AvatarURL, contact.Title, contact.CompanyID, contact.UpdatedAt, contact.ID, contact.UserID)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	return requireRow(result)
}

func (s *SQLStore) GetContact(ctx context.Context, id, userID string) (Contact, error) {
	return s.scanContact(s.db.QueryRowContext(ctx, `
		SELECT `+contactColumns+` FROM contacts WHERE id=$1 AND user_id=$2
	`, id, userID))
}

func (s *SQLStore) ListContacts(ctx context.Context, userID string) ([]Contact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+contactColumns+` FROM contacts WHERE user_id=$1 ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()
	return s.collectContacts(rows)
}

func (s *SQLStore) SearchContacts(ctx context.Context, userID, query string, limit int) ([]Contact, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+contactColumns+` FROM contacts
		WHERE user_id=$1 AND (LOWER(full_name) LIKE $2 OR LOWER(company) LIKE $2 OR LOWER(email) LIKE $2)
		ORDER BY id LIMIT $3
	`, userID, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	defer rows.Close()
	return s.collectContacts(rows)
}

func (s *SQLStore) collectContacts(rows *sql.Rows) ([]Contact, error) {
	out := []Contact{}
	for rows.Next() {
		var contact Contact
		if err := rows.Scan(&contact.ID, &contact.UserID, &contact.FullName, &contact.Company, &contact.Email,
			&contact.Phone, &contact.LinkedinURL, &contact.AvatarURL, &contact.Title, &contact.CompanyID,
			&contact.CreatedAt, &contact.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, contact)
	}
	return out, rows.Err()
}

func (s *SQLStore) scanContact(row *sql.Row) (Contact, error) {
	var contact Contact
	err := row.Scan(&contact.ID, &contact.UserID, &contact.FullName, &contact.Company, &contact.Email,
		&contact.Phone, &contact.LinkedinURL, &contact.AvatarURL, &contact.Title, &contact.CompanyID,
		&contact.CreatedAt, &contact.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Contact{}, ErrNotFound
	}
	if err != nil {
		return Contact{}, fmt.Errorf("scan contact: %w", err)
	}
	return contact, nil
}

const companyColumns = `id, owner_user_id, name, domain, website_url, phone, city, state, country, industry, linkedin_url, notes, created_at, updated_at`

func (s *SQLStore) InsertCompany(ctx context.Context, company Company) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO companies (`+companyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, company.ID, company.OwnerUserID, company.Name, company.Domain, company.WebsiteURL, company.Phone,
		company.City, company.State, company.Country, company.Industry, company.LinkedinURL, company.Notes,
		company.CreatedAt, company.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (s *SQLStore) UpdateCompany(ctx context.Context, company Company) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE companies
		SET name=$1, domain=$2, website_url=$3, phone=$4, city=$5, state=$6, country=$7, industry=$8, linkedin_url=$9, notes=$10, updated_at=$11
		WHERE id=$12 AND owner_user_id=$13
	`, company.Name, company.Domain, company.WebsiteURL, company.Phone, company.City, company.State,
		company.Country, company.Industry, company.LinkedinURL, company.Notes, company.UpdatedAt,
		company.ID, company.OwnerUserID)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return requireRow(result)
}

func (s *SQLStore) GetCompany(ctx context.Context, id, ownerUserID string) (Company, error) {
	var company Company
	err := s.db.QueryRowContext(ctx, `
		SELECT `+companyColumns+` FROM companies WHERE id=$1 AND owner_user_id=$2
	`, id, ownerUserID).Scan(&company.ID, &company.OwnerUserID, &company.Name, &company.Domain,
		&company.WebsiteURL, &company.Phone, &company.City, &company.State, &company.Country,
		&company.Industry, &company.LinkedinURL, &company.Notes, &company.CreatedAt, &company.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Company{}, ErrNotFound
	}
	if err != nil {
		return Company{}, fmt.Errorf("scan company: %w", err)
	}
	return company, nil
}

func (s *SQLStore) ListCompanies(ctx context.Context, ownerUserID string) ([]Company, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+companyColumns+` FROM companies WHERE owner_user_id=$1 ORDER BY id
	`, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	out := []Company{}
	for rows.Next() {
		var company Company
		if err := rows.Scan(&company.ID, &company.OwnerUserID, &company.Name, &company.Domain,
			&company.WebsiteURL, &company.Phone, &company.City, &company.State, &company.Country,
			&company.Industry, &company.LinkedinURL, &company.Notes, &company.CreatedAt, &company.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		out = append(out, company)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetCompanyDomain(ctx context.Context, ownerUserID, domain string) (CompanyDomain, error) {
	var row CompanyDomain
	err := s.db.QueryRowContext(ctx, `
		SELECT id, company_id, domain, owner_user_id, created_at
		FROM company_domains WHERE owner_user_id=$1 AND domain=$2
	`, ownerUserID, domain).Scan(&row.ID, &row.CompanyID, &row.Domain, &row.OwnerUserID, &row.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return CompanyDomain{}, ErrNotFound
	}
	if err != nil {
		return CompanyDomain{}, fmt.Errorf("scan company domain: %w", err)
	}
	return row, nil
}

func (s *SQLStore) InsertCompanyDomain(ctx context.Context, domain CompanyDomain) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO company_domains (id, company_id, domain, owner_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, domain.ID, domain.CompanyID, domain.Domain, domain.OwnerUserID, domain.CreatedAt)
	if err == nil {
		return nil
	}
	// The unique index is the real guard; translate the conflict so the
	// caller can surface the existing company.
	if isUniqueViolation(err) {
		if existing, lookupErr := s.GetCompanyDomain(ctx, domain.OwnerUserID, domain.Domain); lookupErr == nil {
			return &DuplicateDomainError{ExistingCompanyID: existing.CompanyID}
		}
	}
	return fmt.Errorf("insert company domain: %w", err)
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}

const noteColumns = `id, user_id, contact_id, audio_url, photo_urls, transcript, summary, next_step, due_date, tags, status, created_at, updated_at`

func (s *SQLStore) InsertNote(ctx context.Context, n Note) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (`+noteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, n.ID, n.UserID, n.ContactID, n.AudioURL, marshalList(n.PhotoURLs), n.Transcript,
		marshalList(n.Summary), n.NextStep, n.DueDate, marshalList(n.Tags), string(n.Status),
		n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (s *SQLStore) UpdateNote(ctx context.Context, n Note) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE notes
		SET contact_id=$1, audio_url=$2, photo_urls=$3, transcript=$4, summary=$5, next_step=$6, due_date=$7, tags=$8, status=$9, updated_at=$10
		WHERE id=$11 AND user_id=$12
	`, n.ContactID, n.AudioURL, marshalList(n.PhotoURLs), n.Transcript, marshalList(n.Summary),
		n.NextStep, n.DueDate, marshalList(n.Tags), string(n.Status), n.UpdatedAt, n.ID, n.UserID)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return requireRow(result)
}

func (s *SQLStore) GetNote(ctx context.Context, id, userID string) (Note, error) {
	return s.scanNote(s.db.QueryRowContext(ctx, `
		SELECT `+noteColumns+` FROM notes WHERE id=$1 AND user_id=$2
	`, id, userID))
}

func (s *SQLStore) GetNoteAnyOwner(ctx context.Context, id string) (Note, error) {
	return s.scanNote(s.db.QueryRowContext(ctx, `
		SELECT `+noteColumns+` FROM notes WHERE id=$1
	`, id))
}

func (s *SQLStore) ListNotes(ctx context.Context, userID string) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+noteColumns+` FROM notes WHERE user_id=$1 ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()
	return s.collectNotes(rows)
}

func (s *SQLStore) SearchNotes(ctx context.Context, userID, query string, limit int) ([]Note, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE user_id=$1 AND (LOWER(transcript) LIKE $2 OR LOWER(summary) LIKE $2 OR LOWER(next_step) LIKE $2 OR LOWER(tags) LIKE $2)
		ORDER BY id LIMIT $3
	`, userID, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	defer rows.Close()
	return s.collectNotes(rows)
}

func (s *SQLStore) collectNotes(rows *sql.Rows) ([]Note, error) {
	out := []Note{}
	for rows.Next() {
		n, err := scanNoteRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLStore) scanNote(row *sql.Row) (Note, error) {
	n, err := scanNoteRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, ErrNotFound
	}
	return n, err
}

func scanNoteRow(row rowScanner) (Note, error) {
	var n Note
	var photoURLs, summary, tags, status string
	err := row.Scan(&n.ID, &n.UserID, &n.ContactID, &n.AudioURL, &photoURLs, &n.Transcript,
		&summary, &n.NextStep, &n.DueDate, &tags, &status, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Note{}, err
		}
		return Note{}, fmt.Errorf("scan note: %w", err)
	}
	n.PhotoURLs = unmarshalList(photoURLs)
	n.Summary = unmarshalList(summary)
	n.Tags = unmarshalList(tags)
	n.Status = note.Status(status)
	return n, nil
}

const cardColumns = `id, user_id, contact_id, image_url, ocr_text, extracted, linkedin_guess, processed_at, created_at, updated_at`

func (s *SQLStore) InsertCard(ctx context.Context, card BusinessCard) error {
	extracted, _ := json.Marshal(card.Extracted)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO business_cards (`+cardColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, card.ID, card.UserID, card.ContactID, card.ImageURL, card.OCRText, string(extracted),
		card.LinkedinGuess, card.ProcessedAt, card.CreatedAt, card.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

func (s *SQLStore) UpdateCard(ctx context.Context, card BusinessCard) error {
	extracted, _ := json.Marshal(card.Extracted)
	result, err := s.db.ExecContext(ctx, `
		UPDATE business_cards
		SET contact_id=$1, ocr_text=$2, extracted=$3, linkedin_guess=$4, processed_at=$5, updated_at=$6
		WHERE id=$7 AND user_id=$8
	`, card.ContactID, card.OCRText, string(extracted), card.LinkedinGuess, card.ProcessedAt,
		card.UpdatedAt, card.ID, card.UserID)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	return requireRow(result)
}

func (s *SQLStore) GetCard(ctx context.Context, id, userID string) (BusinessCard, error) {
	var card BusinessCard
	var extracted string
	err := s.db.QueryRowContext(ctx, `
		SELECT `+cardColumns+` FROM business_cards WHERE id=$1 AND user_id=$2
	`, id, userID).Scan(&card.ID, &card.UserID, &card.ContactID, &card.ImageURL, &card.OCRText,
		&extracted, &card.LinkedinGuess, &card.ProcessedAt, &card.CreatedAt, &card.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return BusinessCard{}, ErrNotFound
	}
	if err != nil {
		return BusinessCard{}, fmt.Errorf("scan card: %w", err)
	}
	_ = json.Unmarshal([]byte(extracted), &card.Extracted)
	return card, nil
}

func (s *SQLStore) ListCards(ctx context.Context, userID string) ([]BusinessCard, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+cardColumns+` FROM business_cards WHERE user_id=$1 ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()
	out := []BusinessCard{}
	for rows.Next() {
		var card BusinessCard
		var extracted string
		if err := rows.Scan(&card.ID, &card.UserID, &card.ContactID, &card.ImageURL, &card.OCRText,
			&extracted, &card.LinkedinGuess, &card.ProcessedAt, &card.CreatedAt, &card.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		_ = json.Unmarshal([]byte(extracted), &card.Extracted)
		out = append(out, card)
	}
	return out, rows.Err()
}

func (s *SQLStore) InsertMeeting(ctx context.Context, meeting Meeting) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meetings (id, owner_user_id, happened_at, location, event, notes_raw, summary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, meeting.ID, meeting.OwnerUserID, meeting.HappenedAt, meeting.Location, meeting.Event,
		meeting.NotesRaw, meeting.Summary, meeting.CreatedAt, meeting.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}
	return nil
}

func (s *SQLStore) GetMeeting(ctx context.Context, id, ownerUserID string) (Meeting, error) {
	var meeting Meeting
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_user_id, happened_at, location, event, notes_raw, summary, created_at, updated_at
		FROM meetings WHERE id=$1 AND owner_user_id=$2
	`, id, ownerUserID).Scan(&meeting.ID, &meeting.OwnerUserID, &meeting.HappenedAt, &meeting.Location,
		&meeting.Event, &meeting.NotesRaw, &meeting.Summary, &meeting.CreatedAt, &meeting.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Meeting{}, ErrNotFound
	}
	if err != nil {
		return Meeting{}, fmt.Errorf("scan meeting: %w", err)
	}
	return meeting, nil
}

func (s *SQLStore) LinkContactToMeeting(ctx context.Context, link ContactMeeting) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contact_meetings (contact_id, meeting_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (contact_id, meeting_id) DO NOTHING
	`, link.ContactID, link.MeetingID, link.Role)
	if err != nil {
		return fmt.Errorf("link contact to meeting: %w", err)
	}
	return nil
}

func (s *SQLStore) InsertConference(ctx context.Context, conference Conference) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conferences (id, owner_user_id, name, start_date, end_date, location, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, conference.ID, conference.OwnerUserID, conference.Name, conference.StartDate, conference.EndDate,
		conference.Location, conference.Notes, conference.CreatedAt, conference.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert conference: %w", err)
	}
	return nil
}

func (s *SQLStore) GetConference(ctx context.Context, id, ownerUserID string) (Conference, error) {
	var conference Conference
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_user_id, name, start_date, end_date, location, notes, created_at, updated_at
		FROM conferences WHERE id=$1 AND owner_user_id=$2
	`, id, ownerUserID).Scan(&conference.ID, &conference.OwnerUserID, &conference.Name,
		&conference.StartDate, &conference.EndDate, &conference.Location, &conference.Notes,
		&conference.CreatedAt, &conference.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Conference{}, ErrNotFound
	}
	if err != nil {
		return Conference{}, fmt.Errorf("scan conference: %w", err)
	}
	return conference, nil
}

func (s *SQLStore) ListConferences(ctx context.Context, ownerUserID string) ([]Conference, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_user_id, name, start_date, end_date, location, notes, created_at, updated_at
		FROM conferences WHERE owner_user_id=$1 ORDER BY id
	`, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("list conferences: %w", err)
	}
	defer rows.Close()
	out := []Conference{}
	for rows.Next() {
		var conference Conference
		if err := rows.Scan(&conference.ID, &conference.OwnerUserID, &conference.Name,
			&conference.StartDate, &conference.EndDate, &conference.Location, &conference.Notes,
			&conference.CreatedAt, &conference.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan conference: %w", err)
		}
		out = append(out, conference)
	}
	return out, rows.Err()
}

func (s *SQLStore) InsertSession(ctx context.Context, session ConferenceSession) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conference_sessions (id, conference_id, contact_id, meeting_id, note_id, title, started_at, owner_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, session.ID, session.ConferenceID, session.ContactID, session.MeetingID, session.NoteID,
		session.Title, session.StartedAt, session.OwnerUserID, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SQLStore) FindSessionByNote(ctx context.Context, noteID, conferenceID string) (ConferenceSession, error) {
	var session ConferenceSession
	err := s.db.QueryRowContext(ctx, `
		SELECT id, conference_id, contact_id, meeting_id, note_id, title, started_at, owner_user_id, created_at
		FROM conference_sessions WHERE note_id=$1 AND conference_id=$2
	`, noteID, conferenceID).Scan(&session.ID, &session.ConferenceID, &session.ContactID,
		&session.MeetingID, &session.NoteID, &session.Title, &session.StartedAt,
		&session.OwnerUserID, &session.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ConferenceSession{}, ErrNotFound
	}
	if err != nil {
		return ConferenceSession{}, fmt.Errorf("scan session: %w", err)
	}
	return session, nil
}

func (s *SQLStore) ListSessionDetails(ctx context.Context, conferenceID, ownerUserID string) ([]SessionDetail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.conference_id, s.contact_id, s.meeting_id, s.note_id, s.title, s.started_at, s.owner_user_id, s.created_at,
			c.id, c.user_id, c.full_name, c.company, c.email, c.phone, c.linkedin_url, c.avatar_url, c.title, c.company_id, c.created_at, c.updated_at,
			m.id, m.owner_user_id, m.happened_at, m.location, m.event, m.notes_raw, m.summary, m.created_at, m.updated_at
		FROM conference_sessions s
		LEFT JOIN contacts c ON c.id = s.contact_id
		LEFT JOIN meetings m ON m.id = s.meeting_id
		WHERE s.conference_id=$1 AND s.owner_user_id=$2
		ORDER BY s.started_at ASC, s.id ASC
	`, conferenceID, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("list session details: %w", err)
	}
	defer rows.Close()

	out := []SessionDetail{}
	for rows.Next() {
		var detail SessionDetail
		var contact nullableContact
		var meeting nullableMeeting
		if err := rows.Scan(&detail.Session.ID, &detail.Session.ConferenceID, &detail.Session.ContactID,
			&detail.Session.MeetingID, &detail.Session.NoteID, &detail.Session.Title,
			&detail.Session.StartedAt, &detail.Session.OwnerUserID, &detail.Session.CreatedAt,
			&contact.ID, &contact.UserID, &contact.FullName, &contact.Company, &contact.Email,
			&contact.Phone, &contact.LinkedinURL, &contact.AvatarURL, &contact.Title, &contact.CompanyID,
			&contact.CreatedAt, &contact.UpdatedAt,
			&meeting.ID, &meeting.OwnerUserID, &meeting.HappenedAt, &meeting.Location, &meeting.Event,
			&meeting.NotesRaw, &meeting.Summary, &meeting.CreatedAt, &meeting.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan session detail: %w", err)
		}
		detail.Contact = contact.toContact()
		detail.Meeting = meeting.toMeeting()
		out = append(out, detail)
	}
	return out, rows.Err()
}

type nullableContact struct {
	ID          sql.NullString
	UserID      sql.NullString
	FullName    sql.NullString
	Company     sql.NullString
	Email       sql.NullString
	Phone       sql.NullString
	LinkedinURL sql.NullString
	AvatarURL   sql.NullString
	Title       sql.NullString
	CompanyID   *string
	CreatedAt   sql.NullTime
	UpdatedAt   sql.NullTime
}

func (n nullableContact) toContact() *Contact {
	if !n.ID.Valid {
		return nil
	}
	return &Contact{
		ID:          n.ID.String,
		UserID:      n.UserID.String,
		FullName:    n.FullName.String,
		Company:     n.Company.String,
		Email:       n.Email.String,
		Phone:       n.Phone.String,
		LinkedinURL: n.LinkedinURL.String,
		AvatarURL:   n.AvatarURL.String,
		Title:       n.Title.String,
		CompanyID:   n.CompanyID,
		CreatedAt:   n.CreatedAt.Time,
		UpdatedAt:   n.UpdatedAt.Time,
	}
}

type nullableMeeting struct {
	ID          sql.NullString
	OwnerUserID sql.NullString
	HappenedAt  sql.NullTime
	Location    sql.NullString
	Event       sql.NullString
	NotesRaw    sql.NullString
	Summary     sql.NullString
	CreatedAt   sql.NullTime
	UpdatedAt   sql.NullTime
}

func (n nullableMeeting) toMeeting() *Meeting {
	if !n.ID.Valid {
		return nil
	}
	return &Meeting{
		ID:          n.ID.String,
		OwnerUserID: n.OwnerUserID.String,
		HappenedAt:  n.HappenedAt.Time,
		Location:    n.Location.String,
		Event:       n.Event.String,
		NotesRaw:    n.NotesRaw.String,
		Summary:     n.Summary.String,
		CreatedAt:   n.CreatedAt.Time,
		UpdatedAt:   n.UpdatedAt.Time,
	}
}

func (s *SQLStore) InsertRecap(ctx context.Context, recap ConferenceRecap) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conference_recaps (id, conference_id, storage_path, generated_at, owner_user_id)
		VALUES ($1, $2, $3, $4, $5)
	`, recap.ID, recap.ConferenceID, recap.StoragePath, recap.GeneratedAt, recap.OwnerUserID)
	if err != nil {
		return fmt.Errorf("insert recap: %w", err)
	}
	return nil
}

func (s *SQLStore) SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_sessions (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO UPDATE SET user_id=EXCLUDED.user_id, expires_at=EXCLUDED.expires_at, revoked_at=NULL
	`, tokenHash, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("save refresh session: %w", err)
	}
	return nil
}

func (s *SQLStore) LookupRefreshSession(ctx context.Context, tokenHash string) (User, error) {
	var userID string
	var expiresAt time.Time
	var revokedAt *time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, expires_at, revoked_at FROM refresh_sessions WHERE token_hash=$1
	`, tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("lookup refresh session: %w", err)
	}
	if revokedAt != nil || time.Now().After(expiresAt) {
		return User{}, ErrNotFound
	}
	return s.GetUserByID(ctx, userID)
}

func (s *SQLStore) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE refresh_sessions SET revoked_at=$1 WHERE token_hash=$2`, time.Now().UTC(), tokenHash)
	if err != nil {
		return fmt.Errorf("revoke refresh session: %w", err)
	}
	return nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
