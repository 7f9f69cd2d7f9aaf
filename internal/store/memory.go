package store

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps every collection in an id-keyed map plus an insertion
// order slice, so listings are stable without a database. Used by tests and
// demo mode.
type MemoryStore struct {
	mu sync.RWMutex

	users          map[string]User
	userOrder      []string
	contacts       map[string]Contact
	contactOrder   []string
	companies      map[string]Company
	companyOrder   []string
	companyDomains map[string]CompanyDomain
	domainOrder    []string
	notes          map[string]Note
	noteOrder      []string
	cards          map[string]BusinessCard
	cardOrder      []string
	meetings       map[string]Meeting
	meetingOrder   []string
	contactLinks   []ContactMeeting
	conferences    map[string]Conference
	confOrder      []string
	sessions       map[string]ConferenceSession
	sessionOrder   []string
	recaps         map[string]ConferenceRecap
	recapOrder     []string

	refreshSessions map[string]refreshSession
}

type refreshSession struct {
	userID    string
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:           make(map[string]User),
		contacts:        make(map[string]Contact),
		companies:       make(map[string]Company),
		companyDomains:  make(map[string]CompanyDomain),
		notes:           make(map[string]Note),
		cards:           make(map[string]BusinessCard),
		meetings:        make(map[string]Meeting),
		conferences:     make(map[string]Conference),
		sessions:        make(map[string]ConferenceSession),
		recaps:          make(map[string]ConferenceRecap),
		refreshSessions: make(map[string]refreshSession),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	s.userOrder = append(s.userOrder, user.ID)
	return nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.userOrder {
		if strings.EqualFold(s.users[id].Email, email) {
			return s.users[id], nil
		}
	}
	return User{}, ErrNotFound
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemoryStore) InsertContact(_ context.Context, contact Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[contact.ID] = contact
	s.contactOrder = append(s.contactOrder, contact.ID)
	return nil
}

func (s *MemoryStore) UpdateContact(_ context.Context, contact Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.contacts[contact.ID]
	if !ok || existing.UserID != contact.UserID {
		return ErrNotFound
	}
	s.contacts[contact.ID] = contact
	return nil
}

func (s *MemoryStore) GetContact(_ context.Context, id, userID string) (Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contact, ok := s.contacts[id]
	if !ok || contact.UserID != userID {
		return Contact{}, ErrNotFound
	}
	return contact, nil
}

func (s *MemoryStore) ListContacts(_ context.Context, userID string) ([]Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Contact{}
	for _, id := range s.contactOrder {
		if s.contacts[id].UserID == userID {
			out = append(out, s.contacts[id])
		}
	}
	return out, nil
}

func (s *MemoryStore) InsertCompany(_ context.Context, company Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[company.ID] = company
	s.companyOrder = append(s.companyOrder, company.ID)
	return nil
}

func (s *MemoryStore) UpdateCompany(_ context.Context, company Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.companies[company.ID]
	if !ok || existing.OwnerUserID != company.OwnerUserID {
		return ErrNotFound
	}
	s.companies[company.ID] = company
	return nil
}

func (s *MemoryStore) GetCompany(_ context.Context, id, ownerUserID string) (Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	company, ok := s.companies[id]
	if !ok || company.OwnerUserID != ownerUserID {
		return Company{}, ErrNotFound
	}
	return company, nil
}

func (s *MemoryStore) ListCompanies(_ context.Context, ownerUserID string) ([]Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Company{}
	for _, id := range s.companyOrder {
		if s.companies[id].OwnerUserID == ownerUserID {
			out = append(out, s.companies[id])
		}
	}
	return out, nil
}

func (s *MemoryStore) GetCompanyDomain(_ context.Context, ownerUserID, domain string) (CompanyDomain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.domainOrder {
		row := s.companyDomains[id]
		if row.OwnerUserID == ownerUserID && row.Domain == domain {
			return row, nil
		}
	}
	return CompanyDomain{}, ErrNotFound
}

func (s *MemoryStore) InsertCompanyDomain(_ context.Context, domain CompanyDomain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.domainOrder {
		row := s.companyDomains[id]
		if row.OwnerUserID == domain.OwnerUserID && row.Domain == domain.Domain {
			return &DuplicateDomainError{ExistingCompanyID: row.CompanyID}
		}
	}
	s.companyDomains[domain.ID] = domain
	s.domainOrder = append(s.domainOrder, domain.ID)
	return nil
}

func (s *MemoryStore) InsertNote(_ context.Context, n Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[n.ID] = n
	s.noteOrder = append(s.noteOrder, n.ID)
	return nil
}

func (s *MemoryStore) GetNote(_ context.Context, id, userID string) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notes[id]
	if !ok || n.UserID != userID {
		return Note{}, ErrNotFound
	}
	return n, nil
}

func (s *MemoryStore) GetNoteAnyOwner(_ context.Context, id string) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notes[id]
	if !ok {
		return Note{}, ErrNotFound
	}
	return n, nil
}

func (s *MemoryStore) ListNotes(_ context.Context, userID string) ([]Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Note{}
	for _, id := range s.noteOrder {
		if s.notes[id].UserID == userID {
			out = append(out, s.notes[id])
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateNote(_ context.Context, n Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.notes[n.ID]
	if !ok || existing.UserID != n.UserID {
		return ErrNotFound
	}
	s.notes[n.ID] = n
	return nil
}

func (s *MemoryStore) InsertCard(_ context.Context, card BusinessCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards[card.ID] = card
	s.cardOrder = append(s.cardOrder, card.ID)
	return nil
}

func (s *MemoryStore) GetCard(_ context.Context, id, userID string) (BusinessCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	card, ok := s.cards[id]
	if !ok || card.UserID != userID {
		return BusinessCard{}, ErrNotFound
	}
	return card, nil
}

func (s *MemoryStore) UpdateCard(_ context.Context, card BusinessCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.cards[card.ID]
	if !ok || existing.UserID != card.UserID {
		return ErrNotFound
	}
	s.cards[card.ID] = card
	return nil
}

func (s *MemoryStore) ListCards(_ context.Context, userID string) ([]BusinessCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []BusinessCard{}
	for _, id := range s.cardOrder {
		if s.cards[id].UserID == userID {
			out = append(out, s.cards[id])
		}
	}
	return out, nil
}

func (s *MemoryStore) InsertMeeting(_ context.Context, meeting Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meetings[meeting.ID] = meeting
	s.meetingOrder = append(s.meetingOrder, meeting.ID)
	return nil
}

func (s *MemoryStore) GetMeeting(_ context.Context, id, ownerUserID string) (Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meeting, ok := s.meetings[id]
	if !ok || meeting.OwnerUserID != ownerUserID {
		return Meeting{}, ErrNotFound
	}
	return meeting, nil
}

func (s *MemoryStore) LinkContactToMeeting(_ context.Context, link ContactMeeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.contactLinks {
		if existing.ContactID == link.ContactID && existing.MeetingID == link.MeetingID {
			return nil
		}
	}
	s.contactLinks = append(s.contactLinks, link)
	return nil
}

func (s *MemoryStore) InsertConference(_ context.Context, conference Conference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conferences[conference.ID] = conference
	s.confOrder = append(s.confOrder, conference.ID)
	return nil
}

func (s *MemoryStore) GetConference(_ context.Context, id, ownerUserID string) (Conference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conference, ok := s.conferences[id]
	if !ok || conference.OwnerUserID != ownerUserID {
		return Conference{}, ErrNotFound
	}
	return conference, nil
}

func (s *MemoryStore) ListConferences(_ context.Context, ownerUserID string) ([]Conference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Conference{}
	for _, id := range s.confOrder {
		if s.conferences[id].OwnerUserID == ownerUserID {
			out = append(out, s.conferences[id])
		}
	}
	return out, nil
}

func (s *MemoryStore) InsertSession(_ context.Context, session ConferenceSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	s.sessionOrder = append(s.sessionOrder, session.ID)
	return nil
}

func (s *MemoryStore) FindSessionByNote(_ context.Context, noteID, conferenceID string) (ConferenceSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.sessionOrder {
		session := s.sessions[id]
		if session.ConferenceID == conferenceID && session.NoteID != nil && *session.NoteID == noteID {
			return session, nil
		}
	}
	return ConferenceSession{}, ErrNotFound
}

func (s *MemoryStore) ListSessionDetails(_ context.Context, conferenceID, ownerUserID string) ([]SessionDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []SessionDetail{}
	for _, id := range s.sessionOrder {
		session := s.sessions[id]
		if session.ConferenceID != conferenceID || session.OwnerUserID != ownerUserID {
			continue
		}
		detail := SessionDetail{Session: session}
		if session.ContactID != nil {
			if contact, ok := s.contacts[*session.ContactID]; ok {
				detail.Contact = &contact
			}
		}
		if session.MeetingID != nil {
			if meeting, ok := s.meetings[*session.MeetingID]; ok {
				detail.Meeting = &meeting
			}
		}
		out = append(out, detail)
	}
	// started_at ascending, insertion order breaking ties
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Session.StartedAt.Before(out[j-1].Session.StartedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (s *MemoryStore) InsertRecap(_ context.Context, recap ConferenceRecap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recaps[recap.ID] = recap
	s.recapOrder = append(s.recapOrder, recap.ID)
	return nil
}

func (s *MemoryStore) SearchNotes(_ context.Context, userID, query string, limit int) ([]Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(query)
	out := []Note{}
	for _, id := range s.noteOrder {
		n := s.notes[id]
		if n.UserID != userID {
			continue
		}
		haystack := strings.ToLower(n.Transcript + " " + n.NextStep + " " + strings.Join(n.Summary, " ") + " " + strings.Join(n.Tags, " "))
		if strings.Contains(haystack, needle) {
			out = append(out, n)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) SearchContacts(_ context.Context, userID, query string, limit int) ([]Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(query)
	out := []Contact{}
	for _, id := range s.contactOrder {
		contact := s.contacts[id]
		if contact.UserID != userID {
			continue
		}
		haystack := strings.ToLower(contact.FullName + " " + contact.Company + " " + contact.Email)
		if strings.Contains(haystack, needle) {
			out = append(out, contact)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) SaveRefreshSession(_ context.Context, tokenHash, userID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshSessions[tokenHash] = refreshSession{userID: userID, expiresAt: expiresAt}
	return nil
}

func (s *MemoryStore) LookupRefreshSession(ctx context.Context, tokenHash string) (User, error) {
	s.mu.RLock()
	session, ok := s.refreshSessions[tokenHash]
	s.mu.RUnlock()
	if !ok || time.Now().After(session.expiresAt) {
		return User{}, ErrNotFound
	}
	return s.GetUserByID(ctx, session.userID)
}

func (s *MemoryStore) RevokeRefreshSession(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.refreshSessions, tokenHash)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
