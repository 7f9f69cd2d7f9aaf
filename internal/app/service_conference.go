package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fieldnote/api/internal/recap"
	"fieldnote/api/internal/store"
	"fieldnote/api/internal/util"
	"fieldnote/api/internal/validate"
)

const recapLinkTTL = time.Hour

type ConferenceInput struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Location  string `json:"location"`
	Notes     string `json:"notes"`
}

func (s *Service) CreateConference(ctx context.Context, userID string, in ConferenceInput) (store.Conference, error) {
	var v validate.Errors
	name := v.Required("name", in.Name)
	name = v.MaxLen("name", name, 200)
	startDate := v.MaxLen("start_date", in.StartDate, 100)
	endDate := v.MaxLen("end_date", in.EndDate, 100)
	location := v.MaxLen("location", in.Location, 200)
	notes := v.MaxLen("notes", in.Notes, 5000)
	if !v.Empty() {
		return store.Conference{}, validationError(v.List())
	}

	now := s.now().UTC()
	conference := store.Conference{
		ID:          util.NewID("conf"),
		OwnerUserID: userID,
		Name:        name,
		StartDate:   startDate,
		EndDate:     endDate,
		Location:    location,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.InsertConference(ctx, conference); err != nil {
		return store.Conference{}, err
	}
	return conference, nil
}

func (s *Service) GetConference(ctx context.Context, userID, id string) (store.Conference, error) {
	conference, err := s.store.GetConference(ctx, id, userID)
	if errors.Is(err, store.ErrNotFound) {
		return store.Conference{}, notFoundError()
	}
	return conference, err
}

func (s *Service) ListConferences(ctx context.Context, userID string) ([]store.Conference, error) {
	return s.store.ListConferences(ctx, userID)
}

type SessionInput struct {
	ConferenceID string     `json:"conference_id"`
	ContactID    string     `json:"contact_id"`
	MeetingID    string     `json:"meeting_id"`
	Title        string     `json:"title"`
	StartedAt    *time.Time `json:"started_at"`
}

// AddSession records one contact interaction inside a conference. Every
// referenced entity is ownership-checked before the session is written.
func (s *Service) AddSession(ctx context.Context, userID string, in SessionInput) (store.ConferenceSession, error) {
	var v validate.Errors
	if in.ConferenceID == "" {
		v.Add("conference_id", "conference_id is required")
	}
	title := v.MaxLen("title", in.Title, 200)
	if !v.Empty() {
		return store.ConferenceSession{}, validationError(v.List())
	}

	if _, err := s.store.GetConference(ctx, in.ConferenceID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ConferenceSession{}, notFoundError()
		}
		return store.ConferenceSession{}, err
	}

	var contactID *string
	if in.ContactID != "" {
		if _, err := s.store.GetContact(ctx, in.ContactID, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return store.ConferenceSession{}, notFoundError()
			}
			return store.ConferenceSession{}, err
		}
		contactID = &in.ContactID
	}

	var meetingID *string
	if in.MeetingID != "" {
		if _, err := s.store.GetMeeting(ctx, in.MeetingID, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return store.ConferenceSession{}, notFoundError()
			}
			return store.ConferenceSession{}, err
		}
		meetingID = &in.MeetingID
	}

	now := s.now().UTC()
	startedAt := now
	if in.StartedAt != nil {
		startedAt = in.StartedAt.UTC()
	}

	session := store.ConferenceSession{
		ID:           util.NewID("sess"),
		ConferenceID: in.ConferenceID,
		ContactID:    contactID,
		MeetingID:    meetingID,
		Title:        title,
		StartedAt:    startedAt,
		OwnerUserID:  userID,
		CreatedAt:    now,
	}
	if err := s.store.InsertSession(ctx, session); err != nil {
		return store.ConferenceSession{}, err
	}
	return session, nil
}

func (s *Service) ListSessions(ctx context.Context, userID, conferenceID string) ([]store.SessionDetail, error) {
	if _, err := s.store.GetConference(ctx, conferenceID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundError()
		}
		return nil, err
	}
	return s.store.ListSessionDetails(ctx, conferenceID, userID)
}

type RecapResult struct {
	Recap       store.ConferenceRecap
	DownloadURL string
	ExpiresIn   int
}

// GenerateRecap renders the conference's sessions into a plain-text report,
// stores it, and returns a time-limited download link.
func (s *Service) GenerateRecap(ctx context.Context, userID, conferenceID string) (RecapResult, error) {
	conference, err := s.store.GetConference(ctx, conferenceID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return RecapResult{}, notFoundError()
		}
		return RecapResult{}, err
	}

	sessions, err := s.store.ListSessionDetails(ctx, conferenceID, userID)
	if err != nil {
		return RecapResult{}, err
	}

	content := recap.Render(conference, sessions)
	now := s.now().UTC()
	path := fmt.Sprintf("%s/conference-recap-%s-%d.txt", userID, conferenceID, now.UnixMilli())

	if err := s.blob.Put(ctx, path, []byte(content), "text/plain"); err != nil {
		return RecapResult{}, upstreamError("Failed to store recap")
	}

	row := store.ConferenceRecap{
		ID:           util.NewID("rcp"),
		ConferenceID: conferenceID,
		StoragePath:  path,
		GeneratedAt:  now,
		OwnerUserID:  userID,
	}
	if err := s.store.InsertRecap(ctx, row); err != nil {
		return RecapResult{}, err
	}

	url, err := s.blob.SignedURL(ctx, path, recapLinkTTL)
	if err != nil {
		return RecapResult{}, upstreamError("Failed to sign recap link")
	}

	return RecapResult{
		Recap:       row,
		DownloadURL: url,
		ExpiresIn:   int(recapLinkTTL.Seconds()),
	}, nil
}
