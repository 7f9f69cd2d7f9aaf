package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"fieldnote/api/internal/note"
	"fieldnote/api/internal/store"
	"fieldnote/api/internal/util"
	"fieldnote/api/internal/validate"
)

const maxNotePhotos = 10

// Media URLs must come from our own upload paths; anything else is rejected
// before it reaches storage or the AI engine.
var (
	mediaPathPattern = regexp.MustCompile(`^/mock-(audio|photo)-\d+(-\d+)?\.(mp3|jpg)$`)
	cardPathPattern  = regexp.MustCompile(`^/mock-card-\d+\.jpg$`)
)

type CreateNoteInput struct {
	ContactID    string   `json:"contact_id"`
	ConferenceID string   `json:"conference_id"`
	AudioURL     string   `json:"audio_url"`
	PhotoURLs    []string `json:"photo_urls"`
}

// CreateNote inserts a note in processing state with placeholder content;
// the transcript arrives via a later process or update call.
func (s *Service) CreateNote(ctx context.Context, userID string, in CreateNoteInput) (store.Note, error) {
	var v validate.Errors
	audioURL := v.Required("audio_url", in.AudioURL)
	audioURL = v.Match("audio_url", audioURL, mediaPathPattern, "invalid audio_url format")
	if len(in.PhotoURLs) > maxNotePhotos {
		v.Add("photo_urls", fmt.Sprintf("maximum %d photos allowed", maxNotePhotos))
	}
	for i, photoURL := range in.PhotoURLs {
		if !mediaPathPattern.MatchString(photoURL) {
			v.Add(fmt.Sprintf("photo_urls[%d]", i), "invalid photo_url format")
		}
	}
	if !v.Empty() {
		return store.Note{}, validationError(v.List())
	}

	var contactID *string
	if in.ContactID != "" {
		if _, err := s.store.GetContact(ctx, in.ContactID, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return store.Note{}, notFoundError()
			}
			return store.Note{}, err
		}
		contactID = &in.ContactID
	}

	tags := []string{}
	if in.ConferenceID != "" {
		if _, err := s.store.GetConference(ctx, in.ConferenceID, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return store.Note{}, notFoundError()
			}
			return store.Note{}, err
		}
		tags = append(tags, "conference:"+in.ConferenceID)
	}

	now := s.now().UTC()
	n := store.Note{
		ID:         util.NewID("note"),
		UserID:     userID,
		ContactID:  contactID,
		AudioURL:   audioURL,
		PhotoURLs:  append([]string{}, in.PhotoURLs...),
		Transcript: "Processing...",
		Summary:    []string{"Processing audio..."},
		Tags:       tags,
		Status:     note.StatusProcessing,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.InsertNote(ctx, n); err != nil {
		return store.Note{}, err
	}
	s.search.IndexNote(n)
	return n, nil
}

type UpdateNoteInput struct {
	Transcript   *string     `json:"transcript"`
	Summary      *[]string   `json:"summary"`
	NextStep     *string     `json:"next_step"`
	Tags         *[]string   `json:"tags"`
	Status       *string     `json:"status"`
	DueDate      *time.Time  `json:"due_date"`
	ConferenceID string      `json:"conference_id"`
}

// UpdateNote applies a partial update. Ownership mismatch is a 403 here, not
// a 404, because the note id has already resolved to a real row. A supplied
// conference_id additionally records a conference session, best-effort.
func (s *Service) UpdateNote(ctx context.Context, userID, noteID string, in UpdateNoteInput) (store.Note, error) {
	n, err := s.store.GetNoteAnyOwner(ctx, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Note{}, notFoundError()
		}
		return store.Note{}, err
	}
	if n.UserID != userID {
		return store.Note{}, forbiddenError()
	}

	var v validate.Errors
	if in.Transcript != nil {
		*in.Transcript = v.MaxLen("transcript", *in.Transcript, 50000)
	}
	if in.Summary != nil {
		*in.Summary = v.StringList("summary", *in.Summary, 10, 500)
	}
	if in.NextStep != nil {
		*in.NextStep = v.MaxLen("next_step", *in.NextStep, 500)
	}
	if in.Tags != nil {
		*in.Tags = v.Tags("tags", *in.Tags, 20, 50)
	}
	var target note.Status
	if in.Status != nil {
		value := v.Enum("status", *in.Status,
			string(note.StatusDraft), string(note.StatusProcessing), string(note.StatusReady), string(note.StatusError))
		target = note.Status(value)
	}
	if !v.Empty() {
		return store.Note{}, validationError(v.List())
	}

	if in.Status != nil {
		if err := note.CheckTransition(n.Status, target); err != nil {
			return store.Note{}, transitionError(err.Error())
		}
		n.Status = target
	}
	if in.Transcript != nil {
		n.Transcript = *in.Transcript
	}
	if in.Summary != nil {
		n.Summary = *in.Summary
	}
	if in.NextStep != nil {
		n.NextStep = *in.NextStep
	}
	if in.Tags != nil {
		n.Tags = *in.Tags
	}
	if in.DueDate != nil {
		due := in.DueDate.UTC()
		n.DueDate = &due
	}
	n.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateNote(ctx, n); err != nil {
		return store.Note{}, err
	}

	if in.ConferenceID != "" {
		s.recordNoteSession(ctx, userID, n, in.ConferenceID)
	}

	s.search.IndexNote(n)
	return n, nil
}

// recordNoteSession links a note update to a conference as a session row.
// At most one session exists per (note, conference) pair; failures are
// logged and swallowed so they never fail the note update.
func (s *Service) recordNoteSession(ctx context.Context, userID string, n store.Note, conferenceID string) {
	if _, err := s.store.GetConference(ctx, conferenceID, userID); err != nil {
		log.Printf("note %s: conference %s not found or access denied, skipping session", n.ID, conferenceID)
		return
	}
	if _, err := s.store.FindSessionByNote(ctx, n.ID, conferenceID); err == nil {
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Printf("note %s: session lookup failed: %v", n.ID, err)
		return
	}

	title := "Note Update"
	if len(n.Summary) > 0 && strings.TrimSpace(n.Summary[0]) != "" {
		title = n.Summary[0]
		if len([]rune(title)) > 200 {
			title = string([]rune(title)[:200])
		}
	}

	noteID := n.ID
	err := s.store.InsertSession(ctx, store.ConferenceSession{
		ID:           util.NewID("sess"),
		ConferenceID: conferenceID,
		ContactID:    n.ContactID,
		NoteID:       &noteID,
		Title:        title,
		StartedAt:    s.now().UTC(),
		OwnerUserID:  userID,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		log.Printf("note %s: failed to create conference session: %v", n.ID, err)
	}
}

// ProcessNote runs the transcription engine over the note's audio and moves
// the note to ready. Engine failure marks the note error.
func (s *Service) ProcessNote(ctx context.Context, userID, noteID string) (store.Note, error) {
	n, err := s.store.GetNote(ctx, noteID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Note{}, notFoundError()
		}
		return store.Note{}, err
	}

	if n.Status != note.StatusProcessing {
		if err := note.CheckTransition(n.Status, note.StatusProcessing); err != nil {
			return store.Note{}, transitionError(err.Error())
		}
		n.Status = note.StatusProcessing
	}

	result, err := s.engine.TranscribeNote(ctx, n.AudioURL)
	if err != nil {
		log.Printf("note %s: transcription failed: %v", n.ID, err)
		n.Status = note.StatusError
		n.UpdatedAt = s.now().UTC()
		if updateErr := s.store.UpdateNote(ctx, n); updateErr != nil {
			log.Printf("note %s: failed to mark error: %v", n.ID, updateErr)
		}
		return store.Note{}, upstreamError("Processing failed - please try again")
	}

	n.Transcript = result.Transcript
	n.Summary = result.Summary
	n.NextStep = result.NextStep
	n.Tags = mergeTags(n.Tags, result.Tags)
	n.Status = note.StatusReady
	n.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateNote(ctx, n); err != nil {
		return store.Note{}, err
	}
	s.search.IndexNote(n)
	return n, nil
}

// mergeTags keeps the conference correlation tags attached at creation and
// appends the engine's tags, deduplicated.
func mergeTags(existing, generated []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, tag := range existing {
		if strings.HasPrefix(tag, "conference:") && !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
	}
	for _, tag := range generated {
		if !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}

func (s *Service) GetNote(ctx context.Context, userID, id string) (store.Note, error) {
	n, err := s.store.GetNote(ctx, id, userID)
	if errors.Is(err, store.ErrNotFound) {
		return store.Note{}, notFoundError()
	}
	return n, err
}

func (s *Service) ListNotes(ctx context.Context, userID string) ([]store.Note, error) {
	return s.store.ListNotes(ctx, userID)
}

type CreateCardInput struct {
	ImageURL  string `json:"image_url"`
	ContactID string `json:"contact_id"`
}

func (s *Service) CreateCard(ctx context.Context, userID string, in CreateCardInput) (store.BusinessCard, error) {
	var v validate.Errors
	imageURL := v.Required("image_url", in.ImageURL)
	imageURL = v.Match("image_url", imageURL, cardPathPattern, "invalid image_url format")
	if !v.Empty() {
		return store.BusinessCard{}, validationError(v.List())
	}

	var contactID *string
	if in.ContactID != "" {
		if _, err := s.store.GetContact(ctx, in.ContactID, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return store.BusinessCard{}, notFoundError()
			}
			return store.BusinessCard{}, err
		}
		contactID = &in.ContactID
	}

	now := s.now().UTC()
	card := store.BusinessCard{
		ID:        util.NewID("card"),
		UserID:    userID,
		ContactID: contactID,
		ImageURL:  imageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertCard(ctx, card); err != nil {
		return store.BusinessCard{}, err
	}
	return card, nil
}

type ProcessCardInput struct {
	OCRText       string               `json:"ocr_text"`
	Extracted     *store.CardExtracted `json:"extracted"`
	LinkedinGuess string               `json:"linkedin_guess"`
}

// ProcessCard attaches OCR results to a card. Callers may supply results
// directly (manual correction); otherwise the extraction engine runs on the
// card's image.
func (s *Service) ProcessCard(ctx context.Context, userID, cardID string, in ProcessCardInput) (store.BusinessCard, error) {
	card, err := s.store.GetCard(ctx, cardID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.BusinessCard{}, notFoundError()
		}
		return store.BusinessCard{}, err
	}

	var v validate.Errors
	ocrText := v.MaxLen("ocr_text", in.OCRText, 5000)
	linkedinGuess := v.URL("linkedin_guess", in.LinkedinGuess)
	linkedinGuess = v.MaxLen("linkedin_guess", linkedinGuess, 500)
	if in.Extracted != nil {
		in.Extracted.Name = v.MaxLen("extracted.name", in.Extracted.Name, 100)
		in.Extracted.Company = v.MaxLen("extracted.company", in.Extracted.Company, 100)
		in.Extracted.Email = v.Email("extracted.email", in.Extracted.Email)
		in.Extracted.Phone = v.Phone("extracted.phone", in.Extracted.Phone)
	}
	if !v.Empty() {
		return store.BusinessCard{}, validationError(v.List())
	}

	if in.Extracted == nil && ocrText == "" {
		result, err := s.engine.ExtractCard(ctx, card.ImageURL)
		if err != nil {
			log.Printf("card %s: extraction failed: %v", card.ID, err)
			return store.BusinessCard{}, upstreamError("Card processing failed - please try again")
		}
		card.OCRText = result.OCRText
		card.Extracted = store.CardExtracted{
			Name:    result.Name,
			Company: result.Company,
			Email:   result.Email,
			Phone:   result.Phone,
		}
		card.LinkedinGuess = result.LinkedinGuess
	} else {
		if ocrText != "" {
			card.OCRText = ocrText
		}
		if in.Extracted != nil {
			card.Extracted = *in.Extracted
		}
		if linkedinGuess != "" {
			card.LinkedinGuess = linkedinGuess
		}
	}

	now := s.now().UTC()
	card.ProcessedAt = &now
	card.UpdatedAt = now
	if err := s.store.UpdateCard(ctx, card); err != nil {
		return store.BusinessCard{}, err
	}
	return card, nil
}

func (s *Service) GetCard(ctx context.Context, userID, id string) (store.BusinessCard, error) {
	card, err := s.store.GetCard(ctx, id, userID)
	if errors.Is(err, store.ErrNotFound) {
		return store.BusinessCard{}, notFoundError()
	}
	return card, err
}

func (s *Service) ListCards(ctx context.Context, userID string) ([]store.BusinessCard, error) {
	return s.store.ListCards(ctx, userID)
}
