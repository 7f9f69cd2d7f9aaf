package search

import (
	"context"
	"log"

	"fieldnote/api/internal/store"
)

// Service tries Meilisearch first and falls back to the relational store's
// substring search when Meilisearch is absent or unhealthy.
type Service struct {
	meili *Meili
	store store.Store
}

// NewService creates a search service. meili may be nil when Meilisearch is
// not configured.
func NewService(meili *Meili, st store.Store) *Service {
	return &Service{meili: meili, store: st}
}

func (s *Service) Search(ctx context.Context, q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to store: %v", err)
	}

	results, err := s.storeSearch(ctx, q)
	if err != nil {
		log.Printf("search: store search error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: len(results), Query: q.Text}
}

func (s *Service) storeSearch(ctx context.Context, q Query) ([]Result, error) {
	limit := q.Limit
	if limit == 0 {
		limit = 20
	}

	var results []Result
	if q.FilterType == "" || q.FilterType == ResultNote {
		notes, err := s.store.SearchNotes(ctx, q.UserID, q.Text, limit)
		if err != nil {
			return nil, err
		}
		for _, n := range notes {
			results = append(results, Result{Type: ResultNote, ID: n.ID, Title: n.NextStep, Snippet: n.Transcript})
		}
	}
	if q.FilterType == "" || q.FilterType == ResultContact {
		contacts, err := s.store.SearchContacts(ctx, q.UserID, q.Text, limit)
		if err != nil {
			return nil, err
		}
		for _, c := range contacts {
			results = append(results, Result{Type: ResultContact, ID: c.ID, Title: c.FullName, Snippet: c.Company})
		}
	}
	return results, nil
}

// IndexNote pushes a note into Meilisearch, fire-and-forget.
func (s *Service) IndexNote(n store.Note) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	rec := NoteRecord{
		ID:         n.ID,
		UserID:     n.UserID,
		Transcript: n.Transcript,
		Summary:    n.Summary,
		NextStep:   n.NextStep,
		Tags:       n.Tags,
	}
	go func() {
		if err := s.meili.IndexNote(rec); err != nil {
			log.Printf("search: index note %s: %v", rec.ID, err)
		}
	}()
}

// IndexContact pushes a contact into Meilisearch, fire-and-forget.
func (s *Service) IndexContact(c store.Contact) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	rec := ContactRecord{
		ID:       c.ID,
		UserID:   c.UserID,
		FullName: c.FullName,
		Company:  c.Company,
		Email:    c.Email,
		Title:    c.Title,
	}
	go func() {
		if err := s.meili.IndexContact(rec); err != nil {
			log.Printf("search: index contact %s: %v", rec.ID, err)
		}
	}()
}

// Close releases the Meilisearch health monitor, if any.
func (s *Service) Close() {
	if s.meili != nil {
		s.meili.Close()
	}
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
