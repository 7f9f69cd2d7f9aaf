package app

import (
	"time"

	"fieldnote/api/internal/store"
)

// JSON shapes mirror the storage rows in snake_case; times are RFC3339 and
// absent optional fields render as null.

func timeJSON(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func timePtrJSON(t *time.Time) any {
	if t == nil {
		return nil
	}
	return timeJSON(*t)
}

func contactJSON(c store.Contact) map[string]any {
	return map[string]any{
		"id":           c.ID,
		"user_id":      c.UserID,
		"full_name":    c.FullName,
		"company":      c.Company,
		"email":        c.Email,
		"phone":        c.Phone,
		"linkedin_url": c.LinkedinURL,
		"avatar_url":   c.AvatarURL,
		"title":        c.Title,
		"company_id":   c.CompanyID,
		"created_at":   timeJSON(c.CreatedAt),
		"updated_at":   timeJSON(c.UpdatedAt),
	}
}

func companyJSON(c store.Company) map[string]any {
	return map[string]any{
		"id":            c.ID,
		"owner_user_id": c.OwnerUserID,
		"name":          c.Name,
		"domain":        c.Domain,
		"website_url":   c.WebsiteURL,
		"phone":         c.Phone,
		"city":          c.City,
		"state":         c.State,
		"country":       c.Country,
		"industry":      c.Industry,
		"linkedin_url":  c.LinkedinURL,
		"notes":         c.Notes,
		"created_at":    timeJSON(c.CreatedAt),
		"updated_at":    timeJSON(c.UpdatedAt),
	}
}

func noteJSON(n store.Note) map[string]any {
	return map[string]any{
		"id":         n.ID,
		"user_id":    n.UserID,
		"contact_id": n.ContactID,
		"audio_url":  n.AudioURL,
		"photo_urls": n.PhotoURLs,
		"transcript": n.Transcript,
		"summary":    n.Summary,
		"next_step":  n.NextStep,
		"due_date":   timePtrJSON(n.DueDate),
		"tags":       n.Tags,
		"status":     string(n.Status),
		"created_at": timeJSON(n.CreatedAt),
		"updated_at": timeJSON(n.UpdatedAt),
	}
}

func cardJSON(c store.BusinessCard) map[string]any {
	return map[string]any{
		"id":             c.ID,
		"user_id":        c.UserID,
		"contact_id":     c.ContactID,
		"image_url":      c.ImageURL,
		"ocr_text":       c.OCRText,
		"extracted":      c.Extracted,
		"linkedin_guess": c.LinkedinGuess,
		"processed_at":   timePtrJSON(c.ProcessedAt),
		"created_at":     timeJSON(c.CreatedAt),
		"updated_at":     timeJSON(c.UpdatedAt),
	}
}

func meetingJSON(m store.Meeting) map[string]any {
	return map[string]any{
		"id":            m.ID,
		"owner_user_id": m.OwnerUserID,
		"happened_at":   timeJSON(m.HappenedAt),
		"location":      m.Location,
		"event":         m.Event,
		"notes_raw":     m.NotesRaw,
		"summary":       m.Summary,
		"created_at":    timeJSON(m.CreatedAt),
		"updated_at":    timeJSON(m.UpdatedAt),
	}
}

func conferenceJSON(c store.Conference) map[string]any {
	return map[string]any{
		"id":            c.ID,
		"owner_user_id": c.OwnerUserID,
		"name":          c.Name,
		"start_date":    c.StartDate,
		"end_date":      c.EndDate,
		"location":      c.Location,
		"notes":         c.Notes,
		"created_at":    timeJSON(c.CreatedAt),
		"updated_at":    timeJSON(c.UpdatedAt),
	}
}

func sessionJSON(s store.ConferenceSession) map[string]any {
	return map[string]any{
		"id":            s.ID,
		"conference_id": s.ConferenceID,
		"contact_id":    s.ContactID,
		"meeting_id":    s.MeetingID,
		"note_id":       s.NoteID,
		"title":         s.Title,
		"started_at":    timeJSON(s.StartedAt),
		"owner_user_id": s.OwnerUserID,
		"created_at":    timeJSON(s.CreatedAt),
	}
}

func sessionDetailJSON(d store.SessionDetail) map[string]any {
	payload := sessionJSON(d.Session)
	if d.Contact != nil {
		payload["contact"] = contactJSON(*d.Contact)
	}
	if d.Meeting != nil {
		payload["meeting"] = meetingJSON(*d.Meeting)
	}
	return payload
}

func recapJSON(r store.ConferenceRecap) map[string]any {
	return map[string]any{
		"id":            r.ID,
		"conference_id": r.ConferenceID,
		"storage_path":  r.StoragePath,
		"generated_at":  timeJSON(r.GeneratedAt),
		"owner_user_id": r.OwnerUserID,
	}
}
