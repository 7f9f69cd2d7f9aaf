package ai

import "context"

// NoteResult is what transcription produces for a voice memo.
type NoteResult struct {
	Transcript string
	Summary    []string
	NextStep   string
	Tags       []string
}

// CardResult is what OCR produces for a business card photo.
type CardResult struct {
	OCRText       string
	Name          string
	Company       string
	Email         string
	Phone         string
	LinkedinGuess string
}

// Engine abstracts the transcription/OCR provider. The server only ever
// calls it with media URLs it has already validated.
type Engine interface {
	TranscribeNote(ctx context.Context, audioURL string) (NoteResult, error)
	ExtractCard(ctx context.Context, imageURL string) (CardResult, error)
}
