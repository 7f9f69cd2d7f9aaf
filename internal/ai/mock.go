package ai

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
)

var mockTranscripts = []string{
	"Just had a great conversation about their upcoming product launch. They're looking to expand into new markets and need strategic partners. Budget approved for Q1. Very interested in our solution and want to move fast. Decision maker is on board.",
	"Coffee meeting went well. Discussed their current challenges with workflow automation. They're spending too much time on manual processes. Showed interest in our platform, especially the AI features. Want to see a demo next week.",
	"Met at the conference. They're frustrated with their current vendor and actively looking for alternatives. Contract expires in 60 days. Perfect timing for us. Need to send over case studies and pricing.",
}

var mockCardNames = []string{"Jennifer Lee", "Marcus Johnson", "Priya Patel", "Tom Anderson"}
var mockCardCompanies = []string{"Stellar Inc", "CloudNext", "DataFlow Systems", "Apex Solutions"}

// MockEngine is the local/demo provider. Output is a pure function of the
// input URL so repeated processing of the same media is stable.
type MockEngine struct{}

func NewMockEngine() *MockEngine {
	return &MockEngine{}
}

func pick(url string, n int) int {
	h := fnv.New32a()
	h.Write([]byte(url))
	return int(h.Sum32()) % n
}

func (e *MockEngine) TranscribeNote(_ context.Context, audioURL string) (NoteResult, error) {
	return NoteResult{
		Transcript: mockTranscripts[pick(audioURL, len(mockTranscripts))],
		Summary: []string{
			"Productive conversation about product launch and market expansion",
			"Budget approved for Q1, decision maker is engaged",
			"Strong interest in our solution, ready to move quickly",
		},
		NextStep: "Send follow-up email with case studies and schedule demo call",
		Tags:     []string{"follow-up", "qualified", "hot-lead"},
	}, nil
}

func (e *MockEngine) ExtractCard(_ context.Context, imageURL string) (CardResult, error) {
	name := mockCardNames[pick(imageURL, len(mockCardNames))]
	company := mockCardCompanies[pick(imageURL+"#company", len(mockCardCompanies))]

	parts := strings.SplitN(strings.ToLower(name), " ", 2)
	first, last := parts[0], parts[1]
	email := fmt.Sprintf("%s.%s@%s.com", first, last, strings.ReplaceAll(strings.ToLower(company), " ", ""))
	phone := fmt.Sprintf("+1-555-%04d", 1000+pick(imageURL+"#phone", 9000))

	return CardResult{
		OCRText:       fmt.Sprintf("%s\n%s\n%s\n%s", name, company, email, phone),
		Name:          name,
		Company:       company,
		Email:         email,
		Phone:         phone,
		LinkedinGuess: fmt.Sprintf("https://linkedin.com/in/%s%s", first, last),
	}, nil
}
