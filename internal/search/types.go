package search

type ResultType string

const (
	ResultNote    ResultType = "note"
	ResultContact ResultType = "contact"
)

// Query is one user-scoped search request. FilterType narrows the search to
// a single entity kind.
type Query struct {
	UserID     string
	Text       string
	FilterType ResultType
	Limit      int
}

type Result struct {
	Type    ResultType `json:"type"`
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Snippet string     `json:"snippet,omitempty"`
}

type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// NoteRecord is the searchable projection of a note.
type NoteRecord struct {
	ID         string   `json:"id"`
	UserID     string   `json:"userId"`
	Transcript string   `json:"transcript"`
	Summary    []string `json:"summary"`
	NextStep   string   `json:"nextStep"`
	Tags       []string `json:"tags"`
}

// ContactRecord is the searchable projection of a contact.
type ContactRecord struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
	Company  string `json:"company"`
	Email    string `json:"email"`
	Title    string `json:"title"`
}
