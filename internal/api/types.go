// Package api is the HTTP client for the RetrieveX backend. It owns the wire
// types, the session header, and the translation of server errors into Go
// errors; callers never see raw responses.
package api

// User is the validated identity returned by GET /me.
type User struct {
	Username string `json:"username"`
	UserID   int    `json:"user_id"`
}

// AuthResult is the shared response shape of the signup/login endpoints.
type AuthResult struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	Username  string `json:"username"`
	UserID    int    `json:"user_id"`
}

// Notebook mirrors the server's notebook record. Date is a preformatted
// display string ("02 Jan 2006"), not a timestamp.
type Notebook struct {
	ID      int      `json:"id"`
	Title   string   `json:"title"`
	Date    string   `json:"date"`
	Sources int      `json:"sources"`
	Icon    string   `json:"icon"`
	Files   []string `json:"files"`
}

// Message roles as stored in the server's chat log.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one stored chat log row.
type ChatMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Source is one retrieval citation attached to an answer. The server's shape
// varies with the ingested document type, so every field is optional.
type Source struct {
	Source  string  `json:"source,omitempty"`
	File    string  `json:"file,omitempty"`
	Page    int     `json:"page,omitempty"`
	Snippet string  `json:"snippet,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

// Label returns the best display name for the citation.
func (s Source) Label() string {
	if s.Source != "" {
		return s.Source
	}
	if s.File != "" {
		return s.File
	}
	return "(unknown source)"
}

// Answer is the response to POST /chat.
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// Activity is one server-side activity log row (GET /my-activities).
type Activity struct {
	ID           int            `json:"id"`
	ActivityType string         `json:"activity_type"`
	ActivityData map[string]any `json:"activity_data,omitempty"`
	Timestamp    string         `json:"timestamp,omitempty"`
}
