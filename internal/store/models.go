package store

import "time"

// File processing statuses. Transitions are monotonic:
// uploaded -> processing -> completed | error.
const (
	FileStatusUploaded   = "uploaded"
	FileStatusProcessing = "processing"
	FileStatusCompleted  = "completed"
	FileStatusError      = "error"
)

// DemoUserID is the fixed id of the seeded demo user.
const DemoUserID = "demo-user-1"

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // Do not expose this in JSON responses
	CreatedAt time.Time `json:"created_at"`
}

type Session struct {
	ID        string    `json:"id"` // UUID
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type UploadedFile struct {
	ID           string    `json:"id"` // UUID
	SessionID    string    `json:"session_id"`
	Filename     string    `json:"filename"` // name on disk
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type Note struct {
	ID        string         `json:"id"` // UUID
	SessionID string         `json:"session_id"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"` // zero-based index into Options
	Explanation   string   `json:"explanation"`
}

type Quiz struct {
	ID        string         `json:"id"` // UUID
	SessionID string         `json:"session_id"`
	Title     string         `json:"title"`
	Questions []QuizQuestion `json:"questions"`
	CreatedAt time.Time      `json:"created_at"`
}

// SessionWithStats annotates a session with live-computed child counts.
type SessionWithStats struct {
	Session
	FilesCount         int `json:"filesCount"`
	NotesCount         int `json:"notesCount"`
	QuizQuestionsCount int `json:"quizQuestionsCount"`
}
