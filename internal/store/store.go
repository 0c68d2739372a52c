package store

import "errors"

// ErrNotFound is returned by mutating operations that target a nonexistent
// entity. Plain lookups return (nil, nil) for a missing id instead.
var ErrNotFound = errors.New("entity not found")

// Store is the repository over the five entity kinds. Implementations must
// assign fresh ids and creation timestamps on create; callers never supply
// either.
type Store interface {
	// Users
	GetUser(id string) (*User, error)
	GetUserByUsername(username string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	CreateUser(username, email, password string) (*User, error)

	// Sessions
	GetSession(id string) (*Session, error)
	GetSessionsWithStats(userID string) ([]SessionWithStats, error)
	CreateSession(userID, title string) (*Session, error)

	// Files
	GetFile(id string) (*UploadedFile, error)
	GetFilesBySessionID(sessionID string) ([]UploadedFile, error)
	CreateFile(sessionID, filename, originalName, mimeType string, size int64) (*UploadedFile, error)
	UpdateFileStatus(id, status string) (*UploadedFile, error)

	// Notes
	GetNotesBySessionID(sessionID string) ([]Note, error)
	CreateNote(sessionID, content string, metadata map[string]any) (*Note, error)

	// Quizzes
	GetQuizzesBySessionID(sessionID string) ([]Quiz, error)
	CreateQuiz(sessionID, title string, questions []QuizQuestion) (*Quiz, error)

	Close() error
}
