package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is the default Store backend. Background processing tasks and
// request handlers touch it from different goroutines, hence the lock.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]*User
	sessions map[string]*Session
	files    map[string]*UploadedFile
	notes    map[string]*Note
	quizzes  map[string]*Quiz
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		users:    make(map[string]*User),
		sessions: make(map[string]*Session),
		files:    make(map[string]*UploadedFile),
		notes:    make(map[string]*Note),
		quizzes:  make(map[string]*Quiz),
	}

	// Seed the demo user
	s.users[DemoUserID] = &User{
		ID:        DemoUserID,
		Username:  "john_doe",
		Email:     "john.doe@university.edu",
		Password:  "demo-password",
		CreatedAt: time.Now(),
	}
	return s
}

func (s *MemoryStore) Close() error {
	return nil
}

// User methods

func (s *MemoryStore) GetUser(id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[id]; ok {
		u := *user
		return &u, nil
	}
	return nil, nil
}

func (s *MemoryStore) GetUserByUsername(username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			u := *user
			return &u, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetUserByEmail(email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			u := *user
			return &u, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CreateUser(username, email, password string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := &User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		Password:  password,
		CreatedAt: time.Now(),
	}
	s.users[user.ID] = user
	u := *user
	return &u, nil
}

// Session methods

func (s *MemoryStore) GetSession(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if session, ok := s.sessions[id]; ok {
		sess := *session
		return &sess, nil
	}
	return nil, nil
}

func (s *MemoryStore) GetSessionsWithStats(userID string) ([]SessionWithStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sessions []SessionWithStats
	for _, session := range s.sessions {
		if session.UserID != userID {
			continue
		}

		stats := SessionWithStats{Session: *session}
		for _, f := range s.files {
			if f.SessionID == session.ID {
				stats.FilesCount++
			}
		}
		for _, n := range s.notes {
			if n.SessionID == session.ID {
				stats.NotesCount++
			}
		}
		for _, q := range s.quizzes {
			if q.SessionID == session.ID {
				stats.QuizQuestionsCount += len(q.Questions)
			}
		}
		sessions = append(sessions, stats)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

func (s *MemoryStore) CreateSession(userID, title string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now(),
	}
	s.sessions[session.ID] = session
	sess := *session
	return &sess, nil
}

// File methods

func (s *MemoryStore) GetFile(id string) (*UploadedFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if file, ok := s.files[id]; ok {
		f := *file
		return &f, nil
	}
	return nil, nil
}

func (s *MemoryStore) GetFilesBySessionID(sessionID string) ([]UploadedFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var files []UploadedFile
	for _, f := range s.files {
		if f.SessionID == sessionID {
			files = append(files, *f)
		}
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].CreatedAt.Before(files[j].CreatedAt)
	})
	return files, nil
}

func (s *MemoryStore) CreateFile(sessionID, filename, originalName, mimeType string, size int64) (*UploadedFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file := &UploadedFile{
		ID:           uuid.NewString(),
		SessionID:    sessionID,
		Filename:     filename,
		OriginalName: originalName,
		MimeType:     mimeType,
		Size:         size,
		Status:       FileStatusUploaded,
		CreatedAt:    time.Now(),
	}
	s.files[file.ID] = file
	f := *file
	return &f, nil
}

func (s *MemoryStore) UpdateFileStatus(id, status string) (*UploadedFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, ok := s.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	file.Status = status
	f := *file
	return &f, nil
}

// Note methods

func (s *MemoryStore) GetNotesBySessionID(sessionID string) ([]Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var notes []Note
	for _, n := range s.notes {
		if n.SessionID == sessionID {
			notes = append(notes, *n)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.Before(notes[j].CreatedAt)
	})
	return notes, nil
}

func (s *MemoryStore) CreateNote(sessionID, content string, metadata map[string]any) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	note := &Note{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
	s.notes[note.ID] = note
	n := *note
	return &n, nil
}

// Quiz methods

func (s *MemoryStore) GetQuizzesBySessionID(sessionID string) ([]Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var quizzes []Quiz
	for _, q := range s.quizzes {
		if q.SessionID == sessionID {
			quizzes = append(quizzes, *q)
		}
	}
	sort.Slice(quizzes, func(i, j int) bool {
		return quizzes[i].CreatedAt.Before(quizzes[j].CreatedAt)
	})
	return quizzes, nil
}

func (s *MemoryStore) CreateQuiz(sessionID, title string, questions []QuizQuestion) (*Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz := &Quiz{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Title:     title,
		Questions: questions,
		CreatedAt: time.Now(),
	}
	s.quizzes[quiz.ID] = quiz
	q := *quiz
	return &q, nil
}
