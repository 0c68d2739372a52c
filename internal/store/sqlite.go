package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore is the persistent Store backend, selected when DATABASE_URL is
// set. Quiz questions and note metadata are stored as JSON text columns.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err = store.seedDemoUser(); err != nil {
		return nil, fmt.Errorf("failed to seed demo user: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id TEXT PRIMARY KEY, -- UUID
        username TEXT UNIQUE NOT NULL,
        email TEXT UNIQUE NOT NULL,
        password TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS sessions (
        id TEXT PRIMARY KEY, -- UUID
        user_id TEXT NOT NULL,
        title TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS uploaded_files (
        id TEXT PRIMARY KEY, -- UUID
        session_id TEXT NOT NULL,
        filename TEXT NOT NULL,
        original_name TEXT NOT NULL,
        mime_type TEXT NOT NULL,
        size INTEGER NOT NULL,
        status TEXT NOT NULL CHECK (status IN ('uploaded', 'processing', 'completed', 'error')),
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (session_id) REFERENCES sessions (id)
    );

    CREATE TABLE IF NOT EXISTS notes (
        id TEXT PRIMARY KEY, -- UUID
        session_id TEXT NOT NULL,
        content TEXT NOT NULL,
        metadata_json TEXT, -- JSON object of generation metadata
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (session_id) REFERENCES sessions (id)
    );

    CREATE TABLE IF NOT EXISTS quizzes (
        id TEXT PRIMARY KEY, -- UUID
        session_id TEXT NOT NULL,
        title TEXT NOT NULL,
        questions_json TEXT NOT NULL, -- JSON array of questions
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (session_id) REFERENCES sessions (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) seedDemoUser() error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO users (id, username, email, password) VALUES (?, ?, ?, ?)",
		DemoUserID, "john_doe", "john.doe@university.edu", "demo-password")
	return err
}

// User methods

func (s *SQLiteStore) GetUser(id string) (*User, error) {
	return s.queryUser("SELECT id, username, email, password, created_at FROM users WHERE id = ?", id)
}

func (s *SQLiteStore) GetUserByUsername(username string) (*User, error) {
	return s.queryUser("SELECT id, username, email, password, created_at FROM users WHERE username = ?", username)
}

func (s *SQLiteStore) GetUserByEmail(email string) (*User, error) {
	return s.queryUser("SELECT id, username, email, password, created_at FROM users WHERE email = ?", email)
}

func (s *SQLiteStore) queryUser(query string, arg any) (*User, error) {
	var user User
	err := s.db.QueryRow(query, arg).Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (s *SQLiteStore) CreateUser(username, email, password string) (*User, error) {
	user := &User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		Password:  password,
		CreatedAt: time.Now(),
	}
	_, err := s.db.Exec("INSERT INTO users (id, username, email, password, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.Password, user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

// Session methods

func (s *SQLiteStore) GetSession(id string) (*Session, error) {
	var session Session
	err := s.db.QueryRow("SELECT id, user_id, title, created_at FROM sessions WHERE id = ?", id).
		Scan(&session.ID, &session.UserID, &session.Title, &session.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

func (s *SQLiteStore) GetSessionsWithStats(userID string) ([]SessionWithStats, error) {
	rows, err := s.db.Query(`
        SELECT s.id, s.user_id, s.title, s.created_at,
               (SELECT COUNT(*) FROM uploaded_files f WHERE f.session_id = s.id),
               (SELECT COUNT(*) FROM notes n WHERE n.session_id = s.id)
        FROM sessions s
        WHERE s.user_id = ?
        ORDER BY s.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionWithStats
	for rows.Next() {
		var stats SessionWithStats
		if err := rows.Scan(&stats.ID, &stats.UserID, &stats.Title, &stats.CreatedAt,
			&stats.FilesCount, &stats.NotesCount); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, stats)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}

	// Question counts need the deserialized questions array, so sum them in Go.
	for i := range sessions {
		quizzes, err := s.GetQuizzesBySessionID(sessions[i].ID)
		if err != nil {
			return nil, err
		}
		for _, q := range quizzes {
			sessions[i].QuizQuestionsCount += len(q.Questions)
		}
	}
	return sessions, nil
}

func (s *SQLiteStore) CreateSession(userID, title string) (*Session, error) {
	session := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now(),
	}
	_, err := s.db.Exec("INSERT INTO sessions (id, user_id, title, created_at) VALUES (?, ?, ?, ?)",
		session.ID, session.UserID, session.Title, session.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}
	return session, nil
}

// File methods

func (s *SQLiteStore) GetFile(id string) (*UploadedFile, error) {
	var file UploadedFile
	err := s.db.QueryRow(
		"SELECT id, session_id, filename, original_name, mime_type, size, status, created_at FROM uploaded_files WHERE id = ?", id).
		Scan(&file.ID, &file.SessionID, &file.Filename, &file.OriginalName, &file.MimeType, &file.Size, &file.Status, &file.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return &file, nil
}

func (s *SQLiteStore) GetFilesBySessionID(sessionID string) ([]UploadedFile, error) {
	rows, err := s.db.Query(
		"SELECT id, session_id, filename, original_name, mime_type, size, status, created_at FROM uploaded_files WHERE session_id = ? ORDER BY created_at ASC", sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	var files []UploadedFile
	for rows.Next() {
		var file UploadedFile
		if err := rows.Scan(&file.ID, &file.SessionID, &file.Filename, &file.OriginalName,
			&file.MimeType, &file.Size, &file.Status, &file.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan file row: %w", err)
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

func (s *SQLiteStore) CreateFile(sessionID, filename, originalName, mimeType string, size int64) (*UploadedFile, error) {
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
	_, err := s.db.Exec(
		"INSERT INTO uploaded_files (id, session_id, filename, original_name, mime_type, size, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		file.ID, file.SessionID, file.Filename, file.OriginalName, file.MimeType, file.Size, file.Status, file.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert file: %w", err)
	}
	return file, nil
}

func (s *SQLiteStore) UpdateFileStatus(id, status string) (*UploadedFile, error) {
	res, err := s.db.Exec("UPDATE uploaded_files SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update file status: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetFile(id)
}

// Note methods

func (s *SQLiteStore) GetNotesBySessionID(sessionID string) ([]Note, error) {
	rows, err := s.db.Query(
		"SELECT id, session_id, content, metadata_json, created_at FROM notes WHERE session_id = ? ORDER BY created_at ASC", sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var note Note
		var metadataJSON sql.NullString
		if err := rows.Scan(&note.ID, &note.SessionID, &note.Content, &metadataJSON, &note.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note row: %w", err)
		}
		if metadataJSON.Valid && metadataJSON.String != "" {
			if err := json.Unmarshal([]byte(metadataJSON.String), &note.Metadata); err != nil {
				log.Printf("Warning: failed to unmarshal metadata for note %s: %v", note.ID, err)
				note.Metadata = nil
			}
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func (s *SQLiteStore) CreateNote(sessionID, content string, metadata map[string]any) (*Note, error) {
	note := &Note{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}

	var metadataJSON sql.NullString
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal note metadata: %w", err)
		}
		metadataJSON = sql.NullString{String: string(b), Valid: true}
	}

	_, err := s.db.Exec("INSERT INTO notes (id, session_id, content, metadata_json, created_at) VALUES (?, ?, ?, ?, ?)",
		note.ID, note.SessionID, note.Content, metadataJSON, note.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert note: %w", err)
	}
	return note, nil
}

// Quiz methods

func (s *SQLiteStore) GetQuizzesBySessionID(sessionID string) ([]Quiz, error) {
	rows, err := s.db.Query(
		"SELECT id, session_id, title, questions_json, created_at FROM quizzes WHERE session_id = ? ORDER BY created_at ASC", sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []Quiz
	for rows.Next() {
		var quiz Quiz
		var questionsJSON string
		if err := rows.Scan(&quiz.ID, &quiz.SessionID, &quiz.Title, &questionsJSON, &quiz.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quiz row: %w", err)
		}
		if err := json.Unmarshal([]byte(questionsJSON), &quiz.Questions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal questions for quiz %s: %w", quiz.ID, err)
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, rows.Err()
}

func (s *SQLiteStore) CreateQuiz(sessionID, title string, questions []QuizQuestion) (*Quiz, error) {
	quiz := &Quiz{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Title:     title,
		Questions: questions,
		CreatedAt: time.Now(),
	}

	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal questions: %w", err)
	}

	_, err = s.db.Exec("INSERT INTO quizzes (id, session_id, title, questions_json, created_at) VALUES (?, ?, ?, ?, ?)",
		quiz.ID, quiz.SessionID, quiz.Title, string(questionsJSON), quiz.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert quiz: %w", err)
	}
	return quiz, nil
}
