package core

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"studyforge.io/backend/internal/store"
	"studyforge.io/backend/internal/utils"
)

const combinedContentLabel = "Combined Session Content"

// Generator is the part of LLMService the study service depends on.
type Generator interface {
	GenerateNotes(ctx context.Context, text, contextLabel string) (string, error)
	GenerateQuiz(ctx context.Context, text, contextLabel string) (*GeneratedQuiz, error)
}

// StudyService drives the upload -> extract -> generate -> persist pipeline.
type StudyService struct {
	dbStore       store.Store
	extractor     *Extractor
	generator     Generator
	uploadDir     string
	maxUploadSize int64
}

func NewStudyService(db store.Store, extractor *Extractor, generator Generator, uploadDir string, maxUploadSize int64) *StudyService {
	return &StudyService{
		dbStore:       db,
		extractor:     extractor,
		generator:     generator,
		uploadDir:     uploadDir,
		maxUploadSize: maxUploadSize,
	}
}

func (s *StudyService) GetDemoUser() (*store.User, error) {
	return s.dbStore.GetUser(store.DemoUserID)
}

func (s *StudyService) GetSessions(userID string) ([]store.SessionWithStats, error) {
	return s.dbStore.GetSessionsWithStats(userID)
}

func (s *StudyService) CreateSession(userID, title string) (*store.Session, error) {
	if title == "" {
		title = "New Learning Session"
	}
	return s.dbStore.CreateSession(userID, title)
}

func (s *StudyService) GetFiles(sessionID string) ([]store.UploadedFile, error) {
	return s.dbStore.GetFilesBySessionID(sessionID)
}

func (s *StudyService) GetNotes(sessionID string) ([]store.Note, error) {
	return s.dbStore.GetNotesBySessionID(sessionID)
}

func (s *StudyService) GetQuizzes(sessionID string) ([]store.Quiz, error) {
	return s.dbStore.GetQuizzesBySessionID(sessionID)
}

// Upload is one incoming file from a multipart request.
type Upload struct {
	OriginalName string
	MimeType     string
	Size         int64
	Content      io.Reader
}

// UploadFiles validates and persists a batch of uploads for a session.
// Files with an unsupported MIME type or over the size limit are rejected
// without creating a record; a failed save is logged and skipped so the rest
// of the batch continues. Returns the accepted file records.
func (s *StudyService) UploadFiles(sessionID string, uploads []Upload) ([]store.UploadedFile, error) {
	session, err := s.dbStore.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify session: %w", err)
	}
	if session == nil {
		return nil, store.ErrNotFound
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	var uploaded []store.UploadedFile
	for _, up := range uploads {
		if _, ok := DetectFormat(up.MimeType); !ok {
			log.Printf("Rejecting file %s: unsupported MIME type %s", up.OriginalName, up.MimeType)
			continue
		}
		if up.Size > s.maxUploadSize {
			log.Printf("Rejecting file %s: size %d exceeds limit %d", up.OriginalName, up.Size, s.maxUploadSize)
			continue
		}

		filename := utils.GenerateUploadName(up.OriginalName, time.Now())
		if err := s.saveUpload(filename, up.Content); err != nil {
			log.Printf("Error saving file %s: %v", up.OriginalName, err)
			continue
		}

		record, err := s.dbStore.CreateFile(sessionID, filename, up.OriginalName, up.MimeType, up.Size)
		if err != nil {
			log.Printf("Error creating file record for %s: %v", up.OriginalName, err)
			continue
		}
		uploaded = append(uploaded, *record)
	}
	return uploaded, nil
}

func (s *StudyService) saveUpload(filename string, content io.Reader) error {
	dst, err := os.Create(filepath.Join(s.uploadDir, filename))
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		return err
	}
	return nil
}

// ProcessFilesInBackground kicks off extraction for freshly uploaded files.
// The caller has already responded to the client; the only observable
// effects are later status transitions in the store.
func (s *StudyService) ProcessFilesInBackground(files []store.UploadedFile) {
	go s.processFiles(files)
}

func (s *StudyService) processFiles(files []store.UploadedFile) {
	for _, file := range files {
		if _, err := s.dbStore.UpdateFileStatus(file.ID, store.FileStatusProcessing); err != nil {
			log.Printf("Error marking file %s as processing: %v", file.ID, err)
			continue
		}

		filePath := filepath.Join(s.uploadDir, file.Filename)
		_, err := s.extractor.Extract(filePath, file.OriginalName, file.MimeType)

		status := store.FileStatusCompleted
		if err != nil {
			log.Printf("Error processing file %s: %v", file.Filename, err)
			status = store.FileStatusError
		}
		if _, err := s.dbStore.UpdateFileStatus(file.ID, status); err != nil {
			log.Printf("Error updating status for file %s: %v", file.ID, err)
		}
	}
}

// StartSessionProcessing validates the request synchronously, then runs the
// session-level generation pipeline in the background. Returns
// ErrNoFilesInSession before any remote work when the session has no files.
func (s *StudyService) StartSessionProcessing(sessionID string, generateNotes, generateQuiz bool) error {
	files, err := s.dbStore.GetFilesBySessionID(sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session files: %w", err)
	}
	if len(files) == 0 {
		return ErrNoFilesInSession
	}

	go s.processSessionContent(sessionID, files, generateNotes, generateQuiz)
	return nil
}

// processSessionContent re-extracts every file, concatenates the results and
// drives the requested generation calls. Notes and quiz generation are
// independent; either failing is logged, never surfaced.
func (s *StudyService) processSessionContent(sessionID string, files []store.UploadedFile, generateNotes, generateQuiz bool) {
	var combined strings.Builder
	for _, file := range files {
		filePath := filepath.Join(s.uploadDir, file.Filename)
		content, err := s.extractor.Extract(filePath, file.OriginalName, file.MimeType)
		if err != nil {
			log.Printf("Error processing file %s: %v", file.Filename, err)
			continue
		}
		combined.WriteString(fmt.Sprintf("\n\n=== Content from %s ===\n%s", file.OriginalName, content.Text))
	}

	if strings.TrimSpace(combined.String()) == "" {
		log.Printf("No content extracted from files for session %s", sessionID)
		return
	}

	ctx := context.Background()

	if generateNotes {
		notes, err := s.generator.GenerateNotes(ctx, combined.String(), combinedContentLabel)
		if err != nil {
			log.Printf("Error generating notes for session %s: %v", sessionID, err)
		} else if _, err := s.dbStore.CreateNote(sessionID, notes, generationMetadata()); err != nil {
			log.Printf("Error storing notes for session %s: %v", sessionID, err)
		}
	}

	if generateQuiz {
		quiz, err := s.generator.GenerateQuiz(ctx, combined.String(), combinedContentLabel)
		if err != nil {
			log.Printf("Error generating quiz for session %s: %v", sessionID, err)
		} else if _, err := s.dbStore.CreateQuiz(sessionID, quiz.Title, quiz.Questions); err != nil {
			log.Printf("Error storing quiz for session %s: %v", sessionID, err)
		}
	}
}

// GenerateNotesForFile runs the synchronous single-file notes flow.
func (s *StudyService) GenerateNotesForFile(ctx context.Context, sessionID, fileID string) (*store.Note, error) {
	file, err := s.sessionFile(sessionID, fileID)
	if err != nil {
		return nil, err
	}

	content, err := s.extractor.Extract(filepath.Join(s.uploadDir, file.Filename), file.OriginalName, file.MimeType)
	if err != nil {
		return nil, err
	}

	notes, err := s.generator.GenerateNotes(ctx, content.Text, file.OriginalName)
	if err != nil {
		return nil, err
	}
	return s.dbStore.CreateNote(sessionID, notes, generationMetadata())
}

// GenerateQuizForFile runs the synchronous single-file quiz flow.
func (s *StudyService) GenerateQuizForFile(ctx context.Context, sessionID, fileID string) (*store.Quiz, error) {
	file, err := s.sessionFile(sessionID, fileID)
	if err != nil {
		return nil, err
	}

	content, err := s.extractor.Extract(filepath.Join(s.uploadDir, file.Filename), file.OriginalName, file.MimeType)
	if err != nil {
		return nil, err
	}

	quiz, err := s.generator.GenerateQuiz(ctx, content.Text, file.OriginalName)
	if err != nil {
		return nil, err
	}
	return s.dbStore.CreateQuiz(sessionID, quiz.Title, quiz.Questions)
}

// sessionFile loads a file and verifies it belongs to the given session.
func (s *StudyService) sessionFile(sessionID, fileID string) (*store.UploadedFile, error) {
	file, err := s.dbStore.GetFile(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load file: %w", err)
	}
	if file == nil || file.SessionID != sessionID {
		return nil, store.ErrNotFound
	}
	return file, nil
}

func generationMetadata() map[string]any {
	return map[string]any{
		"type":        "ai-generated",
		"generatedAt": time.Now().Format(time.RFC3339),
		"source":      "gemini",
	}
}
