package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"studyforge.io/backend/internal/core"
	"studyforge.io/backend/internal/store"
)

const maxFilesPerUpload = 10

type APIHandler struct {
	studyService *core.StudyService
}

func NewAPIHandler(ss *core.StudyService) *APIHandler {
	return &APIHandler{studyService: ss}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// GET /api/user
func (h *APIHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.studyService.GetDemoUser()
	if err != nil {
		log.Printf("Error getting user: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	// Password carries json:"-" and is never serialized.
	writeJSON(w, http.StatusOK, user)
}

// GET /api/sessions
func (h *APIHandler) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.studyService.GetSessions(store.DemoUserID)
	if err != nil {
		log.Printf("Error getting sessions: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if sessions == nil {
		sessions = []store.SessionWithStats{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

type CreateSessionRequest struct {
	Title string `json:"title"`
}

// POST /api/sessions
func (h *APIHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	session, err := h.studyService.CreateSession(store.DemoUserID, req.Title)
	if err != nil {
		log.Printf("Error creating session: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// POST /api/sessions/{sessionID}/upload
func (h *APIHandler) UploadFilesHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart request: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		writeError(w, http.StatusBadRequest, "No files uploaded")
		return
	}
	if len(fileHeaders) > maxFilesPerUpload {
		fileHeaders = fileHeaders[:maxFilesPerUpload]
	}

	var uploads []core.Upload
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			log.Printf("Error opening uploaded file %s: %v", fh.Filename, err)
			continue
		}
		opened = append(opened, f)
		uploads = append(uploads, core.Upload{
			OriginalName: fh.Filename,
			MimeType:     fh.Header.Get("Content-Type"),
			Size:         fh.Size,
			Content:      f,
		})
	}

	uploaded, err := h.studyService.UploadFiles(sessionID, uploads)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		log.Printf("Error uploading files to session %s: %v", sessionID, err)
		writeError(w, http.StatusInternalServerError, "Failed to upload files")
		return
	}
	if len(uploaded) == 0 {
		writeError(w, http.StatusBadRequest, "No files were accepted")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Files uploaded successfully",
		"files":   uploaded,
	})

	// Extraction happens after the response; clients poll file status.
	h.studyService.ProcessFilesInBackground(uploaded)
}

// GET /api/sessions/{sessionID}/files
func (h *APIHandler) ListFilesHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	files, err := h.studyService.GetFiles(sessionID)
	if err != nil {
		log.Printf("Error getting files for session %s: %v", sessionID, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if files == nil {
		files = []store.UploadedFile{}
	}
	writeJSON(w, http.StatusOK, files)
}

// GET /api/sessions/{sessionID}/notes
func (h *APIHandler) ListNotesHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	notes, err := h.studyService.GetNotes(sessionID)
	if err != nil {
		log.Printf("Error getting notes for session %s: %v", sessionID, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if notes == nil {
		notes = []store.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

// GET /api/sessions/{sessionID}/quizzes
func (h *APIHandler) ListQuizzesHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	quizzes, err := h.studyService.GetQuizzes(sessionID)
	if err != nil {
		log.Printf("Error getting quizzes for session %s: %v", sessionID, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if quizzes == nil {
		quizzes = []store.Quiz{}
	}
	writeJSON(w, http.StatusOK, quizzes)
}

type ProcessSessionRequest struct {
	GenerateNotes *bool `json:"generateNotes"`
	GenerateQuiz  *bool `json:"generateQuiz"`
}

// POST /api/sessions/{sessionID}/process
func (h *APIHandler) ProcessSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	// Both default to true when omitted.
	genNotes, genQuiz := true, true
	var req ProcessSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.GenerateNotes != nil {
		genNotes = *req.GenerateNotes
	}
	if req.GenerateQuiz != nil {
		genQuiz = *req.GenerateQuiz
	}

	if err := h.studyService.StartSessionProcessing(sessionID, genNotes, genQuiz); err != nil {
		if errors.Is(err, core.ErrNoFilesInSession) {
			writeError(w, http.StatusBadRequest, "No files found for this session")
			return
		}
		log.Printf("Error processing session %s: %v", sessionID, err)
		writeError(w, http.StatusInternalServerError, "Failed to process session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Processing started",
		"sessionId": sessionID,
	})
}

type GenerateRequest struct {
	FileID string `json:"fileId"`
}

// POST /api/sessions/{sessionID}/generate-notes
func (h *APIHandler) GenerateNotesHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.FileID == "" {
		writeError(w, http.StatusBadRequest, "fileId is required")
		return
	}

	note, err := h.studyService.GenerateNotesForFile(r.Context(), sessionID, req.FileID)
	if err != nil {
		h.writeGenerationError(w, sessionID, "notes", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": note})
}

// POST /api/sessions/{sessionID}/generate-quiz
func (h *APIHandler) GenerateQuizHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.FileID == "" {
		writeError(w, http.StatusBadRequest, "fileId is required")
		return
	}

	quiz, err := h.studyService.GenerateQuizForFile(r.Context(), sessionID, req.FileID)
	if err != nil {
		h.writeGenerationError(w, sessionID, "quiz", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"quiz": quiz})
}

func (h *APIHandler) writeGenerationError(w http.ResponseWriter, sessionID, kind string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "File not found")
	case errors.Is(err, core.ErrNoContent):
		writeError(w, http.StatusBadRequest, "No content to generate from")
	case errors.Is(err, core.ErrUnsupportedFormat):
		writeError(w, http.StatusBadRequest, "Unsupported file format")
	case errors.Is(err, core.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "Content generation is not configured")
	default:
		log.Printf("Error generating %s for session %s: %v", kind, sessionID, err)
		writeError(w, http.StatusBadGateway, "Failed to generate "+kind)
	}
}
