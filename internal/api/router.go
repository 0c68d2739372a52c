package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// All API routes live under /api
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		r.Get("/user", apiHandler.GetUserHandler)

		r.Get("/sessions", apiHandler.ListSessionsHandler)
		r.Post("/sessions", apiHandler.CreateSessionHandler)

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Post("/upload", apiHandler.UploadFilesHandler)
			r.Get("/files", apiHandler.ListFilesHandler)
			r.Get("/notes", apiHandler.ListNotesHandler)
			r.Get("/quizzes", apiHandler.ListQuizzesHandler)
			r.Post("/process", apiHandler.ProcessSessionHandler)
			r.Post("/generate-notes", apiHandler.GenerateNotesHandler)
			r.Post("/generate-quiz", apiHandler.GenerateQuizHandler)
		})
	})

	return r
}
