package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyforge.io/backend/internal/api"
	"studyforge.io/backend/internal/config"
	"studyforge.io/backend/internal/core"
	"studyforge.io/backend/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Initialize the store; an empty DATABASE_URL selects the in-memory backend.
	var dbStore store.Store
	if config.AppConfig.DatabaseURL != "" {
		sqliteStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		dbStore = sqliteStore
		log.Printf("Using SQLite store at %s", config.AppConfig.DatabaseURL)
	} else {
		dbStore = store.NewMemoryStore()
		log.Println("Using in-memory store")
	}
	defer dbStore.Close()

	// Initialize LLM service
	llmService := core.NewLLMService()
	defer llmService.Close()

	// Initialize study service
	studyService := core.NewStudyService(
		dbStore,
		core.NewExtractor(),
		llmService,
		config.AppConfig.UploadDir,
		config.AppConfig.MaxUploadSizeBytes(),
	)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(studyService)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  60 * time.Second, // Uploads up to the 50 MiB limit
		WriteTimeout: 180 * time.Second, // Synchronous generation calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give active connections time to finish. In-flight background generation
	// tasks are fire-and-forget and may be cut short.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
