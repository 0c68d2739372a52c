package core

import "errors"

var (
	// ErrUnsupportedFormat is returned for MIME types outside the accepted set.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrExtractionFailed is returned when a stored file cannot be read or parsed.
	ErrExtractionFailed = errors.New("failed to extract file content")
	// ErrNoContent is returned before any remote call when the input text is empty.
	ErrNoContent = errors.New("no content to generate from")
	// ErrNotConfigured is returned when the generation API key is missing.
	ErrNotConfigured = errors.New("generation service is not configured")
	// ErrInvalidModelResponse is returned when the model output cannot be
	// parsed even after repair.
	ErrInvalidModelResponse = errors.New("model did not return valid JSON")
	// ErrGenerationFailed wraps any remote failure (network, auth, rate limit).
	ErrGenerationFailed = errors.New("content generation failed")
	// ErrNoFilesInSession is returned when session processing is requested
	// for a session without files.
	ErrNoFilesInSession = errors.New("no files found for this session")
)
