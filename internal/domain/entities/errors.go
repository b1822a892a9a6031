package entities

import "errors"

// Domain errors
var (
	// Dispatch / format errors
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// Extraction errors
	ErrCorruptDocument = errors.New("document structure is unreadable")
	ErrEmptyContent    = errors.New("no extractable content in document")

	// Transcription errors
	ErrDecodeFailure        = errors.New("audio stream could not be decoded")
	ErrTranscriptionTimeout = errors.New("transcription exceeded bounded wait")

	// Analysis errors
	ErrEmptyTranscript            = errors.New("transcript is empty")
	ErrMalformedAnalysis          = errors.New("analysis response is malformed")
	ErrAnalysisServiceUnavailable = errors.New("analysis service unavailable")

	// Output errors
	ErrRenderFailure          = errors.New("failed to render document")
	ErrPersistenceUnavailable = errors.New("record store unavailable")

	// Generic errors
	ErrInvalidRequest = errors.New("invalid request")
	ErrRecordNotFound = errors.New("meeting record not found")
)
