package models

import "errors"

// Sentinel errors shared by the reader, its collaborators and the HTTP layer.
// Wrap them with fmt.Errorf("...: %w", err) and match with errors.Is.
var (
	ErrUnsupportedFormat     = errors.New("unsupported file format")
	ErrUnprocessableDocument = errors.New("document could not be processed")
	ErrNotFound              = errors.New("document session not found")
	ErrInvalidPage           = errors.New("invalid page number")
	ErrImageUnavailable      = errors.New("page image not available")
	ErrQuotaExceeded         = errors.New("provider quota exceeded")
	ErrTranscriptionFailed   = errors.New("transcription failed")
	ErrInvalidRequest        = errors.New("invalid request")
)
