package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrUnsupportedFormat = errors.New("unsupported file type")
	ErrExtractionFailed  = errors.New("text extraction failed")
	ErrGenerationFailed  = errors.New("generation failed")
	ErrJourneyNotFound   = errors.New("journey not found")
	ErrAccessDenied      = errors.New("access denied")
	ErrPersistence       = errors.New("persistence failure")
)

// Generation operations, as reported by GenerationError.
const (
	OpInsights    = "insights"
	OpCoverLetter = "cover letter"
)

// GenerationError is returned when the AI backend call fails. It matches
// ErrGenerationFailed with errors.Is.
type GenerationError struct {
	Operation string
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Operation, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
