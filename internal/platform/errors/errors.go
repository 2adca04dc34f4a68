package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrNoActiveSession     = errors.New("no active session")
	ErrActiveSessionExists = errors.New("active session already exists")
	ErrJourneyStarted      = errors.New("journey already started")
	ErrNoActivePrompt      = errors.New("no prompt displayed")
	ErrPromptsLocked       = errors.New("prompts not available yet")
)
