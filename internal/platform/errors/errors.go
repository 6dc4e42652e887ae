package apperrors

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("not found")
	ErrInvalidUnit          = errors.New("invalid unit document")
	ErrIndexUnavailable     = errors.New("unit index unavailable")
	ErrUnitUnavailable      = errors.New("unit unavailable")
	ErrNoActiveUnit         = errors.New("no active unit")
	ErrSpeechUnavailable    = errors.New("speech engine unavailable")
	ErrConfirmationRequired = errors.New("confirmation required")
)
