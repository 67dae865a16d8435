package event

import "errors"

var (
	ErrValidation        = errors.New("invalid event request")
	ErrNotFound          = errors.New("draft event not found")
	ErrInvalidTransition = errors.New("invalid phase transition")
	ErrNotLive           = errors.New("draft is not live")
	ErrAlreadyPaused     = errors.New("draft is already paused")
	ErrNotPaused         = errors.New("draft is not paused")
)
