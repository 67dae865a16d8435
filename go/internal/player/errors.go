package player

import "errors"

var (
	ErrValidation = errors.New("invalid player request")
	ErrNotFound   = errors.New("player not found")
	ErrDrafted    = errors.New("player is already drafted")
)
