package sibling

import "errors"

var (
	ErrValidation    = errors.New("invalid sibling link request")
	ErrAlreadyLinked = errors.New("player already has a sibling link")
	ErrNotFound      = errors.New("sibling link not found")
)
