package team

import "errors"

var (
	ErrValidation = errors.New("invalid team request")
	ErrNotFound   = errors.New("team not found")

	// ErrOrderTaken means another team already holds that draft slot.
	ErrOrderTaken = errors.New("draft order position already taken")
)
