package pick

import "errors"

// Validation and authorization failures: rejected before any write.
var (
	ErrInvalidSelector  = errors.New("selector must name either an overall pick or a team and round")
	ErrInvalidRole      = errors.New("unknown actor role")
	ErrNotOnClock       = errors.New("team is not on the clock")
	ErrEventNotLive     = errors.New("draft is not live")
	ErrDraftPaused      = errors.New("draft is paused")
	ErrPlayerIneligible = errors.New("player is not eligible to be drafted")
	ErrNoTeams          = errors.New("event has no teams")
)

// Not-found failures.
var (
	ErrEventNotFound  = errors.New("draft event not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrTeamNotFound   = errors.New("team not found in event")
)

// Conflicts: the caller must refresh and resubmit. These are also the
// mapped forms of the (event, overall) and (event, player) uniqueness
// constraints, which remain the final race-closing guard.
var (
	ErrSlotTaken     = errors.New("pick slot already filled")
	ErrPlayerDrafted = errors.New("player already drafted")
)

// ErrNoOpenSlot is fatal: a bounded forward scan ran out of slots. It is
// never retried automatically.
var ErrNoOpenSlot = errors.New("no open slot found within scan bound")
