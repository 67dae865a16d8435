package trade

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("invalid trade request")
	ErrTradeNotFound = errors.New("trade not found")
	ErrNotPending    = errors.New("trade is not pending")
	ErrNotRecipient  = errors.New("only the receiving team may respond")
	ErrNotProposer   = errors.New("only the proposing team may cancel")
	ErrNotOnRoster   = errors.New("player is not on the expected roster")

	// ErrRosterChanged means ownership moved between proposal and
	// acceptance. The acceptance is fully rejected; the caller must
	// refresh and resubmit.
	ErrRosterChanged = errors.New("roster changed since proposal")

	// ErrUnfair is the sentinel all fairness violations unwrap to.
	ErrUnfair = errors.New("trade fairness violation")
)

// FairnessError carries the computed averages and delta so the caller can
// see why the proposal was rejected.
type FairnessError struct {
	Fairness Fairness
	Reason   string
}

func (e *FairnessError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("trade fairness violation: %s", e.Reason)
	}
	return fmt.Sprintf("trade fairness violation: round delta %.2f exceeds %.1f (give avg %.2f, receive avg %.2f)",
		e.Fairness.Delta, MaxRoundDelta, e.Fairness.FromAvgRound, e.Fairness.ToAvgRound)
}

func (e *FairnessError) Unwrap() error {
	return ErrUnfair
}
