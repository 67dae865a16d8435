// Package draftorder holds the pure snake-order math mapping overall pick
// numbers to and from (round, team index, pick-in-round) positions.
//
// Odd rounds run team order forward (index 0..N-1), even rounds run it
// backward. All functions are stateless and total over overall ≥ 1,
// round ≥ 1, 0 ≤ index < numTeams and numTeams ≥ 1.
package draftorder

// SlotOf maps a 1-based overall pick number to its round, team index and
// 1-based pick number within the round.
func SlotOf(overall, numTeams int) (round, index, pickInRound int) {
	p0 := overall - 1
	round = p0/numTeams + 1
	pos := p0 % numTeams
	index = pos
	if round%2 == 0 {
		index = numTeams - 1 - pos
	}
	return round, index, pos + 1
}

// PickInRoundOf returns the 1-based pick number within the round for an
// overall pick number.
func PickInRoundOf(overall, numTeams int) int {
	_, _, pickInRound := SlotOf(overall, numTeams)
	return pickInRound
}

// OverallOf is the inverse of SlotOf: it maps a round and team index back
// to the overall pick number. OverallOf(SlotOf(x)) == x for all valid x.
func OverallOf(round, index, numTeams int) int {
	pos := index
	if round%2 == 0 {
		pos = numTeams - 1 - index
	}
	return (round-1)*numTeams + pos + 1
}
