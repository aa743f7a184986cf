package domain

import "sort"

// LineupSize is the number of players on court at any time.
const LineupSize = 5

// Lineup is the set of players on court. Identity is set identity: order of
// reporting does not matter, so the slice is kept sorted internally even
// though it is persisted as an ordered sequence.
type Lineup []string

// NewLineup normalizes a reported lineup into canonical (sorted) form.
// Duplicates are preserved so the validator can reject them by size.
func NewLineup(players ...string) Lineup {
	l := make(Lineup, len(players))
	copy(l, players)
	sort.Strings(l)
	return l
}

// Equal reports set equality between two normalized lineups.
func (l Lineup) Equal(other Lineup) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}

// Contains reports whether the player is part of the lineup.
func (l Lineup) Contains(player string) bool {
	for _, p := range l {
		if p == player {
			return true
		}
	}
	return false
}

// Valid reports whether the lineup has exactly five distinct players.
func (l Lineup) Valid() bool {
	if len(l) != LineupSize {
		return false
	}
	for i := 1; i < len(l); i++ {
		if l[i] == l[i-1] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (l Lineup) Clone() Lineup {
	if l == nil {
		return nil
	}
	out := make(Lineup, len(l))
	copy(out, l)
	return out
}
