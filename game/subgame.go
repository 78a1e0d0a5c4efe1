package game

import (
	"strconv"
)

// SubgameID labels an infoset as either free (part of the trunk) or
// belonging to subgame k.
type SubgameID int

// Free marks an infoset that is not part of any subgame.
const Free SubgameID = -1

// Subgame returns the label of the kth subgame.
func Subgame(k int) SubgameID {
	return SubgameID(k)
}

// IsFree reports whether s is the Free label.
func (s SubgameID) IsFree() bool {
	return s < 0
}

// Index returns k for Subgame(k), or false for Free.
func (s SubgameID) Index() (int, bool) {
	return int(s), s >= 0
}

// String implements fmt.Stringer.
func (s SubgameID) String() string {
	if s.IsFree() {
		return "Free"
	}

	return "Subgame(" + strconv.Itoa(int(s)) + ")"
}

// Wire encoding: 0 is Free and k+1 is Subgame(k).
func (s SubgameID) toWire() uint64 {
	if s.IsFree() {
		return 0
	}

	return uint64(s) + 1
}

func subgameFromWire(x uint64) SubgameID {
	if x == 0 {
		return Free
	}

	return SubgameID(x - 1)
}
