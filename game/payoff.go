package game

import (
	"math"
	"sort"
)

// Entry is one leaf of the joint game tree in sequence form. ChanceFactor is
// the product of chance probabilities along the path to the leaf.
type Entry struct {
	SeqPl1       int
	SeqPl2       int
	ChanceFactor float64
	PayoffPl1    float64
	PayoffPl2    float64
}

// Payoff returns the payoff of the given player.
func (e Entry) Payoff(p Player) float64 {
	if p == Player1 {
		return e.PayoffPl1
	}

	return e.PayoffPl2
}

// Seq returns the sequence of the given player leading to the leaf.
func (e Entry) Seq(p Player) int {
	if p == Player1 {
		return e.SeqPl1
	}

	return e.SeqPl2
}

// PayoffMatrix is the sparse sequence-form payoff matrix of a game. It holds
// at most one entry per sequence pair, sorted by (SeqPl1, SeqPl2).
type PayoffMatrix struct {
	entries []Entry
}

type seqPair struct {
	seqPl1, seqPl2 int
}

// NewPayoffMatrix builds a payoff matrix from raw leaves, merging leaves that
// share a sequence pair. A merged entry carries the total chance factor and
// the chance-weighted average of the payoffs. A merge whose combined chance
// is within machine epsilon of zero is discarded and the earlier entry kept.
func NewPayoffMatrix(entries []Entry) *PayoffMatrix {
	merged := make(map[seqPair]Entry, len(entries))
	for _, e := range entries {
		key := seqPair{e.SeqPl1, e.SeqPl2}
		old, ok := merged[key]
		if !ok {
			merged[key] = e
			continue
		}

		chance := old.ChanceFactor + e.ChanceFactor
		if chance <= epsilon {
			continue
		}

		merged[key] = Entry{
			SeqPl1:       e.SeqPl1,
			SeqPl2:       e.SeqPl2,
			ChanceFactor: chance,
			PayoffPl1:    (e.PayoffPl1*e.ChanceFactor + old.PayoffPl1*old.ChanceFactor) / chance,
			PayoffPl2:    (e.PayoffPl2*e.ChanceFactor + old.PayoffPl2*old.ChanceFactor) / chance,
		}
	}

	flat := make([]Entry, 0, len(merged))
	for _, e := range merged {
		flat = append(flat, e)
	}

	sort.Slice(flat, func(i, j int) bool {
		if flat[i].SeqPl1 != flat[j].SeqPl1 {
			return flat[i].SeqPl1 < flat[j].SeqPl1
		}
		return flat[i].SeqPl2 < flat[j].SeqPl2
	})

	return &PayoffMatrix{entries: flat}
}

// Entries returns the flattened entries. The slice must not be modified.
func (pm *PayoffMatrix) Entries() []Entry {
	return pm.entries
}

// Len returns the number of entries.
func (pm *PayoffMatrix) Len() int {
	return len(pm.entries)
}

// Entry returns the ith entry.
func (pm *PayoffMatrix) Entry(i int) Entry {
	return pm.entries[i]
}

// f64 machine epsilon.
var epsilon = math.Nextafter(1, 2) - 1
