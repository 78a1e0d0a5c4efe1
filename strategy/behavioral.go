package strategy

import (
	"math"

	"github.com/lingchunkai/SafeSearchSSE/internal/assert"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

const (
	// Tolerance on mass conservation when validating strategies.
	thresholdAccuracy = 1e-6
	// Parent mass below which an infoset is treated as unreachable.
	effectivelyZero = 1e-6
)

// Behavioral is a strategy in which, for every infoset, the entries over its
// sequence range form a probability distribution. The empty sequence holds 1.
type Behavioral struct {
	treeplex.Vector
}

// NewBehavioral wraps v after checking that it is a behavioral strategy.
func NewBehavioral(v treeplex.Vector) Behavioral {
	validateBehavioral(v)
	return Behavioral{v}
}

// UniformBehavioral returns the strategy that plays every action at every
// infoset with equal probability.
func UniformBehavioral(tp *treeplex.Treeplex) Behavioral {
	v := treeplex.ZeroVector(tp)
	v.Set(tp.EmptySequence(), 1.0)
	for _, is := range tp.Infosets() {
		p := 1.0 / float64(is.NumSequences())
		for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
			v.Set(seq, p)
		}
	}

	return NewBehavioral(v)
}

// BehavioralFromSequenceForm normalizes each infoset by its parent mass.
// Infosets whose parent is reached with probability below 1e-6 are played
// uniformly.
func BehavioralFromSequenceForm(sf SequenceForm) Behavioral {
	v := sf.Clone()
	tp := v.Treeplex()
	for _, is := range tp.Infosets() {
		parentMass := v.At(is.ParentSequence)
		if parentMass >= effectivelyZero {
			for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
				v.Set(seq, v.At(seq)/parentMass)
			}
		} else {
			p := 1.0 / float64(is.NumSequences())
			for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
				v.Set(seq, p)
			}
		}
	}

	return NewBehavioral(v)
}

// ActionProbability returns the probability of the action leading to seq,
// conditional on reaching its infoset.
func (b Behavioral) ActionProbability(seq int) float64 {
	return b.At(seq)
}

func validateBehavioral(v treeplex.Vector) {
	tp := v.Treeplex()
	for i, is := range tp.Infosets() {
		total := 0.0
		for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
			total += v.At(seq)
		}

		assert.That(math.Abs(total-1.0) <= thresholdAccuracy,
			"%v infoset %d: behavioral mass %v != 1", tp.Player(), i, total)
	}

	empty := v.At(tp.EmptySequence())
	assert.That(math.Abs(empty-1.0) <= thresholdAccuracy,
		"%v empty sequence holds %v, expected 1", tp.Player(), empty)
}
