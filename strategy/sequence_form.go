package strategy

import (
	"math"

	"github.com/lingchunkai/SafeSearchSSE/internal/assert"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

// SequenceForm is a strategy in which every entry is the probability of
// playing the whole sequence of actions leading to it. For every infoset the
// mass over its range equals the mass of its parent sequence, and the empty
// sequence holds 1.
type SequenceForm struct {
	treeplex.Vector
}

// NewSequenceForm wraps v after checking flow conservation.
func NewSequenceForm(v treeplex.Vector) SequenceForm {
	validateSequenceForm(v)
	return SequenceForm{v}
}

// UniformSequenceForm is the sequence form of UniformBehavioral.
func UniformSequenceForm(tp *treeplex.Treeplex) SequenceForm {
	return SequenceFormFromBehavioral(UniformBehavioral(tp))
}

// SequenceFormFromBehavioral multiplies every action probability by the mass
// of its parent sequence, top-down.
func SequenceFormFromBehavioral(b Behavioral) SequenceForm {
	v := b.Clone()
	infosets := v.Treeplex().Infosets()
	for i := len(infosets) - 1; i >= 0; i-- {
		is := infosets[i]
		parentMass := v.At(is.ParentSequence)
		for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
			v.Set(seq, v.At(seq)*parentMass)
		}
	}

	return NewSequenceForm(v)
}

// Reach returns the probability that the player plays every action in seq.
func (sf SequenceForm) Reach(seq int) float64 {
	return sf.At(seq)
}

func validateSequenceForm(v treeplex.Vector) {
	tp := v.Treeplex()
	empty := v.At(tp.EmptySequence())
	assert.That(math.Abs(empty-1.0) <= thresholdAccuracy,
		"%v empty sequence holds %v, expected 1", tp.Player(), empty)

	for i, is := range tp.Infosets() {
		total := 0.0
		for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
			total += v.At(seq)
		}

		parentMass := v.At(is.ParentSequence)
		assert.That(math.Abs(total-parentMass) <= thresholdAccuracy,
			"%v infoset %d: mass %v does not match parent sequence %d mass %v",
			tp.Player(), i, total, is.ParentSequence, parentMass)
	}
}
