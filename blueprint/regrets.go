package blueprint

import (
	"gonum.org/v1/gonum/floats"

	"github.com/lingchunkai/SafeSearchSSE/strategy"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

// regretTable holds the accumulated regrets and strategy sums of one player,
// both indexed by sequence.
type regretTable struct {
	treeplex *treeplex.Treeplex

	// Behavioral strategy for the current iteration.
	currentStrategy []float64

	regretSum   []float64
	strategySum []float64
	totalWeight float64
}

func newRegretTable(tp *treeplex.Treeplex) *regretTable {
	return &regretTable{
		treeplex:        tp,
		currentStrategy: strategy.UniformBehavioral(tp).Entries(),
		regretSum:       make([]float64, tp.NumSequences()),
		strategySum:     make([]float64, tp.NumSequences()),
	}
}

// current returns the strategy of this iteration in sequence form.
func (t *regretTable) current() strategy.SequenceForm {
	b := strategy.NewBehavioral(treeplex.NewVector(t.treeplex, append([]float64(nil), t.currentStrategy...)))
	return strategy.SequenceFormFromBehavioral(b)
}

// addRegret accumulates the instantaneous regrets for the counterfactual
// values cfv, which are consumed bottom up: each infoset's value under the
// current strategy is added into its parent sequence. It returns the value
// of the empty sequence.
func (t *regretTable) addRegret(cfv []float64) float64 {
	for _, is := range t.treeplex.Infosets() {
		lo, hi := is.StartSequence, is.EndSequence+1
		v := floats.Dot(t.currentStrategy[lo:hi], cfv[lo:hi])
		for seq := lo; seq < hi; seq++ {
			t.regretSum[seq] += cfv[seq] - v
		}
		cfv[is.ParentSequence] += v
	}

	return cfv[t.treeplex.EmptySequence()]
}

// nextStrategy adds the current strategy to the average with weight one,
// discounts the history and performs regret matching.
func (t *regretTable) nextStrategy(x strategy.SequenceForm, discountPositiveRegret, discountNegativeRegret, discountStrategySum float64) {
	if discountStrategySum != 1.0 {
		floats.Scale(discountStrategySum, t.strategySum)
		t.totalWeight *= discountStrategySum
	}

	floats.Add(t.strategySum, x.Entries())
	t.totalWeight++

	if discountPositiveRegret != 1.0 {
		for i, r := range t.regretSum {
			if r > 0 {
				t.regretSum[i] *= discountPositiveRegret
			}
		}
	}

	if discountNegativeRegret != 1.0 {
		for i, r := range t.regretSum {
			if r < 0 {
				t.regretSum[i] *= discountNegativeRegret
			}
		}
	}

	t.regretMatching()
}

func (t *regretTable) regretMatching() {
	for _, is := range t.treeplex.Infosets() {
		lo, hi := is.StartSequence, is.EndSequence+1
		s := t.currentStrategy[lo:hi]
		copy(s, t.regretSum[lo:hi])
		makePositive(s)
		total := floats.Sum(s)
		if total > 0 {
			floats.Scale(1.0/total, s)
		} else {
			for i := range s {
				s[i] = 1.0 / float64(len(s))
			}
		}
	}
}

// average returns the weighted average of the sequence-form strategies
// played so far, with probabilities below threshold purified away.
func (t *regretTable) average(threshold float64) strategy.SequenceForm {
	if t.totalWeight == 0 {
		return strategy.UniformSequenceForm(t.treeplex)
	}

	v := treeplex.NewVector(t.treeplex, make([]float64, len(t.strategySum)))
	floats.ScaleTo(v.Entries(), 1.0/t.totalWeight, t.strategySum)
	v.Set(t.treeplex.EmptySequence(), 1.0)
	avg := strategy.NewSequenceForm(v)
	if threshold <= 0 {
		return avg
	}

	return purify(avg, threshold)
}

// purify zeroes the action probabilities below threshold and renormalizes
// each infoset. An infoset left without actions keeps its original policy.
func purify(sf strategy.SequenceForm, threshold float64) strategy.SequenceForm {
	b := strategy.BehavioralFromSequenceForm(sf)
	p := b.Entries()
	for _, is := range sf.Treeplex().Infosets() {
		lo, hi := is.StartSequence, is.EndSequence+1
		s := make([]float64, hi-lo)
		copy(s, p[lo:hi])
		for i := range s {
			if s[i] < threshold {
				s[i] = 0
			}
		}

		if total := floats.Sum(s); total > 0 {
			floats.Scale(1.0/total, s)
			copy(p[lo:hi], s)
		}
	}

	return strategy.SequenceFormFromBehavioral(strategy.NewBehavioral(b.Vector))
}

func makePositive(v []float64) {
	for i := range v {
		if v[i] < 0 {
			v[i] = 0.0
		}
	}
}
