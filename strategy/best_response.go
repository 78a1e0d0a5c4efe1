package strategy

import (
	"math"

	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

// BestResponse computes the behavioral strategy maximizing <x, g> over the
// sequence-form polytope, where g is a sequence-form gradient, together with
// the value attained. Ties go to the lowest sequence id. g is not modified.
func BestResponse(g treeplex.Vector) (Behavioral, float64) {
	br := g.Clone()
	value := inplaceBestResponse(br)
	return NewBehavioral(br), value
}

// SequenceFormBestResponse is BestResponse converted to sequence form.
func SequenceFormBestResponse(g treeplex.Vector) (SequenceForm, float64) {
	b, value := BestResponse(g)
	return SequenceFormFromBehavioral(b), value
}

// inplaceBestResponse overwrites g with a one-hot behavioral strategy. Each
// infoset's best value is folded into its parent sequence, so by the time an
// infoset is visited its sequences already carry their continuation values.
func inplaceBestResponse(g treeplex.Vector) float64 {
	tp := g.Treeplex()
	entries := g.Entries()
	for _, is := range tp.Infosets() {
		bestValue := math.Inf(-1)
		bestSeq := is.StartSequence
		for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
			if bestValue < entries[seq] {
				bestValue = entries[seq]
				bestSeq = seq
			}
		}

		for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
			entries[seq] = 0
		}
		entries[bestSeq] = 1
		entries[is.ParentSequence] += bestValue
	}

	value := entries[tp.EmptySequence()]
	entries[tp.EmptySequence()] = 1
	return value
}
