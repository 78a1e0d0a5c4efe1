package strategy_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingchunkai/SafeSearchSSE/internal/fixtures"
	"github.com/lingchunkai/SafeSearchSSE/strategy"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

func TestUniform_KuhnPl1(t *testing.T) {
	tp := fixtures.KuhnTreeplexPl1()
	sf := strategy.UniformSequenceForm(tp)

	expected := []float64{0.125, 0.125, 0.125, 0.125, 0.125, 0.125,
		0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 1}
	for i, x := range expected {
		assert.InDelta(t, x, sf.At(i), 1e-12, "sequence %d", i)
	}
}

func TestBehavioral_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, tp := range []*treeplex.Treeplex{
		fixtures.KuhnTreeplexPl1(),
		fixtures.KuhnTreeplexPl2(),
		fixtures.ChainTreeplex(),
	} {
		b := randomBehavioral(rng, tp)
		sf := strategy.SequenceFormFromBehavioral(b)
		roundTrip := strategy.BehavioralFromSequenceForm(sf)
		for seq := 0; seq < tp.NumSequences(); seq++ {
			assert.InDelta(t, b.At(seq), roundTrip.At(seq), 1e-12, "%v sequence %d", tp, seq)
		}
	}
}

func TestBehavioralFromSequenceForm_UnreachedIsUniform(t *testing.T) {
	tp := fixtures.KuhnTreeplexPl1()
	// Never checks with any card, so the call/fold infosets are unreached.
	sf := strategy.NewSequenceForm(treeplex.NewVector(tp,
		[]float64{0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 0, 1, 1}))
	b := strategy.BehavioralFromSequenceForm(sf)
	for seq := 0; seq < 6; seq++ {
		assert.Equal(t, 0.5, b.At(seq), "sequence %d", seq)
	}
	assert.Equal(t, 1.0, b.At(7))
	assert.Equal(t, 0.0, b.At(6))
}

func TestNewBehavioral_RejectsInvalid(t *testing.T) {
	tp := fixtures.ChainTreeplex()
	require.Panics(t, func() {
		strategy.NewBehavioral(treeplex.NewVector(tp, []float64{1, 0.5, 1, 1}))
	})
	require.Panics(t, func() {
		strategy.NewBehavioral(treeplex.NewVector(tp, []float64{1, 1, 1, 0}))
	})
}

func TestNewSequenceForm_RejectsInvalid(t *testing.T) {
	tp := fixtures.KuhnTreeplexPl2()
	v := treeplex.ConstantVector(tp, 0.5)
	v.Set(0, 0.25)
	require.Panics(t, func() { strategy.NewSequenceForm(v) })

	require.Panics(t, func() { strategy.NewSequenceForm(treeplex.ConstantVector(tp, 0.5)) })
	require.NotPanics(t, func() { strategy.UniformSequenceForm(tp) })
}

func randomBehavioral(rng *rand.Rand, tp *treeplex.Treeplex) strategy.Behavioral {
	v := treeplex.ZeroVector(tp)
	v.Set(tp.EmptySequence(), 1)
	for _, is := range tp.Infosets() {
		total := 0.0
		for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
			x := 0.1 + rng.Float64()
			v.Set(seq, x)
			total += x
		}
		for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
			v.Set(seq, v.At(seq)/total)
		}
	}

	return strategy.NewBehavioral(v)
}
