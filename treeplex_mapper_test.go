package sse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sse "github.com/lingchunkai/SafeSearchSSE"
	"github.com/lingchunkai/SafeSearchSSE/internal/fixtures"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

func TestTreeplexMapper_HeadsComeLast(t *testing.T) {
	tp := fixtures.KuhnTreeplexPl1()
	// The root infoset of the first card (seqs 6,7) and its follow-up
	// after check-bet (seqs 0,1, parent 6).
	relevant := []bool{true, false, false, true, false, false}
	m := sse.NewTreeplexMapper(tp, relevant)

	require.Equal(t, 5, m.NumSkinnySequences())
	require.Equal(t, 2, m.NumSkinnyInfosets())
	assert.Equal(t, 4, m.SkinnyEmptySequence())

	for skinny, seq := range []int{0, 1, 6, 7} {
		assert.Equal(t, seq, m.SkinnySeqToSeq(skinny))
		assert.Equal(t, skinny, m.SeqToSkinnySeq(seq))
	}
	assert.False(t, m.IsSequenceMapped(2))
	assert.False(t, m.IsSequenceMapped(12))

	assert.Equal(t, 0, m.SkinnyInfosetToInfoset(0))
	assert.Equal(t, 3, m.SkinnyInfosetToInfoset(1))
	assert.True(t, m.IsInfosetMapped(3))
	assert.False(t, m.IsInfosetMapped(4))

	skinny := sse.BuildSkinnyTreeplex(tp, m)
	skinny.Validate()
	assert.Equal(t, []treeplex.Infoset{
		{ParentSequence: 2, StartSequence: 0, EndSequence: 1},
		{ParentSequence: 4, StartSequence: 2, EndSequence: 3},
	}, skinny.Infosets())
	assert.Equal(t, treeplex.Player1, skinny.Player())
}

func TestTreeplexMapper_SiblingHeads(t *testing.T) {
	tp := fixtures.KuhnTreeplexPl1()
	m := sse.NewTreeplexMapper(tp, []bool{true, true, false, false, false, false})

	skinny := sse.BuildSkinnyTreeplex(tp, m)
	skinny.Validate()
	assert.Equal(t, []treeplex.Infoset{
		{ParentSequence: 4, StartSequence: 0, EndSequence: 1},
		{ParentSequence: 4, StartSequence: 2, EndSequence: 3},
	}, skinny.Infosets())
}

func TestTreeplexMapper_Bijection(t *testing.T) {
	tp := fixtures.KuhnTreeplexPl2()
	relevant := []bool{false, true, true, false, true, false}
	m := sse.NewTreeplexMapper(tp, relevant)

	for skinny := 0; skinny < m.NumSkinnySequences()-1; skinny++ {
		assert.Equal(t, skinny, m.SeqToSkinnySeq(m.SkinnySeqToSeq(skinny)))
	}
	for skinny := 0; skinny < m.NumSkinnyInfosets(); skinny++ {
		i := m.SkinnyInfosetToInfoset(skinny)
		assert.True(t, relevant[i])
		assert.Equal(t, skinny, m.InfosetToSkinnyInfoset(i))
	}

	sse.BuildSkinnyTreeplex(tp, m).Validate()
}

func TestTreeplexMapper_UnmappedPanics(t *testing.T) {
	tp := fixtures.KuhnTreeplexPl1()
	m := sse.NewTreeplexMapper(tp, []bool{true, false, false, false, false, false})
	assert.Panics(t, func() { m.SeqToSkinnySeq(12) })
	assert.Panics(t, func() { m.InfosetToSkinnyInfoset(5) })
	assert.Panics(t, func() { sse.NewTreeplexMapper(tp, []bool{true}) })
}

func TestTreeplexMapper_NothingRelevant(t *testing.T) {
	tp := fixtures.KuhnTreeplexPl2()
	m := sse.NewTreeplexMapper(tp, make([]bool, tp.NumInfosets()))
	assert.Equal(t, 1, m.NumSkinnySequences())
	assert.Equal(t, 0, m.NumSkinnyInfosets())

	skinny := sse.BuildSkinnyTreeplex(tp, m)
	assert.Equal(t, 1, skinny.NumSequences())
	assert.Equal(t, 0, skinny.NumInfosets())
}
