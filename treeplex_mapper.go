package sse

import (
	"github.com/lingchunkai/SafeSearchSSE/internal/assert"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

const unmapped = -1

// TreeplexMapper relates a player's full treeplex to the skinny treeplex
// containing only the infosets relevant to one subgame.
//
// Relevant sequences keep their relative order and are packed into
// 0..k-1, with a fresh empty sequence k. Relevant infosets whose parent
// sequence is also relevant keep their relative order; the remaining
// ones (heads, whose parent falls outside the subgame) come last so that
// the infosets under the skinny empty sequence stay contiguous.
type TreeplexMapper struct {
	seqToSkinnySeq []int
	// Excludes the skinny empty sequence, which stands in for every
	// sequence outside the subgame.
	skinnySeqToSeq []int

	infosetToSkinnyInfoset []int
	skinnyInfosetToInfoset []int
}

// NewTreeplexMapper maps the infosets of tp for which relevant is true,
// together with all their sequences.
func NewTreeplexMapper(tp *treeplex.Treeplex, relevant []bool) *TreeplexMapper {
	assert.That(len(relevant) == tp.NumInfosets(),
		"%d relevance flags for %d infosets", len(relevant), tp.NumInfosets())

	m := &TreeplexMapper{
		seqToSkinnySeq:         filledInts(tp.NumSequences(), unmapped),
		infosetToSkinnyInfoset: filledInts(tp.NumInfosets(), unmapped),
	}

	relevantSeq := make([]bool, tp.NumSequences())
	for i, is := range tp.Infosets() {
		if !relevant[i] {
			continue
		}
		for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
			relevantSeq[seq] = true
		}
	}

	for seq, ok := range relevantSeq {
		if ok {
			m.seqToSkinnySeq[seq] = len(m.skinnySeqToSeq)
			m.skinnySeqToSeq = append(m.skinnySeqToSeq, seq)
		}
	}

	var heads []int
	for i, is := range tp.Infosets() {
		if !relevant[i] {
			continue
		}
		if !m.IsSequenceMapped(is.ParentSequence) {
			heads = append(heads, i)
			continue
		}
		m.mapInfoset(i)
	}

	for _, i := range heads {
		m.mapInfoset(i)
	}

	return m
}

func (m *TreeplexMapper) mapInfoset(i int) {
	m.infosetToSkinnyInfoset[i] = len(m.skinnyInfosetToInfoset)
	m.skinnyInfosetToInfoset = append(m.skinnyInfosetToInfoset, i)
}

// SkinnySeqToSeq returns the full sequence behind a non-empty skinny sequence.
func (m *TreeplexMapper) SkinnySeqToSeq(skinnySeq int) int {
	return m.skinnySeqToSeq[skinnySeq]
}

// SeqToSkinnySeq returns the skinny id of a mapped sequence.
func (m *TreeplexMapper) SeqToSkinnySeq(seq int) int {
	s := m.seqToSkinnySeq[seq]
	assert.That(s != unmapped, "sequence %d is not mapped", seq)
	return s
}

// InfosetToSkinnyInfoset returns the skinny id of a mapped infoset.
func (m *TreeplexMapper) InfosetToSkinnyInfoset(infoset int) int {
	s := m.infosetToSkinnyInfoset[infoset]
	assert.That(s != unmapped, "infoset %d is not mapped", infoset)
	return s
}

// SkinnyInfosetToInfoset returns the full infoset behind a skinny infoset.
func (m *TreeplexMapper) SkinnyInfosetToInfoset(skinnyInfoset int) int {
	return m.skinnyInfosetToInfoset[skinnyInfoset]
}

// IsSequenceMapped reports whether seq belongs to the skinny treeplex.
func (m *TreeplexMapper) IsSequenceMapped(seq int) bool {
	return m.seqToSkinnySeq[seq] != unmapped
}

// IsInfosetMapped reports whether infoset belongs to the skinny treeplex.
func (m *TreeplexMapper) IsInfosetMapped(infoset int) bool {
	return m.infosetToSkinnyInfoset[infoset] != unmapped
}

// NumSkinnySequences counts the skinny sequences including the empty one.
func (m *TreeplexMapper) NumSkinnySequences() int {
	return len(m.skinnySeqToSeq) + 1
}

func (m *TreeplexMapper) NumSkinnyInfosets() int {
	return len(m.skinnyInfosetToInfoset)
}

// SkinnyEmptySequence returns the id of the skinny empty sequence.
func (m *TreeplexMapper) SkinnyEmptySequence() int {
	return m.NumSkinnySequences() - 1
}

// BuildSkinnyTreeplex constructs the skinny treeplex described by m. Each
// infoset keeps its shape; infosets whose parent sequence is not mapped
// hang off the skinny empty sequence.
func BuildSkinnyTreeplex(tp *treeplex.Treeplex, m *TreeplexMapper) *treeplex.Treeplex {
	infosets := make([]treeplex.Infoset, 0, m.NumSkinnyInfosets())
	for skinny := 0; skinny < m.NumSkinnyInfosets(); skinny++ {
		i := m.SkinnyInfosetToInfoset(skinny)
		is := tp.Infoset(i)

		offset := is.StartSequence - m.SeqToSkinnySeq(is.StartSequence)
		for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
			assert.That(m.SeqToSkinnySeq(seq) == seq-offset,
				"%v infoset %d sequences are not mapped contiguously", tp.Player(), i)
		}

		parent := m.SkinnyEmptySequence()
		if m.IsSequenceMapped(is.ParentSequence) {
			parent = m.SeqToSkinnySeq(is.ParentSequence)
		}

		infosets = append(infosets, treeplex.NewInfoset(parent, is.StartSequence-offset, is.EndSequence-offset))
	}

	return treeplex.New(tp.Player(), m.NumSkinnySequences(), infosets)
}

func filledInts(n, x int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = x
	}
	return s
}
