package treeplex

import (
	"github.com/lingchunkai/SafeSearchSSE/internal/assert"
)

type infosetRange struct {
	start, end int
}

type seqRange struct {
	lo, hi int
}

// Tools holds lookup tables derived from a Treeplex: which infosets follow
// a sequence, which sequences lie beneath an infoset or sequence, and which
// infoset owns a sequence. It is a pure function of the Treeplex and is
// read-only after construction.
type Tools struct {
	treeplex *Treeplex

	seqToInfosets     []infosetRange
	seqsUnderInfosets []seqRange
	seqsUnderSeqs     []seqRange
	parentInfosets    []int
}

// NewTools precomputes the lookup tables for tp. It panics if the infosets
// sharing a parent sequence are not stored contiguously.
func NewTools(tp *Treeplex) *Tools {
	t := &Tools{treeplex: tp}
	t.fillSeqToInfosets()
	t.fillSeqsUnder()
	t.fillParentInfosets()
	return t
}

// Treeplex returns the treeplex these tools were computed from.
func (t *Tools) Treeplex() *Treeplex {
	return t.treeplex
}

// SeqToInfosetRange returns the half-open range [start, end) of infoset ids
// that immediately follow seq. The range is empty for leaf sequences.
func (t *Tools) SeqToInfosetRange(seq int) (start, end int) {
	r := t.seqToInfosets[seq]
	return r.start, r.end
}

// NumChildInfosets returns the number of infosets immediately following seq.
func (t *Tools) NumChildInfosets(seq int) int {
	r := t.seqToInfosets[seq]
	return r.end - r.start
}

// SeqsUnderInfoset returns the inclusive range of sequence ids lying at
// or beneath the given infoset.
func (t *Tools) SeqsUnderInfoset(infoset int) (lo, hi int) {
	r := t.seqsUnderInfosets[infoset]
	return r.lo, r.hi
}

// SeqsUnderSeq returns the inclusive range of sequence ids lying at or
// beneath seq, including seq itself.
func (t *Tools) SeqsUnderSeq(seq int) (lo, hi int) {
	r := t.seqsUnderSeqs[seq]
	return r.lo, r.hi
}

// ParentInfoset returns the infoset owning seq, or false for the
// empty sequence.
func (t *Tools) ParentInfoset(seq int) (int, bool) {
	p := t.parentInfosets[seq]
	return p, p >= 0
}

// Infosets sharing a parent sequence must form one block. We walk the
// infosets in order and close a block each time the parent changes.
func (t *Tools) fillSeqToInfosets() {
	tp := t.treeplex
	t.seqToInfosets = make([]infosetRange, tp.NumSequences())
	seen := make([]bool, tp.NumSequences())
	if tp.NumInfosets() == 0 {
		return
	}

	curSeq := tp.Infoset(0).ParentSequence
	blockStart := 0
	for i := 1; i <= tp.NumInfosets(); i++ {
		if i < tp.NumInfosets() && tp.Infoset(i).ParentSequence == curSeq {
			continue
		}

		assert.That(!seen[curSeq],
			"%v infosets under sequence %d are not contiguous (second block starts at %d)",
			tp.Player(), curSeq, blockStart)
		seen[curSeq] = true
		t.seqToInfosets[curSeq] = infosetRange{blockStart, i}

		if i < tp.NumInfosets() {
			curSeq = tp.Infoset(i).ParentSequence
			blockStart = i
		}
	}
}

func (t *Tools) fillSeqsUnder() {
	tp := t.treeplex
	t.seqsUnderSeqs = make([]seqRange, tp.NumSequences())
	for seq := range t.seqsUnderSeqs {
		t.seqsUnderSeqs[seq] = seqRange{seq, seq}
	}

	t.seqsUnderInfosets = make([]seqRange, tp.NumInfosets())
	for i, is := range tp.Infosets() {
		r := seqRange{tp.NumSequences(), 0}
		for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
			r.lo = min(r.lo, t.seqsUnderSeqs[seq].lo)
			r.hi = max(r.hi, t.seqsUnderSeqs[seq].hi)
		}
		t.seqsUnderInfosets[i] = r

		parent := &t.seqsUnderSeqs[is.ParentSequence]
		parent.lo = min(parent.lo, r.lo)
		parent.hi = max(parent.hi, r.hi)
	}
}

func (t *Tools) fillParentInfosets() {
	tp := t.treeplex
	t.parentInfosets = make([]int, tp.NumSequences())
	for seq := range t.parentInfosets {
		t.parentInfosets[seq] = -1
	}

	for i, is := range tp.Infosets() {
		for seq := is.StartSequence; seq <= is.EndSequence; seq++ {
			t.parentInfosets[seq] = i
		}
	}
}
