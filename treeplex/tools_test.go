package treeplex_test

import (
	"testing"

	"github.com/lingchunkai/SafeSearchSSE/internal/fixtures"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

func TestTools_SeqToInfosetRange(t *testing.T) {
	tools := treeplex.NewTools(fixtures.KuhnTreeplexPl1())

	expected := map[int][2]int{
		12: {3, 6},
		6:  {0, 1},
		8:  {1, 2},
		10: {2, 3},
		0:  {0, 0},
		7:  {0, 0},
	}
	for seq, want := range expected {
		start, end := tools.SeqToInfosetRange(seq)
		if end-start != want[1]-want[0] || (end > start && start != want[0]) {
			t.Errorf("sequence %d: expected [%d, %d), got [%d, %d)",
				seq, want[0], want[1], start, end)
		}
	}

	if n := tools.NumChildInfosets(12); n != 3 {
		t.Errorf("expected %d child infosets, got %d", 3, n)
	}
}

func TestTools_SeqsUnder(t *testing.T) {
	tools := treeplex.NewTools(fixtures.KuhnTreeplexPl1())

	lo, hi := tools.SeqsUnderInfoset(3)
	if lo != 0 || hi != 7 {
		t.Errorf("expected [0, 7], got [%d, %d]", lo, hi)
	}

	lo, hi = tools.SeqsUnderInfoset(0)
	if lo != 0 || hi != 1 {
		t.Errorf("expected [0, 1], got [%d, %d]", lo, hi)
	}

	lo, hi = tools.SeqsUnderSeq(10)
	if lo != 4 || hi != 10 {
		t.Errorf("expected [4, 10], got [%d, %d]", lo, hi)
	}

	lo, hi = tools.SeqsUnderSeq(12)
	if lo != 0 || hi != 12 {
		t.Errorf("expected [0, 12], got [%d, %d]", lo, hi)
	}

	lo, hi = tools.SeqsUnderSeq(3)
	if lo != 3 || hi != 3 {
		t.Errorf("expected [3, 3], got [%d, %d]", lo, hi)
	}
}

func TestTools_Chain(t *testing.T) {
	tools := treeplex.NewTools(fixtures.ChainTreeplex())
	for seq := 0; seq < 4; seq++ {
		lo, hi := tools.SeqsUnderSeq(seq)
		if lo != 0 || hi != seq {
			t.Errorf("sequence %d: expected [0, %d], got [%d, %d]", seq, seq, lo, hi)
		}
	}

	if is, ok := tools.ParentInfoset(3); ok {
		t.Errorf("expected no parent infoset for empty sequence, got %d", is)
	}

	if is, ok := tools.ParentInfoset(1); !ok || is != 1 {
		t.Errorf("expected parent infoset 1, got %d (%v)", is, ok)
	}
}

func TestTools_NoInfosets(t *testing.T) {
	tp := treeplex.New(treeplex.Player1, 1, nil)
	tools := treeplex.NewTools(tp)
	if n := tools.NumChildInfosets(0); n != 0 {
		t.Errorf("expected no child infosets, got %d", n)
	}
}
