package treeplex_test

import (
	"testing"

	"github.com/lingchunkai/SafeSearchSSE/internal/assert"
	"github.com/lingchunkai/SafeSearchSSE/internal/fixtures"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

func TestTreeplex_Validate(t *testing.T) {
	for _, tp := range []*treeplex.Treeplex{
		fixtures.KuhnTreeplexPl1(),
		fixtures.KuhnTreeplexPl2(),
		fixtures.ChainTreeplex(),
		fixtures.SingleInfosetTreeplex(treeplex.Player2, 3),
	} {
		if err := validate(tp); err != nil {
			t.Errorf("%v: unexpected error: %v", tp, err)
		}
	}
}

func TestTreeplex_ValidateRejectsMalformed(t *testing.T) {
	cases := map[string]*treeplex.Treeplex{
		"parent below range": treeplex.New(treeplex.Player1, 3, []treeplex.Infoset{
			{ParentSequence: 0, StartSequence: 0, EndSequence: 1},
		}),
		"orphan sequence": treeplex.New(treeplex.Player1, 4, []treeplex.Infoset{
			{ParentSequence: 3, StartSequence: 0, EndSequence: 1},
		}),
		"overlap": treeplex.New(treeplex.Player1, 4, []treeplex.Infoset{
			{ParentSequence: 3, StartSequence: 0, EndSequence: 1},
			{ParentSequence: 3, StartSequence: 1, EndSequence: 2},
		}),
		"top-down order": treeplex.New(treeplex.Player1, 4, []treeplex.Infoset{
			{ParentSequence: 3, StartSequence: 1, EndSequence: 2},
			{ParentSequence: 2, StartSequence: 0, EndSequence: 0},
		}),
	}

	for name, tp := range cases {
		err := validate(tp)
		if err == nil {
			t.Errorf("%s: expected error, got nil", name)
		} else if !assert.IsViolation(err) {
			t.Errorf("%s: expected invariant violation, got %v", name, err)
		}
	}
}

func TestTreeplex_EmptySequence(t *testing.T) {
	tp := fixtures.KuhnTreeplexPl1()
	if tp.EmptySequence() != 12 {
		t.Errorf("expected empty sequence %d, got %d", 12, tp.EmptySequence())
	}

	if tp.NumInfosets() != 6 {
		t.Errorf("expected %d infosets, got %d", 6, tp.NumInfosets())
	}
}

func TestPlayer_Opponent(t *testing.T) {
	if treeplex.Player1.Opponent() != treeplex.Player2 {
		t.Errorf("expected %v, got %v", treeplex.Player2, treeplex.Player1.Opponent())
	}

	if treeplex.Player2.Opponent() != treeplex.Player1 {
		t.Errorf("expected %v, got %v", treeplex.Player1, treeplex.Player2.Opponent())
	}
}

func validate(tp *treeplex.Treeplex) (err error) {
	defer assert.Recover(&err)
	tp.Validate()
	return nil
}
