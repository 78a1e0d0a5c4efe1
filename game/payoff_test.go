package game_test

import (
	"testing"

	"github.com/lingchunkai/SafeSearchSSE/game"
)

func TestNewPayoffMatrix_MergesDuplicates(t *testing.T) {
	pm := game.NewPayoffMatrix([]game.Entry{
		{SeqPl1: 1, SeqPl2: 0, ChanceFactor: 0.5, PayoffPl1: 2, PayoffPl2: -2},
		{SeqPl1: 0, SeqPl2: 0, ChanceFactor: 0.25, PayoffPl1: 4, PayoffPl2: 0},
		{SeqPl1: 0, SeqPl2: 0, ChanceFactor: 0.75, PayoffPl1: 0, PayoffPl2: 8},
	})

	if pm.Len() != 2 {
		t.Fatalf("expected %d entries, got %d", 2, pm.Len())
	}

	expected := game.Entry{SeqPl1: 0, SeqPl2: 0, ChanceFactor: 1, PayoffPl1: 1, PayoffPl2: 6}
	if pm.Entry(0) != expected {
		t.Errorf("expected %+v, got %+v", expected, pm.Entry(0))
	}

	if pm.Entry(1).SeqPl1 != 1 {
		t.Errorf("expected entries sorted by sequence pair, got %+v", pm.Entries())
	}
}

func TestNewPayoffMatrix_Idempotent(t *testing.T) {
	pm := game.NewPayoffMatrix([]game.Entry{
		{SeqPl1: 2, SeqPl2: 1, ChanceFactor: 0.1, PayoffPl1: 3, PayoffPl2: 1},
		{SeqPl1: 2, SeqPl2: 1, ChanceFactor: 0.3, PayoffPl1: -1, PayoffPl2: 5},
		{SeqPl1: 0, SeqPl2: 4, ChanceFactor: 0.2, PayoffPl1: 7, PayoffPl2: 7},
		{SeqPl1: 0, SeqPl2: 1, ChanceFactor: 0.4, PayoffPl1: 1, PayoffPl2: 2},
	})

	again := game.NewPayoffMatrix(pm.Entries())
	if again.Len() != pm.Len() {
		t.Fatalf("expected %d entries, got %d", pm.Len(), again.Len())
	}

	for i := range pm.Entries() {
		if again.Entry(i) != pm.Entry(i) {
			t.Errorf("entry %d: expected %+v, got %+v", i, pm.Entry(i), again.Entry(i))
		}
	}
}

func TestNewPayoffMatrix_ZeroChanceKeepsFirst(t *testing.T) {
	pm := game.NewPayoffMatrix([]game.Entry{
		{SeqPl1: 0, SeqPl2: 0, ChanceFactor: 0, PayoffPl1: 5, PayoffPl2: 5},
		{SeqPl1: 0, SeqPl2: 0, ChanceFactor: 0, PayoffPl1: 7, PayoffPl2: 7},
	})

	if pm.Len() != 1 {
		t.Fatalf("expected %d entry, got %d", 1, pm.Len())
	}

	if pm.Entry(0).PayoffPl1 != 5 {
		t.Errorf("expected first entry to be kept, got %+v", pm.Entry(0))
	}
}
