package treeplex

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/lingchunkai/SafeSearchSSE/internal/assert"
)

// Vector is a dense per-sequence vector bound to a Treeplex. The Treeplex
// is borrowed, never copied; the entries are owned by the Vector.
type Vector struct {
	treeplex *Treeplex
	entries  []float64
}

// NewVector wraps entries, which must have one value per sequence of tp.
func NewVector(tp *Treeplex, entries []float64) Vector {
	assert.That(len(entries) == tp.NumSequences(),
		"vector has %d entries but %v has %d sequences",
		len(entries), tp.Player(), tp.NumSequences())
	return Vector{treeplex: tp, entries: entries}
}

// ConstantVector returns a Vector with every entry equal to c.
func ConstantVector(tp *Treeplex, c float64) Vector {
	entries := make([]float64, tp.NumSequences())
	if c != 0 {
		floats.AddConst(c, entries)
	}

	return Vector{treeplex: tp, entries: entries}
}

// ZeroVector returns a Vector of zeros.
func ZeroVector(tp *Treeplex) Vector {
	return ConstantVector(tp, 0)
}

// Treeplex returns the treeplex the vector is defined over.
func (v Vector) Treeplex() *Treeplex {
	return v.treeplex
}

// Entries returns the underlying storage. Writes are visible to v.
func (v Vector) Entries() []float64 {
	return v.entries
}

// Len returns the number of entries.
func (v Vector) Len() int {
	return len(v.entries)
}

// At returns the value for sequence seq.
func (v Vector) At(seq int) float64 {
	return v.entries[seq]
}

// Set stores x at sequence seq.
func (v Vector) Set(seq int, x float64) {
	v.entries[seq] = x
}

// Clone returns a deep copy of the entries bound to the same Treeplex.
func (v Vector) Clone() Vector {
	entries := make([]float64, len(v.entries))
	copy(entries, v.entries)
	return Vector{treeplex: v.treeplex, entries: entries}
}

// Dot returns the inner product of v and w.
func (v Vector) Dot(w Vector) float64 {
	v.checkCompatible(w)
	return floats.Dot(v.entries, w.entries)
}

// L1Norm returns the sum of absolute values.
func (v Vector) L1Norm() float64 {
	return floats.Norm(v.entries, 1)
}

// L2Norm returns the Euclidean norm.
func (v Vector) L2Norm() float64 {
	return floats.Norm(v.entries, 2)
}

// MaxNorm returns the largest absolute value.
func (v Vector) MaxNorm() float64 {
	return floats.Norm(v.entries, math.Inf(1))
}

// Add adds w to v elementwise, in place, and returns v.
func (v Vector) Add(w Vector) Vector {
	v.checkCompatible(w)
	floats.Add(v.entries, w.entries)
	return v
}

// Sub subtracts w from v elementwise, in place, and returns v.
func (v Vector) Sub(w Vector) Vector {
	v.checkCompatible(w)
	floats.Sub(v.entries, w.entries)
	return v
}

// MulElem multiplies v by w elementwise, in place, and returns v.
func (v Vector) MulElem(w Vector) Vector {
	v.checkCompatible(w)
	floats.Mul(v.entries, w.entries)
	return v
}

// Scale multiplies every entry by c, in place, and returns v.
func (v Vector) Scale(c float64) Vector {
	floats.Scale(c, v.entries)
	return v
}

// AddConst adds c to every entry, in place, and returns v.
func (v Vector) AddConst(c float64) Vector {
	floats.AddConst(c, v.entries)
	return v
}

// Equal reports whether v and w are defined over the same treeplex
// and hold bit-identical entries.
func (v Vector) Equal(w Vector) bool {
	if v.treeplex != w.treeplex || len(v.entries) != len(w.entries) {
		return false
	}

	for i, x := range v.entries {
		if math.Float64bits(x) != math.Float64bits(w.entries[i]) {
			return false
		}
	}

	return true
}

func (v Vector) checkCompatible(w Vector) {
	assert.That(len(v.entries) == len(w.entries),
		"vector lengths differ: %d vs %d", len(v.entries), len(w.entries))
}
