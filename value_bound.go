package sse

import (
	"fmt"
)

// BoundKind says which side of a follower infoset value is constrained.
type BoundKind int

const (
	NoBound BoundKind = iota
	LowerBound
	UpperBound
)

// ValueBound is a one-sided constraint on the value the follower obtains
// at an infoset.
type ValueBound struct {
	Kind  BoundKind
	Value float64
}

// NewLowerBound returns the constraint value >= x.
func NewLowerBound(x float64) ValueBound {
	return ValueBound{Kind: LowerBound, Value: x}
}

// NewUpperBound returns the constraint value <= x.
func NewUpperBound(x float64) ValueBound {
	return ValueBound{Kind: UpperBound, Value: x}
}

// Satisfied reports whether v meets the bound, allowing a violation of
// at most tol.
func (b ValueBound) Satisfied(v, tol float64) bool {
	switch b.Kind {
	case LowerBound:
		return v-b.Value >= -tol
	case UpperBound:
		return b.Value-v >= -tol
	}

	return true
}

// String implements fmt.Stringer.
func (b ValueBound) String() string {
	switch b.Kind {
	case LowerBound:
		return fmt.Sprintf("LowerBound(%v)", b.Value)
	case UpperBound:
		return fmt.Sprintf("UpperBound(%v)", b.Value)
	}

	return "NoBound"
}
