// Package strategy implements the behavioral and sequence-form views of a
// mixed strategy over a treeplex, the conversions between them, and the
// best-response oracle.
//
// Both views wrap a treeplex.Vector. Constructors validate their input and
// panic with an invariant violation when a vector is not a strategy of the
// requested kind.
package strategy
