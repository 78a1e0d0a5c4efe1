// Package ldbstore implements store.Store on top of a LevelDB database,
// keeping every game and vector of a run in a single directory.
package ldbstore
