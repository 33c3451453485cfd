// Package shuffle provides the index sequencing strategies used to walk a
// queue either in order or as a reseedable pseudo-random permutation.
package shuffle

// Algorithm steps an index through [0, Length).
//
// Next and Prev report true when the step crossed the boundary of a full
// pass. Values passed to SetIndex outside [0, Length) must be normalised by
// the caller.
type Algorithm interface {
	Index() int
	SetIndex(index int)
	Length() int
	SetLength(length int)
	Seed() int
	SetSeed(seed int)
	Next() bool
	Prev() bool
}

// MathMod returns a mod b in [0, b) for positive b
func MathMod(a, b int) int {
	return ((a % b) + b) % b
}
