// Package align provides power-of-two alignment helpers shared by the
// layout compiler and the stride resolver.
package align

import "golang.org/x/exp/constraints"

// IsPowerOfTwo reports whether v is a non-zero power of two.
func IsPowerOfTwo[T constraints.Unsigned](v T) bool {
	return v != 0 && v&(v-1) == 0
}

// Up rounds v up to the next multiple of a.
// An alignment of 0 or 1 leaves v unchanged. a need not be a power of two.
func Up[T constraints.Unsigned](v, a T) T {
	if a <= 1 {
		return v
	}
	return (v + a - 1) / a * a
}

// UpPOT rounds v up to the next multiple of the power-of-two alignment a.
// It panics if a is not a power of two.
func UpPOT[T constraints.Unsigned](v, a T) T {
	if !IsPowerOfTwo(a) {
		panic("align: alignment is not a power of two")
	}
	return (v + a - 1) &^ (a - 1)
}
