// Package transform holds the leaf utilities shared by the Boolean function
// engines: the truth-table cursor, vector/integer conversions, the sign map and
// the two fast butterflies (Walsh–Hadamard and Möbius).
//
// Conventions used throughout the module:
//   - a point index is the integer encoding of an input vector, first variable = MSB;
//   - an ANF/WS index is a monomial (resp. linear form); bit i set means X<i> appears;
//   - Sign maps 0 to +1 and 1 to -1, so WS[u] = Σ_x (-1)^(f(x) ⊕ u·x).
package transform

import (
	"math/bits"

	"dahu/internal/errors"
)

// MaxLocality bounds the number of variables accepted by the engines.
const MaxLocality = 20

// Number is the element constraint of Walsh.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Word is the element constraint of Moebius.
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint | ~int
}

// CheckLocality returns an InvalidArgumentError if l is out of range.
func CheckLocality(l int) error {
	if l < 1 || l > MaxLocality {
		return errors.InvalidArgument("locality", "got %d, want 1..%d", l, MaxLocality)
	}
	return nil
}

// CheckLength returns an InvalidArgumentError unless len == want.
func CheckLength(arg string, got, want int) error {
	if got != want {
		return errors.InvalidArgument(arg, "length %d, want %d", got, want)
	}
	return nil
}

// CheckBits returns an InvalidArgumentError if v has length != want or holds
// a value other than 0 and 1.
func CheckBits(arg string, v []uint8, want int) error {
	if err := CheckLength(arg, len(v), want); err != nil {
		return err
	}
	for i, b := range v {
		if b > 1 {
			return errors.InvalidArgument(arg, "entry %d is %d, want 0 or 1", i, b)
		}
	}
	return nil
}

// ToInt converts a Boolean vector (MSB first) into its integer encoding.
func ToInt(v []uint8) int {
	ret := 0
	for _, b := range v {
		ret = ret<<1 | int(b&1)
	}
	return ret
}

// FromInt returns the l-bit Boolean vector (MSB first) encoding x.
func FromInt(x, l int) []uint8 {
	out := make([]uint8, l)
	for i := 0; i < l; i++ {
		out[i] = uint8(x>>(l-1-i)) & 1
	}
	return out
}

// Sign maps a truth table to {+1,-1}: 0 -> +1, 1 -> -1.
func Sign(f []uint8) []int {
	out := make([]int, len(f))
	for i, b := range f {
		out[i] = 1 - 2*int(b)
	}
	return out
}

// Walsh applies the fast Walsh–Hadamard transform in place. len(f) must be 2^l.
func Walsh[T Number](f []T, l int) error {
	if err := CheckLength("values", len(f), 1<<l); err != nil {
		return err
	}
	for half := len(f) >> 1; half != 0; half >>= 1 {
		for block := 0; block < len(f); block += half << 1 {
			for i := block; i < block+half; i++ {
				a, b := f[i], f[i+half]
				f[i] = a + b
				f[i+half] = a - b
			}
		}
	}
	return nil
}

// InverseWalsh inverts Walsh in place on an integer spectrum. It fails if a
// coefficient is not divisible by 2^l, i.e. ws is not the transform of an
// integer vector.
func InverseWalsh(ws []int, l int) error {
	if err := Walsh(ws, l); err != nil {
		return err
	}
	n := 1 << l
	for i, v := range ws {
		if v%n != 0 {
			return errors.InvalidArgument("spectrum", "entry %d does not invert to an integer", i)
		}
		ws[i] = v / n
	}
	return nil
}

// Moebius applies the binary Möbius transform in place. It converts an ANF
// into a truth table and vice-versa; applying it twice is the identity.
func Moebius[T Word](f []T, l int) error {
	if err := CheckLength("values", len(f), 1<<l); err != nil {
		return err
	}
	for half := len(f) >> 1; half != 0; half >>= 1 {
		for block := 0; block < len(f); block += half << 1 {
			for i := block; i < block+half; i++ {
				f[i+half] ^= f[i]
			}
		}
	}
	return nil
}

// Weights returns the Hamming weight of every index in [0, 2^l).
func Weights(l int) []int {
	out := make([]int, 1<<l)
	for i := range out {
		out[i] = bits.OnesCount(uint(i))
	}
	return out
}

// FilterByWeight returns the entries of v whose index weight lies in
// [minWeight, maxWeight]. A negative maxWeight means no upper bound, so the
// (0, -1) pair returns an unfiltered copy.
func FilterByWeight[T any](v []T, minWeight, maxWeight int) []T {
	if minWeight <= 0 && maxWeight < 0 {
		return append([]T(nil), v...)
	}
	out := make([]T, 0, len(v))
	for i := range v {
		w := bits.OnesCount(uint(i))
		if w >= minWeight && (maxWeight < 0 || w <= maxWeight) {
			out = append(out, v[i])
		}
	}
	return out
}

// Complement returns 1+f.
func Complement(f []uint8) []uint8 {
	out := make([]uint8, len(f))
	for i, b := range f {
		out[i] = b ^ 1
	}
	return out
}
