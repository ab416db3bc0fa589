package transform

import (
	"strconv"
	"strings"

	"dahu/internal/errors"
)

// ValidatePermutation checks that perm is a bijection on {0, ..., l-1}.
func ValidatePermutation(perm []int, l int) error {
	if err := CheckLength("permutation", len(perm), l); err != nil {
		return err
	}
	seen := make([]bool, l)
	for i, p := range perm {
		if p < 0 || p >= l {
			return errors.InvalidArgument("permutation", "entry %d is %d, out of range", i, p)
		}
		if seen[p] {
			return errors.InvalidArgument("permutation", "value %d appears twice", p)
		}
		seen[p] = true
	}
	return nil
}

// PermuteIndex permutes the variables of x: position i of the result (MSB
// first) takes position perm[i] of x. For example PermuteIndex(9, [0,3,1,2])
// is 12.
func PermuteIndex(x int, perm []int) int {
	n := len(perm)
	y := 0
	for _, p := range perm {
		y = y<<1 | (x>>(n-1-p))&1
	}
	return y
}

// InversePermutation returns q with q[perm[i]] = i.
func InversePermutation(perm []int) []int {
	inv := make([]int, len(perm))
	for i, p := range perm {
		inv[p] = i
	}
	return inv
}

// MonomialString renders monomial m as X<i> factors in increasing i, or "1"
// for the constant monomial.
func MonomialString(m int) string {
	if m == 0 {
		return "1"
	}
	var sb strings.Builder
	for i := 0; m>>i != 0; i++ {
		if (m>>i)&1 == 1 {
			sb.WriteString("X")
			sb.WriteString(strconv.Itoa(i))
		}
	}
	return sb.String()
}

// ANFString renders an ANF as a sum of monomials in increasing index order.
// The constant monomial renders as "1"; the zero function renders as "".
func ANFString(anf []uint8) string {
	parts := make([]string, 0)
	for m, b := range anf {
		if b == 1 {
			parts = append(parts, MonomialString(m))
		}
	}
	return strings.Join(parts, " + ")
}
