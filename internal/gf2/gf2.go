// Package gf2 implements the GF(2) linear algebra used by the algebraic
// immunity checks: bitset row vectors, online rank tracking and Reed–Muller
// generator matrices. It is self-contained and does not know about Boolean
// function representations.
package gf2

import (
	"github.com/bits-and-blooms/bitset"

	"dahu/internal/errors"
)

// maxVars bounds the number of variables of a Reed–Muller matrix.
const maxVars = 24

// Vec is a GF(2) row vector.
type Vec = *bitset.BitSet

// NewVec returns the zero vector of length n.
func NewVec(n int) Vec {
	return bitset.New(uint(n))
}

// VecFromBits builds a vector from 0/1 entries.
func VecFromBits(bits []uint8) Vec {
	v := bitset.New(uint(len(bits)))
	for i, b := range bits {
		if b&1 == 1 {
			v.Set(uint(i))
		}
	}
	return v
}

// RankTracker maintains an echelon basis of the rows added so far. Each call
// to Add reduces the new row against the retained rows, in insertion order,
// using their leading ones as pivots.
type RankTracker struct {
	rows   []Vec
	pivots []uint
}

// Add reduces v and reports whether it increased the rank. v is not modified.
func (t *RankTracker) Add(v Vec) bool {
	w := v.Clone()
	for k, row := range t.rows {
		if w.Test(t.pivots[k]) {
			w.InPlaceSymmetricDifference(row)
		}
	}
	p, ok := w.NextSet(0)
	if !ok {
		return false
	}
	t.rows = append(t.rows, w)
	t.pivots = append(t.pivots, p)
	return true
}

// Rank returns the rank of the rows added so far.
func (t *RankTracker) Rank() int { return len(t.rows) }

// Reset forgets every row.
func (t *RankTracker) Reset() {
	t.rows = t.rows[:0]
	t.pivots = t.pivots[:0]
}

// Rank returns the GF(2) rank of rows.
func Rank(rows []Vec) int {
	var t RankTracker
	for _, r := range rows {
		t.Add(r)
	}
	return t.Rank()
}

// Binomial returns n choose k (0 if k is out of range).
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	res := 1
	for i := 1; i <= k; i++ {
		res = res * (n - k + i) / i
	}
	return res
}

// CountMonomials returns the number of monomials of degree <= r in m variables.
func CountMonomials(r, m int) int {
	total := 0
	for k := 0; k <= r && k <= m; k++ {
		total += Binomial(m, k)
	}
	return total
}

func checkVars(m int) error {
	if m < 0 || m > maxVars {
		return errors.InvalidArgument("variables", "got %d, want 0..%d", m, maxVars)
	}
	return nil
}
