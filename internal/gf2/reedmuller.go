package gf2

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"dahu/internal/errors"
)

// Matrix is the generator matrix of RM(R, M): one row per input point (in
// point-index order, first variable = MSB), one column per monomial of degree
// at most R.
type Matrix struct {
	R, M int
	// Monomials lists the column monomials as variable masks over point
	// indices, by degree then in lexicographic order of variable positions.
	Monomials []int
	rows      []Vec
}

// Row returns the row of point x. The vector is shared and must not be
// modified.
func (mat *Matrix) Row(x int) Vec { return mat.rows[x] }

// Cols returns the number of monomials of degree <= R.
func (mat *Matrix) Cols() int { return len(mat.Monomials) }

// Points returns 2^M.
func (mat *Matrix) Points() int { return len(mat.rows) }

// ReedMuller builds RM(r, m). A negative r gives a matrix without columns.
func ReedMuller(r, m int) (*Matrix, error) {
	if err := checkVars(m); err != nil {
		return nil, err
	}
	mat := &Matrix{R: r, M: m}
	for k := 0; k <= r && k <= m; k++ {
		combinations(m, k, func(pos []int) {
			mask := 0
			for _, p := range pos {
				mask |= 1 << (m - 1 - p)
			}
			mat.Monomials = append(mat.Monomials, mask)
		})
	}
	n := 1 << m
	mat.rows = make([]Vec, n)
	for x := 0; x < n; x++ {
		row := NewVec(len(mat.Monomials))
		for j, mono := range mat.Monomials {
			if x&mono == mono {
				row.Set(uint(j))
			}
		}
		mat.rows[x] = row
	}
	return mat, nil
}

// combinations calls visit with every k-subset of {0..n-1} in lexicographic order.
func combinations(n, k int, visit func([]int)) {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		visit(idx)
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// ---------------- cache ----------------

type rmKey struct{ r, m int }

func (k rmKey) String() string { return fmt.Sprintf("rm(%d,%d)", k.r, k.m) }

// RMCache memoizes Reed–Muller matrices keyed by (r, m). Matrices are
// immutable once built; concurrent requests for the same key share one build.
type RMCache struct {
	lru *lru.Cache[rmKey, *Matrix]
	sf  singleflight.Group
}

// DefaultRMCacheSize holds the handful of (r, m) pairs a search touches.
const DefaultRMCacheSize = 8

// NewRMCache returns a cache holding at most size matrices.
func NewRMCache(size int) (*RMCache, error) {
	if size <= 0 {
		size = DefaultRMCacheSize
	}
	c, err := lru.New[rmKey, *Matrix](size)
	if err != nil {
		return nil, errors.Wrap(err, "rm cache")
	}
	return &RMCache{lru: c}, nil
}

// Get returns RM(r, m), building it on first use.
func (c *RMCache) Get(r, m int) (*Matrix, error) {
	key := rmKey{r: r, m: m}
	if mat, ok := c.lru.Get(key); ok {
		return mat, nil
	}
	v, err, _ := c.sf.Do(key.String(), func() (interface{}, error) {
		if mat, ok := c.lru.Get(key); ok {
			return mat, nil
		}
		mat, err := ReedMuller(r, m)
		if err != nil {
			return nil, err
		}
		c.lru.Add(key, mat)
		return mat, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Matrix), nil
}

// Len returns the number of cached matrices.
func (c *RMCache) Len() int { return c.lru.Len() }
