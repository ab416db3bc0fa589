// Package annihilator computes bases of low-degree annihilators of Boolean
// functions given by their truth table.
//
// Monomials are plain integers: bit i of a monomial means variable X<i>
// appears, and monomial m evaluates to 1 at point x iff x&m == m.
package annihilator

import (
	"math/bits"
	"sort"
	"strings"

	"dahu/transform"
)

// Poly is a GF(2) polynomial held as a strictly increasing list of monomials.
type Poly []int

// Eval evaluates p at point x.
func (p Poly) Eval(x int) uint8 {
	var res uint8
	for _, m := range p {
		if x&m == m {
			res ^= 1
		}
	}
	return res
}

// Degree returns the largest monomial weight of p, or -1 for the zero polynomial.
func (p Poly) Degree() int {
	d := -1
	for _, m := range p {
		if w := bits.OnesCount(uint(m)); w > d {
			d = w
		}
	}
	return d
}

// Add returns p + q over GF(2); monomials present in both cancel.
func (p Poly) Add(q Poly) Poly {
	out := make(Poly, 0, len(p)+len(q))
	i, j := 0, 0
	for i < len(p) && j < len(q) {
		switch {
		case p[i] < q[j]:
			out = append(out, p[i])
			i++
		case p[i] > q[j]:
			out = append(out, q[j])
			j++
		default:
			i++
			j++
		}
	}
	out = append(out, p[i:]...)
	return append(out, q[j:]...)
}

// ANF materializes p as an ANF vector of length 2^l.
func (p Poly) ANF(l int) []uint8 {
	anf := make([]uint8, 1<<l)
	for _, m := range p {
		anf[m] ^= 1
	}
	return anf
}

// Truncate keeps the monomials of degree at least minDegree.
func (p Poly) Truncate(minDegree int) Poly {
	out := make(Poly, 0, len(p))
	for _, m := range p {
		if bits.OnesCount(uint(m)) >= minDegree {
			out = append(out, m)
		}
	}
	return out
}

func (p Poly) String() string {
	parts := make([]string, len(p))
	for i, m := range p {
		parts[i] = transform.MonomialString(m)
	}
	return strings.Join(parts, " + ")
}

// FromMonomials builds a Poly from an arbitrary monomial list, cancelling
// repeated monomials in pairs.
func FromMonomials(ms []int) Poly {
	cp := append([]int(nil), ms...)
	sort.Ints(cp)
	out := make(Poly, 0, len(cp))
	for i := 0; i < len(cp); i++ {
		if i+1 < len(cp) && cp[i] == cp[i+1] {
			i++
			continue
		}
		out = append(out, cp[i])
	}
	return out
}

// Basis returns a basis of the annihilators of f of degree at most d.
//
// Points x with f(x) = 1 are scanned in increasing order while a stack of
// candidates is kept; every candidate vanishes on the points already scanned.
// Monomials enter the stack once they are <= x (a larger monomial is zero on
// every point scanned so far). At each x the topmost candidate evaluating to 1
// is added to every lower candidate evaluating to 1 and then dropped, which
// is one step of Gaussian elimination.
func Basis(f []uint8, l, d int) ([]Poly, error) {
	if err := transform.CheckLocality(l); err != nil {
		return nil, err
	}
	if err := transform.CheckBits("truth table", f, 1<<l); err != nil {
		return nil, err
	}
	if d < 0 {
		return nil, nil
	}
	monomials := make([]int, 0)
	for m := 0; m < len(f); m++ {
		if bits.OnesCount(uint(m)) <= d {
			monomials = append(monomials, m)
		}
	}

	x := nextOne(f, 0)
	if x == len(f) {
		basis := make([]Poly, len(monomials))
		for i, m := range monomials {
			basis[i] = Poly{m}
		}
		return basis, nil
	}

	stack := []Poly{{monomials[0]}}
	next := 1
	for x < len(f) {
		for next < len(monomials) && monomials[next] <= x {
			stack = append(stack, Poly{monomials[next]})
			next++
		}
		pivot := len(stack) - 1
		for pivot >= 0 && stack[pivot].Eval(x) != 1 {
			pivot--
		}
		if pivot >= 0 {
			for j := 0; j < pivot; j++ {
				if stack[j].Eval(x) == 1 {
					stack[j] = stack[j].Add(stack[pivot])
				}
			}
			stack = append(stack[:pivot], stack[pivot+1:]...)
		}
		x = nextOne(f, x+1)
	}
	for ; next < len(monomials); next++ {
		stack = append(stack, Poly{monomials[next]})
	}
	return stack, nil
}

// Exists reports whether f has a nonzero annihilator of degree at most d.
func Exists(f []uint8, l, d int) (bool, error) {
	basis, err := Basis(f, l, d)
	if err != nil {
		return false, err
	}
	return len(basis) > 0, nil
}

// Verify reports whether g annihilates f, i.e. f(x)·g(x) = 0 for every x.
func Verify(f []uint8, g Poly) bool {
	for x, b := range f {
		if b == 1 && g.Eval(x) == 1 {
			return false
		}
	}
	return true
}

func nextOne(f []uint8, from int) int {
	for from < len(f) && f[from] != 1 {
		from++
	}
	return from
}
