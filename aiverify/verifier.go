// Package aiverify checks the algebraic immunity of a function one truth
// table entry at a time.
//
// For a target immunity ai, let N be the number of monomials of degree < ai
// and M the generator matrix of RM(ai-1, l). f has no annihilator of degree
// < ai iff the rows of M at the zeros of f have rank N, and likewise for 1+f
// with the ones of f. Entries are accepted in any order; as soon as even a
// best-case completion cannot reach rank N in both buckets, CheckAndAdd
// returns false.
package aiverify

import (
	"dahu/internal/errors"
	"dahu/internal/gf2"
	"dahu/transform"
)

// Verifier accumulates (x, f(x)) pairs for one (locality, ai) target.
type Verifier struct {
	l, ai     int
	rm        *gf2.Matrix
	buckets   [2]gf2.RankTracker
	remaining int
	rankMax   int
}

// New returns a verifier for functions of l variables and target immunity
// ai. RM(ai-1, l) is taken from cache.
func New(cache *gf2.RMCache, l, ai int) (*Verifier, error) {
	if err := transform.CheckLocality(l); err != nil {
		return nil, err
	}
	if ai < 0 {
		return nil, errors.InvalidArgument("algebraic immunity", "got %d, want >= 0", ai)
	}
	rm, err := cache.Get(ai-1, l)
	if err != nil {
		return nil, err
	}
	return &Verifier{
		l:         l,
		ai:        ai,
		rm:        rm,
		remaining: 1 << l,
		rankMax:   rm.Cols(),
	}, nil
}

// AI returns the target immunity.
func (v *Verifier) AI() int { return v.ai }

// Locality returns the number of variables.
func (v *Verifier) Locality() int { return v.l }

// Remaining returns the number of points not yet added.
func (v *Verifier) Remaining() int { return v.remaining }

// Ranks returns the current rank of the zero and one buckets.
func (v *Verifier) Ranks() (int, int) {
	return v.buckets[0].Rank(), v.buckets[1].Rank()
}

// CheckAndAdd records f(x) = y, x given as a Boolean vector (MSB first). It
// returns false once the target immunity is no longer reachable. Every point
// must be added exactly once; the verifier does not detect repeats.
func (v *Verifier) CheckAndAdd(x []uint8, y uint8) (bool, error) {
	if err := transform.CheckBits("input", x, v.l); err != nil {
		return false, err
	}
	return v.CheckAndAddIndex(transform.ToInt(x), y)
}

// CheckAndAddIndex is CheckAndAdd with x given as a point index.
func (v *Verifier) CheckAndAddIndex(x int, y uint8) (bool, error) {
	if x < 0 || x >= 1<<v.l {
		return false, errors.InvalidArgument("input", "point %d out of range", x)
	}
	if y > 1 {
		return false, errors.InvalidArgument("output", "got %d, want 0 or 1", y)
	}
	if v.remaining == 0 {
		return false, errors.InvalidArgument("input", "all %d points already added", 1<<v.l)
	}
	v.remaining--
	if v.buckets[y].Rank() < v.rankMax {
		v.buckets[y].Add(v.rm.Row(x))
	}
	return v.buckets[0].Rank()+v.buckets[1].Rank()+v.remaining >= 2*v.rankMax, nil
}

// Reset clears the accumulated entries, keeping the Reed–Muller matrix.
func (v *Verifier) Reset() {
	v.buckets[0].Reset()
	v.buckets[1].Reset()
	v.remaining = 1 << v.l
}

// Check resets the verifier and feeds the whole truth table in point order,
// stopping at the first failure.
func (v *Verifier) Check(tt []uint8) (bool, error) {
	if err := transform.CheckBits("truth table", tt, 1<<v.l); err != nil {
		return false, err
	}
	v.Reset()
	for x, y := range tt {
		ok, err := v.CheckAndAddIndex(x, y)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
