package search

import (
	"context"

	"dahu/bf"
	"dahu/internal/errors"
	"dahu/rsf"
	"dahu/transform"
)

// MaxNaiveBFLocality bounds NaiveBF: 2^(2^l) truth tables are enumerated.
const MaxNaiveBFLocality = 5

// NaiveBF enumerates every truth table of l variables and calls visit (if
// not nil) with those that are r-resilient and of algebraic immunity at
// least ai. r = -1 disables the resiliency check. It returns the number of
// hits.
func NaiveBF(ctx context.Context, l, r, ai int, visit func(tt []uint8)) (int, error) {
	if l > MaxNaiveBFLocality {
		return 0, errors.InvalidArgument("locality", "got %d, naive search supports at most %d", l, MaxNaiveBFLocality)
	}
	f, err := bf.New(l)
	if err != nil {
		return 0, err
	}
	tts := transform.NewCursor(1 << l)
	found := 0
	for {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		tt := tts.Next()
		if err := f.SetTruthTable(tt); err != nil {
			return found, err
		}
		if err := f.UpdateWS(); err != nil {
			return found, err
		}
		ok := true
		if r != -1 {
			if ok, err = f.IsResilient(r); err != nil {
				return found, err
			}
		}
		if ok {
			if ok, err = f.IsAlgebraicImmune(ai); err != nil {
				return found, err
			}
		}
		if ok {
			found++
			if visit != nil {
				visit(append([]uint8(nil), tt...))
			}
		}
		if tts.AllOnes() {
			return found, nil
		}
	}
}

// NaiveRSF enumerates every SANF of l variables and calls visit (if not
// nil) with those whose function is r-resilient and of algebraic immunity
// at least ai. r = -1 disables the resiliency check.
func NaiveRSF(ctx context.Context, l, r, ai int, visit func(sanf []uint8)) (int, error) {
	c, err := rsf.NewCaches()
	if err != nil {
		return 0, err
	}
	f, err := rsf.New(c, l)
	if err != nil {
		return 0, err
	}
	sanfs := transform.NewCursor(len(f.Representatives()))
	found := 0
	for {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		sanf := sanfs.Next()
		if err := f.SetSANF(sanf); err != nil {
			return found, err
		}
		ok, err := f.IsResilientOptimised(r)
		if err != nil {
			return found, err
		}
		if ok {
			if ok, err = f.IsAlgebraicImmune(ai); err != nil {
				return found, err
			}
		}
		if ok {
			found++
			if visit != nil {
				visit(append([]uint8(nil), sanf...))
			}
		}
		if sanfs.AllOnes() {
			return found, nil
		}
	}
}
