package bf

import (
	"dahu/transform"
)

// Permute permutes the variables in place: the new function at point x is the
// old one at PermuteIndex(x, perm). For a function of locality 4,
// Permute([0,3,1,2]) gives f'(X0,X1,X2,X3) = f(X0,X3,X1,X2). The truth table
// must be up to date and becomes the source.
func (f *BF) Permute(perm []int) error {
	tt, err := f.permuted(perm)
	if err != nil {
		return err
	}
	copy(f.tt, tt)
	f.reset(reprTT)
	return nil
}

// Permuted is Permute returning a new function and leaving f unchanged.
func (f *BF) Permuted(perm []int) (*BF, error) {
	tt, err := f.permuted(perm)
	if err != nil {
		return nil, err
	}
	return f.clone(tt)
}

func (f *BF) permuted(perm []int) ([]uint8, error) {
	if err := f.graph.Require(f.state, "permute", reprTT); err != nil {
		return nil, err
	}
	if err := transform.ValidatePermutation(perm, f.l); err != nil {
		return nil, err
	}
	tt := make([]uint8, len(f.tt))
	for x := range tt {
		tt[x] = f.tt[transform.PermuteIndex(x, perm)]
	}
	return tt, nil
}

// Translate maps f(x) to f(x ⊕ t) in place, t given as a Boolean vector (MSB
// first). The truth table must be up to date and becomes the source.
func (f *BF) Translate(t []uint8) error {
	tt, err := f.translated(t)
	if err != nil {
		return err
	}
	copy(f.tt, tt)
	f.reset(reprTT)
	return nil
}

// Translated is Translate returning a new function and leaving f unchanged.
func (f *BF) Translated(t []uint8) (*BF, error) {
	tt, err := f.translated(t)
	if err != nil {
		return nil, err
	}
	return f.clone(tt)
}

func (f *BF) translated(t []uint8) ([]uint8, error) {
	if err := f.graph.Require(f.state, "translate", reprTT); err != nil {
		return nil, err
	}
	if err := transform.CheckBits("translation", t, f.l); err != nil {
		return nil, err
	}
	mask := transform.ToInt(t)
	tt := make([]uint8, len(f.tt))
	for x := range tt {
		tt[x] = f.tt[mask^x]
	}
	return tt, nil
}

func (f *BF) clone(tt []uint8) (*BF, error) {
	g, err := New(f.l)
	if err != nil {
		return nil, err
	}
	if err := g.SetTruthTable(tt); err != nil {
		return nil, err
	}
	return g, nil
}
