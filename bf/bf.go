// Package bf holds a Boolean function of l variables in three interchangeable
// representations (truth table, ANF and Walsh spectrum) and runs the
// resiliency and algebraic immunity checks on it.
//
// Setters make one representation the source; Update* calls recompute the
// others on demand. Checks and getters never convert implicitly: they return
// a StateNotReadyError when the representation they read is stale.
package bf

import (
	"dahu/annihilator"
	"dahu/internal/errors"
	"dahu/internal/fresh"
	"dahu/transform"
)

const (
	reprTT fresh.Repr = 1 << iota
	reprANF
	reprWS
)

// BF is a Boolean function. The zero value is not usable; call New.
type BF struct {
	l       int
	tt      []uint8
	anf     []uint8
	ws      []int
	weights []int

	state fresh.State
	graph fresh.Graph

	// annihilator bases of f and 1+f, valid while annReady
	annF, annFp1 []annihilator.Poly
	annReady     bool
}

// New returns the constant-zero function of l variables. Its truth table is
// the source and its ANF is derived.
func New(l int) (*BF, error) {
	if err := transform.CheckLocality(l); err != nil {
		return nil, err
	}
	n := 1 << l
	f := &BF{
		l:       l,
		tt:      make([]uint8, n),
		anf:     make([]uint8, n),
		ws:      make([]int, n),
		weights: transform.Weights(l),
		state:   fresh.New(reprTT),
	}
	f.state.Mark(reprANF)
	f.graph = fresh.Graph{
		Names: map[fresh.Repr]string{reprTT: "truth table", reprANF: "ANF", reprWS: "Walsh spectrum"},
		Edges: []fresh.Edge{
			{From: reprTT, To: reprANF, Apply: f.anfFromTT},
			{From: reprANF, To: reprTT, Apply: f.ttFromANF},
			{From: reprTT, To: reprWS, Apply: f.wsFromTT},
			{From: reprWS, To: reprTT, Apply: f.ttFromWS},
		},
	}
	return f, nil
}

// Locality returns the number of variables.
func (f *BF) Locality() int { return f.l }

// ---------------- setters ----------------

// SetTruthTable replaces the function by tt.
func (f *BF) SetTruthTable(tt []uint8) error {
	if err := transform.CheckBits("truth table", tt, 1<<f.l); err != nil {
		return err
	}
	copy(f.tt, tt)
	f.reset(reprTT)
	return nil
}

// SetANF replaces the function by the one with algebraic normal form anf.
func (f *BF) SetANF(anf []uint8) error {
	if err := transform.CheckBits("ANF", anf, 1<<f.l); err != nil {
		return err
	}
	copy(f.anf, anf)
	f.reset(reprANF)
	return nil
}

// SetWalshSpectrum replaces the function by the one with spectrum ws. The
// spectrum must be that of a Boolean function: its inverse transform takes
// only the values +1 and -1.
func (f *BF) SetWalshSpectrum(ws []int) error {
	if err := transform.CheckLength("Walsh spectrum", len(ws), 1<<f.l); err != nil {
		return err
	}
	signs := append([]int(nil), ws...)
	if err := transform.InverseWalsh(signs, f.l); err != nil {
		return err
	}
	for x, s := range signs {
		if s != 1 && s != -1 {
			return errors.InvalidArgument("Walsh spectrum", "inverse takes value %d at point %d", s, x)
		}
	}
	copy(f.ws, ws)
	f.reset(reprWS)
	return nil
}

func (f *BF) reset(source fresh.Repr) {
	f.state.SetSource(source)
	f.annF, f.annFp1, f.annReady = nil, nil, false
}

// ---------------- conversions ----------------

func (f *BF) anfFromTT() error {
	copy(f.anf, f.tt)
	return transform.Moebius(f.anf, f.l)
}

func (f *BF) ttFromANF() error {
	copy(f.tt, f.anf)
	return transform.Moebius(f.tt, f.l)
}

func (f *BF) wsFromTT() error {
	for x, b := range f.tt {
		f.ws[x] = 1 - 2*int(b)
	}
	return transform.Walsh(f.ws, f.l)
}

func (f *BF) ttFromWS() error {
	signs := append([]int(nil), f.ws...)
	if err := transform.InverseWalsh(signs, f.l); err != nil {
		return err
	}
	for x, s := range signs {
		f.tt[x] = uint8((1 - s) / 2)
	}
	return nil
}

// UpdateTT brings the truth table up to date.
func (f *BF) UpdateTT() error { return f.graph.Update(&f.state, reprTT) }

// UpdateANF brings the ANF up to date.
func (f *BF) UpdateANF() error { return f.graph.Update(&f.state, reprANF) }

// UpdateWS brings the Walsh spectrum up to date, through the truth table
// when needed.
func (f *BF) UpdateWS() error { return f.graph.Update(&f.state, reprWS) }

// ---------------- checks ----------------

// IsResilient reports whether every Walsh coefficient of weight <= r is zero.
// A negative r is vacuously true. The Walsh spectrum must be up to date.
func (f *BF) IsResilient(r int) (bool, error) {
	if err := f.graph.Require(f.state, "resiliency", reprWS); err != nil {
		return false, err
	}
	for u, w := range f.ws {
		if f.weights[u] <= r && w != 0 {
			return false, nil
		}
	}
	return true, nil
}

// IsAlgebraicImmune reports whether neither f nor 1+f has a nonzero
// annihilator of degree < ai. The truth table must be up to date.
func (f *BF) IsAlgebraicImmune(ai int) (bool, error) {
	if err := f.graph.Require(f.state, "algebraic immunity", reprTT); err != nil {
		return false, err
	}
	for _, g := range [][]uint8{f.tt, transform.Complement(f.tt)} {
		found, err := annihilator.Exists(g, f.l, ai-1)
		if err != nil {
			return false, err
		}
		if found {
			return false, nil
		}
	}
	return true, nil
}

// UpdateAnnihilators computes bases of the annihilators of f and 1+f of
// degree at most maxDegree. The truth table must be up to date.
func (f *BF) UpdateAnnihilators(maxDegree int) error {
	if err := f.graph.Require(f.state, "annihilators", reprTT); err != nil {
		return err
	}
	annF, err := annihilator.Basis(f.tt, f.l, maxDegree)
	if err != nil {
		return err
	}
	annFp1, err := annihilator.Basis(transform.Complement(f.tt), f.l, maxDegree)
	if err != nil {
		return err
	}
	f.annF, f.annFp1, f.annReady = annF, annFp1, true
	return nil
}

// Annihilators returns the bases computed by UpdateAnnihilators as ANF
// vectors, restricted to monomials of degree in [minDegree, maxDegree]. The
// pair (0, -1) returns the full vectors.
func (f *BF) Annihilators(minDegree, maxDegree int) (af, afp1 [][]uint8, err error) {
	if !f.annReady {
		return nil, nil, errors.NotReady("annihilators", "annihilator basis")
	}
	conv := func(basis []annihilator.Poly) [][]uint8 {
		out := make([][]uint8, len(basis))
		for i, p := range basis {
			out[i] = transform.FilterByWeight(p.ANF(f.l), minDegree, maxDegree)
		}
		return out
	}
	return conv(f.annF), conv(f.annFp1), nil
}

// AnnihilatorBases returns the raw bases computed by UpdateAnnihilators.
func (f *BF) AnnihilatorBases() (af, afp1 []annihilator.Poly, err error) {
	if !f.annReady {
		return nil, nil, errors.NotReady("annihilators", "annihilator basis")
	}
	return f.annF, f.annFp1, nil
}

// ---------------- getters ----------------

// TruthTable returns a copy of the truth table.
func (f *BF) TruthTable() ([]uint8, error) {
	if err := f.graph.Require(f.state, "truth table", reprTT); err != nil {
		return nil, err
	}
	return append([]uint8(nil), f.tt...), nil
}

// ANF returns the ANF coefficients of degree in [minDegree, maxDegree].
func (f *BF) ANF(minDegree, maxDegree int) ([]uint8, error) {
	if err := f.graph.Require(f.state, "ANF", reprANF); err != nil {
		return nil, err
	}
	return transform.FilterByWeight(f.anf, minDegree, maxDegree), nil
}

// WalshSpectrum returns the Walsh coefficients of weight in [minWeight,
// maxWeight].
func (f *BF) WalshSpectrum(minWeight, maxWeight int) ([]int, error) {
	if err := f.graph.Require(f.state, "Walsh spectrum", reprWS); err != nil {
		return nil, err
	}
	return transform.FilterByWeight(f.ws, minWeight, maxWeight), nil
}

// ANFString renders the ANF, e.g. "1 + X0 + X1X2".
func (f *BF) ANFString() (string, error) {
	if err := f.graph.Require(f.state, "ANF string", reprANF); err != nil {
		return "", err
	}
	return transform.ANFString(f.anf), nil
}

// Degree returns the algebraic degree, -1 for the zero function.
func (f *BF) Degree() (int, error) {
	if err := f.graph.Require(f.state, "degree", reprANF); err != nil {
		return 0, err
	}
	d := -1
	for m, b := range f.anf {
		if b == 1 && f.weights[m] > d {
			d = f.weights[m]
		}
	}
	return d, nil
}

// Weight returns the number of ones of the truth table.
func (f *BF) Weight() (int, error) {
	if err := f.graph.Require(f.state, "weight", reprTT); err != nil {
		return 0, err
	}
	w := 0
	for _, b := range f.tt {
		w += int(b)
	}
	return w, nil
}
