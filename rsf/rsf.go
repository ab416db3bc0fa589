// Package rsf holds a rotation-symmetric Boolean function through its
// orbit-indexed representations: SANF (simplified ANF), STT (simplified truth
// table) and SWS (simplified Walsh spectrum), with the full truth table and
// ANF available on demand.
//
// Unlike bf, the checks bring the representation they read up to date
// themselves; search drivers call them once per candidate.
package rsf

import (
	"strings"

	"dahu/aiverify"
	"dahu/internal/errors"
	"dahu/internal/fresh"
	"dahu/internal/gf2"
	"dahu/symmetry"
)

const (
	reprSANF fresh.Repr = 1 << iota
	reprSTT
	reprSWS
	reprTT
	reprANF
)

// Caches bundles the tables shared by every RSF of a process.
type Caches struct {
	Symmetry   *symmetry.Cache
	ReedMuller *gf2.RMCache
}

// NewCaches returns caches with default sizes.
func NewCaches() (Caches, error) {
	sym, err := symmetry.NewCache(0)
	if err != nil {
		return Caches{}, err
	}
	rm, err := gf2.NewRMCache(0)
	if err != nil {
		return Caches{}, err
	}
	return Caches{Symmetry: sym, ReedMuller: rm}, nil
}

// RSF is a rotation-symmetric function of l variables.
type RSF struct {
	l      int
	tables *symmetry.Tables
	rm     *gf2.RMCache

	sanf []uint8
	stt  []uint8
	sws  []int
	tt   []uint8
	anf  []uint8

	state fresh.State
	graph fresh.Graph

	verifier *aiverify.Verifier
}

// New returns the zero function of l variables with SANF as the source.
func New(c Caches, l int) (*RSF, error) {
	if c.Symmetry == nil || c.ReedMuller == nil {
		return nil, errors.InvalidArgument("caches", "symmetry and Reed-Muller caches are required")
	}
	t, err := c.Symmetry.Get(l)
	if err != nil {
		return nil, err
	}
	n := t.N()
	f := &RSF{
		l:      l,
		tables: t,
		rm:     c.ReedMuller,
		sanf:   make([]uint8, n),
		stt:    make([]uint8, n),
		sws:    make([]int, n),
		tt:     make([]uint8, 1<<l),
		anf:    make([]uint8, 1<<l),
		state:  fresh.New(reprSANF),
	}
	f.graph = fresh.Graph{
		Names: map[fresh.Repr]string{
			reprSANF: "SANF", reprSTT: "STT", reprSWS: "SWS", reprTT: "truth table", reprANF: "ANF",
		},
		Edges: []fresh.Edge{
			{From: reprSANF, To: reprSTT, Apply: f.sttFromSANF},
			{From: reprSTT, To: reprSANF, Apply: f.sanfFromSTT},
			{From: reprSTT, To: reprSWS, Apply: f.swsFromSTT},
			{From: reprSTT, To: reprTT, Apply: f.ttFromSTT},
			{From: reprSANF, To: reprANF, Apply: f.anfFromSANF},
		},
	}
	return f, nil
}

// Locality returns the number of variables.
func (f *RSF) Locality() int { return f.l }

// Tables returns the symmetry tables of the function's locality.
func (f *RSF) Tables() *symmetry.Tables { return f.tables }

// Representatives returns the orbit representatives indexing SANF, STT and
// SWS. The slice is shared and must not be modified.
func (f *RSF) Representatives() []int { return f.tables.Reps }

// ---------------- setters ----------------

// SetSANF replaces the function by the one with simplified ANF s.
func (f *RSF) SetSANF(s []uint8) error {
	if err := checkBits("SANF", s, len(f.sanf)); err != nil {
		return err
	}
	copy(f.sanf, s)
	f.state.SetSource(reprSANF)
	return nil
}

// SetSTT replaces the function by the one with simplified truth table s.
func (f *RSF) SetSTT(s []uint8) error {
	if err := checkBits("STT", s, len(f.stt)); err != nil {
		return err
	}
	copy(f.stt, s)
	f.state.SetSource(reprSTT)
	return nil
}

func checkBits(arg string, v []uint8, n int) error {
	if len(v) != n {
		return errors.InvalidArgument(arg, "length %d, want %d", len(v), n)
	}
	for i, b := range v {
		if b > 1 {
			return errors.InvalidArgument(arg, "entry %d is %d, want 0 or 1", i, b)
		}
	}
	return nil
}

// ---------------- conversions ----------------

// gf2Apply computes dst = src·M over GF(2) for the row-major n×n matrix M.
func gf2Apply(dst, src, m []uint8) {
	n := len(src)
	for j := range dst {
		dst[j] = 0
	}
	for i, b := range src {
		if b == 0 {
			continue
		}
		row := m[i*n : (i+1)*n]
		for j := range dst {
			dst[j] ^= row[j]
		}
	}
}

func (f *RSF) sttFromSANF() error {
	gf2Apply(f.stt, f.sanf, f.tables.SANFToSTT)
	return nil
}

// The orbit-level Möbius matrix is an involution, like its full-size
// counterpart.
func (f *RSF) sanfFromSTT() error {
	gf2Apply(f.sanf, f.stt, f.tables.SANFToSTT)
	return nil
}

func (f *RSF) swsFromSTT() error {
	n := len(f.stt)
	for j := range f.sws {
		f.sws[j] = 0
	}
	m := f.tables.STTToSWS
	for i, b := range f.stt {
		s := 1 - 2*int(b)
		row := m[i*n : (i+1)*n]
		for j := range f.sws {
			f.sws[j] += s * row[j]
		}
	}
	return nil
}

func (f *RSF) ttFromSTT() error {
	for x, p := range f.tables.Pos {
		f.tt[x] = f.stt[p]
	}
	return nil
}

func (f *RSF) anfFromSANF() error {
	for x, p := range f.tables.Pos {
		f.anf[x] = f.sanf[p]
	}
	return nil
}

// UpdateSANF brings the SANF up to date.
func (f *RSF) UpdateSANF() error { return f.graph.Update(&f.state, reprSANF) }

// UpdateSTT brings the STT up to date.
func (f *RSF) UpdateSTT() error { return f.graph.Update(&f.state, reprSTT) }

// UpdateSWS brings the SWS up to date, through the STT.
func (f *RSF) UpdateSWS() error { return f.graph.Update(&f.state, reprSWS) }

// UpdateTT brings the full truth table up to date, through the STT.
func (f *RSF) UpdateTT() error { return f.graph.Update(&f.state, reprTT) }

// UpdateANF brings the full ANF up to date, through the SANF.
func (f *RSF) UpdateANF() error { return f.graph.Update(&f.state, reprANF) }

// ---------------- checks ----------------

// IsResilient reports whether every SWS entry of weight <= r is zero,
// updating the SWS first.
func (f *RSF) IsResilient(r int) (bool, error) {
	if err := f.UpdateSWS(); err != nil {
		return false, err
	}
	for i, n := 0, f.tables.PrefixLen(r); i < n; i++ {
		if f.sws[i] != 0 {
			return false, nil
		}
	}
	return true, nil
}

// IsResilientOptimised is IsResilient computing only the SWS entries of
// weight <= r, one at a time, stopping at the first nonzero one. It prefers
// the SWS when that is already fresh.
func (f *RSF) IsResilientOptimised(r int) (bool, error) {
	if f.state.Fresh(reprSWS) {
		return f.IsResilient(r)
	}
	if err := f.UpdateSTT(); err != nil {
		return false, err
	}
	n := len(f.stt)
	m := f.tables.STTToSWS
	for j, stop := 0, f.tables.PrefixLen(r); j < stop; j++ {
		sum := 0
		for i, b := range f.stt {
			sum += (1 - 2*int(b)) * m[i*n+j]
		}
		if sum != 0 {
			return false, nil
		}
	}
	return true, nil
}

// IsAlgebraicImmune reports whether neither f nor 1+f has a nonzero
// annihilator of degree < ai, updating the truth table first. The verifier is
// built on the first call and rebuilt only when ai changes.
func (f *RSF) IsAlgebraicImmune(ai int) (bool, error) {
	if f.verifier == nil || ai != f.verifier.AI() {
		v, err := aiverify.New(f.rm, f.l, ai)
		if err != nil {
			return false, err
		}
		f.verifier = v
	}
	if err := f.UpdateTT(); err != nil {
		return false, err
	}
	return f.verifier.Check(f.tt)
}

// ---------------- getters ----------------

// SANF returns a copy of the simplified ANF.
func (f *RSF) SANF() ([]uint8, error) {
	if err := f.graph.Require(f.state, "SANF", reprSANF); err != nil {
		return nil, err
	}
	return append([]uint8(nil), f.sanf...), nil
}

// STT returns a copy of the simplified truth table.
func (f *RSF) STT() ([]uint8, error) {
	if err := f.graph.Require(f.state, "STT", reprSTT); err != nil {
		return nil, err
	}
	return append([]uint8(nil), f.stt...), nil
}

// SWS returns the simplified Walsh spectrum entries whose representative has
// weight in [minWeight, maxWeight]. A negative maxWeight means no upper bound.
func (f *RSF) SWS(minWeight, maxWeight int) ([]int, error) {
	if err := f.graph.Require(f.state, "SWS", reprSWS); err != nil {
		return nil, err
	}
	out := make([]int, 0, len(f.sws))
	for i, w := range f.tables.Weight {
		if w >= minWeight && (maxWeight < 0 || w <= maxWeight) {
			out = append(out, f.sws[i])
		}
	}
	return out, nil
}

// TruthTable returns a copy of the full truth table.
func (f *RSF) TruthTable() ([]uint8, error) {
	if err := f.graph.Require(f.state, "truth table", reprTT); err != nil {
		return nil, err
	}
	return append([]uint8(nil), f.tt...), nil
}

// ANF returns a copy of the full ANF.
func (f *RSF) ANF() ([]uint8, error) {
	if err := f.graph.Require(f.state, "ANF", reprANF); err != nil {
		return nil, err
	}
	return append([]uint8(nil), f.anf...), nil
}

// ANFString renders the ANF grouped by orbit, e.g. "(1) + (X0 + X1 + X2)".
// The zero function renders as "".
func (f *RSF) ANFString() (string, error) {
	if err := f.graph.Require(f.state, "ANF string", reprSANF); err != nil {
		return "", err
	}
	parts := make([]string, 0)
	for i, b := range f.sanf {
		if b == 1 {
			parts = append(parts, symmetry.OrbitANFString(f.tables.Reps[i], f.l))
		}
	}
	return strings.Join(parts, " + "), nil
}
