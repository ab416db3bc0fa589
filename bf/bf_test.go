package bf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tuneinsight/lattigo/v4/utils"

	"dahu/catalog"
	"dahu/internal/errors"
	"dahu/transform"
)

var maj3 = []uint8{0, 0, 0, 1, 0, 1, 1, 1}

func randomTT(t *testing.T, prng utils.PRNG, l int) []uint8 {
	t.Helper()
	buf := make([]byte, 1<<l)
	if _, err := prng.Read(buf); err != nil {
		t.Fatal(err)
	}
	tt := make([]uint8, len(buf))
	for i, b := range buf {
		tt[i] = b & 1
	}
	return tt
}

func mustNew(t *testing.T, tt []uint8, l int) *BF {
	t.Helper()
	f, err := New(l)
	if err != nil {
		t.Fatal(err)
	}
	if tt != nil {
		if err := f.SetTruthTable(tt); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func TestNewIsConstantZero(t *testing.T) {
	f := mustNew(t, nil, 3)
	anf, err := f.ANF(0, -1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(make([]uint8, 8), anf); diff != "" {
		t.Fatalf("ANF of a new function mismatch:\n%s", diff)
	}
	if _, err := f.IsResilient(0); !errors.IsNotReady(err) {
		t.Fatalf("expected StateNotReadyError before UpdateWS, got %v", err)
	}
	if err := f.UpdateWS(); err != nil {
		t.Fatal(err)
	}
	ok, err := f.IsResilient(0)
	if err != nil || ok {
		t.Fatalf("constant zero is not 0-resilient: got=%v err=%v", ok, err)
	}
	ok, err = f.IsResilient(-1)
	if err != nil || !ok {
		t.Fatalf("every function is (-1)-resilient: got=%v err=%v", ok, err)
	}
	if _, err := New(0); !errors.IsInvalidArgument(err) {
		t.Fatalf("expected InvalidArgumentError, got %v", err)
	}
}

func TestStaleRepresentations(t *testing.T) {
	f := mustNew(t, maj3, 3)
	if _, err := f.ANFString(); !errors.IsNotReady(err) {
		t.Fatalf("expected StateNotReadyError for a stale ANF, got %v", err)
	}
	if _, err := f.WalshSpectrum(0, -1); !errors.IsNotReady(err) {
		t.Fatalf("expected StateNotReadyError for a stale spectrum, got %v", err)
	}
	if err := f.SetANF(maj3); err != nil {
		t.Fatal(err)
	}
	if _, err := f.IsAlgebraicImmune(1); !errors.IsNotReady(err) {
		t.Fatalf("expected StateNotReadyError for a stale truth table, got %v", err)
	}
	if _, err := f.TruthTable(); !errors.IsNotReady(err) {
		t.Fatalf("expected StateNotReadyError for a stale truth table, got %v", err)
	}
	// ANF -> TT -> WS
	if err := f.UpdateWS(); err != nil {
		t.Fatal(err)
	}
	if _, err := f.TruthTable(); err != nil {
		t.Fatalf("truth table not refreshed on the way to the spectrum: %v", err)
	}
}

func TestMajority(t *testing.T) {
	f := mustNew(t, maj3, 3)
	if err := f.UpdateANF(); err != nil {
		t.Fatal(err)
	}
	s, err := f.ANFString()
	if err != nil {
		t.Fatal(err)
	}
	if s != "X0X1 + X0X2 + X1X2" {
		t.Fatalf("ANF string mismatch: got=%q", s)
	}
	if d, err := f.Degree(); err != nil || d != 2 {
		t.Fatalf("degree mismatch: got=%d err=%v", d, err)
	}
	quad, err := f.ANF(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint8{1, 1, 1}, quad); diff != "" {
		t.Fatalf("degree 2 ANF mismatch:\n%s", diff)
	}
	for ai, want := range map[int]bool{0: true, 1: true, 2: true, 3: false} {
		got, err := f.IsAlgebraicImmune(ai)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("IsAlgebraicImmune(%d) mismatch: got=%v want=%v", ai, got, want)
		}
	}
}

func TestAnnihilators(t *testing.T) {
	f := mustNew(t, maj3, 3)
	if _, _, err := f.Annihilators(0, -1); !errors.IsNotReady(err) {
		t.Fatalf("expected StateNotReadyError before UpdateAnnihilators, got %v", err)
	}
	if err := f.UpdateAnnihilators(2); err != nil {
		t.Fatal(err)
	}
	af, afp1, err := f.AnnihilatorBases()
	if err != nil {
		t.Fatal(err)
	}
	if len(af) != 3 || len(afp1) != 3 {
		t.Fatalf("unexpected basis sizes: got=(%d,%d) want=(3,3)", len(af), len(afp1))
	}
	full, fullp1, err := f.Annihilators(0, -1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint8{1, 0, 0, 1, 0, 1, 1, 0}, full[0]); diff != "" {
		t.Fatalf("first annihilator of f mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]uint8{0, 0, 0, 1, 0, 0, 0, 0}, fullp1[0]); diff != "" {
		t.Fatalf("first annihilator of 1+f mismatch:\n%s", diff)
	}
	high, _, err := f.Annihilators(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint8{1, 1, 1}, high[0]); diff != "" {
		t.Fatalf("degree 2 part mismatch:\n%s", diff)
	}
	for _, g := range full {
		tt := append([]uint8(nil), g...)
		if err := transform.Moebius(tt, 3); err != nil {
			t.Fatal(err)
		}
		for x := range tt {
			if tt[x]&maj3[x] != 0 {
				t.Fatalf("annihilator %v is nonzero on a one of f at %d", g, x)
			}
		}
	}

	if err := f.SetTruthTable(maj3); err != nil {
		t.Fatal(err)
	}
	if _, _, err := f.Annihilators(0, -1); !errors.IsNotReady(err) {
		t.Fatalf("annihilators survived a new truth table: %v", err)
	}
	if err := f.SetANF(maj3); err != nil {
		t.Fatal(err)
	}
	if err := f.UpdateAnnihilators(1); !errors.IsNotReady(err) {
		t.Fatalf("expected StateNotReadyError on a stale truth table, got %v", err)
	}
}

func TestAnnihilatorsNegativeDegree(t *testing.T) {
	f := mustNew(t, maj3, 3)
	if err := f.UpdateAnnihilators(-1); err != nil {
		t.Fatal(err)
	}
	af, afp1, err := f.AnnihilatorBases()
	if err != nil {
		t.Fatalf("bases after UpdateAnnihilators(-1): %v", err)
	}
	if len(af) != 0 || len(afp1) != 0 {
		t.Fatalf("unexpected basis sizes: got=(%d,%d) want=(0,0)", len(af), len(afp1))
	}
	if _, _, err := f.Annihilators(0, -1); err != nil {
		t.Fatalf("annihilators after UpdateAnnihilators(-1): %v", err)
	}
}

func TestDahu9(t *testing.T) {
	tt, err := transform.ParseTruthTable(catalog.Dahu9Hex, catalog.Dahu9.Locality)
	if err != nil {
		t.Fatal(err)
	}
	f := mustNew(t, tt, catalog.Dahu9.Locality)
	if w, err := f.Weight(); err != nil || w != 256 {
		t.Fatalf("weight mismatch: got=%d err=%v", w, err)
	}
	if err := f.UpdateWS(); err != nil {
		t.Fatal(err)
	}
	if err := f.UpdateANF(); err != nil {
		t.Fatal(err)
	}
	for r := 0; r <= 4; r++ {
		ok, err := f.IsResilient(r)
		if err != nil {
			t.Fatal(err)
		}
		if want := r <= catalog.Dahu9.Resiliency; ok != want {
			t.Fatalf("IsResilient(%d) mismatch: got=%v want=%v", r, ok, want)
		}
	}
	ws, err := f.WalshSpectrum(0, -1)
	if err != nil {
		t.Fatal(err)
	}
	maxAbs := 0
	for _, w := range ws {
		if w < 0 {
			w = -w
		}
		if w > maxAbs {
			maxAbs = w
		}
	}
	if maxAbs != 64 {
		t.Fatalf("max |WS| mismatch: got=%d want=64", maxAbs)
	}
	if d, err := f.Degree(); err != nil || d != 5 {
		t.Fatalf("degree mismatch: got=%d err=%v", d, err)
	}
	if testing.Short() {
		t.Skip("skipping the algebraic immunity of a 9-variable function in short mode")
	}
	for _, c := range []struct {
		ai   int
		want bool
	}{{catalog.Dahu9.AlgebraicImmunity, true}, {catalog.Dahu9.AlgebraicImmunity + 1, false}} {
		ok, err := f.IsAlgebraicImmune(c.ai)
		if err != nil {
			t.Fatal(err)
		}
		if ok != c.want {
			t.Fatalf("IsAlgebraicImmune(%d) mismatch: got=%v want=%v", c.ai, ok, c.want)
		}
	}
}

func TestWalshRoundTrip(t *testing.T) {
	prng, err := utils.NewKeyedPRNG([]byte("bf-walsh"))
	if err != nil {
		t.Fatal(err)
	}
	const l = 6
	for trial := 0; trial < 10; trial++ {
		tt := randomTT(t, prng, l)
		f := mustNew(t, tt, l)
		if err := f.UpdateWS(); err != nil {
			t.Fatal(err)
		}
		ws, err := f.WalshSpectrum(0, -1)
		if err != nil {
			t.Fatal(err)
		}
		g := mustNew(t, nil, l)
		if err := g.SetWalshSpectrum(ws); err != nil {
			t.Fatal(err)
		}
		if err := g.UpdateANF(); err != nil {
			t.Fatal(err)
		}
		got, err := g.TruthTable()
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tt, got); diff != "" {
			t.Fatalf("truth table from spectrum mismatch (-want +got):\n%s", diff)
		}
		zeros := 0
		for _, b := range tt {
			zeros += 1 - int(b)
		}
		if ws[0] != 2*zeros-(1<<l) {
			t.Fatalf("WS[0] mismatch: got=%d want=%d", ws[0], 2*zeros-(1<<l))
		}
	}

	g := mustNew(t, nil, 2)
	if err := g.SetWalshSpectrum([]int{2, 2, 0, 0}); !errors.IsInvalidArgument(err) {
		t.Fatalf("expected InvalidArgumentError for a non-Boolean spectrum, got %v", err)
	}
	if err := g.SetWalshSpectrum([]int{1, 0, 0, 0}); !errors.IsInvalidArgument(err) {
		t.Fatalf("expected InvalidArgumentError for an odd spectrum, got %v", err)
	}
	if _, err := g.TruthTable(); err != nil {
		t.Fatalf("a rejected spectrum changed the state: %v", err)
	}
}

func TestSettersValidate(t *testing.T) {
	f := mustNew(t, nil, 2)
	if err := f.SetTruthTable([]uint8{0, 1, 0}); !errors.IsInvalidArgument(err) {
		t.Fatalf("expected InvalidArgumentError, got %v", err)
	}
	if err := f.SetANF([]uint8{0, 1, 0, 3}); !errors.IsInvalidArgument(err) {
		t.Fatalf("expected InvalidArgumentError, got %v", err)
	}
}
