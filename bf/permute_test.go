package bf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tuneinsight/lattigo/v4/utils"

	"dahu/catalog"
	"dahu/internal/errors"
	"dahu/transform"
)

func TestPermuteInverse(t *testing.T) {
	prng, err := utils.NewKeyedPRNG([]byte("bf-permute"))
	if err != nil {
		t.Fatal(err)
	}
	const l = 5
	perm := []int{3, 0, 4, 1, 2}
	tt := randomTT(t, prng, l)
	f := mustNew(t, tt, l)

	g, err := f.Permuted(perm)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Permute(transform.InversePermutation(perm)); err != nil {
		t.Fatal(err)
	}
	got, err := g.TruthTable()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tt, got); diff != "" {
		t.Fatalf("permutation round trip mismatch (-want +got):\n%s", diff)
	}
	orig, err := f.TruthTable()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tt, orig); diff != "" {
		t.Fatalf("Permuted modified its receiver:\n%s", diff)
	}
}

func TestPermuteExample(t *testing.T) {
	// f = X3 in point order (x0..x3 MSB first): f(x) = x0.
	tt := make([]uint8, 16)
	for x := 8; x < 16; x++ {
		tt[x] = 1
	}
	f := mustNew(t, tt, 4)
	if err := f.Permute([]int{1, 0, 2, 3}); err != nil {
		t.Fatal(err)
	}
	got, err := f.TruthTable()
	if err != nil {
		t.Fatal(err)
	}
	for x := 0; x < 16; x++ {
		want := uint8(x >> 2 & 1)
		if got[x] != want {
			t.Fatalf("permuted value at %d mismatch: got=%d want=%d", x, got[x], want)
		}
	}
}

func TestRotationInvariance(t *testing.T) {
	tt, err := transform.ParseTruthTable(catalog.Dahu9Hex, 9)
	if err != nil {
		t.Fatal(err)
	}
	f := mustNew(t, tt, 9)
	g, err := f.Permuted([]int{1, 2, 3, 4, 5, 6, 7, 8, 0})
	if err != nil {
		t.Fatal(err)
	}
	got, err := g.TruthTable()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tt, got); diff != "" {
		t.Fatalf("rotation changed a rotation-symmetric function")
	}
}

func TestTranslate(t *testing.T) {
	prng, err := utils.NewKeyedPRNG([]byte("bf-translate"))
	if err != nil {
		t.Fatal(err)
	}
	const l = 5
	tt := randomTT(t, prng, l)
	shift := []uint8{1, 0, 1, 1, 0}
	f := mustNew(t, tt, l)
	if err := f.UpdateWS(); err != nil {
		t.Fatal(err)
	}
	ws, err := f.WalshSpectrum(0, -1)
	if err != nil {
		t.Fatal(err)
	}

	g, err := f.Translated(shift)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.UpdateWS(); err != nil {
		t.Fatal(err)
	}
	gws, err := g.WalshSpectrum(0, -1)
	if err != nil {
		t.Fatal(err)
	}
	for u := range ws {
		a, b := ws[u], gws[u]
		if a != b && a != -b {
			t.Fatalf("translation changed |WS[%d]|: %d vs %d", u, a, b)
		}
	}

	if err := g.Translate(shift); err != nil {
		t.Fatal(err)
	}
	if _, err := g.WalshSpectrum(0, -1); !errors.IsNotReady(err) {
		t.Fatalf("spectrum should be stale after Translate, got %v", err)
	}
	got, err := g.TruthTable()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tt, got); diff != "" {
		t.Fatalf("translation is not an involution (-want +got):\n%s", diff)
	}
}

func TestPermuteErrors(t *testing.T) {
	f := mustNew(t, make([]uint8, 8), 3)
	for _, perm := range [][]int{{0, 1}, {0, 1, 1}, {0, 1, 3}} {
		if err := f.Permute(perm); !errors.IsInvalidArgument(err) {
			t.Fatalf("Permute(%v): expected InvalidArgumentError, got %v", perm, err)
		}
	}
	if _, err := f.Translated([]uint8{1, 0}); !errors.IsInvalidArgument(err) {
		t.Fatalf("expected InvalidArgumentError, got %v", err)
	}
	if err := f.SetANF(make([]uint8, 8)); err != nil {
		t.Fatal(err)
	}
	if err := f.Permute([]int{0, 1, 2}); !errors.IsNotReady(err) {
		t.Fatalf("expected StateNotReadyError, got %v", err)
	}
}
