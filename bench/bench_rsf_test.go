package bench

import (
	"testing"

	"dahu/catalog"
	"dahu/rsf"
	"dahu/search"
	"dahu/symmetry"
)

func rsf11(b *testing.B) (*rsf.RSF, []uint8) {
	c, err := rsf.NewCaches()
	if err != nil {
		b.Fatal(err)
	}
	f, err := rsf.New(c, catalog.RSF11.Locality)
	if err != nil {
		b.Fatal(err)
	}
	sanf, err := search.ParseBits(catalog.RSF11SANF)
	if err != nil {
		b.Fatal(err)
	}
	return f, sanf
}

func BenchmarkRSFResilientOptimised(b *testing.B) {
	f, sanf := rsf11(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := f.SetSANF(sanf); err != nil {
			b.Fatal(err)
		}
		if _, err := f.IsResilientOptimised(catalog.RSF11.Resiliency); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRSFAlgebraicImmunity(b *testing.B) {
	f, sanf := rsf11(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := f.SetSANF(sanf); err != nil {
			b.Fatal(err)
		}
		if _, err := f.IsAlgebraicImmune(catalog.RSF11.AlgebraicImmunity); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSymmetryTables(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := symmetry.New(11); err != nil {
			b.Fatal(err)
		}
	}
}
