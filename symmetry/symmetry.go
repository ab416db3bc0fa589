// Package symmetry implements the rotation-symmetry reduction: the cyclic
// group Z/l acts on the l input bits, every orbit is represented by its
// smallest element, and the orbit-level transforms SANF -> STT and
// STT -> SWS are encoded as dense n×n matrices (n = number of orbits).
package symmetry

import (
	"math/bits"
	"sort"
	"strings"
	"sync"

	"dahu/internal/errors"
	"dahu/transform"
)

// rotate rotates the l-bit value x right by one position.
func rotate(x, l int) int {
	return x>>1 | (x&1)<<(l-1)
}

// Orbit returns the distinct rotations of x, starting with x itself.
func Orbit(x, l int) []int {
	orbit := []int{x}
	for y := rotate(x, l); y != x; y = rotate(y, l) {
		orbit = append(orbit, y)
	}
	return orbit
}

// Representative returns the smallest element of the orbit of x.
func Representative(x, l int) int {
	rep := x
	for y := rotate(x, l); y != x; y = rotate(y, l) {
		if y < rep {
			rep = y
		}
	}
	return rep
}

// ComputeRepresentatives returns the orbit representatives of the 2^l points
// sorted by (weight, value), the representative of every point, and the
// position of every point's orbit in reps.
func ComputeRepresentatives(l int) (reps, repOf, pos []int) {
	n := 1 << l
	repOf = make([]int, n)
	for x := 0; x < n; x++ {
		repOf[x] = Representative(x, l)
		if repOf[x] == x {
			reps = append(reps, x)
		}
	}
	sort.SliceStable(reps, func(a, b int) bool {
		return bits.OnesCount(uint(reps[a])) < bits.OnesCount(uint(reps[b]))
	})
	index := make(map[int]int, len(reps))
	for i, r := range reps {
		index[r] = i
	}
	pos = make([]int, n)
	for x := 0; x < n; x++ {
		pos[x] = index[repOf[x]]
	}
	return reps, repOf, pos
}

// BuildConversionMatrices returns the row-major n×n matrices relating the
// orbit-indexed representations:
//
//	sanfToSTT[i*n+j] = ⊕_{v ∈ orbit(rep_i)} [v ⊆ rep_j]
//	sttToSWS[i*n+j]  = Σ_{v ∈ orbit(rep_i)} (-1)^{|v ∧ rep_j|}
func BuildConversionMatrices(reps []int, l int) (sanfToSTT []uint8, sttToSWS []int) {
	n := len(reps)
	sanfToSTT = make([]uint8, n*n)
	sttToSWS = make([]int, n*n)
	for i, ri := range reps {
		orbit := Orbit(ri, l)
		for j, rj := range reps {
			var cover uint8
			sum := 0
			for _, v := range orbit {
				if v&rj == v {
					cover ^= 1
				}
				sum += 1 - 2*(bits.OnesCount(uint(v&rj))&1)
			}
			sanfToSTT[i*n+j] = cover
			sttToSWS[i*n+j] = sum
		}
	}
	return sanfToSTT, sttToSWS
}

// Distance returns the minimal Hamming distance between the orbit of a and
// the point b.
func Distance(a, b, l int) int {
	d := l
	for _, v := range Orbit(a, l) {
		if w := bits.OnesCount(uint(v ^ b)); w < d {
			d = w
		}
	}
	return d
}

// OrbitMonomials returns the orbit of monomial rep in increasing order. A
// rotation of the variables maps the orbit of a point mask onto itself, so
// these are the monomials a rotation-symmetric ANF carries along with rep.
func OrbitMonomials(rep, l int) []int {
	orbit := Orbit(rep, l)
	sort.Ints(orbit)
	return orbit
}

// OrbitANFString renders the orbit of monomial rep as a parenthesized sum,
// e.g. "(X0X1 + X0X2 + X1X2)" sorted by monomial. The constant orbit renders
// as "(1)".
func OrbitANFString(rep, l int) string {
	orbit := OrbitMonomials(rep, l)
	parts := make([]string, len(orbit))
	for i, m := range orbit {
		parts[i] = transform.MonomialString(m)
	}
	return "(" + strings.Join(parts, " + ") + ")"
}

// Tables gathers everything that depends on the locality alone. A Tables
// value is immutable once returned by New or a Cache.
type Tables struct {
	L     int
	Reps  []int
	RepOf []int
	Pos   []int
	// Weight[i] is the Hamming weight of Reps[i].
	Weight []int
	// CountByWeight[w] is the number of representatives of weight w.
	CountByWeight []int
	SANFToSTT     []uint8
	STTToSWS      []int

	coverOnce sync.Once
	cover     []bool
}

// MaxLocality bounds the localities New accepts. The conversion matrices are
// dense in the number of representatives, about 2^l/l.
const MaxLocality = 16

// New computes the tables of locality l.
func New(l int) (*Tables, error) {
	if err := transform.CheckLocality(l); err != nil {
		return nil, err
	}
	if l > MaxLocality {
		return nil, errors.InvalidArgument("locality", "got %d, rotation-symmetric tables support at most %d", l, MaxLocality)
	}
	t := &Tables{L: l, CountByWeight: make([]int, l+1)}
	t.Reps, t.RepOf, t.Pos = ComputeRepresentatives(l)
	t.Weight = make([]int, len(t.Reps))
	for i, r := range t.Reps {
		t.Weight[i] = bits.OnesCount(uint(r))
		t.CountByWeight[t.Weight[i]]++
	}
	t.SANFToSTT, t.STTToSWS = BuildConversionMatrices(t.Reps, l)
	return t, nil
}

// N returns the number of representatives.
func (t *Tables) N() int { return len(t.Reps) }

// PrefixLen returns the number of representatives of weight <= w. Since
// representatives are sorted by weight they form a prefix of Reps.
func (t *Tables) PrefixLen(w int) int {
	n := 0
	for k := 0; k <= w && k <= t.L; k++ {
		n += t.CountByWeight[k]
	}
	return n
}

// Cover reports whether representative i covers an element of the orbit of
// representative j. A representative covers itself and never covers one of
// greater or equal weight.
func (t *Tables) Cover(i, j int) bool {
	t.coverOnce.Do(t.buildCover)
	return t.cover[i*len(t.Reps)+j]
}

func (t *Tables) buildCover() {
	n := len(t.Reps)
	t.cover = make([]bool, n*n)
	for i, ri := range t.Reps {
		for j, rj := range t.Reps {
			switch {
			case i == j:
				t.cover[i*n+j] = true
			case t.Weight[i] <= t.Weight[j]:
			default:
				for _, v := range Orbit(rj, t.L) {
					if v&ri == v {
						t.cover[i*n+j] = true
						break
					}
				}
			}
		}
	}
}

// OrbitMonomials returns the orbit of representative i, sorted.
func (t *Tables) OrbitMonomials(i int) []int { return OrbitMonomials(t.Reps[i], t.L) }

// Distance returns the minimal Hamming distance between the orbits of
// representatives i and j.
func (t *Tables) Distance(i, j int) int { return Distance(t.Reps[i], t.Reps[j], t.L) }
