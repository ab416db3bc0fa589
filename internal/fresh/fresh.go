// Package fresh tracks which representations of a function are up to date.
//
// A State always has one source representation, the one last written by a
// setter, and a set of derived representations recomputed from it since. A
// representation is fresh iff it is the source or in the derived set, so the
// source can never be stale.
package fresh

import (
	"dahu/internal/errors"
)

// Repr identifies one representation. Values are single bits so that a set
// of representations fits in one Repr.
type Repr uint16

// State is the freshness state of one function instance.
type State struct {
	source  Repr
	derived Repr
}

// New returns a state whose only fresh representation is source.
func New(source Repr) State { return State{source: source} }

// Source returns the representation last set.
func (s State) Source() Repr { return s.source }

// Fresh reports whether r is up to date.
func (s State) Fresh(r Repr) bool { return r == s.source || s.derived&r != 0 }

// SetSource makes r the source and marks every other representation stale.
func (s *State) SetSource(r Repr) {
	s.source = r
	s.derived = 0
}

// Mark records that r was recomputed from fresh data.
func (s *State) Mark(r Repr) {
	if r != s.source {
		s.derived |= r
	}
}

// Edge is one conversion step of a graph: Apply recomputes To from From,
// assuming From is fresh.
type Edge struct {
	From, To Repr
	Apply    func() error
}

// Graph is the set of conversions a function type supports.
type Graph struct {
	Edges []Edge
	Names map[Repr]string
}

func (g *Graph) name(r Repr) string {
	if n, ok := g.Names[r]; ok {
		return n
	}
	return "unknown"
}

// Path returns the shortest chain of edges turning some fresh representation
// of s into target, or nil if target is already fresh. It fails with an
// UnsupportedConversionError when target is unreachable.
func (g *Graph) Path(s State, target Repr) ([]Edge, error) {
	if s.Fresh(target) {
		return nil, nil
	}
	type hop struct {
		prev Repr
		edge int
	}
	seen := map[Repr]hop{}
	var queue []Repr
	for _, e := range g.Edges {
		for _, r := range []Repr{e.From, e.To} {
			if _, ok := seen[r]; !ok && s.Fresh(r) {
				seen[r] = hop{edge: -1}
				queue = append(queue, r)
			}
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == target {
			break
		}
		for i, e := range g.Edges {
			if e.From != cur {
				continue
			}
			if _, ok := seen[e.To]; ok {
				continue
			}
			seen[e.To] = hop{prev: cur, edge: i}
			queue = append(queue, e.To)
		}
	}
	if _, ok := seen[target]; !ok {
		return nil, errors.Unsupported(g.name(s.source), g.name(target))
	}
	var path []Edge
	for r := target; seen[r].edge >= 0; r = seen[r].prev {
		path = append([]Edge{g.Edges[seen[r].edge]}, path...)
	}
	return path, nil
}

// Update brings target up to date by applying the shortest conversion chain
// and marking every intermediate representation fresh.
func (g *Graph) Update(s *State, target Repr) error {
	path, err := g.Path(*s, target)
	if err != nil {
		return err
	}
	for _, e := range path {
		if err := e.Apply(); err != nil {
			return errors.Wrapf(err, "convert %s to %s", g.name(e.From), g.name(e.To))
		}
		s.Mark(e.To)
	}
	return nil
}

// Require returns a StateNotReadyError unless r is fresh.
func (g *Graph) Require(s State, op string, r Repr) error {
	if !s.Fresh(r) {
		return errors.NotReady(op, g.name(r))
	}
	return nil
}
