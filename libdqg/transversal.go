package libdqg

import (
	"github.com/pkg/errors"

	"github.com/dqg-systems/dqg/godqg"
)

// Transversal is one picked base vertex per orbit, in orbit order.
type Transversal []godqg.VtxIndex

// TransversalFromModel reads the orbit picks out of a satisfying
// assignment, model[i] holding the value of variable i+1.
func (p *Problem) TransversalFromModel(model []bool) (Transversal, error) {
	picks := make(Transversal, len(p.Q.Members))
	for oi, cell := range p.Q.Members {
		picked := godqg.VtxIndex(-1)
		for _, v := range cell {
			lit, err := p.Dict.Lit(godqg.VtxIndex(oi), v)
			if err != nil {
				return nil, err
			}
			if int(lit) <= len(model) && model[lit-1] {
				if picked >= 0 {
					return nil, errors.Wrapf(godqg.ErrSolverOutput, "orbit %d picked twice", oi)
				}
				picked = v
			}
		}
		if picked < 0 {
			return nil, errors.Wrapf(godqg.ErrSolverOutput, "orbit %d unpicked", oi)
		}
		picks[oi] = picked
	}
	return picks, nil
}

// CheckTransversal reports whether picks witnesses descriptiveness: the
// pick of every pair of adjacent orbits must be adjacent in g.
func CheckTransversal(g *Graph, q *Quotient, picks Transversal) bool {
	if len(picks) != len(q.Members) {
		return false
	}
	ok := true
	q.Graph.IterateEdges(func(o1, o2 godqg.VtxIndex) {
		if o1 < o2 && !g.HasEdge(picks[o1], picks[o2]) {
			ok = false
		}
	})
	return ok
}

// SearchTransversal looks for a consistent transversal by backtracking
// over the orbits directly, without a solver. Used to cross-check solver
// verdicts.
func SearchTransversal(g *Graph, q *Quotient) (Transversal, bool) {
	picks := make(Transversal, len(q.Members))
	if searchOrbit(g, q, picks, 0) {
		return picks, true
	}
	return nil, false
}

func searchOrbit(g *Graph, q *Quotient, picks Transversal, oi int) bool {
	if oi == len(q.Members) {
		return true
	}
	o := godqg.VtxIndex(oi)
	for _, v := range q.Members[oi] {
		picks[oi] = v
		if pickConsistent(g, q, picks, o) && searchOrbit(g, q, picks, oi+1) {
			return true
		}
	}
	return false
}

// pickConsistent checks the pick of orbit o against all earlier picks.
func pickConsistent(g *Graph, q *Quotient, picks Transversal, o godqg.VtxIndex) bool {
	ok := true
	q.Graph.IterateEdges(func(o1, o2 godqg.VtxIndex) {
		if o1 == o && o2 < o && !g.HasEdge(picks[o], picks[o2]) {
			ok = false
		}
	})
	return ok
}
