package libdqg

import (
	"github.com/dqg-systems/dqg/godqg"
)

// LitDict assigns a distinct SAT literal to each (orbit, vertex) choice.
// Literals are handed out sequentially from 1.
type LitDict struct {
	lits map[int64]godqg.Lit
	next godqg.Lit
}

func NewLitDict() *LitDict {
	return &LitDict{
		lits: make(map[int64]godqg.Lit),
		next: 1,
	}
}

// Lit returns the literal for selecting vertex v as the pick of orbit o,
// allocating one on first use.
func (dict *LitDict) Lit(o, v godqg.VtxIndex) (godqg.Lit, error) {
	key := int64(o)<<32 + int64(v)
	if lit, ok := dict.lits[key]; ok {
		return lit, nil
	}
	if dict.next > godqg.MaxLit {
		return 0, godqg.ErrLitsExhausted
	}
	lit := dict.next
	dict.next++
	dict.lits[key] = lit
	return lit, nil
}

// NumVars returns how many literals have been allocated.
func (dict *LitDict) NumVars() int {
	return int(dict.next) - 1
}

// Problem is the CNF encoding of "some transversal of q is consistent
// with the base graph". Trivial is set when no constraint clauses were
// needed, in which case the formula is satisfiable by construction and no
// solver call is required.
type Problem struct {
	CNF     godqg.Formula
	NumVars int
	Trivial bool
	Dict    *LitDict
	Q       *Quotient
}

// EncodeProblem builds the descriptiveness check for quotient q of g.
//
// Each orbit contributes an exactly-one constraint over its members. Each
// quotient edge then contributes, for every member pair that is NOT
// adjacent in g, a clause forbidding picking both.
func EncodeProblem(g *Graph, q *Quotient) (*Problem, error) {
	dict := NewLitDict()
	var cnf godqg.Formula

	for oi, cell := range q.Members {
		o := godqg.VtxIndex(oi)

		lits := make([]godqg.Lit, len(cell))
		for i, v := range cell {
			lit, err := dict.Lit(o, v)
			if err != nil {
				return nil, err
			}
			lits[i] = lit
		}

		if len(lits) == 1 {
			cnf = append(cnf, godqg.Clause{lits[0]})
			continue
		}
		for i := range lits {
			for j := i + 1; j < len(lits); j++ {
				cnf = append(cnf, godqg.Clause{-lits[i], -lits[j]})
			}
		}
		cnf = append(cnf, godqg.Clause(lits))
	}

	numConstraints := 0
	var encodeErr error
	q.Graph.IterateEdges(func(o1, o2 godqg.VtxIndex) {
		if o1 > o2 || encodeErr != nil {
			return
		}
		for _, v1 := range q.Members[o1] {
			for _, v2 := range q.Members[o2] {
				if g.HasEdge(v1, v2) {
					continue
				}
				l1, err := dict.Lit(o1, v1)
				if err != nil {
					encodeErr = err
					return
				}
				l2, err := dict.Lit(o2, v2)
				if err != nil {
					encodeErr = err
					return
				}
				cnf = append(cnf, godqg.Clause{-l1, -l2})
				numConstraints++
			}
		}
	})
	if encodeErr != nil {
		return nil, encodeErr
	}

	return &Problem{
		CNF:     cnf,
		NumVars: dict.NumVars(),
		Trivial: numConstraints == 0,
		Dict:    dict,
		Q:       q,
	}, nil
}
