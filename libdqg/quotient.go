package libdqg

import (
	"github.com/dqg-systems/dqg/godqg"
)

// Quotient is a candidate quotient of a Graph under an orbit partition:
// one quotient vertex per orbit, with an edge between two orbits whenever
// any of their members are adjacent in the base graph.
type Quotient struct {
	Orbits  godqg.Orbits
	Reps    []godqg.VtxIndex   // orbit representatives, ascending
	Members [][]godqg.VtxIndex // base vertices per orbit, same order as Reps
	Graph   *Graph             // the quotient graph itself
}

// BuildQuotient folds the given partition of g into its quotient graph.
func BuildQuotient(g *Graph, orbits godqg.Orbits) *Quotient {
	members := orbits.Members()

	reps := make([]godqg.VtxIndex, len(members))
	orbitOf := make([]godqg.VtxIndex, g.NumVerts())
	for oi, cell := range members {
		reps[oi] = cell[0]
		for _, v := range cell {
			orbitOf[v] = godqg.VtxIndex(oi)
		}
	}

	qg := NewGraph(len(members))
	g.IterateEdges(func(v, w godqg.VtxIndex) {
		ov, ow := orbitOf[v], orbitOf[w]
		if ov != ow {
			qg.AddEdge(ov, ow)
		}
	})
	qg.Minimize()

	return &Quotient{
		Orbits:  orbits,
		Reps:    reps,
		Members: members,
		Graph:   qg,
	}
}

// OrbitOf returns the quotient vertex holding base vertex v.
func (q *Quotient) OrbitOf(v godqg.VtxIndex) godqg.VtxIndex {
	for oi, cell := range q.Members {
		for _, w := range cell {
			if w == v {
				return godqg.VtxIndex(oi)
			}
		}
	}
	return -1
}

// BiggestOrbit returns the size of the largest cell.
func (q *Quotient) BiggestOrbit() int {
	max := 0
	for _, cell := range q.Members {
		if len(cell) > max {
			max = len(cell)
		}
	}
	return max
}

// Sparsity is the edge count of the quotient graph; fewer edges means a
// sparser, typically easier, candidate.
func (q *Quotient) Sparsity() int {
	return q.Graph.NumArcs() / 2
}

// Metric orders candidate quotients from most to least promising.
type Metric int32

const (
	MetricLeastOrbits Metric = iota
	MetricBiggestOrbit
	MetricSparsity
)

// ParseMetric maps a command line metric name to its Metric.
func ParseMetric(name string) (Metric, bool) {
	switch name {
	case "least_orbits":
		return MetricLeastOrbits, true
	case "biggest_orbit":
		return MetricBiggestOrbit, true
	case "sparsity":
		return MetricSparsity, true
	}
	return 0, false
}

func (m Metric) String() string {
	switch m {
	case MetricBiggestOrbit:
		return "biggest_orbit"
	case MetricSparsity:
		return "sparsity"
	default:
		return "least_orbits"
	}
}

// Less reports whether a ranks ahead of b, falling back to the canonical
// partition order so the ranking is total.
func (m Metric) Less(a, b *Quotient) bool {
	switch m {
	case MetricBiggestOrbit:
		if d := a.BiggestOrbit() - b.BiggestOrbit(); d != 0 {
			return d > 0
		}
	case MetricSparsity:
		if d := a.Sparsity() - b.Sparsity(); d != 0 {
			return d < 0
		}
	default:
		if d := len(a.Members) - len(b.Members); d != 0 {
			return d < 0
		}
	}
	return a.Orbits.CompareTo(b.Orbits) < 0
}
