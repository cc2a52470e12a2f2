package libdqg

import (
	"testing"

	"github.com/dqg-systems/dqg/godqg"
)

func TestSearchTransversal(t *testing.T) {
	X := cycleGraph(6)

	// bipartition: picking any vertex and a neighbour works
	swap, _ := godqg.ParsePermCycles("(0 2)(1 3)", 6)
	rot2, _ := godqg.ParsePermCycles("(0 2 4)(1 3 5)", 6)
	q := BuildQuotient(X, godqg.FoldGenerators(6, godqg.Generators{swap, rot2}))
	picks, found := SearchTransversal(X, q)
	if !found {
		t.Fatal("bipartition must have a transversal")
	}
	if !CheckTransversal(X, q, picks) {
		t.Fatal("search returned junk")
	}

	// antipodal folding: the quotient triangle has no witness in C6
	rot3, _ := godqg.ParsePermCycles("(0 3)(1 4)(2 5)", 6)
	q = BuildQuotient(X, godqg.FoldGenerators(6, godqg.Generators{rot3}))
	if _, found = SearchTransversal(X, q); found {
		t.Fatal("C6 has no triangle")
	}
}

func TestCheckTransversal(t *testing.T) {
	X := cycleGraph(6)
	rot2, _ := godqg.ParsePermCycles("(0 2 4)(1 3 5)", 6)
	swap, _ := godqg.ParsePermCycles("(0 2)(1 3)", 6)
	q := BuildQuotient(X, godqg.FoldGenerators(6, godqg.Generators{swap, rot2}))

	if !CheckTransversal(X, q, Transversal{0, 1}) {
		t.Fatal("0-1 is an edge")
	}
	if CheckTransversal(X, q, Transversal{0, 3}) {
		t.Fatal("0-3 is not an edge")
	}
	if CheckTransversal(X, q, Transversal{0}) {
		t.Fatal("wrong arity")
	}
}

func TestTransversalFromModel(t *testing.T) {
	X := cycleGraph(6)
	rot3, _ := godqg.ParsePermCycles("(0 3)(1 4)(2 5)", 6)
	q := BuildQuotient(X, godqg.FoldGenerators(6, godqg.Generators{rot3}))

	p, err := EncodeProblem(X, q)
	if err != nil {
		t.Fatal(err)
	}

	// vars 1..6 are (orbit, member) in member order
	model := []bool{true, false, true, false, true, false}
	picks, err := p.TransversalFromModel(model)
	if err != nil {
		t.Fatal(err)
	}
	want := Transversal{0, 1, 2}
	for oi := range want {
		if picks[oi] != want[oi] {
			t.Fatalf("got %v", picks)
		}
	}

	// an orbit with no pick is solver garbage
	model = []bool{true, false, false, false, true, false}
	if _, err = p.TransversalFromModel(model); err == nil {
		t.Fatal("expected error")
	}
}
