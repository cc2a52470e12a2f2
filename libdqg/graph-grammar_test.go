package libdqg

import (
	"strings"
	"testing"

	"github.com/dqg-systems/dqg/godqg"
)

const sampleDre = `
At
-a
-m
n=5 g
0:1 2 ;
2:3;
3:4 .
f=[0|1,2]
x o
`

func TestParseDreadnaut(t *testing.T) {
	X, wantsTraces, err := ParseDreadnaut(strings.NewReader(sampleDre))
	if err != nil {
		t.Fatal(err)
	}
	if !wantsTraces {
		t.Fatal("header asked for Traces")
	}
	if X.NumVerts() != 5 || X.NumArcs() != 8 {
		t.Fatalf("%d verts, %d arcs", X.NumVerts(), X.NumArcs())
	}
	for _, edge := range [][2]godqg.VtxIndex{{0, 1}, {0, 2}, {2, 3}, {3, 4}} {
		if !X.HasEdge(edge[0], edge[1]) || !X.HasEdge(edge[1], edge[0]) {
			t.Fatalf("missing edge %v", edge)
		}
	}
	if X.HasEdge(1, 2) {
		t.Fatal("phantom edge")
	}
	if !X.IsColoured() || X.Colour(0) == X.Colour(1) || X.Colour(1) != X.Colour(2) {
		t.Fatal("colouring")
	}
	// vertices 3 and 4 are unmentioned by the colouring
	if X.Colour(3) != godqg.DefaultColour || X.Colour(4) != godqg.DefaultColour {
		t.Fatal("default colour")
	}
}

func TestParseDreadnautEarlyStop(t *testing.T) {
	src := `
n=4 g
0:1 .
2:3;
`
	X, wantsTraces, err := ParseDreadnaut(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if wantsTraces {
		t.Fatal("no Traces header")
	}
	// the '.' row ends edge input; the 2:3 row is ignored
	if X.NumArcs() != 2 || X.HasEdge(2, 3) {
		t.Fatalf("%d arcs", X.NumArcs())
	}
}

func TestParseDreadnautComments(t *testing.T) {
	src := "! generated\nn=3 g\n0:1 2 .\n"
	X, _, err := ParseDreadnaut(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if X.NumArcs() != 4 {
		t.Fatal("arcs")
	}
}

func TestParseDreadnautBadVertex(t *testing.T) {
	src := "n=3 g\n0:7 .\n"
	if _, _, err := ParseDreadnaut(strings.NewReader(src)); err == nil {
		t.Fatal("expected range error")
	}
}

func TestWriteDreadnautRoundTrip(t *testing.T) {
	X := NewGraph(5)
	X.AddEdge(0, 1)
	X.AddEdge(0, 2)
	X.AddEdge(2, 3)
	X.AddEdge(3, 4)
	X.SetColours([]godqg.Colour{1, 2, 2, 0, 0})
	X.Minimize()

	out := strings.Builder{}
	if err := X.WriteDreadnaut(&out); err != nil {
		t.Fatal(err)
	}
	X2, _, err := ParseDreadnaut(strings.NewReader(out.String()))
	if err != nil {
		t.Fatalf("%v in:\n%s", err, out.String())
	}
	if X2.NumVerts() != 5 || X2.NumArcs() != X.NumArcs() {
		t.Fatal("round trip lost edges")
	}
	for v := godqg.VtxIndex(0); v < 5; v++ {
		for w := godqg.VtxIndex(0); w < 5; w++ {
			if X.HasEdge(v, w) != X2.HasEdge(v, w) {
				t.Fatalf("edge %d-%d", v, w)
			}
		}
	}
	// colour classes survive, though class numbering may shift
	if !X2.IsColoured() || X2.Colour(1) != X2.Colour(2) || X2.Colour(0) == X2.Colour(1) {
		t.Fatal("round trip lost colours")
	}
}

func TestWriteDreadnautEdgeless(t *testing.T) {
	X := NewGraph(3)
	out := strings.Builder{}
	if err := X.WriteDreadnaut(&out); err != nil {
		t.Fatal(err)
	}
	X2, _, err := ParseDreadnaut(strings.NewReader(out.String()))
	if err != nil {
		t.Fatalf("%v in:\n%s", err, out.String())
	}
	if X2.NumVerts() != 3 || X2.NumArcs() != 0 {
		t.Fatal("edgeless round trip")
	}
}
