package libdqg

import (
	"testing"

	"github.com/dqg-systems/dqg/godqg"
)

const dreadnautOutput = `Dreadnaut version 2.8.8.
(0 3)(1 4)(2 5)
level 2:  6 orbits; 5 fixed; index 2
(0 1 2 3 4 5)
(0 2)(3 5)
   (1 4)
2 orbits; grpsize=12; 3 gens; 6 nodes; maxlev=3
cpu time = 0.00 seconds
`

func TestParseGenerators(t *testing.T) {
	gens, err := parseGenerators([]byte(dreadnautOutput), 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(gens) != 3 {
		t.Fatalf("%d generators", len(gens))
	}
	if gens[0].String() != "(0 3)(1 4)(2 5)" {
		t.Fatalf("got %q", gens[0].String())
	}
	if gens[1].Order() != 6 {
		t.Fatal("rotation order")
	}
	// the indented line continues the third generator
	if gens[2].String() != "(0 2)(1 4)(3 5)" {
		t.Fatalf("got %q", gens[2].String())
	}
}

func TestParseGeneratorsWrapped(t *testing.T) {
	// dreadnaut wraps long generators mid-cycle, breaking between two
	// vertex numbers with no paren on the continuation line.
	out := "(0 1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16 17 18 19 20 21\n" +
		"   22 23)\n" +
		"1 orbit; grpsize=24; 1 gen; 24 nodes\n"
	gens, err := parseGenerators([]byte(out), 24)
	if err != nil {
		t.Fatal(err)
	}
	if len(gens) != 1 {
		t.Fatalf("%d generators", len(gens))
	}
	rot := gens[0]
	if rot[21] != 22 || rot[22] != 23 || rot[23] != 0 {
		t.Fatalf("wrap point fused: %q", rot.String())
	}
	if rot.Order() != 24 {
		t.Fatal("rotation order")
	}
}

func TestParseGeneratorsRigid(t *testing.T) {
	out := "1 orbit; grpsize=1; 0 gens; 4 nodes\n"
	gens, err := parseGenerators([]byte(out), 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(gens) != 0 {
		t.Fatal("rigid graph has no generators")
	}
}

func TestPickGroupMode(t *testing.T) {
	dense := cycleGraph(4) // 8 arcs on 16 slots is not sparse
	if PickGroupMode(dense, false) != godqg.NautyDense {
		t.Fatal("dense")
	}
	if PickGroupMode(dense, true) != godqg.Traces {
		t.Fatal("traces wins")
	}
	sparse := cycleGraph(20)
	if PickGroupMode(sparse, false) != godqg.NautySparse {
		t.Fatal("sparse")
	}
}
