package sat

import (
	"context"
	"strings"
	"testing"

	"github.com/dqg-systems/dqg/godqg"
)

func TestWriteDIMACS(t *testing.T) {
	cnf := godqg.Formula{
		{1, -2},
		{2, 3},
		{-1},
	}
	out := strings.Builder{}
	if err := WriteDIMACS(&out, cnf, 3); err != nil {
		t.Fatal(err)
	}
	want := "p cnf 3 3\n1 -2 0\n2 3 0\n-1 0\n"
	if out.String() != want {
		t.Fatalf("got %q", out.String())
	}
}

func TestParseModelLines(t *testing.T) {
	out := "c comment\ns SATISFIABLE\nv 1 -2 3\nv -4 0\n"
	model, err := parseModelLines(out, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []bool{true, false, true, false}
	for i := range want {
		if model[i] != want[i] {
			t.Fatalf("got %v", model)
		}
	}

	if _, err = parseModelLines("v 1 2 3\n", 3); err == nil {
		t.Fatal("unterminated listing must fail")
	}
	if _, err = parseModelLines("v 1 junk 0\n", 1); err == nil {
		t.Fatal("junk literal must fail")
	}
}

func TestGophersat(t *testing.T) {
	ctx := context.Background()
	slv := &Gophersat{}

	sat, model, err := slv.Solve(ctx, godqg.Formula{{1, 2}, {-1, 2}}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !sat {
		t.Fatal("satisfiable formula")
	}
	if model != nil && !model[1] {
		t.Fatal("2 must be true")
	}

	sat, _, err = slv.Solve(ctx, godqg.Formula{{1}, {-1}}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if sat {
		t.Fatal("contradiction")
	}
}

func TestNewSolver(t *testing.T) {
	slv, err := NewSolver("", "/opt/kissat")
	if err != nil || slv.Name() != "kissat" {
		t.Fatal("default backend")
	}
	if slv.(*Kissat).Path != "/opt/kissat" {
		t.Fatal("path override")
	}
	if slv, err = NewSolver("gophersat", ""); err != nil || slv.Name() != "gophersat" {
		t.Fatal("gophersat")
	}
	if _, err = NewSolver("minisat", ""); err == nil {
		t.Fatal("unknown backend")
	}
}
