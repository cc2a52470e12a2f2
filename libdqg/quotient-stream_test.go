package libdqg_test

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/dqg-systems/dqg/godqg"
	"github.com/dqg-systems/dqg/libdqg"
	"github.com/dqg-systems/dqg/libdqg/catalog"
	"github.com/dqg-systems/dqg/libdqg/sat"
)

func hexagon() *libdqg.Graph {
	X := libdqg.NewGraph(6)
	for v := 0; v < 6; v++ {
		X.AddEdge(godqg.VtxIndex(v), godqg.VtxIndex((v+1)%6))
	}
	X.Minimize()
	return X
}

func hexagonGens(t *testing.T) godqg.Generators {
	rot, err := godqg.ParsePermCycles("(0 1 2 3 4 5)", 6)
	if err != nil {
		t.Fatal(err)
	}
	flip, err := godqg.ParsePermCycles("(1 5)(2 4)", 6)
	if err != nil {
		t.Fatal(err)
	}
	return godqg.Generators{rot, flip}
}

func TestPipeline(t *testing.T) {
	X := hexagon()
	ctx := context.Background()

	src := libdqg.StreamGeneratorPowers(6, hexagonGens(t))
	stream := src.Build(X).
		Dedupe().
		SortBy(libdqg.MetricLeastOrbits).
		Solve(ctx, X, &sat.Gophersat{}, 2).
		Validate(X)

	numDescriptive := 0
	sawTriangle := false
	for cand := range stream.Outlet {
		switch cand.Verdict {
		case godqg.Descriptive:
			numDescriptive++
			if cand.Witness != nil && !libdqg.CheckTransversal(X, cand.Q, cand.Witness) {
				t.Fatalf("bad witness for %v", cand.Q.Orbits)
			}
		case godqg.NonDescriptive:
			// the only non-descriptive fold of a hexagon here is the
			// antipodal one
			if len(cand.Q.Members) != 3 {
				t.Fatalf("unexpected verdict for %v", cand.Q.Orbits)
			}
			sawTriangle = true
		default:
			t.Fatalf("undecided candidate %v", cand.Q.Orbits)
		}
	}
	if !sawTriangle {
		t.Fatal("antipodal fold never surfaced")
	}
	if numDescriptive == 0 {
		t.Fatal("no descriptive candidate")
	}
}

type failSolver struct{}

func (failSolver) Name() string { return "fail" }

func (failSolver) Solve(ctx context.Context, cnf godqg.Formula, numVars int) (bool, []bool, error) {
	return false, nil, errors.New("no backend")
}

func TestPipelineSolveFailure(t *testing.T) {
	X := hexagon()
	ctx := context.Background()

	rot3, _ := godqg.ParsePermCycles("(0 3)(1 4)(2 5)", 6)
	stats := &libdqg.Statistics{}

	src := libdqg.StreamFullGroup(6, godqg.Generators{rot3})
	stream := src.Build(X).
		Solve(ctx, X, failSolver{}, 1).
		RecordStats(stats, libdqg.StatsFull)

	count := 0
	for cand := range stream.Outlet {
		count++
		if cand.Verdict != godqg.VerdictUnknown {
			t.Fatalf("got %v", cand.Verdict)
		}
		if cand.Err == nil {
			t.Fatal("failure not recorded on the candidate")
		}
	}
	if count != 1 {
		t.Fatalf("%d candidates", count)
	}
	if stats.NumCandidates() != 1 {
		t.Fatal("failed candidate missing from stats")
	}
	out := &strings.Builder{}
	if err := stats.WriteReport(out, libdqg.StatsFull); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "unknown:           1") {
		t.Fatalf("got %q", out.String())
	}
	if !strings.Contains(out.String(), "error") {
		t.Fatalf("got %q", out.String())
	}
}

func TestPipelineCancelDrains(t *testing.T) {
	X := hexagon()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rot3, _ := godqg.ParsePermCycles("(0 3)(1 4)(2 5)", 6)
	antipodal := godqg.FoldGenerators(6, godqg.Generators{rot3})

	src := &libdqg.OrbitStream{Outlet: make(chan godqg.Orbits)}
	fed := make(chan struct{})
	go func() {
		for i := 0; i < 8; i++ {
			src.Outlet <- antipodal
		}
		close(src.Outlet)
		close(fed)
	}()

	count := src.Build(X).Solve(ctx, X, &sat.Gophersat{}, 1).PullAll()
	if count != 0 {
		t.Fatalf("%d candidates after cancel", count)
	}
	// the source must run to completion rather than hang on a send
	<-fed
}

func TestPipelineDedupe(t *testing.T) {
	X := hexagon()
	rot, _ := godqg.ParsePermCycles("(0 1 2 3 4 5)", 6)

	// rot and rot^5 generate the same partition
	src := libdqg.StreamPowerset(6, godqg.Generators{rot, rot.Power(5)})
	count := src.Build(X).Dedupe().PullAll()
	if count != 1 {
		t.Fatalf("%d candidates after dedupe", count)
	}
}

func TestPipelineCatalog(t *testing.T) {
	X := hexagon()
	ctx := context.Background()

	catCtx := godqg.NewCatalogContext()
	cat, err := catalog.OpenCatalog(catCtx, godqg.CatalogOpts{})
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		catCtx.Close()
		<-catCtx.Done()
	}()

	rot3, _ := godqg.ParsePermCycles("(0 3)(1 4)(2 5)", 6)
	gens := godqg.Generators{rot3}

	run := func() (fromCache int) {
		src := libdqg.StreamFullGroup(6, gens)
		stream := src.Build(X).
			LookupCatalog(cat).
			Solve(ctx, X, &sat.Gophersat{}, 1).
			RecordTo(cat)
		for cand := range stream.Outlet {
			if cand.Verdict != godqg.NonDescriptive {
				t.Fatalf("got %v", cand.Verdict)
			}
			if cand.FromCache {
				fromCache++
			}
		}
		return
	}

	if run() != 0 {
		t.Fatal("first run must solve")
	}
	if run() != 1 {
		t.Fatal("second run must hit the catalog")
	}
	if cat.NumVerdicts(godqg.NonDescriptive) != 1 {
		t.Fatal("catalog count")
	}
}

func TestPipelinePrint(t *testing.T) {
	X := hexagon()
	ctx := context.Background()

	out := &strings.Builder{}
	src := libdqg.StreamFullGroup(6, hexagonGens(t))
	count := src.Build(X).
		Solve(ctx, X, &sat.Gophersat{}, 1).
		Print(out, godqg.PrintOpts{Orbits: true}).
		PullAll()

	if count != 1 {
		t.Fatalf("%d candidates", count)
	}
	// the full group folds the hexagon to a point: trivially descriptive
	if !strings.Contains(out.String(), "descriptive") || !strings.Contains(out.String(), "0:5") {
		t.Fatalf("got %q", out.String())
	}
}

func TestPullBest(t *testing.T) {
	X := hexagon()
	ctx := context.Background()

	src := libdqg.StreamGeneratorPowers(6, hexagonGens(t))
	best := src.Build(X).
		Dedupe().
		Solve(ctx, X, &sat.Gophersat{}, 1).
		PullBest(libdqg.MetricLeastOrbits)

	if best == nil {
		t.Fatal("no descriptive candidate")
	}
	// the full rotation collapses everything to one orbit
	if len(best.Q.Members) != 1 {
		t.Fatalf("best has %d orbits", len(best.Q.Members))
	}
}
