package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/dqg-systems/dqg/godqg"
	"github.com/dqg-systems/dqg/libdqg"
	"github.com/dqg-systems/dqg/libdqg/catalog"
	"github.com/dqg-systems/dqg/libdqg/sat"
)

type DriverOpts struct {
	GraphPath     string
	ReadPipe      bool
	Powerset      bool
	Powers        bool
	OrbitsOnly    bool
	PrintFormula  bool
	LogOrbits     bool
	Traces        bool
	ValidateRun   bool
	MetricName    string
	SolverName    string
	NumJobs       int
	DbPathName    string
	NumVerts      int
	StatsLevel    int
	DreadnautPath string
	KissatPath    string
}

func DefaultDriverOpts() DriverOpts {
	return DriverOpts{
		SolverName: "kissat",
		MetricName: "least_orbits",
		NumJobs:    1,
	}
}

func runDriver(opts DriverOpts) error {
	ctx := context.Background()
	started := time.Now()

	var (
		X           *libdqg.Graph
		wantsTraces bool
		err         error
	)
	if opts.ReadPipe {
		X, wantsTraces, err = libdqg.ParseDreadnaut(os.Stdin)
		if opts.GraphPath == "" {
			opts.GraphPath = "statistics"
		}
	} else {
		X, wantsTraces, err = libdqg.ReadGraphFile(opts.GraphPath, opts.NumVerts)
	}
	if err != nil {
		return err
	}

	mode := libdqg.PickGroupMode(X, wantsTraces || opts.Traces)
	klog.Infof("%s: %d vertices, %d edges (%v)",
		opts.GraphPath, X.NumVerts(), X.NumArcs()/2, mode)

	groupStart := time.Now()
	gens, err := libdqg.ComputeGenerators(ctx, X, libdqg.GroupOpts{
		Mode:          mode,
		DreadnautPath: opts.DreadnautPath,
	})
	if err != nil {
		return err
	}
	groupTime := time.Since(groupStart)
	klog.Infof("%d generators in %v", len(gens), groupTime)

	if opts.OrbitsOnly {
		// a rigid graph folds to the identity partition
		orbits := godqg.FoldGenerators(X.NumVerts(), gens)
		klog.Infof("%d orbits", orbits.NumOrbits())
		os.Stdout.WriteString(orbits.String() + "\n")
		return nil
	}

	if len(gens) == 0 {
		klog.Infof("graph is rigid; every quotient is the graph itself")
		return nil
	}

	var src *libdqg.OrbitStream
	switch {
	case opts.Powers:
		src = libdqg.StreamGeneratorPowers(X.NumVerts(), gens)
	case opts.Powerset:
		src = libdqg.StreamPowerset(X.NumVerts(), gens)
	default:
		src = libdqg.StreamFullGroup(X.NumVerts(), gens)
	}

	if opts.PrintFormula {
		return printFormulas(os.Stdout, X, src)
	}

	metric, ok := libdqg.ParseMetric(opts.MetricName)
	if !ok {
		return errors.Errorf("unknown metric %q", opts.MetricName)
	}
	solver, err := sat.NewSolver(opts.SolverName, opts.KissatPath)
	if err != nil {
		return err
	}

	var cat godqg.Catalog
	if opts.DbPathName != "" {
		catCtx := godqg.NewCatalogContext()
		cat, err = catalog.OpenCatalog(catCtx, godqg.CatalogOpts{
			DbPathName: opts.DbPathName,
		})
		if err != nil {
			return err
		}
		defer func() {
			catCtx.Close()
			<-catCtx.Done()
		}()
	}

	stats := &libdqg.Statistics{
		GraphPath: opts.GraphPath,
		NumVerts:  X.NumVerts(),
		NumEdges:  X.NumArcs() / 2,
		Mode:      mode,
		NumGens:   len(gens),
		GroupTime: groupTime,
	}
	level := libdqg.StatsLevel(opts.StatsLevel)

	stream := src.Build(X).Dedupe()
	if opts.Powerset || opts.Powers {
		stream = stream.SortBy(metric)
	}
	stream = stream.
		LookupCatalog(cat).
		Solve(ctx, X, solver, opts.NumJobs).
		RecordTo(cat).
		RecordStats(stats, level)

	if opts.ValidateRun {
		stream = stream.Validate(X)
	}
	stream = stream.Print(os.Stdout, godqg.PrintOpts{
		Orbits:  opts.LogOrbits,
		Timings: level >= libdqg.StatsBasic,
	})

	numCands := stream.PullAll()
	stats.TotalTime = time.Since(started)

	klog.Infof("%d candidates, %d descriptive, done in %v",
		numCands, stats.NumDescriptive(), stats.TotalTime)

	if level > libdqg.StatsNone {
		if pathname, err := stats.SaveReport(level); err != nil {
			klog.Warningf("could not save statistics: %v", err)
		} else if pathname != "" {
			klog.Infof("statistics saved to %s", pathname)
		}
	}
	return nil
}

// printFormulas emits each candidate's CNF in DIMACS form instead of
// solving it, one "c orbits" comment line ahead of each formula.
func printFormulas(out io.Writer, X *libdqg.Graph, src *libdqg.OrbitStream) error {
	stream := src.Build(X).Dedupe()

	var firstErr error
	for cand := range stream.Outlet {
		if firstErr != nil {
			continue
		}
		problem, err := libdqg.EncodeProblem(X, cand.Q)
		if err != nil {
			firstErr = err
			continue
		}
		fmt.Fprintf(out, "c orbits %v\n", cand.Q.Orbits)
		if err := sat.WriteDIMACS(out, problem.CNF, problem.NumVars); err != nil {
			firstErr = err
		}
	}
	return firstErr
}
