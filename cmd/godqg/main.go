package main

import (
	"flag"
	"os"
	"strings"

	"github.com/plan-systems/klog"
)

func main() {

	flag.Set("logtostderr", "true")
	flag.Set("v", "2")

	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "2")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	opts := DefaultDriverOpts()
	flag.BoolVar(&opts.ReadPipe, "pipe", opts.ReadPipe, "read a dreadnaut graph from stdin instead of a file")
	flag.BoolVar(&opts.PrintFormula, "formula", opts.PrintFormula, "print each candidate CNF in DIMACS form instead of solving")
	flag.BoolVar(&opts.Powerset, "powerset", opts.Powerset, "fold every non-empty generator subset, not just the whole group")
	flag.BoolVar(&opts.Powers, "powers", opts.Powers, "also fold the powers of each single generator")
	flag.BoolVar(&opts.OrbitsOnly, "orbits", opts.OrbitsOnly, "print the orbit partition of the full group and exit")
	flag.BoolVar(&opts.LogOrbits, "logorbits", opts.LogOrbits, "print the orbit partition of every candidate")
	flag.BoolVar(&opts.Traces, "traces", opts.Traces, "force the Traces engine regardless of the graph file header")
	flag.BoolVar(&opts.ValidateRun, "validate", opts.ValidateRun, "cross-check every verdict with a direct transversal search")
	flag.StringVar(&opts.MetricName, "metric", opts.MetricName, "candidate ranking: least_orbits, biggest_orbit or sparsity")
	flag.StringVar(&opts.SolverName, "solver", opts.SolverName, "SAT backend: kissat or gophersat")
	flag.IntVar(&opts.NumJobs, "jobs", opts.NumJobs, "how many candidates to solve concurrently")
	flag.StringVar(&opts.DbPathName, "db", opts.DbPathName, "verdict catalog db path; empty disables the catalog")
	flag.IntVar(&opts.NumVerts, "n", opts.NumVerts, "graph size for formats that don't carry one (.csv)")
	flag.IntVar(&opts.StatsLevel, "stats", opts.StatsLevel, "statistics level: 0 none, 1 run totals, 2 per candidate")
	flag.StringVar(&opts.DreadnautPath, "dreadnaut", opts.DreadnautPath, "pathname of the dreadnaut binary")
	flag.StringVar(&opts.KissatPath, "kissat", opts.KissatPath, "pathname of the kissat binary")

	flag.Parse()

	pathname := flag.Arg(0)
	if !opts.ReadPipe && (pathname == "" || strings.HasSuffix(pathname, ".py")) {
		go_gpython(pathname)
	} else {
		opts.GraphPath = pathname
		if err := runDriver(opts); err != nil {
			klog.Errorf("%v", err)
			klog.Flush()
			os.Exit(1)
		}
	}

	klog.Flush()
}
