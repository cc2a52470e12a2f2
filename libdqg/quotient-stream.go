package libdqg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/plan-systems/klog"

	"github.com/dqg-systems/dqg/godqg"
)

// Candidate is one quotient working its way through the pipeline.
type Candidate struct {
	Q         *Quotient
	Key       []byte // graph fingerprint + partition encoding
	Verdict   godqg.Verdict
	Trivial   bool        // descriptive with no solver call
	FromCache bool        // verdict came from the catalog
	Witness   Transversal // consistent picks, when the solver found one
	SolveTime time.Duration
	Err       error // encode or solve failure; verdict stays unknown
}

// QuotientStream is a pipeline of Candidates; each stage consumes its
// receiver and returns the next stream.
type QuotientStream struct {
	Outlet chan *Candidate
}

func NewQuotientStream() *QuotientStream {
	return &QuotientStream{
		Outlet: make(chan *Candidate, 1),
	}
}

func (stream *QuotientStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

// Build folds each incoming partition into its quotient of X and stamps
// the candidate's catalog key.
func (orbits *OrbitStream) Build(X *Graph) *QuotientStream {
	next := NewQuotientStream()

	fingerprint := X.AppendFingerprint(nil)

	go func() {
		for partition := range orbits.Outlet {
			q := BuildQuotient(X, partition)
			key := append([]byte{}, fingerprint...)
			next.Outlet <- &Candidate{
				Q:   q,
				Key: partition.AppendKey(key),
			}
		}
		next.Close()
	}()

	return next
}

// Dedupe drops candidates whose partition was already seen this run.
// Heuristic sources routinely fold distinct generator subsets onto the
// same partition.
func (stream *QuotientStream) Dedupe() *QuotientStream {
	next := NewQuotientStream()

	go func() {
		seen := redblacktree.Tree{
			Comparator: func(A, B interface{}) int {
				return bytes.Compare(A.([]byte), B.([]byte))
			},
		}

		for cand := range stream.Outlet {
			if _, found := seen.Get(cand.Key); found {
				continue
			}
			seen.Put(cand.Key, nil)
			next.Outlet <- cand
		}
		next.Close()
	}()

	return next
}

// SortBy drains the stream, ranks the candidates by metric, then re-emits
// them best first.
func (stream *QuotientStream) SortBy(metric Metric) *QuotientStream {
	next := NewQuotientStream()

	go func() {
		var all []*Candidate
		for cand := range stream.Outlet {
			all = append(all, cand)
		}
		sort.SliceStable(all, func(i, j int) bool {
			return metric.Less(all[i].Q, all[j].Q)
		})
		for _, cand := range all {
			next.Outlet <- cand
		}
		next.Close()
	}()

	return next
}

// LookupCatalog stamps candidates whose verdict is already on record.
func (stream *QuotientStream) LookupCatalog(cat godqg.Catalog) *QuotientStream {
	if cat == nil {
		return stream
	}
	next := NewQuotientStream()

	go func() {
		for cand := range stream.Outlet {
			if verdict, found := cat.LookupVerdict(cand.Key); found {
				cand.Verdict = verdict
				cand.FromCache = true
			}
			next.Outlet <- cand
		}
		next.Close()
	}()

	return next
}

// Solve decides each undecided candidate: encode, then hand the CNF to the
// solver. numJobs > 1 fans the work out over that many workers; candidate
// order is not preserved across workers.
func (stream *QuotientStream) Solve(
	ctx context.Context,
	X *Graph,
	solver godqg.Solver,
	numJobs int,
) *QuotientStream {

	next := NewQuotientStream()
	if numJobs < 1 {
		numJobs = 1
	}

	var wg sync.WaitGroup
	wg.Add(numJobs)
	for ji := 0; ji < numJobs; ji++ {
		go func() {
			defer wg.Done()
			for cand := range stream.Outlet {
				if cand.Verdict == godqg.VerdictUnknown {
					if err := cand.decide(ctx, X, solver); err != nil {
						if ctx.Err() != nil {
							return
						}
						// a failed candidate stays unknown but still
						// flows downstream so stats count it.
						cand.Err = err
						klog.Errorf("candidate %v failed: %v", cand.Q.Orbits, err)
					}
				}
				select {
				case next.Outlet <- cand:
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		// on cancellation the workers bail early; drain so upstream
		// stages can finish their sends and close.
		for range stream.Outlet {
		}
		next.Close()
	}()

	return next
}

func (cand *Candidate) decide(ctx context.Context, X *Graph, solver godqg.Solver) error {
	problem, err := EncodeProblem(X, cand.Q)
	if err != nil {
		return err
	}
	if problem.Trivial {
		cand.Verdict = godqg.Descriptive
		cand.Trivial = true
		return nil
	}

	started := time.Now()
	sat, model, err := solver.Solve(ctx, problem.CNF, problem.NumVars)
	cand.SolveTime = time.Since(started)
	if err != nil {
		return err
	}

	if !sat {
		cand.Verdict = godqg.NonDescriptive
		return nil
	}
	cand.Verdict = godqg.Descriptive
	if model != nil {
		cand.Witness, err = problem.TransversalFromModel(model)
	}
	return err
}

// Validate cross-checks each verdict against a direct backtracking search
// and re-checks any witness the solver produced. Mismatches are logged and
// the candidate's verdict wins out; this stage is for catching encoder or
// solver regressions, not for production runs.
func (stream *QuotientStream) Validate(X *Graph) *QuotientStream {
	next := NewQuotientStream()

	go func() {
		for cand := range stream.Outlet {
			if cand.Witness != nil && !CheckTransversal(X, cand.Q, cand.Witness) {
				klog.Errorf("witness for %v is not consistent", cand.Q.Orbits)
			}
			_, found := SearchTransversal(X, cand.Q)
			if found != (cand.Verdict == godqg.Descriptive) {
				klog.Errorf("verdict %v for %v disagrees with direct search", cand.Verdict, cand.Q.Orbits)
			}
			next.Outlet <- cand
		}
		next.Close()
	}()

	return next
}

// RecordTo stores fresh verdicts in the catalog as they pass by.
func (stream *QuotientStream) RecordTo(cat godqg.Catalog) *QuotientStream {
	if cat == nil || cat.IsReadOnly() {
		return stream
	}
	next := NewQuotientStream()

	go func() {
		for cand := range stream.Outlet {
			if cand.Verdict != godqg.VerdictUnknown && !cand.FromCache {
				cat.TryAddVerdict(cand.Key, cand.Verdict)
			}
			next.Outlet <- cand
		}
		next.Close()
	}()

	return next
}

// RecordStats folds each candidate into stats.
func (stream *QuotientStream) RecordStats(stats *Statistics, level StatsLevel) *QuotientStream {
	next := NewQuotientStream()

	go func() {
		for cand := range stream.Outlet {
			qs := QuotientStats{
				NumOrbits:     len(cand.Q.Members),
				BiggestOrbit:  cand.Q.BiggestOrbit(),
				QuotientEdges: cand.Q.Sparsity(),
				Trivial:       cand.Trivial,
				FromCache:     cand.FromCache,
				Verdict:       cand.Verdict,
				SolveTime:     cand.SolveTime,
				Orbits:        cand.Q.Orbits,
			}
			if cand.Err != nil {
				qs.Err = cand.Err.Error()
			}
			stats.AddCandidate(qs, level >= StatsFull)
			next.Outlet <- cand
		}
		next.Close()
	}()

	return next
}

// Print writes one line per candidate, plus whatever opts asks for.
func (stream *QuotientStream) Print(out io.Writer, opts godqg.PrintOpts) *QuotientStream {
	next := NewQuotientStream()

	go func() {
		buf := strings.Builder{}
		buf.Grow(256)

		count := 0
		for cand := range stream.Outlet {
			count++
			if len(opts.Label) > 0 {
				buf.WriteString(opts.Label)
				buf.WriteByte(',')
			}
			fmt.Fprintf(&buf, "%06d: %d orbits, %v", count, len(cand.Q.Members), cand.Verdict)
			switch {
			case cand.Trivial:
				buf.WriteString(" (trivial)")
			case cand.FromCache:
				buf.WriteString(" (cached)")
			case opts.Timings && cand.SolveTime > 0:
				fmt.Fprintf(&buf, " (%v)", cand.SolveTime)
			}
			buf.WriteByte('\n')

			if opts.Orbits {
				fmt.Fprintf(&buf, "    orbits: %v\n", cand.Q.Orbits)
			}
			if opts.Quotient {
				buf.WriteString("    quotient:")
				cand.Q.Graph.IterateEdges(func(o1, o2 godqg.VtxIndex) {
					if o1 < o2 {
						fmt.Fprintf(&buf, " %d-%d", o1, o2)
					}
				})
				buf.WriteByte('\n')
			}
			if cand.Witness != nil && opts.Orbits {
				fmt.Fprintf(&buf, "    witness: %v\n", []godqg.VtxIndex(cand.Witness))
			}

			out.Write([]byte(buf.String()))
			buf.Reset()
			next.Outlet <- cand
		}
		next.Close()
	}()

	return next
}

// PullAll drains the stream and returns how many candidates passed through.
func (stream *QuotientStream) PullAll() int {
	count := 0
	for range stream.Outlet {
		count++
	}
	return count
}

// PullBest drains the stream and returns the best descriptive candidate
// under metric, or nil when none was descriptive.
func (stream *QuotientStream) PullBest(metric Metric) *Candidate {
	var best *Candidate
	for cand := range stream.Outlet {
		if cand.Verdict != godqg.Descriptive {
			continue
		}
		if best == nil || metric.Less(cand.Q, best.Q) {
			best = cand
		}
	}
	return best
}
