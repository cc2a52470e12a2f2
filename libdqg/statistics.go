package libdqg

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dqg-systems/dqg/godqg"
)

// StatsLevel controls how much of a run is reported and saved.
type StatsLevel int32

const (
	StatsNone  StatsLevel = iota
	StatsBasic            // run totals only
	StatsFull             // totals plus one row per candidate
)

// QuotientStats records one candidate's outcome.
type QuotientStats struct {
	NumOrbits     int
	BiggestOrbit  int
	QuotientEdges int
	Trivial       bool // no solver call was needed
	FromCache     bool // verdict came from the catalog
	Verdict       godqg.Verdict
	SolveTime     time.Duration
	Orbits        godqg.Orbits
	Err           string // non-empty when encode or solve failed
}

// Statistics accumulates a whole run; safe for concurrent workers.
type Statistics struct {
	GraphPath string
	NumVerts  int
	NumEdges  int
	Mode      godqg.GroupMode
	NumGens   int
	GroupTime time.Duration
	TotalTime time.Duration

	mu                sync.Mutex
	numCandidates     int
	numDescriptive    int
	numNonDescriptive int
	numUnknown        int
	numCacheHits      int
	candidates        []QuotientStats
}

// AddCandidate folds one candidate outcome into the totals. Per-candidate
// rows are only retained when keepRows is set.
func (stats *Statistics) AddCandidate(qs QuotientStats, keepRows bool) {
	stats.mu.Lock()
	defer stats.mu.Unlock()

	stats.numCandidates++
	switch qs.Verdict {
	case godqg.Descriptive:
		stats.numDescriptive++
	case godqg.NonDescriptive:
		stats.numNonDescriptive++
	default:
		stats.numUnknown++
	}
	if qs.FromCache {
		stats.numCacheHits++
	}
	if keepRows {
		stats.candidates = append(stats.candidates, qs)
	}
}

func (stats *Statistics) NumDescriptive() int {
	stats.mu.Lock()
	defer stats.mu.Unlock()
	return stats.numDescriptive
}

func (stats *Statistics) NumCandidates() int {
	stats.mu.Lock()
	defer stats.mu.Unlock()
	return stats.numCandidates
}

// WriteReport emits the run report at the given level.
func (stats *Statistics) WriteReport(out io.Writer, level StatsLevel) error {
	if level == StatsNone {
		return nil
	}
	stats.mu.Lock()
	defer stats.mu.Unlock()

	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "graph:             %s\n", stats.GraphPath)
	fmt.Fprintf(w, "vertices:          %d\n", stats.NumVerts)
	fmt.Fprintf(w, "edges:             %d\n", stats.NumEdges)
	fmt.Fprintf(w, "group engine:      %v\n", stats.Mode)
	fmt.Fprintf(w, "generators:        %d\n", stats.NumGens)
	fmt.Fprintf(w, "group time:        %v\n", stats.GroupTime)
	fmt.Fprintf(w, "candidates:        %d\n", stats.numCandidates)
	fmt.Fprintf(w, "descriptive:       %d\n", stats.numDescriptive)
	fmt.Fprintf(w, "non-descriptive:   %d\n", stats.numNonDescriptive)
	fmt.Fprintf(w, "unknown:           %d\n", stats.numUnknown)
	fmt.Fprintf(w, "catalog hits:      %d\n", stats.numCacheHits)
	fmt.Fprintf(w, "total time:        %v\n", stats.TotalTime)

	if level >= StatsFull {
		fmt.Fprintf(w, "\n%-8s %-8s %-8s %-8s %-12s %s\n",
			"orbits", "biggest", "edges", "solve", "verdict", "partition")
		for _, qs := range stats.candidates {
			src := qs.SolveTime.String()
			if qs.Trivial {
				src = "trivial"
			} else if qs.FromCache {
				src = "cached"
			} else if qs.Err != "" {
				src = "error"
			}
			fmt.Fprintf(w, "%-8d %-8d %-8d %-8s %-12v %s\n",
				qs.NumOrbits, qs.BiggestOrbit, qs.QuotientEdges,
				src, qs.Verdict, qs.Orbits)
		}
	}
	return w.Flush()
}

// SaveReport writes the report next to the graph file, with a ".dqg"
// extension appended.
func (stats *Statistics) SaveReport(level StatsLevel) (string, error) {
	if level == StatsNone || stats.GraphPath == "" {
		return "", nil
	}
	pathname := stats.GraphPath + ".dqg"
	file, err := os.Create(pathname)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := stats.WriteReport(file, level); err != nil {
		return "", err
	}
	return pathname, nil
}
