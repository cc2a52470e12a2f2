package godqg

import (
	"context"
)

const (
	// MaxLit is the largest CNF variable the solver bridge will issue.
	// Kissat rejects variables at or above 2^28.
	MaxLit Lit = 1<<28 - 1

	// DefaultColour is the colour of every vertex that no colouring line mentions.
	DefaultColour Colour = 0
)

// VtxIndex is a zero-based vertex index, matching nauty's convention.
type VtxIndex = int32

// Colour is a vertex colour class used to seed the initial partition.
type Colour = int32

// Perm is a permutation of 0..n-1 in one-line form: Perm[v] is the image of v.
type Perm []VtxIndex

// Generators is a set of automorphism group generators as returned by the bridge.
type Generators []Perm

// Orbits maps each vertex to the minimal vertex index of its orbit.
//
// Invariants: Orbits[v] <= v and Orbits[Orbits[v]] == Orbits[v].
type Orbits []VtxIndex

// Lit is a CNF literal: a one-based variable index, negative when negated.
type Lit int32

// Clause is a disjunction of literals.
type Clause []Lit

// Formula is a CNF formula: a conjunction of clauses.
type Formula []Clause

// Verdict is the descriptiveness result for one quotient candidate.
type Verdict int8

const (
	VerdictUnknown Verdict = iota
	NonDescriptive
	Descriptive
)

func (v Verdict) String() string {
	switch v {
	case Descriptive:
		return "descriptive"
	case NonDescriptive:
		return "NOT descriptive"
	}
	return "unknown"
}

// GroupMode selects which automorphism engine the bridge drives.
type GroupMode int32

const (
	NautyDense GroupMode = iota
	NautySparse
	Traces
)

func (m GroupMode) String() string {
	switch m {
	case NautySparse:
		return "sparse nauty"
	case Traces:
		return "Traces"
	}
	return "dense nauty"
}

// Solver decides satisfiability of a CNF formula.
// A satisfiable formula means the quotient candidate is descriptive.
type Solver interface {
	Name() string

	// Solve returns whether cnf is satisfiable and, when it is, a model
	// with model[i] holding the value of variable i+1. Solvers may return
	// a nil model even when sat.
	Solve(ctx context.Context, cnf Formula, numVars int) (sat bool, model []bool, err error)
}

// CatalogContext is a container for open / active Catalog instances.
type CatalogContext interface {

	// Attaches the given Catalog to this context.
	AttachCatalog(cat Catalog)

	// Detaches the given Catalog from this context.
	DetachCatalog(cat Catalog)

	// Signals that this context has started closing.
	Closing() <-chan struct{}

	// Closes all open catalogs then closes this context.
	Close()

	// Signals when Close() completed and all open Catalogs have been closed.
	Done() <-chan struct{}
}

// CatalogOpts specifies params for opening a verdict catalog.
type CatalogOpts struct {
	DbPathName string // omit for an in-memory db
	ReadOnly   bool   // open in read-only mode
}

// Catalog persists descriptiveness verdicts keyed by a candidate fingerprint,
// letting repeat runs and duplicate candidates skip SAT solving entirely.
type Catalog interface {

	// Returns the verdict stored under the given candidate key, if any.
	LookupVerdict(key []byte) (Verdict, bool)

	// Stores a verdict under the given candidate key.
	// Returns true if the key was not present before.
	TryAddVerdict(key []byte, verdict Verdict) bool

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	// NumVerdicts returns how many verdicts this catalog holds per Verdict value.
	NumVerdicts(of Verdict) int64

	Close() error
}

// PrintOpts specifies what is emitted when printing a quotient candidate.
type PrintOpts struct {
	Label    string // prefix label
	Orbits   bool   // if set, prints the orbit partition nauty-style
	Quotient bool   // if set, prints the quotient graph edge list
	Timings  bool   // if set, appends per-stage timings
}

// DefaultPrintOpts prints the verdict line only.
var DefaultPrintOpts = PrintOpts{}
