package sat

import (
	"context"

	"github.com/crillab/gophersat/solver"
	"github.com/pkg/errors"

	"github.com/dqg-systems/dqg/godqg"
)

// Gophersat solves in-process, so runs and tests need no external binary.
type Gophersat struct{}

func (s *Gophersat) Name() string {
	return "gophersat"
}

func (s *Gophersat) Solve(ctx context.Context, cnf godqg.Formula, numVars int) (bool, []bool, error) {
	clauses := make([][]int, len(cnf))
	for ci, clause := range cnf {
		lits := make([]int, len(clause))
		for li, lit := range clause {
			lits[li] = int(lit)
		}
		clauses[ci] = lits
	}

	if err := ctx.Err(); err != nil {
		return false, nil, err
	}

	pb := solver.ParseSlice(clauses)
	slv := solver.New(pb)
	status := slv.Solve()

	switch status {
	case solver.Sat:
		model := slv.Model()
		if len(model) > numVars {
			model = model[:numVars]
		}
		return true, model, nil
	case solver.Unsat:
		return false, nil, nil
	}
	if err := ctx.Err(); err != nil {
		return false, nil, err
	}
	return false, nil, errors.Wrap(godqg.ErrSolverOutput, "gophersat gave no verdict")
}
