package sat

import (
	"github.com/pkg/errors"

	"github.com/dqg-systems/dqg/godqg"
)

// NewSolver maps a command line backend name to a Solver.
// kissatPath overrides where the kissat binary is found.
func NewSolver(name, kissatPath string) (godqg.Solver, error) {
	switch name {
	case "", "kissat":
		return &Kissat{Path: kissatPath}, nil
	case "gophersat":
		return &Gophersat{}, nil
	}
	return nil, errors.Errorf("unknown solver %q", name)
}
