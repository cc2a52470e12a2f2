package sat

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/dqg-systems/dqg/godqg"
)

// Kissat exit codes per the SAT competition convention.
const (
	exitSat   = 10
	exitUnsat = 20
)

// Kissat drives an external kissat binary over stdin / stdout.
type Kissat struct {

	// Pathname of the kissat executable ("kissat" when empty).
	Path string
}

func (s *Kissat) Name() string {
	return "kissat"
}

func (s *Kissat) Solve(ctx context.Context, cnf godqg.Formula, numVars int) (bool, []bool, error) {
	pathname := s.Path
	if pathname == "" {
		pathname = "kissat"
	}

	var stdin bytes.Buffer
	if err := WriteDIMACS(&stdin, cnf, numVars); err != nil {
		return false, nil, err
	}

	cmd := exec.CommandContext(ctx, pathname, "-q")
	cmd.Stdin = &stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if exitErr, ok := err.(*exec.ExitError); ok {
		switch exitErr.ExitCode() {
		case exitSat:
			model, err := parseModelLines(stdout.String(), numVars)
			if err != nil {
				return false, nil, err
			}
			return true, model, nil
		case exitUnsat:
			return false, nil, nil
		}
	}
	if err != nil {
		if stderr.Len() > 0 {
			return false, nil, errors.Wrapf(err, "kissat: %s", strings.TrimSpace(stderr.String()))
		}
		return false, nil, errors.Wrap(err, "kissat")
	}

	// Exit 0 means kissat never reached a verdict.
	return false, nil, errors.Wrap(godqg.ErrSolverOutput, "kissat exited without a verdict")
}
