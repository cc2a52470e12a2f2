// Package sat hosts the solver backends that decide quotient candidates.
package sat

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/dqg-systems/dqg/godqg"
)

// WriteDIMACS emits cnf in DIMACS CNF format.
func WriteDIMACS(out io.Writer, cnf godqg.Formula, numVars int) error {
	w := bufio.NewWriter(out)

	w.WriteString("p cnf ")
	w.WriteString(strconv.Itoa(numVars))
	w.WriteByte(' ')
	w.WriteString(strconv.Itoa(len(cnf)))
	w.WriteByte('\n')

	for _, clause := range cnf {
		for _, lit := range clause {
			w.WriteString(strconv.Itoa(int(lit)))
			w.WriteByte(' ')
		}
		w.WriteString("0\n")
	}
	return w.Flush()
}

// parseModelLines reads the "v " value lines of a solver's output into a
// model indexed by variable-1. The listing ends with literal 0.
func parseModelLines(out string, numVars int) ([]bool, error) {
	model := make([]bool, numVars)

	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "v ") && line != "v" {
			continue
		}
		for _, field := range strings.Fields(line[1:]) {
			lit, err := strconv.Atoi(field)
			if err != nil {
				return nil, errors.Wrapf(godqg.ErrSolverOutput, "bad model literal %q", field)
			}
			if lit == 0 {
				return model, nil
			}
			v := lit
			if v < 0 {
				v = -v
			}
			if v <= numVars {
				model[v-1] = lit > 0
			}
		}
	}
	return nil, errors.Wrap(godqg.ErrSolverOutput, "model listing not terminated")
}
