package libdqg

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/dqg-systems/dqg/godqg"
)

// GroupOpts selects how the automorphism group of a Graph is computed.
type GroupOpts struct {

	// Backend algorithm to run.
	Mode godqg.GroupMode

	// Pathname of the dreadnaut executable ("dreadnaut" when empty).
	DreadnautPath string
}

// PickGroupMode chooses a backend for g: Traces when the graph file asked
// for it, otherwise sparse nauty for sparse graphs and dense nauty for the
// rest.
func PickGroupMode(g *Graph, wantsTraces bool) godqg.GroupMode {
	switch {
	case wantsTraces:
		return godqg.Traces
	case g.IsSparse():
		return godqg.NautySparse
	default:
		return godqg.NautyDense
	}
}

// ComputeGenerators runs dreadnaut on g and returns the automorphism group
// generators it reports. The empty generator set means g is rigid.
func ComputeGenerators(ctx context.Context, g *Graph, opts GroupOpts) (godqg.Generators, error) {
	out, err := runDreadnaut(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	return parseGenerators(out, g.NumVerts())
}

func runDreadnaut(ctx context.Context, g *Graph, opts GroupOpts) ([]byte, error) {
	pathname := opts.DreadnautPath
	if pathname == "" {
		pathname = "dreadnaut"
	}

	var stdin bytes.Buffer
	switch opts.Mode {
	case godqg.Traces:
		stdin.WriteString("At\n")
	case godqg.NautySparse:
		stdin.WriteString("As\n")
	default:
		stdin.WriteString("An\n")
	}
	stdin.WriteString("-a\n-m\n")
	if err := g.WriteDreadnaut(&stdin); err != nil {
		return nil, err
	}
	stdin.WriteString("+a\nx\nq\n")

	cmd := exec.CommandContext(ctx, pathname)
	cmd.Stdin = &stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, errors.Wrapf(err, "dreadnaut: %s", strings.TrimSpace(stderr.String()))
		}
		return nil, errors.Wrap(err, "dreadnaut")
	}
	return stdout.Bytes(), nil
}

// isCycleTail reports whether a wrapped line holds only cycle-notation text:
// vertex numbers, parens, and spaces. Wrapped lines need not contain a paren
// at all when the break falls inside a long cycle.
func isCycleTail(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '(' && r != ')' && r != ' ' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// parseGenerators extracts cycle-notation generator lines from dreadnaut
// output. A generator starts with '(' in the first column; indented lines
// continue the previous one.
func parseGenerators(out []byte, numVerts int) (godqg.Generators, error) {
	var gens godqg.Generators
	var cur strings.Builder

	flush := func() error {
		if cur.Len() == 0 {
			return nil
		}
		perm, err := godqg.ParsePermCycles(cur.String(), numVerts)
		if err != nil {
			return errors.Wrapf(err, "bad generator %q", cur.String())
		}
		gens = append(gens, perm)
		cur.Reset()
		return nil
	}

	for _, line := range strings.Split(string(out), "\n") {
		switch {
		case strings.HasPrefix(line, "("):
			if err := flush(); err != nil {
				return nil, err
			}
			cur.WriteString(line)
		case cur.Len() > 0 && strings.HasPrefix(line, " ") && isCycleTail(line):
			// dreadnaut wraps long generators mid-cycle, so the break can
			// fall between two vertex numbers.
			cur.WriteByte(' ')
			cur.WriteString(strings.TrimSpace(line))
		default:
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return gens, nil
}
