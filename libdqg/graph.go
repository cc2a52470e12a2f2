package libdqg

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/dqg-systems/dqg/godqg"
)

// Graph is a vertex-coloured graph over vertices 0..n-1 stored as adjacency lists.
// Undirected edges are stored as two arcs.
type Graph struct {
	colours []godqg.Colour
	arcs    [][]godqg.VtxIndex
	normal  bool // arc lists sorted and deduped
}

func NewGraph(numVerts int) *Graph {
	return &Graph{
		colours: make([]godqg.Colour, numVerts),
		arcs:    make([][]godqg.VtxIndex, numVerts),
		normal:  true,
	}
}

func (X *Graph) NumVerts() int {
	return len(X.arcs)
}

// NumArcs counts stored arcs; an undirected edge counts twice.
func (X *Graph) NumArcs() int {
	total := 0
	for _, out := range X.arcs {
		total += len(out)
	}
	return total
}

func (X *Graph) AddArc(start, end godqg.VtxIndex) error {
	n := godqg.VtxIndex(len(X.arcs))
	if start < 0 || start >= n || end < 0 || end >= n {
		return godqg.ErrBadVtxIndex
	}
	X.arcs[start] = append(X.arcs[start], end)
	X.normal = false
	return nil
}

func (X *Graph) AddEdge(start, end godqg.VtxIndex) error {
	if err := X.AddArc(start, end); err != nil {
		return err
	}
	return X.AddArc(end, start)
}

// SetColours assigns a colour to every vertex; len(colours) must match.
func (X *Graph) SetColours(colours []godqg.Colour) error {
	if len(colours) != len(X.colours) {
		return godqg.ErrBadColouring
	}
	copy(X.colours, colours)
	return nil
}

func (X *Graph) Colour(v godqg.VtxIndex) godqg.Colour {
	return X.colours[v]
}

// Minimize sorts each arc list and removes duplicate arcs.
func (X *Graph) Minimize() {
	if X.normal {
		return
	}
	for vi, out := range X.arcs {
		sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
		w := 0
		for i, end := range out {
			if i == 0 || end != out[i-1] {
				out[w] = end
				w++
			}
		}
		X.arcs[vi] = out[:w]
	}
	X.normal = true
}

// HasEdge reports whether the arc (start, end) is present.
func (X *Graph) HasEdge(start, end godqg.VtxIndex) bool {
	if start < 0 || int(start) >= len(X.arcs) {
		return false
	}
	out := X.arcs[start]
	if X.normal {
		i := sort.Search(len(out), func(i int) bool { return out[i] >= end })
		return i < len(out) && out[i] == end
	}
	for _, e := range out {
		if e == end {
			return true
		}
	}
	return false
}

// IterateEdges calls f once per stored arc, in vertex order.
func (X *Graph) IterateEdges(f func(start, end godqg.VtxIndex)) {
	for vi, out := range X.arcs {
		for _, end := range out {
			f(godqg.VtxIndex(vi), end)
		}
	}
}

// IsSparse decides whether the sparse nauty representation is worthwhile.
func (X *Graph) IsSparse() bool {
	n := len(X.arcs)
	if n < 4 {
		return false
	}
	return X.NumArcs()*10 <= n*n
}

// ColourClasses groups vertices by colour, classes ordered by colour value.
// Vertices of DefaultColour form the last class, matching dreadnaut's
// "unmentioned vertices" convention.
func (X *Graph) ColourClasses() [][]godqg.VtxIndex {
	byColour := make(map[godqg.Colour][]godqg.VtxIndex)
	for vi, c := range X.colours {
		byColour[c] = append(byColour[c], godqg.VtxIndex(vi))
	}

	colours := make([]godqg.Colour, 0, len(byColour))
	for c := range byColour {
		colours = append(colours, c)
	}
	sort.Slice(colours, func(i, j int) bool {
		ci, cj := colours[i], colours[j]
		if ci == godqg.DefaultColour {
			return false
		}
		if cj == godqg.DefaultColour {
			return true
		}
		return ci < cj
	})

	classes := make([][]godqg.VtxIndex, len(colours))
	for i, c := range colours {
		classes[i] = byColour[c]
	}
	return classes
}

// IsColoured reports whether any vertex deviates from DefaultColour.
func (X *Graph) IsColoured() bool {
	for _, c := range X.colours {
		if c != godqg.DefaultColour {
			return true
		}
	}
	return false
}

// AppendFingerprint appends a canonical byte encoding of X to in: vertex
// count, then colours, then the normalized arc lists. Two equal graphs
// always produce the same bytes.
func (X *Graph) AppendFingerprint(in []byte) []byte {
	X.Minimize()
	buf := in
	buf = binary.AppendUvarint(buf, uint64(len(X.arcs)))
	for _, c := range X.colours {
		buf = binary.AppendUvarint(buf, uint64(c))
	}
	for _, out := range X.arcs {
		buf = binary.AppendUvarint(buf, uint64(len(out)))
		for _, end := range out {
			buf = binary.AppendUvarint(buf, uint64(end))
		}
	}
	return buf
}

// WriteDreadnaut emits X in dreadnaut syntax, the same dialect the
// graph reader accepts and the bridge feeds to the dreadnaut binary.
func (X *Graph) WriteDreadnaut(out io.Writer) error {
	n := len(X.arcs)
	if _, err := fmt.Fprintf(out, "n=%d g\n", n); err != nil {
		return err
	}

	// Emit each arc once, from its lower endpoint; the last row gets the
	// '.' terminator that ends dreadnaut edge input.
	var rows []string
	for vi, arcs := range X.arcs {
		row := ""
		for _, end := range arcs {
			if int(end) < vi {
				continue
			}
			if row == "" {
				row = fmt.Sprintf("%d:", vi)
			}
			row += fmt.Sprintf(" %d", end)
		}
		if row != "" {
			rows = append(rows, row)
		}
	}
	for ri, row := range rows {
		term := " ;"
		if ri == len(rows)-1 {
			term = " ."
		}
		if _, err := fmt.Fprintf(out, "%s%s\n", row, term); err != nil {
			return err
		}
	}
	if len(rows) == 0 {
		if _, err := fmt.Fprint(out, ".\n"); err != nil {
			return err
		}
	}

	if X.IsColoured() {
		fmt.Fprint(out, "f=[")
		for ci, class := range X.ColourClasses() {
			if ci > 0 {
				fmt.Fprint(out, "|")
			}
			for i, v := range class {
				if i > 0 {
					fmt.Fprint(out, ",")
				}
				fmt.Fprintf(out, "%d", v)
			}
		}
		fmt.Fprint(out, "]\n")
	}
	return nil
}
