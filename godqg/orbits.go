package godqg

import (
	"strconv"
	"strings"
)

// FoldGenerators merges the orbits of every generator in gens into a single
// orbit partition on numVerts vertices. Each vertex maps to the smallest
// vertex of its orbit.
func FoldGenerators(numVerts int, gens Generators) Orbits {
	orbits := make(Orbits, numVerts)
	for v := range orbits {
		orbits[v] = VtxIndex(v)
	}
	for _, perm := range gens {
		for v, img := range perm {
			orbits.join(VtxIndex(v), img)
		}
	}
	for v := range orbits {
		orbits[v] = orbits.find(VtxIndex(v))
	}
	return orbits
}

func (orbits Orbits) find(v VtxIndex) VtxIndex {
	for orbits[v] != v {
		v = orbits[v]
	}
	return v
}

// join merges the orbits of v and w, keeping the smaller root.
func (orbits Orbits) join(v, w VtxIndex) {
	rv, rw := orbits.find(v), orbits.find(w)
	if rv == rw {
		return
	}
	if rv > rw {
		rv, rw = rw, rv
	}
	orbits[rw] = rv
}

// NumOrbits counts the cells of the partition.
func (orbits Orbits) NumOrbits() int {
	n := 0
	for v, rep := range orbits {
		if VtxIndex(v) == rep {
			n++
		}
	}
	return n
}

// Members returns the vertices of each orbit, cells ordered by their
// smallest vertex, vertices ascending within a cell.
func (orbits Orbits) Members() [][]VtxIndex {
	cells := make([][]VtxIndex, 0, orbits.NumOrbits())
	index := make(map[VtxIndex]int, len(orbits))
	for v, rep := range orbits {
		ci, ok := index[rep]
		if !ok {
			ci = len(cells)
			index[rep] = ci
			cells = append(cells, nil)
		}
		cells[ci] = append(cells[ci], VtxIndex(v))
	}
	return cells
}

// String renders the partition the way nauty prints orbits: cells separated
// by "; ", runs of consecutive vertices collapsed to "a:b".
func (orbits Orbits) String() string {
	var b strings.Builder
	for ci, cell := range orbits.Members() {
		if ci > 0 {
			b.WriteString("; ")
		}
		for i := 0; i < len(cell); {
			j := i
			for j+1 < len(cell) && cell[j+1] == cell[j]+1 {
				j++
			}
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.Itoa(int(cell[i])))
			if j > i+1 {
				b.WriteByte(':')
				b.WriteString(strconv.Itoa(int(cell[j])))
			} else if j == i+1 {
				b.WriteByte(' ')
				b.WriteString(strconv.Itoa(int(cell[j])))
			}
			i = j + 1
		}
	}
	return b.String()
}

// AppendKey appends a canonical byte encoding of the partition to in,
// suitable for ordering and for catalog keys.
func (orbits Orbits) AppendKey(in []byte) []byte {
	key := in
	key = appendVarint(key, uint64(len(orbits)))
	for _, rep := range orbits {
		key = appendVarint(key, uint64(rep))
	}
	return key
}

// CompareTo orders two partitions on the same vertex set: fewer cells
// first, then lexicographic on the representative map.
func (orbits Orbits) CompareTo(oth Orbits) int {
	if d := orbits.NumOrbits() - oth.NumOrbits(); d != 0 {
		return d
	}
	if d := len(orbits) - len(oth); d != 0 {
		return d
	}
	for v := range orbits {
		if d := int(orbits[v]) - int(oth[v]); d != 0 {
			return d
		}
	}
	return 0
}

func appendVarint(buf []byte, x uint64) []byte {
	for x >= 0x80 {
		buf = append(buf, byte(x)|0x80)
		x >>= 7
	}
	return append(buf, byte(x))
}
