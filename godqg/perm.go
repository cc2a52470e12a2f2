package godqg

import (
	"strconv"
	"strings"
)

// IdentityPerm returns the identity permutation on n vertices.
func IdentityPerm(n int) Perm {
	perm := make(Perm, n)
	for i := range perm {
		perm[i] = VtxIndex(i)
	}
	return perm
}

// Validate checks that perm is a bijection on 0..len(perm)-1.
func (perm Perm) Validate() error {
	seen := make([]bool, len(perm))
	for _, img := range perm {
		if img < 0 || int(img) >= len(perm) || seen[img] {
			return ErrBadPerm
		}
		seen[img] = true
	}
	return nil
}

func (perm Perm) IsIdentity() bool {
	for v, img := range perm {
		if VtxIndex(v) != img {
			return false
		}
	}
	return true
}

// Cycles decomposes perm into its nontrivial cycles, each cycle led by its
// smallest element, cycles ordered by leading element.
func (perm Perm) Cycles() [][]VtxIndex {
	var cycles [][]VtxIndex
	seen := make([]bool, len(perm))

	for v := range perm {
		if seen[v] || perm[v] == VtxIndex(v) {
			seen[v] = true
			continue
		}
		var cycle []VtxIndex
		for w := VtxIndex(v); !seen[w]; w = perm[w] {
			seen[w] = true
			cycle = append(cycle, w)
		}
		cycles = append(cycles, cycle)
	}
	return cycles
}

// Compose returns the permutation applying perm first, then next:
// result[v] = next[perm[v]].
func (perm Perm) Compose(next Perm) (Perm, error) {
	if len(perm) != len(next) {
		return nil, ErrBadPerm
	}
	out := make(Perm, len(perm))
	for v, img := range perm {
		out[v] = next[img]
	}
	return out, nil
}

// Power returns perm applied n times; n == 0 yields the identity.
func (perm Perm) Power(n int) Perm {
	out := IdentityPerm(len(perm))
	for ; n > 0; n-- {
		out, _ = out.Compose(perm)
	}
	return out
}

// Order returns the order of perm in the symmetric group.
func (perm Perm) Order() int {
	order := 1
	p := perm
	for !p.IsIdentity() {
		p, _ = p.Compose(perm)
		order++
	}
	return order
}

// String renders perm in cycle notation, "()" for the identity.
func (perm Perm) String() string {
	cycles := perm.Cycles()
	if len(cycles) == 0 {
		return "()"
	}
	var b strings.Builder
	for _, cycle := range cycles {
		b.WriteByte('(')
		for i, v := range cycle {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.Itoa(int(v)))
		}
		b.WriteByte(')')
	}
	return b.String()
}

// ParsePermCycles parses cycle notation such as "(0 2)(1 3)" or "(1,2,3)"
// into a permutation on n vertices. Elements not mentioned are fixed.
func ParsePermCycles(src string, n int) (Perm, error) {
	perm := IdentityPerm(n)

	src = strings.TrimSpace(src)
	for len(src) > 0 {
		if src[0] != '(' {
			return nil, ErrBadPerm
		}
		closing := strings.IndexByte(src, ')')
		if closing < 0 {
			return nil, ErrBadPerm
		}
		body := strings.FieldsFunc(src[1:closing], func(r rune) bool {
			return r == ' ' || r == ',' || r == '\t'
		})
		if err := applyCycle(perm, body, n); err != nil {
			return nil, err
		}
		src = strings.TrimSpace(src[closing+1:])
	}

	return perm, perm.Validate()
}

func applyCycle(perm Perm, elems []string, n int) error {
	if len(elems) == 0 {
		return nil
	}
	cycle := make([]VtxIndex, len(elems))
	for i, elem := range elems {
		v, err := strconv.Atoi(elem)
		if err != nil || v < 0 || v >= n {
			return ErrBadPerm
		}
		cycle[i] = VtxIndex(v)
	}
	for i, v := range cycle {
		perm[v] = cycle[(i+1)%len(cycle)]
	}
	return nil
}
