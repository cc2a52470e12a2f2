package libdqg

import (
	"github.com/dqg-systems/dqg/godqg"
)

// OrbitStream emits candidate orbit partitions of a graph's vertex set.
// The sender closes Outlet when the source is exhausted.
type OrbitStream struct {
	Outlet chan godqg.Orbits
}

// Subset limit for powerset streaming; 2^limit candidates is already far
// past what a solver pass can chew through.
const maxPowersetGens = 24

// StreamFullGroup emits the single partition folded from every generator.
func StreamFullGroup(numVerts int, gens godqg.Generators) *OrbitStream {
	stream := &OrbitStream{
		Outlet: make(chan godqg.Orbits, 1),
	}
	go func() {
		defer close(stream.Outlet)
		stream.Outlet <- godqg.FoldGenerators(numVerts, gens)
	}()
	return stream
}

// StreamPowerset emits one partition per non-empty subset of gens, in
// subset rank order. Generators past maxPowersetGens are folded into every
// candidate rather than enumerated.
func StreamPowerset(numVerts int, gens godqg.Generators) *OrbitStream {
	stream := &OrbitStream{
		Outlet: make(chan godqg.Orbits, 4),
	}
	go func() {
		defer close(stream.Outlet)

		free := gens
		var fixed godqg.Generators
		if len(free) > maxPowersetGens {
			fixed = free[maxPowersetGens:]
			free = free[:maxPowersetGens]
		}

		subset := make(godqg.Generators, 0, len(free)+len(fixed))
		for mask := uint32(1); mask < 1<<len(free); mask++ {
			subset = subset[:0]
			for gi := range free {
				if mask&(1<<gi) != 0 {
					subset = append(subset, free[gi])
				}
			}
			subset = append(subset, fixed...)
			stream.Outlet <- godqg.FoldGenerators(numVerts, subset)
		}
	}()
	return stream
}

// StreamGeneratorPowers emits, for each generator g and each 1 <= k <
// order(g), the partition folded from the single permutation g^k. Cyclic
// subgroups often yield the small orbits the powerset never isolates.
func StreamGeneratorPowers(numVerts int, gens godqg.Generators) *OrbitStream {
	stream := &OrbitStream{
		Outlet: make(chan godqg.Orbits, 4),
	}
	go func() {
		defer close(stream.Outlet)
		for _, perm := range gens {
			p := perm
			for !p.IsIdentity() {
				stream.Outlet <- godqg.FoldGenerators(numVerts, godqg.Generators{p})
				p, _ = p.Compose(perm)
			}
		}
	}()
	return stream
}
