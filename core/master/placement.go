package master

import (
	"hash/fnv"
	"sort"

	"github.com/pyropy/chunkfs/core/model"
)

// Placement picks the replica set for a freshly minted chunk.
type Placement interface {
	Place(id model.ChunkID, servers model.Locations) model.Locations
}

func NewPlacement(factor int) Placement {
	if factor <= 0 {
		return FullRegistryPlacement{}
	}

	return RendezvousPlacement{Factor: factor}
}

// FullRegistryPlacement replicates every chunk on every server, in registry
// order.
type FullRegistryPlacement struct{}

func (FullRegistryPlacement) Place(_ model.ChunkID, servers model.Locations) model.Locations {
	return servers.Clone()
}

// RendezvousPlacement picks Factor servers by highest random weight, so the
// same chunk id always lands on the same servers for a given registry.
type RendezvousPlacement struct {
	Factor int
}

func (p RendezvousPlacement) Place(id model.ChunkID, servers model.Locations) model.Locations {
	if p.Factor <= 0 || p.Factor >= len(servers) {
		return servers.Clone()
	}

	type weighted struct {
		loc    model.ChunkLocation
		weight uint64
	}

	candidates := make([]weighted, 0, len(servers))
	for _, s := range servers {
		candidates = append(candidates, weighted{loc: s, weight: rendezvousWeight(id, s)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].weight != candidates[j].weight {
			return candidates[i].weight > candidates[j].weight
		}
		return candidates[i].loc.Address() < candidates[j].loc.Address()
	})

	out := make(model.Locations, 0, p.Factor)
	for _, c := range candidates[:p.Factor] {
		out = append(out, c.loc)
	}

	return out
}

func rendezvousWeight(id model.ChunkID, loc model.ChunkLocation) uint64 {
	h := fnv.New64a()
	h.Write([]byte(loc.Address()))
	h.Write([]byte{'/'})
	h.Write([]byte(id))
	return h.Sum64()
}
