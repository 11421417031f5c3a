package master

import "github.com/pyropy/chunkfs/core/model"

// ChunkLocationStore maps chunk ids to the servers holding their replicas.
// Entries are written once and never changed. Callers synchronize access.
type ChunkLocationStore struct {
	chunks map[model.ChunkID]model.Locations
}

func NewChunkLocationStore() *ChunkLocationStore {
	return &ChunkLocationStore{
		chunks: make(map[model.ChunkID]model.Locations),
	}
}

func (cs *ChunkLocationStore) Add(chunk model.ChunkMetadata) {
	cs.chunks[chunk.ID] = chunk.Locations.Clone()
}

func (cs *ChunkLocationStore) Has(chunkID model.ChunkID) bool {
	_, exists := cs.chunks[chunkID]
	return exists
}

// GetChunkHolders returns a copy of the chunk's locations, empty when unknown.
func (cs *ChunkLocationStore) GetChunkHolders(chunkID model.ChunkID) model.Locations {
	locations, exists := cs.chunks[chunkID]
	if !exists {
		return model.Locations{}
	}

	return locations.Clone()
}

func (cs *ChunkLocationStore) Len() int {
	return len(cs.chunks)
}
