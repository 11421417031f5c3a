package master

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/pyropy/chunkfs/core/model"
	"github.com/pyropy/chunkfs/lib/logger"
)

// maxMintAttempts bounds the retries when a fresh id collides with a known one.
const maxMintAttempts = 8

var (
	ErrNoChunkServersAvailable = errors.New("no chunk servers available")
	ErrChunkIDExhausted        = errors.New("could not mint an unused chunk id")
)

var log, _ = logger.New("master-rpc")

// Master names chunks and decides where they live. It never talks to chunk
// servers itself.
type Master struct {
	// mu guards files and chunks. An allocation holds it for minting,
	// placement and both map updates.
	mu     sync.RWMutex
	files  *FileChunkIndex
	chunks *ChunkLocationStore

	registry  *ChunkServerRegistry
	placement Placement
	newID     func() model.ChunkID
}

func NewMaster(registry *ChunkServerRegistry, placement Placement) *Master {
	if placement == nil {
		placement = FullRegistryPlacement{}
	}

	return &Master{
		files:     NewFileChunkIndex(),
		chunks:    NewChunkLocationStore(),
		registry:  registry,
		placement: placement,
		newID:     newChunkID,
	}
}

func newChunkID() model.ChunkID {
	return model.ChunkID(uuid.New().String())
}

// AllocateChunk mints an id for the next chunk of fileKey, places it and
// appends it to the file's chunk list.
//
// chunkIndex is not checked against the file's current length. Whether a
// mismatch is a caller bug or a deliberate partial overwrite is unsettled, so
// a mismatch is only logged and the chunk is appended anyway.
func (m *Master) AllocateChunk(fileKey model.FileKey, chunkIndex int) (model.ChunkMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	chunkID, err := m.mintChunkID()
	if err != nil {
		return model.ChunkMetadata{}, err
	}

	locations := m.placement.Place(chunkID, m.registry.Servers())
	if len(locations) == 0 {
		return model.ChunkMetadata{}, ErrNoChunkServersAvailable
	}

	if current := m.files.Len(fileKey); chunkIndex != current {
		log.Warnw("chunk index does not match file length", "file", fileKey, "index", chunkIndex, "length", current)
	}

	chunk := model.ChunkMetadata{ID: chunkID, Locations: locations}
	m.chunks.Add(chunk)
	m.files.Append(fileKey, chunkID)

	return model.ChunkMetadata{ID: chunkID, Locations: locations.Clone()}, nil
}

func (m *Master) mintChunkID() (model.ChunkID, error) {
	for i := 0; i < maxMintAttempts; i++ {
		id := m.newID()
		if !m.chunks.Has(id) {
			return id, nil
		}

		log.Warnw("chunk id collision", "id", id)
	}

	return "", ErrChunkIDExhausted
}

// ListChunks returns the file's chunk ids in allocation order.
func (m *Master) ListChunks(fileKey model.FileKey) model.ChunkIDs {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.files.Get(fileKey)
}

// LocateChunk returns the servers holding the chunk.
func (m *Master) LocateChunk(chunkID model.ChunkID) model.Locations {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.chunks.GetChunkHolders(chunkID)
}

func (m *Master) Registry() *ChunkServerRegistry {
	return m.registry
}
