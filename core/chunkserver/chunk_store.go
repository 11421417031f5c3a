package chunkserver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/pyropy/chunkfs/core/model"
)

const (
	BackendDisk    = "disk"
	BackendLevelDB = "leveldb"
)

var (
	ErrChunkNotFound    = errors.New("chunk not found")
	ErrChunkWriteFailed = errors.New("chunk write failed")
	ErrChunkReadFailed  = errors.New("chunk read failed")
	ErrUnknownBackend   = errors.New("unknown chunk backend")
)

// ChunkStore keeps the bytes of chunk replicas on one node. A write replaces
// whatever was stored under the id before.
type ChunkStore interface {
	WriteChunk(ctx context.Context, id model.ChunkID, data []byte) error
	ReadChunk(ctx context.Context, id model.ChunkID) ([]byte, error)
	Close() error
}

// NewChunkStore opens the backend named in cfg under CHUNK_PATH/NODE_ID.
func NewChunkStore(cfg *Config) (ChunkStore, error) {
	switch cfg.Chunks.Backend {
	case BackendDisk, "":
		return NewDiskChunkStore(cfg.Chunks.Path, cfg.NodeID())
	case BackendLevelDB:
		return NewDatastoreChunkStore(filepath.Join(cfg.Chunks.Path, cfg.NodeID()))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Chunks.Backend)
	}
}
