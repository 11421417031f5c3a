package chunkserver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	fp "path/filepath"

	"github.com/pyropy/chunkfs/core/model"
)

// DiskChunkStore keeps one file per chunk, named by the chunk id, in a
// directory of its own.
type DiskChunkStore struct {
	dir string
}

func NewDiskChunkStore(root, nodeID string) (*DiskChunkStore, error) {
	dir := fp.Join(root, nodeID)
	err := os.MkdirAll(dir, 0750)
	if err != nil {
		return nil, err
	}

	return &DiskChunkStore{dir: dir}, nil
}

func (s *DiskChunkStore) Dir() string {
	return s.dir
}

func (s *DiskChunkStore) ChunkPath(id model.ChunkID) string {
	return fp.Join(s.dir, string(id))
}

// WriteChunk writes to a temp file and renames it over the chunk, so readers
// see either the old or the new content in full.
func (s *DiskChunkStore) WriteChunk(ctx context.Context, id model.ChunkID, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.MkdirAll(s.dir, 0750)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrChunkWriteFailed, id, err)
	}

	f, err := os.CreateTemp(s.dir, "."+string(id)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrChunkWriteFailed, id, err)
	}

	tmp := f.Name()
	_, err = f.Write(data)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	if err == nil {
		err = os.Rename(tmp, s.ChunkPath(id))
	}

	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %s: %v", ErrChunkWriteFailed, id, err)
	}

	return nil
}

func (s *DiskChunkStore) ReadChunk(ctx context.Context, id model.ChunkID) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.ChunkPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrChunkNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrChunkReadFailed, id, err)
	}

	return data, nil
}

func (s *DiskChunkStore) Close() error {
	return nil
}
