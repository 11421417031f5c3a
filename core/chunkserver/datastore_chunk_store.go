package chunkserver

import (
	"context"
	"errors"
	"fmt"

	ds "github.com/ipfs/go-datastore"
	dslvl "github.com/ipfs/go-ds-leveldb"
	"github.com/pyropy/chunkfs/core/model"
)

var chunksPrefix = ds.NewKey("/chunks")

// DatastoreChunkStore keeps chunks in a leveldb datastore under /chunks/<id>.
type DatastoreChunkStore struct {
	Chunks *dslvl.Datastore
}

func NewDatastoreChunkStore(path string) (*DatastoreChunkStore, error) {
	store, err := dslvl.NewDatastore(path, nil)
	if err != nil {
		return nil, err
	}

	return &DatastoreChunkStore{
		Chunks: store,
	}, nil
}

func chunkKey(id model.ChunkID) ds.Key {
	return chunksPrefix.ChildString(string(id))
}

func (s *DatastoreChunkStore) WriteChunk(ctx context.Context, id model.ChunkID, data []byte) error {
	err := s.Chunks.Put(ctx, chunkKey(id), data)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrChunkWriteFailed, id, err)
	}

	return nil
}

func (s *DatastoreChunkStore) ReadChunk(ctx context.Context, id model.ChunkID) ([]byte, error) {
	data, err := s.Chunks.Get(ctx, chunkKey(id))
	if errors.Is(err, ds.ErrNotFound) {
		return nil, ErrChunkNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrChunkReadFailed, id, err)
	}

	return data, nil
}

func (s *DatastoreChunkStore) Close() error {
	return s.Chunks.Close()
}
