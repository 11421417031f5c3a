package chunkserver

import (
	"context"
	"sync"

	"github.com/pyropy/chunkfs/core/model"
	"github.com/pyropy/chunkfs/lib/logger"
	"github.com/pyropy/chunkfs/lib/lru_cache"
)

var log, _ = logger.New("chunk-server-rpc")

// ChunkServer serves chunk reads and writes from a ChunkStore, keeping
// recently used chunks in memory.
type ChunkServer struct {
	store ChunkStore

	// locks order writes against reads of the same chunk so the cache never
	// holds bytes older than the store.
	locks *chunkLocks

	cacheMu sync.Mutex
	LRU     *lru_cache.LRU[model.ChunkID, []byte]
}

// NewChunkServer wraps store with a read cache of cacheSize chunks. A
// cacheSize of 0 disables caching.
func NewChunkServer(store ChunkStore, cacheSize int) *ChunkServer {
	return &ChunkServer{
		store: store,
		locks: newChunkLocks(),
		LRU:   lru_cache.NewLRU[model.ChunkID, []byte](cacheSize),
	}
}

// WriteChunk stores data under id, replacing previous content.
func (c *ChunkServer) WriteChunk(ctx context.Context, id model.ChunkID, data []byte) (int, error) {
	if err := id.Validate(); err != nil {
		return 0, err
	}

	unlock := c.locks.Lock(id)
	defer unlock()

	err := c.store.WriteChunk(ctx, id, data)
	if err != nil {
		c.cacheDelete(id)
		log.Errorw("chunk", "event", "WriteChunk", "id", id, "error", err)
		return 0, err
	}

	c.cachePut(id, data)
	return len(data), nil
}

func (c *ChunkServer) ReadChunk(ctx context.Context, id model.ChunkID) ([]byte, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	unlock := c.locks.RLock(id)
	defer unlock()

	if data, ok := c.cacheGet(id); ok {
		return data, nil
	}

	data, err := c.store.ReadChunk(ctx, id)
	if err != nil {
		return nil, err
	}

	c.cachePut(id, data)
	return data, nil
}

func (c *ChunkServer) Close() error {
	return c.store.Close()
}

func (c *ChunkServer) cacheGet(id model.ChunkID) ([]byte, bool) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	data, ok := c.LRU.Get(id)
	if !ok {
		return nil, false
	}

	return append([]byte(nil), data...), true
}

func (c *ChunkServer) cachePut(id model.ChunkID, data []byte) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	c.LRU.Put(id, append([]byte(nil), data...))
}

func (c *ChunkServer) cacheDelete(id model.ChunkID) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	c.LRU.Delete(id)
}

type chunkLock struct {
	sync.RWMutex
	refs int
}

// chunkLocks hands out one RWMutex per chunk id, dropped when unused.
type chunkLocks struct {
	mu    sync.Mutex
	locks map[model.ChunkID]*chunkLock
}

func newChunkLocks() *chunkLocks {
	return &chunkLocks{
		locks: make(map[model.ChunkID]*chunkLock),
	}
}

func (l *chunkLocks) acquire(id model.ChunkID) *chunkLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	cl, exists := l.locks[id]
	if !exists {
		cl = &chunkLock{}
		l.locks[id] = cl
	}

	cl.refs++
	return cl
}

func (l *chunkLocks) release(id model.ChunkID, cl *chunkLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cl.refs--
	if cl.refs == 0 {
		delete(l.locks, id)
	}
}

// Lock takes the chunk's lock exclusively and returns its release func.
func (l *chunkLocks) Lock(id model.ChunkID) func() {
	cl := l.acquire(id)
	cl.Lock()

	return func() {
		cl.Unlock()
		l.release(id, cl)
	}
}

func (l *chunkLocks) RLock(id model.ChunkID) func() {
	cl := l.acquire(id)
	cl.RLock()

	return func() {
		cl.RUnlock()
		l.release(id, cl)
	}
}

func (l *chunkLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.locks)
}
