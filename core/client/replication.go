package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pyropy/chunkfs/core/model"
)

var (
	ErrCoordinator          = errors.New("coordinator call failed")
	ErrInsufficientReplicas = errors.New("insufficient replicas written")
	ErrInvalidChunkSize     = errors.New("chunk size must be positive")
)

// WritePolicy decides when a chunk counts as written.
type WritePolicy struct {
	// MinReplicas is the number of successful replica writes a chunk needs.
	// Zero accepts any outcome.
	MinReplicas int
}

// ReplicaOutcome is the result of one write attempt to one replica.
type ReplicaOutcome struct {
	Location model.ChunkLocation
	Err      error
}

type ChunkWrite struct {
	Index    int
	ID       model.ChunkID
	Outcomes []ReplicaOutcome
}

func (w ChunkWrite) Succeeded() int {
	n := 0
	for _, o := range w.Outcomes {
		if o.Err == nil {
			n++
		}
	}

	return n
}

type WriteResult struct {
	Key    model.FileKey
	Size   int64
	Chunks []ChunkWrite
}

func (r *WriteResult) ChunkIDs() model.ChunkIDs {
	ids := make(model.ChunkIDs, 0, len(r.Chunks))
	for _, c := range r.Chunks {
		ids = append(ids, c.ID)
	}

	return ids
}

// UnderReplicated lists the indexes of chunks with at least one failed replica.
func (r *WriteResult) UnderReplicated() []int {
	var out []int
	for _, c := range r.Chunks {
		if c.Succeeded() < len(c.Outcomes) {
			out = append(out, c.Index)
		}
	}

	return out
}

type ReadResult struct {
	Data       []byte
	ChunkCount int
	// MissingChunks holds the indexes of chunks no replica could serve. Their
	// bytes are absent from Data.
	MissingChunks []int
}

func (r *ReadResult) Complete() bool {
	return len(r.MissingChunks) == 0
}

// WriteFile splits data into chunks and, chunk by chunk, asks the master for
// an id and replica set and writes every replica concurrently. Each replica is
// tried once. The write stops at the first chunk that fails the policy.
func (c *Client) WriteFile(ctx context.Context, fileName, namespace string, data []byte) (*WriteResult, error) {
	if c.ChunkSize <= 0 {
		return nil, ErrInvalidChunkSize
	}

	key := model.NewFileKey(namespace, fileName)
	result := &WriteResult{Key: key, Size: int64(len(data))}

	for i, chunk := range SplitChunks(data, c.ChunkSize) {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		meta, err := c.Master.AllocateChunk(ctx, fileName, namespace, i)
		if err != nil {
			log.Errorw("write", "event", "AllocateChunk", "file", key, "index", i, "error", err)
			return result, fmt.Errorf("%w: allocate chunk %d of %s: %w", ErrCoordinator, i, key, err)
		}

		written := ChunkWrite{Index: i, ID: meta.ID, Outcomes: c.replicate(ctx, meta, chunk)}
		result.Chunks = append(result.Chunks, written)

		succeeded := written.Succeeded()
		if succeeded < c.Policy.MinReplicas {
			return result, fmt.Errorf("%w: chunk %d of %s: %d of %d written, need %d",
				ErrInsufficientReplicas, i, key, succeeded, len(written.Outcomes), c.Policy.MinReplicas)
		}

		if succeeded < len(written.Outcomes) {
			log.Warnw("write", "status", "chunk under-replicated", "file", key, "index", i, "id", meta.ID,
				"written", succeeded, "replicas", len(written.Outcomes))
		}
	}

	return result, nil
}

func (c *Client) replicate(ctx context.Context, meta model.ChunkMetadata, data []byte) []ReplicaOutcome {
	outcomes := make([]ReplicaOutcome, len(meta.Locations))

	var wg sync.WaitGroup
	for i, loc := range meta.Locations {
		wg.Add(1)
		go func(i int, loc model.ChunkLocation) {
			defer wg.Done()

			err := c.ChunkServers.WriteChunk(ctx, loc, meta.ID, data)
			if err != nil {
				log.Warnw("write", "event", "WriteChunk", "id", meta.ID, "location", loc.Address(), "error", err)
			}

			outcomes[i] = ReplicaOutcome{Location: loc, Err: err}
		}(i, loc)
	}

	wg.Wait()
	return outcomes
}

// ReadFile fetches the file's chunks in order, taking each from the first
// replica that answers. A chunk no replica can serve is left out of Data and
// reported in MissingChunks.
func (c *Client) ReadFile(ctx context.Context, fileName, namespace string) (*ReadResult, error) {
	key := model.NewFileKey(namespace, fileName)

	ids, err := c.Master.ListChunks(ctx, fileName, namespace)
	if err != nil {
		log.Errorw("read", "event", "ListChunks", "file", key, "error", err)
		return nil, fmt.Errorf("%w: list chunks of %s: %w", ErrCoordinator, key, err)
	}

	result := &ReadResult{Data: []byte{}, ChunkCount: len(ids)}

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		locations, err := c.Master.LocateChunk(ctx, id)
		if err != nil {
			log.Errorw("read", "event", "LocateChunk", "file", key, "id", id, "error", err)
			return result, fmt.Errorf("%w: locate chunk %s: %w", ErrCoordinator, id, err)
		}

		data, ok := c.readReplica(ctx, id, locations)
		if !ok {
			log.Warnw("read", "status", "chunk unreadable, skipping", "file", key, "index", i, "id", id)
			result.MissingChunks = append(result.MissingChunks, i)
			continue
		}

		result.Data = append(result.Data, data...)
	}

	return result, nil
}

func (c *Client) readReplica(ctx context.Context, id model.ChunkID, locations model.Locations) ([]byte, bool) {
	for _, loc := range locations {
		data, err := c.ChunkServers.ReadChunk(ctx, loc, id)
		if err == nil {
			return data, true
		}

		log.Infow("read", "event", "ReadChunk", "id", id, "location", loc.Address(), "error", err)
	}

	return nil, false
}
