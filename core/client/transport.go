package client

import (
	"context"
	"time"

	"github.com/pyropy/chunkfs/core/model"
	"github.com/pyropy/chunkfs/lib/netrpc"
	"github.com/pyropy/chunkfs/rpc/chunkserver"
	"github.com/pyropy/chunkfs/rpc/master"
)

// MasterClient is the client's view of the coordinator.
type MasterClient interface {
	AllocateChunk(ctx context.Context, fileName, namespace string, chunkIndex int) (model.ChunkMetadata, error)
	ListChunks(ctx context.Context, fileName, namespace string) (model.ChunkIDs, error)
	LocateChunk(ctx context.Context, id model.ChunkID) (model.Locations, error)
}

// ChunkServerClient moves chunk bytes to and from a single chunk server.
type ChunkServerClient interface {
	WriteChunk(ctx context.Context, loc model.ChunkLocation, id model.ChunkID, data []byte) error
	ReadChunk(ctx context.Context, loc model.ChunkLocation, id model.ChunkID) ([]byte, error)
}

// callContext bounds a single outbound call. A zero timeout leaves ctx as is.
func callContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, timeout)
}

type RPCMasterClient struct {
	Addr    string
	Timeout time.Duration
}

func NewRPCMasterClient(addr string, timeout time.Duration) *RPCMasterClient {
	return &RPCMasterClient{Addr: addr, Timeout: timeout}
}

func (m *RPCMasterClient) AllocateChunk(ctx context.Context, fileName, namespace string, chunkIndex int) (model.ChunkMetadata, error) {
	ctx, cancel := callContext(ctx, m.Timeout)
	defer cancel()

	var reply master.AllocateChunkReply
	args := &master.AllocateChunkArgs{FileName: fileName, Namespace: namespace, ChunkIndex: chunkIndex}

	err := netrpc.Call(ctx, m.Addr, master.AllocateChunkMethod, args, &reply)
	if err != nil {
		return model.ChunkMetadata{}, err
	}

	locations := reply.Locations
	if locations == nil {
		locations = model.Locations{}
	}

	return model.ChunkMetadata{ID: reply.ChunkID, Locations: locations}, nil
}

func (m *RPCMasterClient) ListChunks(ctx context.Context, fileName, namespace string) (model.ChunkIDs, error) {
	ctx, cancel := callContext(ctx, m.Timeout)
	defer cancel()

	var reply master.ListChunksReply
	args := &master.ListChunksArgs{FileName: fileName, Namespace: namespace}

	err := netrpc.Call(ctx, m.Addr, master.ListChunksMethod, args, &reply)
	if err != nil {
		return nil, err
	}

	if reply.ChunkIDs == nil {
		return model.ChunkIDs{}, nil
	}

	return reply.ChunkIDs, nil
}

func (m *RPCMasterClient) LocateChunk(ctx context.Context, id model.ChunkID) (model.Locations, error) {
	ctx, cancel := callContext(ctx, m.Timeout)
	defer cancel()

	var reply master.LocateChunkReply
	err := netrpc.Call(ctx, m.Addr, master.LocateChunkMethod, &master.LocateChunkArgs{ChunkID: id}, &reply)
	if err != nil {
		return nil, err
	}

	if reply.Locations == nil {
		return model.Locations{}, nil
	}

	return reply.Locations, nil
}

type RPCChunkServerClient struct {
	Timeout time.Duration
}

func NewRPCChunkServerClient(timeout time.Duration) *RPCChunkServerClient {
	return &RPCChunkServerClient{Timeout: timeout}
}

func (c *RPCChunkServerClient) WriteChunk(ctx context.Context, loc model.ChunkLocation, id model.ChunkID, data []byte) error {
	ctx, cancel := callContext(ctx, c.Timeout)
	defer cancel()

	var reply chunkserver.WriteChunkReply
	args := &chunkserver.WriteChunkArgs{ChunkID: id, Data: data}

	return netrpc.Call(ctx, loc.Address(), chunkserver.WriteChunkMethod, args, &reply)
}

func (c *RPCChunkServerClient) ReadChunk(ctx context.Context, loc model.ChunkLocation, id model.ChunkID) ([]byte, error) {
	ctx, cancel := callContext(ctx, c.Timeout)
	defer cancel()

	var reply chunkserver.ReadChunkReply
	err := netrpc.Call(ctx, loc.Address(), chunkserver.ReadChunkMethod, &chunkserver.ReadChunkArgs{ChunkID: id}, &reply)
	if err != nil {
		return nil, err
	}

	if reply.Data == nil {
		return []byte{}, nil
	}

	return reply.Data, nil
}
