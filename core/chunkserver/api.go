package chunkserver

import (
	"context"
	"errors"

	rpc "github.com/pyropy/chunkfs/rpc/chunkserver"
)

var _ rpc.ChunkServer = (*API)(nil)

// API exposes a ChunkServer over net/rpc.
type API struct {
	server *ChunkServer
}

func NewAPI(server *ChunkServer) *API {
	return &API{
		server: server,
	}
}

func (a *API) WriteChunk(args *rpc.WriteChunkArgs, reply *rpc.WriteChunkReply) error {
	log.Infow("rpc", "event", "ChunkServerAPI.WriteChunk", "id", args.ChunkID, "size", len(args.Data))

	bytesWritten, err := a.server.WriteChunk(context.Background(), args.ChunkID, args.Data)
	if err != nil {
		return err
	}

	reply.BytesWritten = bytesWritten
	return nil
}

func (a *API) ReadChunk(args *rpc.ReadChunkArgs, reply *rpc.ReadChunkReply) error {
	log.Infow("rpc", "event", "ChunkServerAPI.ReadChunk", "id", args.ChunkID)

	data, err := a.server.ReadChunk(context.Background(), args.ChunkID)
	if errors.Is(err, ErrChunkNotFound) {
		return ErrChunkNotFound
	}

	if err != nil {
		log.Errorw("rpc", "event", "ChunkServerAPI.ReadChunk", "id", args.ChunkID, "error", err)
		return err
	}

	reply.Data = data
	return nil
}
