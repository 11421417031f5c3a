package master

import (
	"github.com/pyropy/chunkfs/core/model"
	rpc "github.com/pyropy/chunkfs/rpc/master"
)

var _ rpc.Master = (*API)(nil)

// API exposes a Master over net/rpc.
type API struct {
	master *Master
}

func NewAPI(master *Master) *API {
	return &API{
		master: master,
	}
}

func (a *API) AllocateChunk(args *rpc.AllocateChunkArgs, reply *rpc.AllocateChunkReply) error {
	log.Infow("rpc", "event", "AllocateChunk", "args", args)
	key := model.NewFileKey(args.Namespace, args.FileName)

	chunk, err := a.master.AllocateChunk(key, args.ChunkIndex)
	if err != nil {
		log.Errorw("rpc", "event", "AllocateChunk", "file", key, "error", err)
		return err
	}

	reply.ChunkID = chunk.ID
	reply.Locations = chunk.Locations

	log.Infow("rpc", "status", "allocated chunk", "file", key, "id", chunk.ID, "locations", chunk.Locations.Addresses())
	return nil
}

func (a *API) ListChunks(args *rpc.ListChunksArgs, reply *rpc.ListChunksReply) error {
	log.Infow("rpc", "event", "ListChunks", "args", args)
	reply.ChunkIDs = a.master.ListChunks(model.NewFileKey(args.Namespace, args.FileName))
	return nil
}

func (a *API) LocateChunk(args *rpc.LocateChunkArgs, reply *rpc.LocateChunkReply) error {
	log.Infow("rpc", "event", "LocateChunk", "args", args)
	reply.Locations = a.master.LocateChunk(args.ChunkID)
	return nil
}
