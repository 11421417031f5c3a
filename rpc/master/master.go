package master

import "github.com/pyropy/chunkfs/core/model"

// ServiceName is the name the master registers its API under.
const ServiceName = "MasterAPI"

const (
	AllocateChunkMethod = ServiceName + ".AllocateChunk"
	ListChunksMethod    = ServiceName + ".ListChunks"
	LocateChunkMethod   = ServiceName + ".LocateChunk"
)

type Master interface {
	// AllocateChunk mints a chunk id for the next chunk of a file and picks its replicas
	AllocateChunk(args *AllocateChunkArgs, reply *AllocateChunkReply) error
	// ListChunks returns a file's chunk ids in allocation order
	ListChunks(args *ListChunksArgs, reply *ListChunksReply) error
	// LocateChunk returns the replica locations of a chunk
	LocateChunk(args *LocateChunkArgs, reply *LocateChunkReply) error
}

type AllocateChunkArgs struct {
	FileName   string
	Namespace  string
	ChunkIndex int
}

type AllocateChunkReply struct {
	ChunkID   model.ChunkID
	Locations model.Locations
}

type ListChunksArgs struct {
	FileName  string
	Namespace string
}

type ListChunksReply struct {
	ChunkIDs model.ChunkIDs
}

type LocateChunkArgs struct {
	ChunkID model.ChunkID
}

type LocateChunkReply struct {
	Locations model.Locations
}
