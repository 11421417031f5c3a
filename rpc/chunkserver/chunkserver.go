package chunkserver

import "github.com/pyropy/chunkfs/core/model"

// ServiceName is the name a chunk server registers its API under.
const ServiceName = "ChunkServerAPI"

const (
	WriteChunkMethod = ServiceName + ".WriteChunk"
	ReadChunkMethod  = ServiceName + ".ReadChunk"
)

type ChunkServer interface {
	// WriteChunk stores data under the chunk id, replacing any previous content
	WriteChunk(args *WriteChunkArgs, reply *WriteChunkReply) error
	// ReadChunk returns the stored bytes of a chunk
	ReadChunk(args *ReadChunkArgs, reply *ReadChunkReply) error
}

type WriteChunkArgs struct {
	ChunkID model.ChunkID
	Data    []byte
}

type WriteChunkReply struct {
	BytesWritten int
}

type ReadChunkArgs struct {
	ChunkID model.ChunkID
}

type ReadChunkReply struct {
	Data []byte
}
