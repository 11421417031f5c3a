package master

import "github.com/pyropy/chunkfs/core/model"

// FileChunkIndex maps a file key to its chunk ids in allocation order. Lists
// only grow. Callers synchronize access.
type FileChunkIndex struct {
	files map[model.FileKey]model.ChunkIDs
}

func NewFileChunkIndex() *FileChunkIndex {
	return &FileChunkIndex{
		files: make(map[model.FileKey]model.ChunkIDs),
	}
}

// Append adds chunkID to the end of the file's list and returns the new length.
func (f *FileChunkIndex) Append(key model.FileKey, chunkID model.ChunkID) int {
	f.files[key] = append(f.files[key], chunkID)
	return len(f.files[key])
}

// Get returns a copy of the file's chunk ids, empty when the key is unknown.
func (f *FileChunkIndex) Get(key model.FileKey) model.ChunkIDs {
	chunks, exists := f.files[key]
	if !exists {
		return model.ChunkIDs{}
	}

	return chunks.Clone()
}

func (f *FileChunkIndex) Len(key model.FileKey) int {
	return len(f.files[key])
}
