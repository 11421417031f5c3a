package model

import "time"

// FileKey identifies a file's chunk sequence: namespace + "/" + file name.
type FileKey string

func NewFileKey(namespace, fileName string) FileKey {
	return FileKey(namespace + "/" + fileName)
}

func (k FileKey) String() string {
	return string(k)
}

// FileMetadata is what a client remembers about a file it uploaded.
type FileMetadata struct {
	Key        FileKey
	Namespace  string
	Name       string
	Size       int64
	ChunkSize  int
	Chunks     ChunkIDs
	UploadedAt time.Time
}

func NewFileMetadata(namespace, name string) FileMetadata {
	return FileMetadata{
		Key:       NewFileKey(namespace, name),
		Namespace: namespace,
		Name:      name,
		Chunks:    ChunkIDs{},
	}
}
