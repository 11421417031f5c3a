package client

import (
	"context"
	"errors"
	"os"
	fp "path/filepath"
	"time"

	"github.com/pyropy/chunkfs/core/model"
	"github.com/pyropy/chunkfs/lib/logger"
)

var log, _ = logger.New("client")

var (
	ErrNoCatalog = errors.New("client has no file catalog")
)

type Client struct {
	Master       MasterClient
	ChunkServers ChunkServerClient
	// Files may be nil, in which case uploads are not recorded.
	Files *FileMetadataStore

	ChunkSize int
	Policy    WritePolicy
}

// NewClient wires a client to the master at cfg.Master.Addr over net/rpc and
// opens the local catalog under cfg.Store.Path.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.Chunks.Size <= 0 {
		return nil, ErrInvalidChunkSize
	}

	files, err := NewFileMetadataStore(cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	return &Client{
		Master:       NewRPCMasterClient(cfg.Master.Addr, cfg.RPC.Timeout),
		ChunkServers: NewRPCChunkServerClient(cfg.RPC.Timeout),
		Files:        files,
		ChunkSize:    cfg.Chunks.Size,
		Policy:       WritePolicy{MinReplicas: cfg.Replication.MinReplicas},
	}, nil
}

func (c *Client) Close() error {
	if c.Files == nil {
		return nil
	}

	return c.Files.Close()
}

// UploadFile writes the local file at localPath as namespace/fileName and
// records it in the catalog.
func (c *Client) UploadFile(ctx context.Context, localPath, fileName, namespace string) (*WriteResult, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return nil, err
	}

	result, err := c.WriteFile(ctx, fileName, namespace, data)
	if err != nil {
		return result, err
	}

	if c.Files != nil {
		metadata := model.NewFileMetadata(namespace, fileName)
		metadata.Size = result.Size
		metadata.ChunkSize = c.ChunkSize
		metadata.Chunks = result.ChunkIDs()
		metadata.UploadedAt = time.Now().UTC()

		err = c.Files.Put(ctx, metadata)
		if err != nil {
			log.Errorw("upload", "event", "catalog", "file", metadata.Key, "error", err)
			return result, err
		}
	}

	log.Infow("upload", "status", "file uploaded", "file", result.Key, "size", result.Size, "chunks", len(result.Chunks))
	return result, nil
}

// DownloadFile reads namespace/fileName and writes it to destDir under the
// file's base name. It returns the path written.
func (c *Client) DownloadFile(ctx context.Context, fileName, namespace, destDir string) (string, *ReadResult, error) {
	result, err := c.ReadFile(ctx, fileName, namespace)
	if err != nil {
		return "", result, err
	}

	err = os.MkdirAll(destDir, 0750)
	if err != nil {
		return "", result, err
	}

	path := fp.Join(destDir, fp.Base(fileName))
	err = os.WriteFile(path, result.Data, 0644)
	if err != nil {
		return "", result, err
	}

	log.Infow("download", "status", "file downloaded", "file", model.NewFileKey(namespace, fileName), "path", path,
		"size", len(result.Data), "missing", result.MissingChunks)
	return path, result, nil
}

// ListFiles returns the catalog entries of files uploaded from this client.
func (c *Client) ListFiles(ctx context.Context) ([]*model.FileMetadata, error) {
	if c.Files == nil {
		return nil, ErrNoCatalog
	}

	return c.Files.All(ctx)
}
