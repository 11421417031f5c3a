package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	ds "github.com/ipfs/go-datastore"
	dsq "github.com/ipfs/go-datastore/query"
	dslvl "github.com/ipfs/go-ds-leveldb"
	"github.com/pyropy/chunkfs/core/model"
)

var (
	ErrFileNotFound = errors.New("file not found")
)

var filesPrefix = ds.NewKey("/files")

// fileKey escapes key into a single datastore path segment, so keys that
// differ only by repeated or trailing slashes stay distinct.
func fileKey(key model.FileKey) ds.Key {
	return filesPrefix.ChildString(url.PathEscape(string(key)))
}

// FileMetadataStore is the client's local record of uploaded files. The
// master does not read it.
type FileMetadataStore struct {
	Files *dslvl.Datastore
}

func NewFileMetadataStore(dsPath string) (*FileMetadataStore, error) {
	p := fmt.Sprintf("%s/files", dsPath)
	store, err := dslvl.NewDatastore(p, nil)
	if err != nil {
		return nil, err
	}

	return &FileMetadataStore{
		Files: store,
	}, nil
}

func (f *FileMetadataStore) Get(ctx context.Context, key model.FileKey) (*model.FileMetadata, error) {
	b, err := f.Files.Get(ctx, fileKey(key))
	if errors.Is(err, ds.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, key)
	}

	if err != nil {
		return nil, err
	}

	var file model.FileMetadata
	err = json.Unmarshal(b, &file)
	if err != nil {
		return nil, err
	}

	return &file, nil
}

func (f *FileMetadataStore) Has(ctx context.Context, key model.FileKey) (bool, error) {
	return f.Files.Has(ctx, fileKey(key))
}

// Put stores metadata under its key, replacing an earlier upload of the same
// file.
func (f *FileMetadataStore) Put(ctx context.Context, metadata model.FileMetadata) error {
	b, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	return f.Files.Put(ctx, fileKey(metadata.Key), b)
}

// All returns every entry ordered by key.
func (f *FileMetadataStore) All(ctx context.Context) ([]*model.FileMetadata, error) {
	q := dsq.Query{Prefix: filesPrefix.String(), Orders: []dsq.Order{dsq.OrderByKey{}}}
	files := make([]*model.FileMetadata, 0)

	res, err := f.Files.Query(ctx, q)
	if err != nil {
		return files, err
	}
	defer res.Close()

	for {
		r, hasNext := res.NextSync()
		if !hasNext {
			break
		}

		if r.Error != nil {
			return files, r.Error
		}

		var file model.FileMetadata
		err = json.Unmarshal(r.Value, &file)
		if err != nil {
			return files, err
		}
		files = append(files, &file)
	}

	return files, nil
}

func (f *FileMetadataStore) Close() error {
	return f.Files.Close()
}
