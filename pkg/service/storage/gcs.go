package storage

import (
	"context"
	"errors"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/utils/safe"
)

// GCS stores objects in a Cloud Storage bucket, optionally under a key prefix
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.BlobStore = &GCS{}

// NewGCS creates a store for bucket using application default credentials
func NewGCS(ctx context.Context, bucket, prefix string) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("bucket name is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	return &GCS{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (s *GCS) objectName(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

func (s *GCS) Put(ctx context.Context, key string, data []byte, contentType string) error {
	name := s.objectName(key)
	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write object", goerr.V("bucket", s.bucket), goerr.V("object", name))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize object", goerr.V("bucket", s.bucket), goerr.V("object", name))
	}
	return nil
}

func (s *GCS) Get(ctx context.Context, key string) ([]byte, error) {
	name := s.objectName(key)
	r, err := s.client.Bucket(s.bucket).Object(name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, goerr.Wrap(model.ErrNotFound, "object not found", goerr.V("bucket", s.bucket), goerr.V("object", name))
		}
		return nil, goerr.Wrap(err, "failed to open object", goerr.V("bucket", s.bucket), goerr.V("object", name))
	}
	defer safe.Close(ctx, r)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read object", goerr.V("bucket", s.bucket), goerr.V("object", name))
	}
	return data, nil
}

func (s *GCS) Close() error {
	return s.client.Close()
}
