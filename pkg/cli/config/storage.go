package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/service/storage"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Storage holds configuration of the document body store
type Storage struct {
	bucket string
	prefix string
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-bucket",
			Usage:       "Cloud Storage bucket for generated document bodies. Required unless the repository backend is memory",
			Category:    "Storage",
			Sources:     cli.EnvVars("THEMIS_STORAGE_BUCKET"),
			Destination: &x.bucket,
		},
		&cli.StringFlag{
			Name:        "storage-prefix",
			Usage:       "Object name prefix inside the bucket",
			Category:    "Storage",
			Sources:     cli.EnvVars("THEMIS_STORAGE_PREFIX"),
			Destination: &x.prefix,
		},
	}
}

// BlobStore is a document body store that must be closed
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Close() error
}

// Configure returns a Cloud Storage backed store. The in-memory store is only allowed with the memory
// repository backend; document metadata in Firestore would outlive bodies kept in process memory.
func (x *Storage) Configure(ctx context.Context, repositoryBackend string) (BlobStore, error) {
	if x.bucket == "" {
		if repositoryBackend != backendMemory {
			return nil, goerr.Wrap(ErrInvalidConfig, "storage-bucket is required unless the repository backend is memory",
				goerr.V("repository_backend", repositoryBackend))
		}
		logging.Default().Info("No storage bucket configured, document bodies are kept in memory")
		return storage.NewMemory(), nil
	}

	store, err := storage.NewGCS(ctx, x.bucket, x.prefix)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create cloud storage client", goerr.V("bucket", x.bucket))
	}
	logging.Default().Info("Using Cloud Storage for documents", "bucket", x.bucket, "prefix", x.prefix)
	return store, nil
}
