package storage_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/service/storage"
)

func runBlobStoreTest(t *testing.T, store interfaces.BlobStore) {
	ctx := context.Background()
	key := fmt.Sprintf("projects/p/documents/%d.md", time.Now().UnixNano())

	t.Run("Get missing key", func(t *testing.T) {
		_, err := store.Get(ctx, key+".missing")
		gt.Bool(t, errors.Is(err, model.ErrNotFound)).True()
	})

	t.Run("Put then Get", func(t *testing.T) {
		body := []byte("# System Card\n\n## Purpose\n")
		gt.NoError(t, store.Put(ctx, key, body, "text/markdown")).Required()

		got, err := store.Get(ctx, key)
		gt.NoError(t, err).Required()
		gt.Value(t, string(got)).Equal(string(body))

		body[0] = 'X'
		got, err = store.Get(ctx, key)
		gt.NoError(t, err).Required()
		gt.Value(t, got[0]).Equal(byte('#'))
	})

	t.Run("Put overwrites", func(t *testing.T) {
		gt.NoError(t, store.Put(ctx, key, []byte("v2"), "text/markdown")).Required()
		got, err := store.Get(ctx, key)
		gt.NoError(t, err).Required()
		gt.Value(t, string(got)).Equal("v2")
	})
}

func TestMemory(t *testing.T) {
	runBlobStoreTest(t, storage.NewMemory())
}

func TestGCS(t *testing.T) {
	bucket := os.Getenv("TEST_STORAGE_BUCKET")
	if bucket == "" {
		t.Skip("TEST_STORAGE_BUCKET is not set")
	}

	store, err := storage.NewGCS(context.Background(), bucket, "themis-test")
	gt.NoError(t, err).Required()
	t.Cleanup(func() { gt.NoError(t, store.Close()) })

	runBlobStoreTest(t, store)
}

func TestNewGCS_RequiresBucket(t *testing.T) {
	_, err := storage.NewGCS(context.Background(), "", "")
	gt.Value(t, err).NotNil()
}
