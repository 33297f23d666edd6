package minio

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcminio "github.com/testcontainers/testcontainers-go/modules/minio"
	"go.uber.org/zap"
)

func TestUploadTree(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	minioContainer, err := tcminio.Run(ctx,
		"minio/minio:latest",
		tcminio.WithUsername("minioadmin"),
		tcminio.WithPassword("minioadmin"),
	)
	require.NoError(t, err)
	defer minioContainer.Terminate(ctx)

	endpoint, err := minioContainer.ConnectionString(ctx)
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range []string{"images/train/a.png", "labels/train/a.txt", "labels/val/b.txt"} {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(name), 0644))
	}

	storage, err := NewStorage(StorageConfig{
		Endpoint:  endpoint,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "datasets",
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, storage.EnsureBucket(ctx))
	require.NoError(t, storage.EnsureBucket(ctx))

	n, err := storage.UploadTree(ctx, dir, "runs/r1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	client, err := miniogo.New(endpoint, &miniogo.Options{
		Creds: credentials.NewStaticV4("minioadmin", "minioadmin", ""),
	})
	require.NoError(t, err)

	var keys []string
	for obj := range client.ListObjects(ctx, "datasets", miniogo.ListObjectsOptions{Prefix: "runs/r1/", Recursive: true}) {
		require.NoError(t, obj.Err)
		keys = append(keys, obj.Key)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{
		"runs/r1/images/train/a.png",
		"runs/r1/labels/train/a.txt",
		"runs/r1/labels/val/b.txt",
	}, keys)
}
