package localfs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/fiapx/fiapx-dataset-splitter/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDiscoverMatchesImagesByStem(t *testing.T) {
	root := t.TempDir()
	imgDir := filepath.Join(root, "img")
	txtDir := filepath.Join(root, "txt")

	writeFile(t, filepath.Join(txtDir, "a.txt"), "0 0.5 0.5 0.1 0.1")
	writeFile(t, filepath.Join(txtDir, "b.txt"), "1 0.2 0.2 0.1 0.1")
	writeFile(t, filepath.Join(imgDir, "a.png"), "png-a")
	writeFile(t, filepath.Join(imgDir, "b.jpg"), "jpg-b")
	writeFile(t, filepath.Join(imgDir, "b.webp"), "webp-b")
	writeFile(t, filepath.Join(imgDir, "unrelated.png"), "x")
	require.NoError(t, os.MkdirAll(filepath.Join(txtDir, "nested"), 0755))

	src := NewSource(imgDir, txtDir, nil, zap.NewNop())
	examples, err := src.Discover(context.Background())
	require.NoError(t, err)

	require.Len(t, examples, 2)
	assert.Equal(t, entity.Example{
		Stem:           "a",
		AnnotationPath: filepath.Join(txtDir, "a.txt"),
		ImagePath:      filepath.Join(imgDir, "a.png"),
	}, examples[0])
	assert.Equal(t, filepath.Join(imgDir, "b.jpg"), examples[1].ImagePath, "preferred extension wins")
}

func TestDiscoverCustomExtensionOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "txt", "a.txt"), "")
	writeFile(t, filepath.Join(root, "img", "a.png"), "")
	writeFile(t, filepath.Join(root, "img", "a.jpg"), "")

	src := NewSource(filepath.Join(root, "img"), filepath.Join(root, "txt"), []string{"jpg", " .png"}, zap.NewNop())
	examples, err := src.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, examples, 1)
	assert.Equal(t, "a.jpg", filepath.Base(examples[0].ImagePath))
}

func TestDiscoverUnlistedExtensionStillMatches(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "txt", "a.txt"), "")
	writeFile(t, filepath.Join(root, "img", "a.gif"), "")

	src := NewSource(filepath.Join(root, "img"), filepath.Join(root, "txt"), nil, zap.NewNop())
	examples, err := src.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, examples, 1)
	assert.Equal(t, "a.gif", filepath.Base(examples[0].ImagePath))
}

func TestDiscoverMissingImage(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "txt", "a.txt"), "")
	writeFile(t, filepath.Join(root, "txt", "b.txt"), "")
	writeFile(t, filepath.Join(root, "img", "a.png"), "")

	src := NewSource(filepath.Join(root, "img"), filepath.Join(root, "txt"), nil, zap.NewNop())
	_, err := src.Discover(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingImage))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestDiscoverUnreadableDir(t *testing.T) {
	root := t.TempDir()
	src := NewSource(filepath.Join(root, "img"), filepath.Join(root, "nope"), nil, zap.NewNop())
	_, err := src.Discover(context.Background())
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestDiscoverEmpty(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "img"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "txt"), 0755))

	src := NewSource(filepath.Join(root, "img"), filepath.Join(root, "txt"), nil, zap.NewNop())
	examples, err := src.Discover(context.Background())
	require.NoError(t, err)
	assert.Empty(t, examples)
}

func TestPrepareIsIdempotent(t *testing.T) {
	out := filepath.Join(t.TempDir(), "data")
	w := NewWriter(out)

	require.NoError(t, w.Prepare(context.Background()))
	require.NoError(t, w.Prepare(context.Background()))

	dirs := w.Dirs()
	assert.Len(t, dirs, 9)
	for _, d := range dirs {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir(), d)
	}
	assert.DirExists(t, filepath.Join(out, "images", "val"))
	assert.DirExists(t, filepath.Join(out, "labels", "test"))
}

func TestCopyPreservesNamesAndOverwrites(t *testing.T) {
	root := t.TempDir()
	ex := entity.Example{
		Stem:           "frame_000001",
		AnnotationPath: filepath.Join(root, "txt", "frame_000001.txt"),
		ImagePath:      filepath.Join(root, "img", "frame_000001.jpg"),
	}
	writeFile(t, ex.AnnotationPath, "label")
	writeFile(t, ex.ImagePath, "pixels")

	out := filepath.Join(root, "data")
	w := NewWriter(out)
	require.NoError(t, w.Prepare(context.Background()))

	writeFile(t, filepath.Join(out, "labels", "val", "frame_000001.txt"), "stale")

	n, err := w.Copy(context.Background(), ex, entity.SubsetVal)
	require.NoError(t, err)
	assert.Equal(t, int64(len("label")+len("pixels")), n)

	img, err := os.ReadFile(filepath.Join(out, "images", "val", "frame_000001.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(img))
	lbl, err := os.ReadFile(filepath.Join(out, "labels", "val", "frame_000001.txt"))
	require.NoError(t, err)
	assert.Equal(t, "label", string(lbl))

	assert.FileExists(t, ex.ImagePath, "source left in place")
}

func TestCopyMissingImageLeavesNoLabel(t *testing.T) {
	root := t.TempDir()
	ex := entity.Example{
		Stem:           "a",
		AnnotationPath: filepath.Join(root, "txt", "a.txt"),
		ImagePath:      filepath.Join(root, "img", "a.png"),
	}
	writeFile(t, ex.AnnotationPath, "label")

	out := filepath.Join(root, "data")
	w := NewWriter(out)
	require.NoError(t, w.Prepare(context.Background()))

	_, err := w.Copy(context.Background(), ex, entity.SubsetTrain)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.NoFileExists(t, filepath.Join(out, "labels", "train", "a.txt"))
}

func TestCopyMissingAnnotationRemovesImage(t *testing.T) {
	root := t.TempDir()
	ex := entity.Example{
		Stem:           "a",
		AnnotationPath: filepath.Join(root, "txt", "a.txt"),
		ImagePath:      filepath.Join(root, "img", "a.png"),
	}
	writeFile(t, ex.ImagePath, "pixels")

	out := filepath.Join(root, "data")
	w := NewWriter(out)
	require.NoError(t, w.Prepare(context.Background()))

	_, err := w.Copy(context.Background(), ex, entity.SubsetTest)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(out, "images", "test", "a.png"))
}
