package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fiapx/fiapx-dataset-splitter/internal/domain/entity"
)

const (
	ImagesDir = "images"
	LabelsDir = "labels"
)

// Writer materializes a split as <root>/{images,labels}/{train,val,test}.
// Files already present are overwritten.
type Writer struct {
	root string
}

func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

func (w *Writer) Root() string {
	return w.root
}

// Dirs lists every directory Prepare creates, parents first.
func (w *Writer) Dirs() []string {
	dirs := []string{w.root, filepath.Join(w.root, ImagesDir), filepath.Join(w.root, LabelsDir)}
	for _, kind := range []string{ImagesDir, LabelsDir} {
		for _, subset := range entity.Subsets() {
			dirs = append(dirs, filepath.Join(w.root, kind, string(subset)))
		}
	}
	return dirs
}

func (w *Writer) Prepare(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, dir := range w.Dirs() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return nil
}

// Copy writes the image before the annotation so a failed image copy never
// leaves a label without its image.
func (w *Writer) Copy(ctx context.Context, ex entity.Example, subset entity.Subset) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	imgDst := filepath.Join(w.root, ImagesDir, string(subset), filepath.Base(ex.ImagePath))
	n, err := copyFile(ex.ImagePath, imgDst)
	if err != nil {
		return 0, fmt.Errorf("copy image %s: %w", ex.Stem, err)
	}

	lblDst := filepath.Join(w.root, LabelsDir, string(subset), filepath.Base(ex.AnnotationPath))
	m, err := copyFile(ex.AnnotationPath, lblDst)
	if err != nil {
		os.Remove(imgDst)
		return 0, fmt.Errorf("copy annotation %s: %w", ex.Stem, err)
	}

	return n + m, nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return 0, err
	}
	if err := out.Close(); err != nil {
		return 0, err
	}
	return n, nil
}
