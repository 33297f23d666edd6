package localfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fiapx/fiapx-dataset-splitter/internal/domain/entity"
	"go.uber.org/zap"
)

var ErrMissingImage = errors.New("missing image for annotation")

var DefaultImageExts = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp"}

type Source struct {
	imageDir      string
	annotationDir string
	imageExts     []string
	logger        *zap.Logger
}

// NewSource reads annotations from annotationDir and matches images in imageDir
// by stem. imageExts orders the preferred image extensions when a stem has
// several images; nil means DefaultImageExts.
func NewSource(imageDir, annotationDir string, imageExts []string, logger *zap.Logger) *Source {
	if len(imageExts) == 0 {
		imageExts = DefaultImageExts
	}
	exts := make([]string, 0, len(imageExts))
	for _, ext := range imageExts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	return &Source{imageDir: imageDir, annotationDir: annotationDir, imageExts: exts, logger: logger}
}

// Discover returns one example per regular file in the annotation directory,
// in directory listing order. Every example must have an image.
func (s *Source) Discover(ctx context.Context) ([]entity.Example, error) {
	annotations, err := os.ReadDir(s.annotationDir)
	if err != nil {
		return nil, fmt.Errorf("read annotation dir: %w", err)
	}
	images, err := s.indexImages()
	if err != nil {
		return nil, err
	}

	examples := make([]entity.Example, 0, len(annotations))
	for _, a := range annotations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !a.Type().IsRegular() {
			continue
		}

		stem := entity.Stem(a.Name())
		image, ok := images[stem]
		if !ok {
			return nil, fmt.Errorf("%w %s: %s: %w", ErrMissingImage, a.Name(),
				filepath.Join(s.imageDir, stem+".*"), fs.ErrNotExist)
		}

		examples = append(examples, entity.Example{
			Stem:           stem,
			AnnotationPath: filepath.Join(s.annotationDir, a.Name()),
			ImagePath:      filepath.Join(s.imageDir, image),
		})
	}

	s.logger.Debug("examples discovered",
		zap.Int("count", len(examples)),
		zap.String("annotation_dir", s.annotationDir),
	)
	return examples, nil
}

// indexImages maps stem to the image filename with the most preferred extension.
func (s *Source) indexImages() (map[string]string, error) {
	entries, err := os.ReadDir(s.imageDir)
	if err != nil {
		return nil, fmt.Errorf("read image dir: %w", err)
	}

	index := make(map[string]string, len(entries))
	rank := make(map[string]int, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		stem := entity.Stem(name)
		r := s.rankExt(filepath.Ext(name))
		if prev, ok := rank[stem]; ok && prev <= r {
			continue
		}
		index[stem] = name
		rank[stem] = r
	}
	return index, nil
}

func (s *Source) rankExt(ext string) int {
	ext = strings.ToLower(ext)
	for i, e := range s.imageExts {
		if e == ext {
			return i
		}
	}
	return len(s.imageExts)
}
