package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var ErrInsideDir = errors.New("archive path inside archived directory")

// Contains reports whether path is dir itself or lies under it.
func Contains(dir, path string) (bool, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false, nil
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))), nil
}

type ZipCreator struct{}

func NewZipCreator() *ZipCreator {
	return &ZipCreator{}
}

// ArchiveDir zips every regular file under dir, keyed by its slash-separated
// path relative to dir, and returns the number of files written. An
// outputPath inside dir fails with ErrInsideDir before anything is written.
func (z *ZipCreator) ArchiveDir(ctx context.Context, dir string, outputPath string) (int, error) {
	inside, err := Contains(dir, outputPath)
	if err != nil {
		return 0, fmt.Errorf("resolve archive path: %w", err)
	}
	if inside {
		return 0, fmt.Errorf("%w: %s in %s", ErrInsideDir, outputPath, dir)
	}

	zipFile, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("create zip file: %w", err)
	}
	defer zipFile.Close()

	zipWriter := zip.NewWriter(zipFile)

	count := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if err := addFileToZip(zipWriter, path, filepath.ToSlash(rel)); err != nil {
			return fmt.Errorf("add %s to zip: %w", rel, err)
		}
		count++
		return nil
	})
	if err != nil {
		zipWriter.Close()
		return 0, err
	}

	if err := zipWriter.Close(); err != nil {
		return 0, fmt.Errorf("finalize zip: %w", err)
	}
	return count, nil
}

func addFileToZip(zw *zip.Writer, filename, name string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}

	header.Name = name
	header.Method = zip.Deflate

	writer, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	_, err = io.Copy(writer, file)
	return err
}
