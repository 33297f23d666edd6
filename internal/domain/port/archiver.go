package port

import "context"

type Archiver interface {
	ArchiveDir(ctx context.Context, dir string, outputPath string) (int, error)
}
