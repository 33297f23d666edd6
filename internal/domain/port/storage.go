package port

import "context"

type DatasetStorage interface {
	UploadTree(ctx context.Context, dir string, prefix string) (int, error)
}
