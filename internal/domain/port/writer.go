package port

import (
	"context"

	"github.com/fiapx/fiapx-dataset-splitter/internal/domain/entity"
)

type SplitWriter interface {
	// Prepare creates the output tree. Calling it on an existing tree is not an error.
	Prepare(ctx context.Context) error
	// Copy writes the example's image and annotation into the subset and returns bytes written.
	Copy(ctx context.Context, ex entity.Example, subset entity.Subset) (int64, error)
	Root() string
}
