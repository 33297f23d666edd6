package port

import (
	"context"

	"github.com/fiapx/fiapx-dataset-splitter/internal/domain/entity"
)

type ExampleSource interface {
	Discover(ctx context.Context) ([]entity.Example, error)
}
