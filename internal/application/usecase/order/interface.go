package order

import (
	"context"
)

type IngestUseCase interface {
	Execute(ctx context.Context, input IngestInput) (IngestOutput, error)
}
