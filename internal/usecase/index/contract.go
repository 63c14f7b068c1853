package index

import (
	"context"

	"github.com/lexivec/lexivec/internal/domain/schema"
)

// Repository is the storage contract for index management.
type Repository interface {
	Create(ctx context.Context, sch schema.Schema) error
	Get(ctx context.Context, name string) (schema.Schema, error)
	Delete(ctx context.Context, name string) error
	CountIndexed(ctx context.Context, name string) (int64, bool, error)
}
