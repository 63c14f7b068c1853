package ingest

import (
	"context"

	"github.com/lexivec/lexivec/internal/domain"
	domdoc "github.com/lexivec/lexivec/internal/domain/document"
	"github.com/lexivec/lexivec/internal/domain/schema"
)

// DocumentStore is the storage contract for document operations.
type DocumentStore interface {
	BatchUpsert(ctx context.Context, indexName string, docs []domdoc.Document, vectorField string) error
	Delete(ctx context.Context, indexName string, ids []string) (int64, error)
	Get(ctx context.Context, sch schema.Schema, id string) (domdoc.Document, error)
	Exists(ctx context.Context, indexName, id string) (bool, error)
}

// IndexReader resolves schemas and the backend readiness signal.
type IndexReader interface {
	Get(ctx context.Context, name string) (schema.Schema, error)
	CountIndexed(ctx context.Context, name string) (int64, bool, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
