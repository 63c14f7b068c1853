package query

import (
	"context"

	"github.com/lexivec/lexivec/internal/domain"
	domsearch "github.com/lexivec/lexivec/internal/domain/search"
	searchrepo "github.com/lexivec/lexivec/internal/repository/search"
)

// Repository is the backend contract for search execution.
type Repository interface {
	SearchKNN(
		ctx context.Context, indexName, vectorField string,
		vector []float32, k int, filter domsearch.Filter, returnFields []string,
	) ([]searchrepo.Row, error)

	SearchText(
		ctx context.Context, indexName string, textFields []string,
		query string, topK int, filter domsearch.Filter, returnFields []string,
	) ([]searchrepo.Row, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Reranker is the semantic re-ranking pass.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []domain.RerankCandidate, opts domain.RerankOptions) (domain.RerankResult, error)
}
