package domain

import "context"

// RerankCandidate is a single document handed to the semantic reranker.
type RerankCandidate struct {
	ID      string
	Content string
}

// RerankOptions controls caption and answer extraction on the rerank pass.
type RerankOptions struct {
	Captions   bool
	Answers    bool
	MaxAnswers int
}

// RerankedItem is one candidate after semantic re-ranking.
type RerankedItem struct {
	ID      string
	Score   float64 // semantic relevance, provider-defined scale
	Caption string  // empty when caption extraction is off or yielded nothing
}

// RerankResult is the outcome of a semantic re-ranking pass.
// Items are ordered by decreasing semantic relevance. Answers are
// result-set level extracted passages; absence is not an error.
type RerankResult struct {
	Items   []RerankedItem
	Answers []string
}

// Reranker is a secondary relevance pass delegated to a hosted
// language-understanding service.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []RerankCandidate, opts RerankOptions) (RerankResult, error)
}
