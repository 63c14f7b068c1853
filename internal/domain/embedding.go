package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
// One outbound call per invocation, no caching and no retries: callers
// needing either wrap the embedder externally.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage.
type EmbeddingResult struct {
	Vector       []float32
	PromptTokens int
	TotalTokens  int
}

// Dim returns the vector length.
func (r EmbeddingResult) Dim() int { return len(r.Vector) }
