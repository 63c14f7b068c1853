package lexivec

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs            []string
	username         string
	password         string
	db               int
	readinessTimeout time.Duration

	embedder Embedder
	reranker Reranker

	openAIKey     string
	openAIBaseURL string
	embedModel    string
	embedDims     int
	rerankModel   string

	cacheEmbeddings bool
	cacheTTL        time.Duration

	hnswM           int
	hnswEFConstruct int
	maxBatchSize    int

	logger *zap.Logger
}

// WithRedis configures the client to connect to a Redis instance with
// the search module loaded.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedisCluster configures the client to connect to a Redis cluster.
func WithRedisCluster(addrs []string, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = addrs
		c.password = password
	})
}

// WithRedisAuth sets the ACL username and logical database.
func WithRedisAuth(username string, db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.db = db
	})
}

// WithReadinessTimeout bounds how long New waits for the backend to
// accept connections. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithEmbedder sets the text embedding provider. Required for indexes
// whose documents arrive without vectors and for text queries.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithOpenAIEmbedder configures an OpenAI-compatible embedding
// provider. dims must match the vector dimensions of the indexes the
// client works against.
func WithOpenAIEmbedder(apiKey, model string, dims int) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIKey = apiKey
		c.embedModel = model
		c.embedDims = dims
	})
}

// WithOpenAIBaseURL points the OpenAI-compatible providers at a custom
// endpoint (proxies, self-hosted gateways).
func WithOpenAIBaseURL(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIBaseURL = baseURL
	})
}

// WithReranker sets the semantic reranking provider.
func WithReranker(r Reranker) Option {
	return optionFunc(func(c *clientConfig) {
		c.reranker = r
	})
}

// WithOpenAIReranker configures a chat-based semantic reranker on the
// same OpenAI-compatible endpoint as the embedder.
func WithOpenAIReranker(model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.rerankModel = model
	})
}

// WithEmbeddingCache caches embedding vectors in the backend keyed by
// content hash, so re-ingesting unchanged documents costs no tokens.
func WithEmbeddingCache() Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheEmbeddings = true
	})
}

// WithEmbeddingCacheTTL enables the embedding cache with an expiration
// on cached vectors, so a model change does not serve stale embeddings
// forever. Zero TTL keeps entries indefinitely.
func WithEmbeddingCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheEmbeddings = true
		c.cacheTTL = ttl
	})
}

// WithHNSW sets default HNSW graph parameters for created indexes.
// Per-index values in VectorFieldSpec take precedence.
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithMaxBatchSize caps the number of documents per ingest batch.
// Default: 100.
func WithMaxBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBatchSize = size
	})
}

// WithLogger enables structured logging for client operations.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
