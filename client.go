package lexivec

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lexivec/lexivec/internal/db"
	dbredis "github.com/lexivec/lexivec/internal/db/redis"
	"github.com/lexivec/lexivec/internal/domain"
	"github.com/lexivec/lexivec/internal/domain/schema"
	"github.com/lexivec/lexivec/internal/metrics"
	docrepo "github.com/lexivec/lexivec/internal/repository/document"
	"github.com/lexivec/lexivec/internal/repository/embcache"
	indexrepo "github.com/lexivec/lexivec/internal/repository/index"
	searchrepo "github.com/lexivec/lexivec/internal/repository/search"
	transport "github.com/lexivec/lexivec/internal/transport/openai"
	indexuc "github.com/lexivec/lexivec/internal/usecase/index"
	ingestuc "github.com/lexivec/lexivec/internal/usecase/ingest"
	queryuc "github.com/lexivec/lexivec/internal/usecase/query"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the lexivec SDK entry point. It is safe for concurrent use.
type Client struct {
	store     db.Store
	embedder  domain.Embedder
	indexSvc  *indexuc.Service
	ingestSvc *ingestuc.Service
	querySvc  *queryuc.Service

	hnswM           int
	hnswEFConstruct int

	mu      sync.RWMutex
	schemas map[string]schema.Schema
}

// New creates a Client and connects to the search backend.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("lexivec: backend address required (use WithRedis)")
	}

	store, err := dbredis.NewStore(dbredis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("lexivec: create store: %w", err)
	}

	readiness := cfg.readinessTimeout
	if readiness <= 0 {
		readiness = defaultReadinessTimeout
	}
	if err := store.WaitForReady(context.Background(), readiness); err != nil {
		store.Close()
		return nil, fmt.Errorf("lexivec: backend not ready: %w", err)
	}

	return wireClient(store, cfg)
}

func wireClient(store db.Store, cfg *clientConfig) (*Client, error) {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	indexRepo := indexrepo.New(store)
	documentRepo := docrepo.New(store)
	searchRepo := searchrepo.New(store)

	var embedder domain.Embedder = noopEmbedder{}
	if cfg.embedder != nil {
		embedder = cfg.embedder
	} else if cfg.openAIKey != "" && cfg.embedModel != "" {
		embedder = transport.NewEmbedder(&transport.EmbedderConfig{
			APIKey:     cfg.openAIKey,
			BaseURL:    cfg.openAIBaseURL,
			Model:      cfg.embedModel,
			Dimensions: cfg.embedDims,
			Logger:     logger,
		})
	}
	if cfg.cacheEmbeddings {
		cached := embcache.New(embedder, store, metrics.EmbeddingCacheTotal, logger)
		if cfg.cacheTTL > 0 {
			cached = cached.WithTTL(cfg.cacheTTL)
		}
		embedder = cached
	}

	var reranker domain.Reranker
	if cfg.reranker != nil {
		reranker = cfg.reranker
	} else if cfg.rerankModel != "" && cfg.openAIKey != "" {
		reranker = transport.NewReranker(&transport.RerankerConfig{
			APIKey:  cfg.openAIKey,
			BaseURL: cfg.openAIBaseURL,
			Model:   cfg.rerankModel,
			Logger:  logger,
		})
	}

	ingestSvc := ingestuc.New(documentRepo, indexRepo, embedder)
	if cfg.maxBatchSize > 0 {
		ingestSvc = ingestSvc.WithMaxBatchSize(cfg.maxBatchSize)
	}

	return &Client{
		store:           store,
		embedder:        embedder,
		indexSvc:        indexuc.New(indexRepo),
		ingestSvc:       ingestSvc,
		querySvc:        queryuc.New(searchRepo, embedder, reranker),
		hnswM:           cfg.hnswM,
		hnswEFConstruct: cfg.hnswEFConstruct,
		schemas:         make(map[string]schema.Schema),
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks backend connectivity and, when the embedding provider
// exposes a health probe, provider availability.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if hc, ok := c.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding provider: %w", err)
		}
	}
	return nil
}

// Indexes returns the index management service.
func (c *Client) Indexes() *IndexService {
	return &IndexService{client: c}
}

// Documents returns the document service for a given index.
func (c *Client) Documents(index string) *DocumentService {
	return &DocumentService{client: c, index: index}
}

// Search returns the search service for a given index.
func (c *Client) Search(index string) *SearchService {
	return &SearchService{client: c, index: index}
}

// cachedSchema returns the schema for an index, loading it from the
// backend on first use. Queries validate against the cached schema
// before any network call.
func (c *Client) cachedSchema(ctx context.Context, index string) (schema.Schema, error) {
	c.mu.RLock()
	sch, ok := c.schemas[index]
	c.mu.RUnlock()
	if ok {
		return sch, nil
	}

	sch, err := c.indexSvc.Get(ctx, index)
	if err != nil {
		return schema.Schema{}, err
	}

	c.mu.Lock()
	c.schemas[index] = sch
	c.mu.Unlock()
	return sch, nil
}

func (c *Client) cacheSchema(sch schema.Schema) {
	c.mu.Lock()
	c.schemas[sch.Name()] = sch
	c.mu.Unlock()
}

func (c *Client) evictSchema(index string) {
	c.mu.Lock()
	delete(c.schemas, index)
	c.mu.Unlock()
}

// noopEmbedder rejects Embed calls (used when no embedder configured).
// Indexes whose documents carry pre-computed vectors work without one.
type noopEmbedder struct{}

func (noopEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, fmt.Errorf(
		"%w: embedder not configured (use WithEmbedder or WithOpenAIEmbedder)",
		domain.ErrProviderUnavailable,
	)
}
