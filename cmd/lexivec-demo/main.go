// Command lexivec-demo runs the reference flow against a live backend:
// create a hotel index, ingest a small corpus, wait for visibility, and
// execute every query shape.
package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lexivec/lexivec"
	"github.com/lexivec/lexivec/internal/config"
	logpkg "github.com/lexivec/lexivec/internal/logger"
	"github.com/lexivec/lexivec/internal/metrics"
	"github.com/lexivec/lexivec/internal/version"
)

const indexName = "hotels-demo"

func main() {
	env := config.GetEnv()

	cfg := config.MustLoad(env)

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting lexivec demo",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	metrics.Register()

	opts := []lexivec.Option{
		lexivec.WithRedisCluster(cfg.Database.Addrs, cfg.Database.Password),
		lexivec.WithRedisAuth(cfg.Database.Username, cfg.Database.DB),
		lexivec.WithReadinessTimeout(time.Duration(cfg.Database.ReadinessTimeout) * time.Second),
		lexivec.WithHNSW(cfg.Index.HNSWM, cfg.Index.HNSWEFConstruct),
		lexivec.WithMaxBatchSize(cfg.Index.MaxBatchSize),
		lexivec.WithLogger(logger),
	}
	if cfg.Embedding.APIKey != "" {
		opts = append(opts, lexivec.WithOpenAIEmbedder(
			cfg.Embedding.APIKey, cfg.Embedding.Model, cfg.Embedding.Dimensions,
		))
		if cfg.Embedding.BaseURL != "" {
			opts = append(opts, lexivec.WithOpenAIBaseURL(cfg.Embedding.BaseURL))
		}
		if cfg.Embedding.Cache {
			opts = append(opts, lexivec.WithEmbeddingCache())
		}
		if cfg.Semantic.Model != "" {
			opts = append(opts, lexivec.WithOpenAIReranker(cfg.Semantic.Model))
		}
	}

	client, err := lexivec.New(opts...)
	if err != nil {
		logger.Fatal("Failed to create client", zap.Error(err))
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logpkg.ContextWithLogger(ctx, logger)

	if err := run(ctx, client, cfg, logger); err != nil {
		logger.Fatal("Demo failed", zap.Error(err))
	}
	logger.Info("Demo finished")
}

func run(ctx context.Context, client *lexivec.Client, cfg config.Config, logger *zap.Logger) error {
	// Fresh index each run.
	_ = client.Indexes().Delete(ctx, indexName)

	fields := []lexivec.FieldSpec{
		{Name: "hotelId", Type: lexivec.FieldTypeString, Key: true},
		{Name: "hotelName", Type: lexivec.FieldTypeText, Searchable: true, Retrievable: true},
		{Name: "description", Type: lexivec.FieldTypeText, Searchable: true, Retrievable: true},
		{Name: "category", Type: lexivec.FieldTypeString, Filterable: true, Facetable: true, Retrievable: true},
		{Name: "rating", Type: lexivec.FieldTypeNumeric, Filterable: true, Sortable: true, Retrievable: true},
	}
	vector := lexivec.VectorFieldSpec{
		Name:        "descriptionVector",
		SourceField: "description",
		Dimensions:  cfg.Embedding.Dimensions,
	}
	semantic := &lexivec.SemanticSpec{
		TitleField:    "hotelName",
		ContentFields: []string{"description"},
		KeywordFields: []string{"category"},
	}

	if _, err := client.Indexes().Create(ctx, indexName, fields, vector, semantic); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	logger.Info("Index created", zap.String("index", indexName))

	docs := hotelCorpus()
	result, err := client.Documents(indexName).Ingest(ctx, docs)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	logger.Info("Corpus ingested",
		zap.Int("succeeded", result.Succeeded),
		zap.Int("embedding_tokens", result.EmbeddingTokens),
	)

	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := client.Documents(indexName).WaitForQueryable(waitCtx, int64(len(docs))); err != nil {
		return fmt.Errorf("wait for queryable: %w", err)
	}

	search := client.Search(indexName)

	// Shape 1: pure vector search via a probe document's own vector.
	probe, err := client.Documents(indexName).Get(ctx, "1")
	if err != nil {
		return fmt.Errorf("get probe document: %w", err)
	}
	rs, err := search.Vector(ctx, probe.Vector, &lexivec.SearchOptions{K: 3})
	if err != nil {
		return fmt.Errorf("vector search: %w", err)
	}
	printResults(logger, "vector k=3", rs)

	// Shape 2: vector search restricted by a category filter.
	rs, err = search.Vector(ctx, probe.Vector, &lexivec.SearchOptions{
		K: 3,
		Filter: &lexivec.Filter{
			All: []lexivec.FilterCondition{{Field: "category", Equals: "Luxury"}},
		},
	})
	if err != nil {
		return fmt.Errorf("filtered vector search: %w", err)
	}
	printResults(logger, "vector k=3 category=Luxury", rs)

	// Shape 3: hybrid keyword + vector search.
	rs, err = search.Hybrid(ctx, "historic hotel walk to restaurants and shopping", &lexivec.SearchOptions{K: 5})
	if err != nil {
		return fmt.Errorf("hybrid search: %w", err)
	}
	printResults(logger, "hybrid", rs)

	// Shape 4: hybrid + semantic reranking with captions and answers.
	if cfg.Semantic.Model != "" {
		rs, err = search.Semantic(ctx, "which hotel is closest to downtown attractions?", &lexivec.SemanticOptions{
			SearchOptions: lexivec.SearchOptions{K: 5},
			Captions:      true,
			Answers:       true,
		})
		if err != nil {
			return fmt.Errorf("semantic search: %w", err)
		}
		printResults(logger, "semantic", rs)
		for _, a := range rs.Answers {
			logger.Info("Answer", zap.String("text", a))
		}
	}

	return nil
}

func printResults(logger *zap.Logger, shape string, rs lexivec.SearchResults) {
	logger.Info("Query results", zap.String("shape", shape), zap.Int("count", len(rs.Hits)))
	for i, h := range rs.Hits {
		logger.Info("Hit",
			zap.Int("rank", i+1),
			zap.String("id", h.ID),
			zap.Float64("score", h.Score),
			zap.String("hotelName", h.Strings["hotelName"]),
			zap.String("caption", h.Caption),
		)
	}
}

func hotelCorpus() []lexivec.Document {
	return []lexivec.Document{
		{
			ID: "1",
			Strings: map[string]string{
				"hotelId":     "1",
				"hotelName":   "Stay-Kay City Hotel",
				"description": "This classic hotel is fully-refurbished and ideally located on the main commercial artery of the city in the heart of New York. A few minutes away is Times Square and the historic centre of the city, as well as other places of interest that make New York one of America's most attractive and cosmopolitan cities.",
				"category":    "Boutique",
			},
			Numerics: map[string]float64{"rating": 3.6},
		},
		{
			ID: "2",
			Strings: map[string]string{
				"hotelId":     "2",
				"hotelName":   "Old Century Hotel",
				"description": "The hotel is situated in a nineteenth century plaza, which has been expanded and renovated to the highest architectural standards to create a modern, functional and first-class hotel in which art and unique historical elements coexist with the most modern comforts.",
				"category":    "Boutique",
			},
			Numerics: map[string]float64{"rating": 3.6},
		},
		{
			ID: "3",
			Strings: map[string]string{
				"hotelId":     "3",
				"hotelName":   "Gastronomic Landscape Hotel",
				"description": "The Gastronomic Hotel stands out for its culinary excellence under the management of William Dough, who advises on and oversees all of the Hotel's restaurant services.",
				"category":    "Suite",
			},
			Numerics: map[string]float64{"rating": 4.8},
		},
		{
			ID: "4",
			Strings: map[string]string{
				"hotelId":     "4",
				"hotelName":   "Sublime Palace Hotel",
				"description": "Sublime Palace Hotel is located in a nineteenth century city center building, and it was redesigned by a famous architect. The hotel combines historic charm with modern luxury amenities.",
				"category":    "Luxury",
			},
			Numerics: map[string]float64{"rating": 4.6},
		},
		{
			ID: "5",
			Strings: map[string]string{
				"hotelId":     "5",
				"hotelName":   "Grand Harbor Resort",
				"description": "Premium waterfront resort with panoramic harbor views, a spa, and fine dining. Walking distance to downtown shopping and the convention center.",
				"category":    "Luxury",
			},
			Numerics: map[string]float64{"rating": 4.9},
		},
	}
}
