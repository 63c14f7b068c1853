// Package ingest enriches documents with embeddings and uploads them as a
// single batch, reporting per-document outcomes.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lexivec/lexivec/internal/domain"
	dombatch "github.com/lexivec/lexivec/internal/domain/batch"
	domdoc "github.com/lexivec/lexivec/internal/domain/document"
	"github.com/lexivec/lexivec/internal/domain/schema"
	"github.com/lexivec/lexivec/internal/logger"
)

// MaxBatchSize is the default maximum number of documents per batch.
const MaxBatchSize = 100

// Readiness poll backoff bounds.
const (
	pollInitialDelay = 50 * time.Millisecond
	pollMaxDelay     = 2 * time.Second
)

// Service is the document ingestion client.
type Service struct {
	docs         DocumentStore
	indexes      IndexReader
	embed        Embedder
	maxBatchSize int
}

// New creates an ingestion service.
func New(docs DocumentStore, indexes IndexReader, embed Embedder) *Service {
	return &Service{docs: docs, indexes: indexes, embed: embed, maxBatchSize: MaxBatchSize}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// Ingest validates the documents against the index schema, computes the
// missing embedding vectors in input order, and submits everything as one
// upload batch. The returned IngestResult preserves input order; when the
// outcome is mixed, the error is a PartialFailureError and callers should
// retry only the failed subset. Visibility is eventually consistent:
// pair with WaitForQueryable before asserting query results.
func (s *Service) Ingest(ctx context.Context, indexName string, docs []domdoc.Document) (dombatch.IngestResult, error) {
	ir := dombatch.IngestResult{Results: make([]dombatch.Result, len(docs))}
	if len(docs) == 0 {
		return ir, nil
	}
	if len(docs) > s.maxBatchSize {
		return ir, fmt.Errorf("%w: batch size %d exceeds %d", domain.ErrInvalidInput, len(docs), s.maxBatchSize)
	}

	sch, err := s.indexes.Get(ctx, indexName)
	if err != nil {
		return ir, fmt.Errorf("get index: %w", err)
	}

	valid := make([]domdoc.Document, 0, len(docs))
	validIdx := make([]int, 0, len(docs))

	for i := range docs {
		doc := docs[i]
		if err := validateDoc(&doc, sch); err != nil {
			ir.Results[i] = dombatch.NewError(doc.ID(), err)
			continue
		}
		if !doc.HasVector() && sch.Vector() != nil {
			cascade, err := s.vectorize(ctx, &doc, sch, &ir)
			if err != nil {
				ir.Results[i] = dombatch.NewError(doc.ID(), err)
				if cascade {
					for j := i + 1; j < len(docs); j++ {
						ir.Results[j] = dombatch.NewError(docs[j].ID(), err)
					}
					// Documents embedded before the abort were never
					// uploaded; mark them failed so the retry set is
					// complete.
					aborted := fmt.Errorf("not uploaded: batch aborted: %w", err)
					for _, k := range validIdx {
						ir.Results[k] = dombatch.NewError(docs[k].ID(), aborted)
					}
					return ir, ir.Err()
				}
				continue
			}
		}
		valid = append(valid, doc)
		validIdx = append(validIdx, i)
	}

	if len(valid) > 0 {
		vectorField := ""
		if v := sch.Vector(); v != nil {
			vectorField = v.FieldName
		}
		if err := s.docs.BatchUpsert(ctx, indexName, valid, vectorField); err != nil {
			for _, i := range validIdx {
				ir.Results[i] = dombatch.NewError(docs[i].ID(), fmt.Errorf("upload: %w", err))
			}
			return ir, ir.Err()
		}
	}

	for _, i := range validIdx {
		ir.Results[i] = dombatch.NewOK(docs[i].ID())
	}
	return ir, ir.Err()
}

// vectorize embeds the document's source field text. The cascade flag is
// set for quota/rate-limit failures: remaining documents would fail the
// same way, so the batch stops embedding.
func (s *Service) vectorize(ctx context.Context, doc *domdoc.Document, sch schema.Schema, ir *dombatch.IngestResult) (bool, error) {
	source := sch.Vector().SourceField
	if source == "" {
		return false, fmt.Errorf("%w: index has no vector source field and document %q has no vector", domain.ErrInvalidInput, doc.ID())
	}
	text := doc.String(source)
	if text == "" {
		return false, fmt.Errorf("%w: document %q has empty %q", domain.ErrInvalidInput, doc.ID(), source)
	}

	res, err := s.embed.Embed(ctx, text)
	if err != nil {
		cascade := errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrTimeout)
		return cascade, fmt.Errorf("vectorize: %w", err)
	}
	ir.EmbeddingTokens += res.TotalTokens

	if res.Dim() != sch.Vector().Dimensions {
		return false, fmt.Errorf("embedding has %d dimensions, index declares %d: %w",
			res.Dim(), sch.Vector().Dimensions, domain.ErrDimensionMismatch)
	}
	doc.SetVector(res.Vector)
	return false, nil
}

// Delete removes documents by ID in batch, reporting per-document outcomes.
func (s *Service) Delete(ctx context.Context, indexName string, ids []string) ([]dombatch.Result, error) {
	results := make([]dombatch.Result, len(ids))
	if len(ids) == 0 {
		return results, nil
	}
	if len(ids) > s.maxBatchSize {
		return results, fmt.Errorf("%w: batch size %d exceeds %d", domain.ErrInvalidInput, len(ids), s.maxBatchSize)
	}

	if _, err := s.docs.Delete(ctx, indexName, ids); err != nil {
		for i, id := range ids {
			results[i] = dombatch.NewError(id, err)
		}
		return results, domain.NewPartialFailure(ids)
	}
	for i, id := range ids {
		results[i] = dombatch.NewOK(id)
	}
	return results, nil
}

// Get retrieves a single document with schema-typed attributes.
func (s *Service) Get(ctx context.Context, indexName, id string) (domdoc.Document, error) {
	sch, err := s.indexes.Get(ctx, indexName)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get index: %w", err)
	}
	return s.docs.Get(ctx, sch, id)
}

// Exists reports whether a document is stored.
func (s *Service) Exists(ctx context.Context, indexName, id string) (bool, error) {
	return s.docs.Exists(ctx, indexName, id)
}

// WaitForQueryable polls the backend readiness signal (indexed document
// count plus the background-indexing flag) with capped exponential
// backoff until at least minDocs documents are visible or the context
// deadline expires with ErrTimeout. This replaces any fixed post-upload
// sleep: document visibility is eventually consistent.
func (s *Service) WaitForQueryable(ctx context.Context, indexName string, minDocs int64) error {
	log := logger.FromContext(ctx)
	delay := pollInitialDelay
	for {
		n, done, err := s.indexes.CountIndexed(ctx, indexName)
		if err != nil {
			return fmt.Errorf("readiness poll: %w", err)
		}
		if n >= minDocs && done {
			return nil
		}
		log.Debug("Index not yet queryable",
			zap.String("index", indexName),
			zap.Int64("indexed", n),
			zap.Int64("expected", minDocs),
			zap.Bool("indexing", !done),
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: index %q not queryable (%d/%d docs indexed)",
				domain.ErrTimeout, indexName, n, minDocs)
		case <-time.After(delay):
		}
		delay *= 2
		if delay > pollMaxDelay {
			delay = pollMaxDelay
		}
	}
}

func validateDoc(doc *domdoc.Document, sch schema.Schema) error {
	for name := range doc.Strings() {
		f, ok := sch.FieldByName(name)
		if !ok {
			return fmt.Errorf("%w: %q", domain.ErrUnknownField, name)
		}
		if f.FieldType() == schema.TypeNumeric {
			return fmt.Errorf("%w: field %q is numeric, got string", domain.ErrInvalidInput, name)
		}
	}
	for name := range doc.Numerics() {
		f, ok := sch.FieldByName(name)
		if !ok {
			return fmt.Errorf("%w: %q", domain.ErrUnknownField, name)
		}
		if f.FieldType() != schema.TypeNumeric {
			return fmt.Errorf("%w: field %q is %s, got number", domain.ErrInvalidInput, name, f.FieldType())
		}
	}
	if doc.HasVector() {
		v := sch.Vector()
		if v == nil {
			return fmt.Errorf("%w: index has no vector field", domain.ErrInvalidInput)
		}
		if len(doc.Vector()) != v.Dimensions {
			return fmt.Errorf("vector has %d dimensions, index declares %d: %w",
				len(doc.Vector()), v.Dimensions, domain.ErrDimensionMismatch)
		}
	}
	return nil
}
