package lexivec

import (
	"context"
	"errors"
	"fmt"

	"github.com/lexivec/lexivec/internal/domain"
	"github.com/lexivec/lexivec/internal/domain/batch"
	domdoc "github.com/lexivec/lexivec/internal/domain/document"
)

// DocumentService reads and writes documents of one index.
type DocumentService struct {
	client *Client
	index  string
}

// Ingest uploads a batch of documents. Documents without a vector are
// embedded from the index's vector source field in input order. The
// result reports a per-document outcome at the same position as the
// input; a mixed outcome returns both the result and a
// PartialFailureError listing the failed IDs.
//
// Visibility is eventually consistent: pair with WaitForQueryable
// before asserting query results.
func (s *DocumentService) Ingest(ctx context.Context, docs []Document) (IngestResult, error) {
	outcomes := make([]IngestOutcome, len(docs))
	valid := make([]domdoc.Document, 0, len(docs))
	validIdx := make([]int, 0, len(docs))

	for i, d := range docs {
		doc, err := toDomainDocument(d)
		if err != nil {
			outcomes[i] = IngestOutcome{ID: d.ID, Err: err, Message: err.Error()}
			continue
		}
		valid = append(valid, doc)
		validIdx = append(validIdx, i)
	}

	var (
		ir  batch.IngestResult
		err error
	)
	if len(valid) > 0 || len(docs) == 0 {
		ir, err = s.client.ingestSvc.Ingest(ctx, s.index, valid)
	}
	// Scatter the service outcomes back to their input positions.
	// Success is counted from the per-document statuses, never from a
	// missing error: a batch-level failure leaves outcomes unresolved
	// and those are not successes.
	sub := fromIngestResult(ir)
	for j, i := range validIdx {
		if j >= len(sub.Outcomes) {
			break
		}
		outcomes[i] = sub.Outcomes[j]
	}

	out := IngestResult{
		Outcomes:        outcomes,
		Succeeded:       sub.Succeeded,
		EmbeddingTokens: sub.EmbeddingTokens,
	}
	failed := make([]string, 0)
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o.ID)
		}
	}

	// A batch-level error wins. A partial failure is rebuilt here so the
	// failed ID list covers conversion rejections too.
	if err != nil && !errors.Is(err, domain.ErrPartialFailure) {
		return out, err
	}
	if len(failed) > 0 {
		return out, domain.NewPartialFailure(failed)
	}
	return out, nil
}

// Get retrieves a document by ID with schema-typed attributes.
func (s *DocumentService) Get(ctx context.Context, id string) (Document, error) {
	doc, err := s.client.ingestSvc.Get(ctx, s.index, id)
	if err != nil {
		return Document{}, fmt.Errorf("get %q: %w", id, err)
	}
	return Document{
		ID:       doc.ID(),
		Strings:  doc.Strings(),
		Numerics: doc.Numerics(),
		Vector:   doc.Vector(),
	}, nil
}

// Exists reports whether a document is stored.
func (s *DocumentService) Exists(ctx context.Context, id string) (bool, error) {
	return s.client.ingestSvc.Exists(ctx, s.index, id)
}

// Delete removes documents by ID in batch.
func (s *DocumentService) Delete(ctx context.Context, ids []string) ([]IngestOutcome, error) {
	results, err := s.client.ingestSvc.Delete(ctx, s.index, ids)
	outcomes := make([]IngestOutcome, 0, len(results))
	for _, r := range results {
		o := IngestOutcome{ID: r.ID(), Err: r.Err()}
		if e := r.Err(); e != nil {
			o.Message = e.Error()
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, err
}

// WaitForQueryable blocks until at least minDocs documents are indexed
// and background indexing is idle, or the context deadline expires with
// ErrTimeout.
func (s *DocumentService) WaitForQueryable(ctx context.Context, minDocs int64) error {
	return s.client.ingestSvc.WaitForQueryable(ctx, s.index, minDocs)
}
