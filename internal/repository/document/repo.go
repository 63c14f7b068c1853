// Package document stores documents as backend hashes under the index
// document prefix, where the FT index picks them up for search.
package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/lexivec/lexivec/internal/db"
	"github.com/lexivec/lexivec/internal/domain"
	domdoc "github.com/lexivec/lexivec/internal/domain/document"
	"github.com/lexivec/lexivec/internal/domain/schema"
)

// store is the consumer interface for document operations.
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, keys ...string) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// Repo implements the document storage contract.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// BatchUpsert uploads the documents in one pipelined round-trip,
// preserving input order in the request. Existing documents with the same
// ID are superseded (backend upsert semantics).
func (r *Repo) BatchUpsert(ctx context.Context, indexName string, docs []domdoc.Document, vectorField string) error {
	if len(docs) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, len(docs))
	for i := range docs {
		items[i] = db.HashSetItem{
			Key:    domain.DocKey(indexName, docs[i].ID()),
			Fields: toHashFields(&docs[i], vectorField),
		}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("batch upsert: %w", mapErr(ctx, err))
	}
	return nil
}

// Get fetches one document by ID, typing its attributes via the schema.
func (r *Repo) Get(ctx context.Context, sch schema.Schema, id string) (domdoc.Document, error) {
	fields, err := r.store.HGetAll(ctx, domain.DocKey(sch.Name(), id))
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document %q: %w", id, mapErr(ctx, err))
	}
	if len(fields) == 0 {
		return domdoc.Document{}, fmt.Errorf("document %q: %w", id, domain.ErrDocumentNotFound)
	}

	vectorField := ""
	if v := sch.Vector(); v != nil {
		vectorField = v.FieldName
	}
	doc := fromHashFields(id, fields, vectorField, func(name string) bool {
		f, ok := sch.FieldByName(name)
		return ok && f.FieldType() == schema.TypeNumeric
	})
	return doc, nil
}

// Delete removes documents by ID and returns how many existed.
func (r *Repo) Delete(ctx context.Context, indexName string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = domain.DocKey(indexName, id)
	}
	n, err := r.store.Del(ctx, keys...)
	if err != nil {
		return 0, fmt.Errorf("batch delete: %w", mapErr(ctx, err))
	}
	return n, nil
}

// Exists reports whether a document is stored.
func (r *Repo) Exists(ctx context.Context, indexName, id string) (bool, error) {
	ok, err := r.store.Exists(ctx, domain.DocKey(indexName, id))
	if err != nil {
		return false, fmt.Errorf("exists %q: %w", id, mapErr(ctx, err))
	}
	return ok, nil
}

func mapErr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	return err
}
