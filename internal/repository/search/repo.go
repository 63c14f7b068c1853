// Package search issues KNN and lexical queries against the backend and
// returns raw rows for the projector to type.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lexivec/lexivec/internal/db"
	"github.com/lexivec/lexivec/internal/domain"
	domsearch "github.com/lexivec/lexivec/internal/domain/search"
)

// store is the consumer interface for search operations.
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Row is one raw backend hit before projection.
type Row struct {
	ID     string
	Score  float64
	Fields map[string]string
}

// Repo implements the search contract.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SearchKNN runs a pre-filtered K-nearest-neighbor query. The filter
// expression is compiled into the backend query string and applied before
// candidate selection, so a restrictive filter shrinks the result count
// below K.
func (r *Repo) SearchKNN(
	ctx context.Context, indexName, vectorField string,
	vector []float32, k int, filter domsearch.Filter, returnFields []string,
) ([]Row, error) {
	q := &db.KNNQuery{
		IndexName:    domain.IndexKey(indexName),
		VectorField:  vectorField,
		Vector:       vector,
		K:            k,
		FilterQuery:  compileFilter(filter),
		ReturnFields: returnFields,
	}
	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("knn search %s: %w", indexName, mapErr(ctx, err))
	}
	return toRows(sr, indexName), nil
}

// SearchText runs a lexical BM25 query over the given text fields with
// the same pre-filter semantics as SearchKNN.
func (r *Repo) SearchText(
	ctx context.Context, indexName string, textFields []string,
	query string, topK int, filter domsearch.Filter, returnFields []string,
) ([]Row, error) {
	q := &db.TextQuery{
		IndexName:    domain.IndexKey(indexName),
		TextFields:   textFields,
		Query:        query,
		FilterQuery:  compileFilter(filter),
		TopK:         topK,
		ReturnFields: returnFields,
	}
	sr, err := r.store.SearchText(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("text search %s: %w", indexName, mapErr(ctx, err))
	}
	return toRows(sr, indexName), nil
}

func toRows(sr *db.SearchResult, indexName string) []Row {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}
	prefix := domain.DocPrefix(indexName)
	rows := make([]Row, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		rows = append(rows, Row{
			ID:     strings.TrimPrefix(e.Key, prefix),
			Score:  e.Score,
			Fields: e.Fields,
		})
	}
	return rows
}

// compileFilter translates the domain filter into a backend pre-filter
// query string. Empty filters compile to "" (unfiltered).
func compileFilter(f domsearch.Filter) string {
	if f.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, len(f.All())+len(f.Not())+1)
	for _, c := range f.All() {
		parts = append(parts, compileCondition(c))
	}
	if any := f.Any(); len(any) > 0 {
		alts := make([]string, len(any))
		for i, c := range any {
			alts[i] = compileCondition(c)
		}
		parts = append(parts, "("+strings.Join(alts, "|")+")")
	}
	for _, c := range f.Not() {
		parts = append(parts, "-"+compileCondition(c))
	}
	return strings.Join(parts, " ")
}

func compileCondition(c domsearch.Condition) string {
	if c.IsMatch() {
		return fmt.Sprintf("@%s:{%s}", c.Field(), escapeTagValue(c.Match()))
	}
	return fmt.Sprintf("@%s:[%s %s]", c.Field(), lowerBound(c.Range()), upperBound(c.Range()))
}

func lowerBound(r *domsearch.Range) string {
	if r.Min == nil {
		return "-inf"
	}
	if r.MinExclusive {
		return fmt.Sprintf("(%g", *r.Min)
	}
	return fmt.Sprintf("%g", *r.Min)
}

func upperBound(r *domsearch.Range) string {
	if r.Max == nil {
		return "+inf"
	}
	if r.MaxExclusive {
		return fmt.Sprintf("(%g", *r.Max)
	}
	return fmt.Sprintf("%g", *r.Max)
}

// escapeTagValue neutralizes TAG query syntax in match values.
func escapeTagValue(v string) string {
	r := strings.NewReplacer(
		"{", "\\{", "}", "\\}", "|", "\\|", " ", "\\ ",
		",", "\\,", "-", "\\-", ":", "\\:",
	)
	return r.Replace(v)
}

func mapErr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrQueryFailed, err)
}
