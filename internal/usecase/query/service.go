// Package query is the search orchestrator: it validates a query against
// the index schema, derives the query vector, issues the backend calls
// for the requested shape, and projects raw results into a typed
// ResultSet.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/lexivec/lexivec/internal/domain"
	"github.com/lexivec/lexivec/internal/domain/schema"
	domsearch "github.com/lexivec/lexivec/internal/domain/search"
	"github.com/lexivec/lexivec/internal/metrics"
)

// Service executes search queries. It holds no cross-call state: every
// query owns its Query/ResultSet pair, so concurrent execution is safe.
type Service struct {
	repo   Repository
	embed  Embedder
	rerank Reranker
}

// New creates a query service. rerank may be nil when the deployment has
// no semantic provider; semantic queries then fail up front.
func New(repo Repository, embed Embedder, rerank Reranker) *Service {
	return &Service{repo: repo, embed: embed, rerank: rerank}
}

// Execute runs one query of any shape. All validation (neighbor count,
// vector dimension, projection and filter fields, semantic configuration)
// happens against the given schema before any network call.
func (s *Service) Execute(ctx context.Context, sch schema.Schema, q *domsearch.Query) (domsearch.ResultSet, error) {
	if err := validate(sch, q); err != nil {
		metrics.QueriesTotal.WithLabelValues(string(q.Mode()), "invalid").Inc()
		return domsearch.ResultSet{}, err
	}

	start := time.Now()
	rs, err := s.execute(ctx, sch, q)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues(string(q.Mode()), "error").Inc()
		return domsearch.ResultSet{}, err
	}
	metrics.QueriesTotal.WithLabelValues(string(q.Mode()), "success").Inc()
	metrics.QueryDuration.WithLabelValues(string(q.Mode())).Observe(time.Since(start).Seconds())
	return rs, nil
}

func (s *Service) execute(ctx context.Context, sch schema.Schema, q *domsearch.Query) (domsearch.ResultSet, error) {
	rs := domsearch.ResultSet{}

	// Derive the query vector from the text for shapes that carry text
	// but no explicit vector.
	vc := q.VectorClause()
	if len(vc.Vector) == 0 {
		res, err := s.embed.Embed(ctx, q.Text())
		if err != nil {
			return rs, fmt.Errorf("vectorize query: %w", err)
		}
		rs.EmbeddingTokens += res.TotalTokens
		if res.Dim() != sch.Vector().Dimensions {
			return rs, fmt.Errorf("query embedding has %d dimensions, index declares %d: %w",
				res.Dim(), sch.Vector().Dimensions, domain.ErrDimensionMismatch)
		}
		q.SetVector(res.Vector)
		vc = q.VectorClause()
	}

	fetch := fetchFields(sch, q)

	switch q.Mode() {
	case domsearch.ModeVector:
		hits, err := s.searchKNN(ctx, sch, q, fetch)
		if err != nil {
			return rs, err
		}
		rs.Hits = hits

	case domsearch.ModeHybrid, domsearch.ModeSemantic:
		hits, err := s.searchHybrid(ctx, sch, q, fetch)
		if err != nil {
			return rs, err
		}
		rs.Hits = hits

		if q.Mode() == domsearch.ModeSemantic {
			if err := s.applySemantic(ctx, sch, q, &rs); err != nil {
				return domsearch.ResultSet{}, err
			}
		}

	default:
		return rs, fmt.Errorf("%w: unsupported mode %q", domain.ErrInvalidInput, q.Mode())
	}

	trimHits(rs.Hits, selection(sch, q))
	return rs, nil
}

func (s *Service) searchKNN(ctx context.Context, sch schema.Schema, q *domsearch.Query, fetch []string) ([]domsearch.Hit, error) {
	vc := q.VectorClause()
	rows, err := s.repo.SearchKNN(ctx, sch.Name(), vc.Field, vc.Vector, vc.K, q.Filter(), fetch)
	if err != nil {
		return nil, err
	}
	return projectRows(rows, sch), nil
}

// searchHybrid runs the lexical and vector legs and fuses them with
// Reciprocal Rank Fusion. Fusion is this backend's declared policy: the
// combined score is opaque to callers, only the order matters.
func (s *Service) searchHybrid(ctx context.Context, sch schema.Schema, q *domsearch.Query, fetch []string) ([]domsearch.Hit, error) {
	vc := q.VectorClause()

	knnRows, err := s.repo.SearchKNN(ctx, sch.Name(), vc.Field, vc.Vector, vc.K, q.Filter(), fetch)
	if err != nil {
		return nil, err
	}
	textRows, err := s.repo.SearchText(ctx, sch.Name(), searchableTextFields(sch), q.Text(), vc.K, q.Filter(), fetch)
	if err != nil {
		return nil, err
	}

	return fuseRRF(projectRows(knnRows, sch), projectRows(textRows, sch), vc.K), nil
}

// applySemantic runs the re-ranking pass over the fused hits, reorders
// them, and attaches captions and answers. Caption/answer absence is not
// an error.
func (s *Service) applySemantic(ctx context.Context, sch schema.Schema, q *domsearch.Query, rs *domsearch.ResultSet) error {
	if s.rerank == nil {
		return fmt.Errorf("%w: no semantic provider configured", domain.ErrSemanticNotConfigured)
	}
	if len(rs.Hits) == 0 {
		return nil
	}

	sem := q.Semantic()
	candidates := make([]domain.RerankCandidate, len(rs.Hits))
	for i := range rs.Hits {
		candidates[i] = domain.RerankCandidate{
			ID:      rs.Hits[i].ID(),
			Content: semanticContent(&rs.Hits[i], sch.Semantic()),
		}
	}

	result, err := s.rerank.Rerank(ctx, q.Text(), candidates, domain.RerankOptions{
		Captions:   sem.Captions,
		Answers:    sem.Answers,
		MaxAnswers: sem.MaxAnswers,
	})
	if err != nil {
		return fmt.Errorf("semantic rerank: %w", err)
	}

	byID := make(map[string]domsearch.Hit, len(rs.Hits))
	for _, h := range rs.Hits {
		byID[h.ID()] = h
	}

	reordered := make([]domsearch.Hit, 0, len(rs.Hits))
	for _, item := range result.Items {
		h, ok := byID[item.ID]
		if !ok {
			continue
		}
		if item.Score > 0 {
			h = h.WithScore(item.Score)
		}
		if item.Caption != "" {
			h = h.WithCaption(item.Caption)
		}
		reordered = append(reordered, h)
	}
	rs.Hits = reordered
	rs.Answers = result.Answers
	return nil
}

// semanticContent concatenates the title and content fields of a hit for
// the reranker.
func semanticContent(h *domsearch.Hit, cfg *schema.SemanticConfig) string {
	out := ""
	if cfg.TitleField != "" {
		out = h.Strings()[cfg.TitleField]
	}
	for _, f := range cfg.ContentFields {
		if v := h.Strings()[f]; v != "" {
			if out != "" {
				out += " "
			}
			out += v
		}
	}
	return out
}

// validate checks the query against the schema. Runs before any network
// call so misconfigured requests never reach the backend.
func validate(sch schema.Schema, q *domsearch.Query) error {
	v := sch.Vector()
	if v == nil {
		return fmt.Errorf("%w: index %q has no vector field", domain.ErrInvalidInput, sch.Name())
	}
	vc := q.VectorClause()
	if vc.Field != v.FieldName {
		return fmt.Errorf("%w: vector field %q (index declares %q)", domain.ErrUnknownField, vc.Field, v.FieldName)
	}
	if len(vc.Vector) > 0 && len(vc.Vector) != v.Dimensions {
		return fmt.Errorf("query vector has %d dimensions, index declares %d: %w",
			len(vc.Vector), v.Dimensions, domain.ErrDimensionMismatch)
	}

	for _, c := range q.Filter().Conditions() {
		f, ok := sch.FieldByName(c.Field())
		if !ok {
			return fmt.Errorf("%w: filter field %q", domain.ErrUnknownField, c.Field())
		}
		if !f.Filterable() {
			return fmt.Errorf("%w: field %q is not filterable", domain.ErrInvalidInput, c.Field())
		}
		if c.IsMatch() && f.FieldType() == schema.TypeNumeric {
			return fmt.Errorf("%w: match filter on numeric field %q", domain.ErrInvalidInput, c.Field())
		}
		if !c.IsMatch() && f.FieldType() != schema.TypeNumeric {
			return fmt.Errorf("%w: range filter on %s field %q", domain.ErrInvalidInput, f.FieldType(), c.Field())
		}
	}

	for _, name := range q.Select() {
		f, ok := sch.FieldByName(name)
		if !ok || !f.Retrievable() {
			return fmt.Errorf("%w: projection field %q", domain.ErrUnknownField, name)
		}
	}

	if q.Mode() == domsearch.ModeSemantic {
		sem := sch.Semantic()
		if sem == nil {
			return fmt.Errorf("%w: index %q", domain.ErrSemanticNotConfigured, sch.Name())
		}
		if name := q.Semantic().ConfigName; name != "" && name != sem.Name {
			return fmt.Errorf("%w: configuration %q not found (index has %q)",
				domain.ErrSemanticNotConfigured, name, sem.Name)
		}
	}
	return nil
}

// fetchFields is the field list requested from the backend: the caller's
// selection (or all retrievable fields) plus, for semantic queries, the
// fields the reranker reads. trimHits removes the extras afterwards.
func fetchFields(sch schema.Schema, q *domsearch.Query) []string {
	base := selection(sch, q)
	if q.Mode() != domsearch.ModeSemantic {
		return base
	}

	seen := make(map[string]bool, len(base))
	for _, f := range base {
		seen[f] = true
	}
	out := append([]string(nil), base...)
	sem := sch.Semantic()
	if sem.TitleField != "" && !seen[sem.TitleField] {
		seen[sem.TitleField] = true
		out = append(out, sem.TitleField)
	}
	for _, f := range sem.ContentFields {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

func selection(sch schema.Schema, q *domsearch.Query) []string {
	if len(q.Select()) > 0 {
		return q.Select()
	}
	return sch.RetrievableFields()
}

func searchableTextFields(sch schema.Schema) []string {
	var out []string
	for _, f := range sch.Fields() {
		if f.FieldType() == schema.TypeText && f.Searchable() {
			out = append(out, f.Name())
		}
	}
	return out
}
