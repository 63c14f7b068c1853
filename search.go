package lexivec

import (
	"context"
	"fmt"

	domsearch "github.com/lexivec/lexivec/internal/domain/search"
)

// SearchService runs queries against one index. All query validation
// (neighbor count, vector dimensions, filter and projection fields,
// semantic configuration) happens against the cached schema before any
// network call.
type SearchService struct {
	client *Client
	index  string
}

// Vector runs a pure K-nearest-neighbor query with a caller-provided
// vector. A filter in opts restricts candidates before neighbor
// selection, so a restrictive filter can return fewer than K hits.
func (s *SearchService) Vector(ctx context.Context, vector []float32, opts *SearchOptions) (SearchResults, error) {
	return s.run(ctx, domsearch.ModeVector, "", vector, opts, nil)
}

// Hybrid runs the combined keyword and vector query: the text is
// vectorized, both legs execute, and their rankings are fused. Scores
// are opaque fused values; only their order is meaningful.
func (s *SearchService) Hybrid(ctx context.Context, text string, opts *SearchOptions) (SearchResults, error) {
	return s.run(ctx, domsearch.ModeHybrid, text, nil, opts, nil)
}

// Semantic runs a hybrid query followed by a semantic re-ranking pass,
// optionally attaching captions and answers. Requires a semantic
// configuration on the index and a reranking provider on the client.
func (s *SearchService) Semantic(ctx context.Context, text string, opts *SemanticOptions) (SearchResults, error) {
	if opts == nil {
		opts = &SemanticOptions{}
	}
	sem := &domsearch.SemanticOptions{
		ConfigName: opts.ConfigName,
		Captions:   opts.Captions,
		Answers:    opts.Answers,
		MaxAnswers: opts.MaxAnswers,
	}
	return s.run(ctx, domsearch.ModeSemantic, text, nil, &opts.SearchOptions, sem)
}

func (s *SearchService) run(
	ctx context.Context, mode domsearch.Mode, text string, vector []float32,
	opts *SearchOptions, sem *domsearch.SemanticOptions,
) (SearchResults, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}

	sch, err := s.client.cachedSchema(ctx, s.index)
	if err != nil {
		return SearchResults{}, fmt.Errorf("search %q: %w", s.index, err)
	}

	filter, err := toDomainFilter(opts.Filter)
	if err != nil {
		return SearchResults{}, fmt.Errorf("search %q: %w", s.index, err)
	}

	vc := domsearch.VectorClause{Vector: vector, K: opts.K}
	if v := sch.Vector(); v != nil {
		vc.Field = v.FieldName
	}

	q, err := domsearch.New(mode, text, vc, filter, sem, opts.Select)
	if err != nil {
		return SearchResults{}, fmt.Errorf("search %q: %w", s.index, err)
	}

	rs, err := s.client.querySvc.Execute(ctx, sch, &q)
	if err != nil {
		return SearchResults{}, fmt.Errorf("search %q: %w", s.index, err)
	}
	return fromResultSet(rs), nil
}
