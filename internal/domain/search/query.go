package search

import (
	"fmt"

	"github.com/lexivec/lexivec/internal/domain"
)

// Query parameter limits.
const (
	MaxQueryLength = 4096
	DefaultK       = 10
	MaxK           = 500
	MaxAnswers     = 5
)

// VectorClause targets a schema vector field with a query vector and a
// requested neighbor count. The vector may be left nil when the
// orchestrator derives it by embedding the query text.
type VectorClause struct {
	Field  string
	Vector []float32
	K      int
}

// SemanticOptions are the semantic re-ranking directives of a query.
type SemanticOptions struct {
	ConfigName string
	Captions   bool
	Answers    bool
	MaxAnswers int
}

// Query is a validated, transient search request: constructed per call,
// executed once, discarded.
type Query struct {
	mode     Mode
	text     string
	vector   VectorClause
	filter   Filter
	semantic *SemanticOptions
	sel      []string
}

// New validates and normalizes a query. A vector clause is mandatory for
// every shape; K defaults to 10 and is capped at 500. Free text is
// required for hybrid and semantic shapes and rejected for pure vector
// search. Dimension checks against the index schema happen in the
// orchestrator, before any network call.
func New(m Mode, text string, vc VectorClause, filter Filter, semantic *SemanticOptions, selectFields []string) (Query, error) {
	if !m.IsValid() {
		return Query{}, fmt.Errorf("%w: unknown query mode %q", domain.ErrInvalidInput, m)
	}
	if m.NeedsText() && text == "" {
		return Query{}, fmt.Errorf("%w: %s search requires query text", domain.ErrInvalidInput, m)
	}
	if m == ModeVector && text != "" {
		return Query{}, fmt.Errorf("%w: vector search takes no query text", domain.ErrInvalidInput)
	}
	if len(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("%w: query text too long (max %d chars)", domain.ErrInvalidInput, MaxQueryLength)
	}
	if vc.Field == "" {
		return Query{}, fmt.Errorf("%w: vector clause requires a target field", domain.ErrInvalidInput)
	}
	if vc.K == 0 {
		vc.K = DefaultK
	}
	if vc.K < 1 {
		return Query{}, fmt.Errorf("%w: neighbor count must be at least 1, got %d", domain.ErrInvalidInput, vc.K)
	}
	if vc.K > MaxK {
		vc.K = MaxK
	}
	if m == ModeVector && len(vc.Vector) == 0 {
		return Query{}, fmt.Errorf("%w: vector search requires a query vector", domain.ErrInvalidInput)
	}
	if semantic != nil && m != ModeSemantic {
		return Query{}, fmt.Errorf("%w: semantic directives require the semantic shape", domain.ErrInvalidInput)
	}
	if semantic != nil {
		s := *semantic
		if s.MaxAnswers <= 0 {
			s.MaxAnswers = 1
		}
		if s.MaxAnswers > MaxAnswers {
			s.MaxAnswers = MaxAnswers
		}
		semantic = &s
	}

	return Query{
		mode:     m,
		text:     text,
		vector:   vc,
		filter:   filter,
		semantic: semantic,
		sel:      selectFields,
	}, nil
}

// Mode returns the query shape.
func (q *Query) Mode() Mode { return q.mode }

// Text returns the free-text input, empty for pure vector search.
func (q *Query) Text() string { return q.text }

// VectorClause returns the vector clause.
func (q *Query) VectorClause() VectorClause { return q.vector }

// Filter returns the boolean pre-filter.
func (q *Query) Filter() Filter { return q.filter }

// Semantic returns the semantic directives, nil for non-semantic shapes.
func (q *Query) Semantic() *SemanticOptions { return q.semantic }

// Select returns the projection field list; empty means all retrievable fields.
func (q *Query) Select() []string { return q.sel }

// SetVector populates the query vector derived from the embedded text.
func (q *Query) SetVector(v []float32) { q.vector.Vector = v }
