package query

import (
	"context"
	"testing"

	"github.com/lexivec/lexivec/internal/domain"
	"github.com/lexivec/lexivec/internal/domain/schema"
	domsearch "github.com/lexivec/lexivec/internal/domain/search"
	searchrepo "github.com/lexivec/lexivec/internal/repository/search"
)

const testDims = 4

// mockRepo implements the backend contract for tests.
type mockRepo struct {
	knnRows    []searchrepo.Row
	knnErr     error
	textRows   []searchrepo.Row
	textErr    error
	knnCalled  bool
	textCalled bool
	lastKNNK   int
	lastFields []string
}

func (m *mockRepo) SearchKNN(
	_ context.Context, _, _ string, _ []float32, k int,
	_ domsearch.Filter, returnFields []string,
) ([]searchrepo.Row, error) {
	m.knnCalled = true
	m.lastKNNK = k
	m.lastFields = returnFields
	return m.knnRows, m.knnErr
}

func (m *mockRepo) SearchText(
	_ context.Context, _ string, _ []string, _ string, _ int,
	_ domsearch.Filter, _ []string,
) ([]searchrepo.Row, error) {
	m.textCalled = true
	return m.textRows, m.textErr
}

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Vector: m.vec, TotalTokens: 7}, nil
}

type mockReranker struct {
	result domain.RerankResult
	err    error
	called bool
	query  string
}

func (m *mockReranker) Rerank(
	_ context.Context, query string, _ []domain.RerankCandidate, _ domain.RerankOptions,
) (domain.RerankResult, error) {
	m.called = true
	m.query = query
	return m.result, m.err
}

func testSchema(t *testing.T, semantic *schema.SemanticConfig) schema.Schema {
	t.Helper()
	mk := func(name string, ft schema.Type, caps schema.Capabilities) schema.Field {
		f, err := schema.NewField(name, ft, caps)
		if err != nil {
			t.Fatalf("NewField(%q): %v", name, err)
		}
		return f
	}
	fields := []schema.Field{
		mk("hotelId", schema.TypeString, schema.Capabilities{Key: true}),
		mk("hotelName", schema.TypeText, schema.Capabilities{Searchable: true, Retrievable: true}),
		mk("description", schema.TypeText, schema.Capabilities{Searchable: true, Retrievable: true}),
		mk("category", schema.TypeString, schema.Capabilities{Filterable: true, Retrievable: true}),
		mk("rating", schema.TypeNumeric, schema.Capabilities{Filterable: true, Sortable: true, Retrievable: true}),
		mk("internalNote", schema.TypeString, schema.Capabilities{Filterable: true}),
	}
	sch, err := schema.New("hotels", fields, &schema.VectorConfig{
		FieldName:   "embedding",
		SourceField: "description",
		Dimensions:  testDims,
	}, semantic)
	if err != nil {
		t.Fatalf("schema.New: %v", err)
	}
	return sch
}

func testVec() []float32 { return []float32{0.1, 0.2, 0.3, 0.4} }

func mustQuery(t *testing.T, m domsearch.Mode, text string, vc domsearch.VectorClause,
	f domsearch.Filter, sem *domsearch.SemanticOptions, sel []string,
) *domsearch.Query {
	t.Helper()
	q, err := domsearch.New(m, text, vc, f, sem, sel)
	if err != nil {
		t.Fatalf("search.New: %v", err)
	}
	return &q
}

func row(id string, score float64, fields map[string]string) searchrepo.Row {
	if fields == nil {
		fields = map[string]string{}
	}
	return searchrepo.Row{ID: id, Score: score, Fields: fields}
}
