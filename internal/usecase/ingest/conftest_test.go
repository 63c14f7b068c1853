package ingest

import (
	"context"
	"testing"

	"github.com/lexivec/lexivec/internal/domain"
	domdoc "github.com/lexivec/lexivec/internal/domain/document"
	"github.com/lexivec/lexivec/internal/domain/schema"
)

const testDims = 4

// mockDocs implements the storage contract for tests.
type mockDocs struct {
	upsertErr    error
	upserted     []domdoc.Document
	upsertCalls  int
	deleteErr    error
	deletedIDs   []string
	getDoc       domdoc.Document
	getErr       error
	existsResult bool
}

func (m *mockDocs) BatchUpsert(_ context.Context, _ string, docs []domdoc.Document, _ string) error {
	m.upsertCalls++
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, docs...)
	return nil
}

func (m *mockDocs) Delete(_ context.Context, _ string, ids []string) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	m.deletedIDs = append(m.deletedIDs, ids...)
	return int64(len(ids)), nil
}

func (m *mockDocs) Get(_ context.Context, _ schema.Schema, _ string) (domdoc.Document, error) {
	return m.getDoc, m.getErr
}

func (m *mockDocs) Exists(_ context.Context, _, _ string) (bool, error) {
	return m.existsResult, nil
}

// mockIndexes resolves schemas and the readiness signal.
type mockIndexes struct {
	sch    schema.Schema
	schErr error

	counts   []int64
	indexing []bool
	countErr error
	polls    int
}

func (m *mockIndexes) Get(_ context.Context, _ string) (schema.Schema, error) {
	return m.sch, m.schErr
}

func (m *mockIndexes) CountIndexed(_ context.Context, _ string) (int64, bool, error) {
	if m.countErr != nil {
		return 0, false, m.countErr
	}
	i := m.polls
	if i >= len(m.counts) {
		i = len(m.counts) - 1
	}
	m.polls++
	return m.counts[i], !m.indexing[i], nil
}

type mockEmbedder struct {
	vecs  [][]float32
	err   error
	errAt int // err fires from this zero-based call on
	calls int
	texts []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	if m.err != nil && m.calls >= m.errAt {
		return domain.EmbeddingResult{}, m.err
	}
	m.texts = append(m.texts, text)
	vec := make([]float32, testDims)
	if m.calls < len(m.vecs) {
		vec = m.vecs[m.calls]
	}
	m.calls++
	return domain.EmbeddingResult{Vector: vec, TotalTokens: 10}, nil
}

func testSchema(t *testing.T) schema.Schema {
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
		mk("description", schema.TypeText, schema.Capabilities{Searchable: true, Retrievable: true}),
		mk("rating", schema.TypeNumeric, schema.Capabilities{Filterable: true, Retrievable: true}),
	}
	sch, err := schema.New("hotels", fields, &schema.VectorConfig{
		FieldName:   "embedding",
		SourceField: "description",
		Dimensions:  testDims,
	}, nil)
	if err != nil {
		t.Fatalf("schema.New: %v", err)
	}
	return sch
}

func mustDoc(t *testing.T, id string, strs map[string]string, nums map[string]float64) domdoc.Document {
	t.Helper()
	d, err := domdoc.New(id, strs, nums)
	if err != nil {
		t.Fatalf("document.New(%q): %v", id, err)
	}
	return d
}
