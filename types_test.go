package lexivec

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexivec/lexivec/internal/domain"
	"github.com/lexivec/lexivec/internal/domain/batch"
	"github.com/lexivec/lexivec/internal/domain/schema"
)

func hotelFieldSpecs() []FieldSpec {
	return []FieldSpec{
		{Name: "hotelId", Type: FieldTypeString, Key: true, Retrievable: true},
		{Name: "description", Type: FieldTypeText, Searchable: true, Retrievable: true},
		{Name: "rating", Type: FieldTypeNumeric, Filterable: true, Sortable: true, Retrievable: true},
	}
}

func TestToDomainFields(t *testing.T) {
	fields, err := toDomainFields(hotelFieldSpecs())
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.True(t, fields[0].IsKey())
	assert.Equal(t, schema.TypeNumeric, fields[2].FieldType())

	_, err = toDomainFields([]FieldSpec{{Name: "score", Type: FieldTypeNumeric}})
	assert.ErrorIs(t, err, domain.ErrSchemaInvalid)
}

func TestSchemaRoundTrip(t *testing.T) {
	fields, err := toDomainFields(hotelFieldSpecs())
	require.NoError(t, err)

	vec := toDomainVector(VectorFieldSpec{
		Name:        "descriptionVector",
		SourceField: "description",
		Dimensions:  1536,
		HNSWM:       16,
	})
	sem := toDomainSemantic(&SemanticSpec{
		ContentFields: []string{"description"},
	})
	sch, err := schema.New("hotels", fields, &vec, sem)
	require.NoError(t, err)

	got := fromDomainSchema(sch)
	assert.Equal(t, "hotels", got.Name)
	require.Len(t, got.Fields, 3)
	assert.True(t, got.Fields[0].Key)
	assert.Equal(t, "descriptionVector", got.Vector.Name)
	assert.Equal(t, 1536, got.Vector.Dimensions)
	assert.Equal(t, 16, got.Vector.HNSWM)
	require.NotNil(t, got.Semantic)
	assert.Equal(t, "default", got.Semantic.Name, "semantic name defaults on creation")
}

func TestFromDomainSchema_NoVector(t *testing.T) {
	fields, err := toDomainFields(hotelFieldSpecs())
	require.NoError(t, err)
	sch, err := schema.New("plain", fields, nil, nil)
	require.NoError(t, err)

	got := fromDomainSchema(sch)
	assert.Empty(t, got.Vector.Name)
	assert.Zero(t, got.Vector.Dimensions)
	assert.Nil(t, got.Semantic)
}

func TestToDomainDocument(t *testing.T) {
	doc, err := toDomainDocument(Document{
		ID:       "1",
		Strings:  map[string]string{"description": "near the park"},
		Numerics: map[string]float64{"rating": 3.6},
		Vector:   []float32{0.1, 0.2},
	})
	require.NoError(t, err)
	assert.Equal(t, "1", doc.ID())
	assert.True(t, doc.HasVector())

	_, err = toDomainDocument(Document{ID: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestToDomainFilter(t *testing.T) {
	f, err := toDomainFilter(nil)
	require.NoError(t, err)
	assert.True(t, f.IsEmpty())

	minRating := 4.0
	f, err = toDomainFilter(&Filter{
		All: []FilterCondition{
			{Field: "category", Equals: "Luxury"},
			{Field: "rating", Range: &RangeFilter{Min: &minRating}},
		},
		Any: []FilterCondition{
			{Field: "parkingIncluded", Equals: "true"},
		},
		Not: []FilterCondition{{Field: "category", Equals: "Budget"}},
	})
	require.NoError(t, err)
	assert.Len(t, f.All(), 2)
	assert.Len(t, f.Any(), 1)
	assert.Len(t, f.Not(), 1)

	_, err = toDomainFilter(&Filter{All: []FilterCondition{{Field: ""}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFromIngestResult(t *testing.T) {
	ir := batch.IngestResult{
		Results: []batch.Result{
			batch.NewOK("1"),
			batch.NewError("2", domain.ErrDimensionMismatch),
		},
		EmbeddingTokens: 42,
	}

	got := fromIngestResult(ir)
	assert.Equal(t, 1, got.Succeeded)
	assert.Equal(t, 42, got.EmbeddingTokens)
	require.Len(t, got.Outcomes, 2)
	assert.NoError(t, got.Outcomes[0].Err)
	assert.ErrorIs(t, got.Outcomes[1].Err, domain.ErrDimensionMismatch)
	assert.NotEmpty(t, got.Outcomes[1].Message)
}

func TestNoopEmbedder(t *testing.T) {
	_, err := noopEmbedder{}.Embed(context.Background(), "text")
	assert.True(t, errors.Is(err, domain.ErrProviderUnavailable))
}
