package schema

import (
	"errors"
	"testing"

	"github.com/lexivec/lexivec/internal/domain"
)

func mustField(t *testing.T, name string, ft Type, caps Capabilities) Field {
	t.Helper()
	f, err := NewField(name, ft, caps)
	if err != nil {
		t.Fatalf("NewField(%q): %v", name, err)
	}
	return f
}

func hotelFields(t *testing.T) []Field {
	t.Helper()
	return []Field{
		mustField(t, "hotelId", TypeString, Capabilities{Key: true}),
		mustField(t, "description", TypeText, Capabilities{Searchable: true, Retrievable: true}),
		mustField(t, "category", TypeString, Capabilities{Filterable: true, Retrievable: true}),
		mustField(t, "rating", TypeNumeric, Capabilities{Filterable: true, Sortable: true, Retrievable: true}),
	}
}

func TestNew_Valid(t *testing.T) {
	sch, err := New("hotels", hotelFields(t), &VectorConfig{
		FieldName:   "embedding",
		SourceField: "description",
		Dimensions:  1536,
	}, &SemanticConfig{TitleField: "description", ContentFields: []string{"description"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sch.KeyField() != "hotelId" {
		t.Errorf("key field = %q, want hotelId", sch.KeyField())
	}
	if sch.Vector().Algorithm != AlgorithmHNSW {
		t.Errorf("algorithm = %q, want default hnsw", sch.Vector().Algorithm)
	}
	if sch.Vector().Metric != MetricCosine {
		t.Errorf("metric = %q, want default cosine", sch.Vector().Metric)
	}
	if sch.Semantic().Name != "default" {
		t.Errorf("semantic name = %q, want default", sch.Semantic().Name)
	}
}

func TestNew_NoKeyField(t *testing.T) {
	fields := []Field{
		mustField(t, "description", TypeText, Capabilities{}),
	}
	_, err := New("hotels", fields, nil, nil)
	if !errors.Is(err, domain.ErrSchemaInvalid) {
		t.Fatalf("err = %v, want ErrSchemaInvalid", err)
	}
}

func TestNew_TwoKeyFields(t *testing.T) {
	fields := []Field{
		mustField(t, "id1", TypeString, Capabilities{Key: true}),
		mustField(t, "id2", TypeString, Capabilities{Key: true}),
	}
	_, err := New("hotels", fields, nil, nil)
	if !errors.Is(err, domain.ErrSchemaInvalid) {
		t.Fatalf("err = %v, want ErrSchemaInvalid", err)
	}
}

func TestNew_DuplicateField(t *testing.T) {
	fields := []Field{
		mustField(t, "hotelId", TypeString, Capabilities{Key: true}),
		mustField(t, "category", TypeString, Capabilities{}),
		mustField(t, "category", TypeString, Capabilities{}),
	}
	_, err := New("hotels", fields, nil, nil)
	if !errors.Is(err, domain.ErrSchemaInvalid) {
		t.Fatalf("err = %v, want ErrSchemaInvalid", err)
	}
}

func TestNew_BadName(t *testing.T) {
	for _, name := range []string{"", "has space", "semi;colon"} {
		if _, err := New(name, hotelFields(t), nil, nil); !errors.Is(err, domain.ErrSchemaInvalid) {
			t.Errorf("name %q: err = %v, want ErrSchemaInvalid", name, err)
		}
	}
}

func TestNew_VectorDimensions(t *testing.T) {
	for _, dims := range []int{0, -1} {
		_, err := New("hotels", hotelFields(t), &VectorConfig{
			FieldName:  "embedding",
			Dimensions: dims,
		}, nil)
		if !errors.Is(err, domain.ErrSchemaInvalid) {
			t.Errorf("dims %d: err = %v, want ErrSchemaInvalid", dims, err)
		}
	}
}

func TestNew_VectorSourceFieldMustExist(t *testing.T) {
	_, err := New("hotels", hotelFields(t), &VectorConfig{
		FieldName:   "embedding",
		SourceField: "nope",
		Dimensions:  8,
	}, nil)
	if !errors.Is(err, domain.ErrSchemaInvalid) {
		t.Fatalf("err = %v, want ErrSchemaInvalid", err)
	}
}

func TestNew_SemanticFieldMustExist(t *testing.T) {
	_, err := New("hotels", hotelFields(t), nil, &SemanticConfig{
		ContentFields: []string{"missing"},
	})
	if !errors.Is(err, domain.ErrSchemaInvalid) {
		t.Fatalf("err = %v, want ErrSchemaInvalid", err)
	}
}

func TestNew_SemanticNeedsContentFields(t *testing.T) {
	_, err := New("hotels", hotelFields(t), nil, &SemanticConfig{
		TitleField: "description",
	})
	if !errors.Is(err, domain.ErrSchemaInvalid) {
		t.Fatalf("err = %v, want ErrSchemaInvalid", err)
	}
}

func TestNewField_KeyMustBeString(t *testing.T) {
	_, err := NewField("rating", TypeNumeric, Capabilities{Key: true})
	if !errors.Is(err, domain.ErrSchemaInvalid) {
		t.Fatalf("err = %v, want ErrSchemaInvalid", err)
	}
}

func TestNewField_TextNotSortable(t *testing.T) {
	_, err := NewField("description", TypeText, Capabilities{Sortable: true})
	if !errors.Is(err, domain.ErrSchemaInvalid) {
		t.Fatalf("err = %v, want ErrSchemaInvalid", err)
	}
}

func TestNewField_Reserved(t *testing.T) {
	_, err := NewField("score", TypeNumeric, Capabilities{})
	if !errors.Is(err, domain.ErrSchemaInvalid) {
		t.Fatalf("err = %v, want ErrSchemaInvalid", err)
	}
}

func TestNewField_ImpliedCapabilities(t *testing.T) {
	f := mustField(t, "description", TypeText, Capabilities{})
	if !f.Searchable() {
		t.Error("text fields should be searchable by default")
	}

	key := mustField(t, "id", TypeString, Capabilities{Key: true})
	if !key.Retrievable() {
		t.Error("key fields should always be retrievable")
	}
}

func TestRetrievableFields(t *testing.T) {
	sch, err := New("hotels", hotelFields(t), nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := sch.RetrievableFields()
	want := map[string]bool{"hotelId": true, "description": true, "category": true, "rating": true}
	if len(got) != len(want) {
		t.Fatalf("retrievable = %v, want %d fields", got, len(want))
	}
	for _, name := range got {
		if !want[name] {
			t.Errorf("unexpected retrievable field %q", name)
		}
	}
}
