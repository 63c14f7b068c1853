package index

import (
	"testing"

	"github.com/lexivec/lexivec/internal/domain/schema"
)

func TestSchemaPersistence(t *testing.T) {
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
		mk("rating", schema.TypeNumeric, schema.Capabilities{Filterable: true, Sortable: true, Retrievable: true}),
	}
	original, err := schema.New("hotels", fields, &schema.VectorConfig{
		FieldName:   "embedding",
		SourceField: "description",
		Dimensions:  1536,
		HNSWM:       16,
	}, &schema.SemanticConfig{
		TitleField:    "description",
		ContentFields: []string{"description"},
	})
	if err != nil {
		t.Fatalf("schema.New: %v", err)
	}

	data, err := marshalSchema(original)
	if err != nil {
		t.Fatalf("marshalSchema: %v", err)
	}

	restored, err := unmarshalSchema(data)
	if err != nil {
		t.Fatalf("unmarshalSchema: %v", err)
	}

	if restored.Name() != "hotels" || restored.KeyField() != "hotelId" {
		t.Errorf("restored = %q key %q", restored.Name(), restored.KeyField())
	}
	f, ok := restored.FieldByName("rating")
	if !ok || f.FieldType() != schema.TypeNumeric || !f.Sortable() {
		t.Errorf("rating field lost capabilities: %+v", f)
	}
	v := restored.Vector()
	if v == nil || v.Dimensions != 1536 || v.SourceField != "description" || v.HNSWM != 16 {
		t.Errorf("vector config = %+v", v)
	}
	if v.Algorithm != schema.AlgorithmHNSW || v.Metric != schema.MetricCosine {
		t.Errorf("defaults lost on round trip: %+v", v)
	}
	sem := restored.Semantic()
	if sem == nil || sem.Name != "default" || len(sem.ContentFields) != 1 {
		t.Errorf("semantic config = %+v", sem)
	}
}

func TestUnmarshalSchema_Garbage(t *testing.T) {
	if _, err := unmarshalSchema([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
