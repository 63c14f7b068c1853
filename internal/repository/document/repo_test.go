package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lexivec/lexivec/internal/db"
	"github.com/lexivec/lexivec/internal/domain"
	domdoc "github.com/lexivec/lexivec/internal/domain/document"
	"github.com/lexivec/lexivec/internal/domain/schema"
)

type mockStore struct {
	hsetFn   func(ctx context.Context, items []db.HashSetItem) error
	hgetFn   func(ctx context.Context, key string) (map[string]string, error)
	delFn    func(ctx context.Context, keys ...string) (int64, error)
	existsFn func(ctx context.Context, key string) (bool, error)
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	return m.hsetFn(ctx, items)
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return m.hgetFn(ctx, key)
}

func (m *mockStore) Del(ctx context.Context, keys ...string) (int64, error) {
	return m.delFn(ctx, keys...)
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	return m.existsFn(ctx, key)
}

func repoSchema(t *testing.T) schema.Schema {
	t.Helper()
	fields := []schema.Field{
		schema.ReconstructField("hotelId", schema.TypeString, schema.Capabilities{Key: true, Retrievable: true}),
		schema.ReconstructField("hotelName", schema.TypeText, schema.Capabilities{Searchable: true, Retrievable: true}),
		schema.ReconstructField("rating", schema.TypeNumeric, schema.Capabilities{Filterable: true, Retrievable: true}),
	}
	vec := &schema.VectorConfig{FieldName: "embedding", SourceField: "hotelName", Dimensions: 2}
	return schema.Reconstruct("hotels", fields, "hotelId", vec, nil)
}

func TestBatchUpsert_BuildsKeysAndFields(t *testing.T) {
	var got []db.HashSetItem
	repo := New(&mockStore{hsetFn: func(_ context.Context, items []db.HashSetItem) error {
		got = items
		return nil
	}})

	d1, err := domdoc.New("1", map[string]string{"hotelName": "Stay-Kay City"}, map[string]float64{"rating": 3.6})
	if err != nil {
		t.Fatal(err)
	}
	d1.SetVector([]float32{0.1, 0.2})
	d2, err := domdoc.New("2", map[string]string{"hotelName": "Old Century"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.BatchUpsert(context.Background(), "hotels", []domdoc.Document{d1, d2}, "embedding"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("items = %d, want 2", len(got))
	}
	if got[0].Key != domain.DocKey("hotels", "1") || got[1].Key != domain.DocKey("hotels", "2") {
		t.Errorf("keys = %q, %q", got[0].Key, got[1].Key)
	}
	if _, ok := got[0].Fields["embedding"]; !ok {
		t.Error("vector blob missing from first item")
	}
	if _, ok := got[1].Fields["embedding"]; ok {
		t.Error("second item has no vector, blob should be absent")
	}
}

func TestBatchUpsert_Empty(t *testing.T) {
	repo := New(&mockStore{hsetFn: func(context.Context, []db.HashSetItem) error {
		t.Error("store should not be called for an empty batch")
		return nil
	}})
	if err := repo.BatchUpsert(context.Background(), "hotels", nil, "embedding"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGet_TypesNumericAttributes(t *testing.T) {
	sch := repoSchema(t)
	repo := New(&mockStore{hgetFn: func(_ context.Context, key string) (map[string]string, error) {
		if want := domain.DocKey("hotels", "1"); key != want {
			t.Errorf("key = %q, want %q", key, want)
		}
		return map[string]string{"hotelName": "Stay-Kay City", "rating": "3.6"}, nil
	}})

	doc, err := repo.Get(context.Background(), sch, "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.String("hotelName") != "Stay-Kay City" {
		t.Errorf("hotelName = %q", doc.String("hotelName"))
	}
	if v, ok := doc.Numerics()["rating"]; !ok || v != 3.6 {
		t.Errorf("rating = %v %v, want 3.6", v, ok)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := New(&mockStore{hgetFn: func(context.Context, string) (map[string]string, error) {
		return map[string]string{}, nil
	}})

	_, err := repo.Get(context.Background(), repoSchema(t), "missing")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("err = %v, want ErrDocumentNotFound", err)
	}
}

func TestDelete_ReportsExistingCount(t *testing.T) {
	var gotKeys []string
	repo := New(&mockStore{delFn: func(_ context.Context, keys ...string) (int64, error) {
		gotKeys = keys
		return 1, nil
	}})

	n, err := repo.Delete(context.Background(), "hotels", []string{"1", "missing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
	if len(gotKeys) != 2 || gotKeys[0] != domain.DocKey("hotels", "1") {
		t.Errorf("keys = %v", gotKeys)
	}
}

func TestGet_MapsTimeout(t *testing.T) {
	repo := New(&mockStore{hgetFn: func(context.Context, string) (map[string]string, error) {
		return nil, context.DeadlineExceeded
	}})

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := repo.Get(ctx, repoSchema(t), "1")
	if !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}
