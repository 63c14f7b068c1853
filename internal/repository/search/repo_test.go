package search

import (
	"context"
	"errors"
	"testing"

	"github.com/lexivec/lexivec/internal/db"
	"github.com/lexivec/lexivec/internal/domain"
	domsearch "github.com/lexivec/lexivec/internal/domain/search"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	knnFn  func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	textFn func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.knnFn != nil {
		return m.knnFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.textFn != nil {
		return m.textFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func mustMatch(t *testing.T, field, value string) domsearch.Condition {
	t.Helper()
	c, err := domsearch.NewMatch(field, value)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	return c
}

func mustRange(t *testing.T, field string, r domsearch.Range) domsearch.Condition {
	t.Helper()
	c, err := domsearch.NewRange(field, r)
	if err != nil {
		t.Fatalf("NewRange: %v", err)
	}
	return c
}

func mustFilter(t *testing.T, all, any, not []domsearch.Condition) domsearch.Filter {
	t.Helper()
	f, err := domsearch.NewFilter(all, any, not)
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	return f
}

func TestSearchKNN_BuildsQuery(t *testing.T) {
	var captured *db.KNNQuery
	ms := &mockStore{knnFn: func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		captured = q
		return &db.SearchResult{Entries: []db.SearchEntry{
			{Key: "lexivec:hotels:doc:1", Score: 0.97, Fields: map[string]string{"hotelName": "Stay-Kay"}},
		}}, nil
	}}
	repo := New(ms)

	filter := mustFilter(t, []domsearch.Condition{mustMatch(t, "category", "Luxury")}, nil, nil)
	rows, err := repo.SearchKNN(context.Background(), "hotels", "embedding",
		[]float32{0.1, 0.2}, 3, filter, []string{"hotelName"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.IndexName != domain.IndexKey("hotels") {
		t.Errorf("index = %q, want %q", captured.IndexName, domain.IndexKey("hotels"))
	}
	if captured.K != 3 || captured.VectorField != "embedding" {
		t.Errorf("query = %+v, want k=3 on embedding", captured)
	}
	if captured.FilterQuery != `@category:{Luxury}` {
		t.Errorf("filter = %q, want tag match", captured.FilterQuery)
	}
	if len(rows) != 1 || rows[0].ID != "1" {
		t.Fatalf("rows = %v, want key prefix stripped to bare ID", rows)
	}
	if rows[0].Score != 0.97 {
		t.Errorf("score = %v, want 0.97", rows[0].Score)
	}
}

func TestSearchText_BuildsQuery(t *testing.T) {
	var captured *db.TextQuery
	ms := &mockStore{textFn: func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
		captured = q
		return &db.SearchResult{}, nil
	}}
	repo := New(ms)

	_, err := repo.SearchText(context.Background(), "hotels",
		[]string{"hotelName", "description"}, "historic plaza", 5, domsearch.Filter{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.Query != "historic plaza" || captured.TopK != 5 {
		t.Errorf("query = %+v, want text and topK preserved", captured)
	}
	if len(captured.TextFields) != 2 {
		t.Errorf("text fields = %v, want both", captured.TextFields)
	}
}

func TestCompileFilter(t *testing.T) {
	min, max := 4.0, 5.0

	cases := []struct {
		name string
		all  []domsearch.Condition
		any  []domsearch.Condition
		not  []domsearch.Condition
		want string
	}{
		{name: "empty", want: ""},
		{
			name: "single match",
			all:  []domsearch.Condition{mustMatch(t, "category", "Luxury")},
			want: `@category:{Luxury}`,
		},
		{
			name: "escaped match",
			all:  []domsearch.Condition{mustMatch(t, "category", "Bed and Breakfast")},
			want: `@category:{Bed\ and\ Breakfast}`,
		},
		{
			name: "inclusive range",
			all:  []domsearch.Condition{mustRange(t, "rating", domsearch.Range{Min: &min, Max: &max})},
			want: `@rating:[4 5]`,
		},
		{
			name: "exclusive lower bound",
			all:  []domsearch.Condition{mustRange(t, "rating", domsearch.Range{Min: &min, MinExclusive: true})},
			want: `@rating:[(4 +inf]`,
		},
		{
			name: "open lower bound",
			all:  []domsearch.Condition{mustRange(t, "rating", domsearch.Range{Max: &max})},
			want: `@rating:[-inf 5]`,
		},
		{
			name: "negated condition",
			not:  []domsearch.Condition{mustMatch(t, "category", "Budget")},
			want: `-@category:{Budget}`,
		},
		{
			name: "conjunction",
			all: []domsearch.Condition{
				mustMatch(t, "category", "Luxury"),
				mustRange(t, "rating", domsearch.Range{Min: &min}),
			},
			want: `@category:{Luxury} @rating:[4 +inf]`,
		},
		{
			name: "disjunction",
			any: []domsearch.Condition{
				mustMatch(t, "category", "Luxury"),
				mustMatch(t, "category", "Boutique"),
			},
			want: `(@category:{Luxury}|@category:{Boutique})`,
		},
		{
			name: "mixed clauses",
			all:  []domsearch.Condition{mustRange(t, "rating", domsearch.Range{Min: &min})},
			any:  []domsearch.Condition{mustMatch(t, "category", "Luxury")},
			not:  []domsearch.Condition{mustMatch(t, "category", "Budget")},
			want: `@rating:[4 +inf] (@category:{Luxury}) -@category:{Budget}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := compileFilter(mustFilter(t, tc.all, tc.any, tc.not))
			if got != tc.want {
				t.Errorf("compileFilter = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSearchKNN_MapsErrors(t *testing.T) {
	ms := &mockStore{knnFn: func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return nil, errors.New("connection refused")
	}}
	repo := New(ms)

	_, err := repo.SearchKNN(context.Background(), "hotels", "embedding", []float32{0.1}, 3, domsearch.Filter{}, nil)
	if !errors.Is(err, domain.ErrQueryFailed) {
		t.Fatalf("err = %v, want ErrQueryFailed", err)
	}
}

func TestSearchKNN_MapsTimeout(t *testing.T) {
	ms := &mockStore{knnFn: func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return nil, context.DeadlineExceeded
	}}
	repo := New(ms)

	_, err := repo.SearchKNN(context.Background(), "hotels", "embedding", []float32{0.1}, 3, domsearch.Filter{}, nil)
	if !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}
