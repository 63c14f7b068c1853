package db

// KNNQuery is the input for a vector similarity search. FilterQuery is a
// backend filter expression applied before KNN candidate selection
// (pre-filtering); "*" or empty means unfiltered.
type KNNQuery struct {
	IndexName    string
	VectorField  string
	Vector       []float32
	K            int
	FilterQuery  string
	ReturnFields []string
}

// TextQuery is the input for a lexical (BM25) search over TEXT fields.
type TextQuery struct {
	IndexName    string
	TextFields   []string
	Query        string
	FilterQuery  string
	TopK         int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
