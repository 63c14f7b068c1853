package search

// Hit is a single scored document in a result set.
type Hit struct {
	id       string
	score    float64
	strings  map[string]string
	numerics map[string]float64
	caption  string
}

// NewHit creates a search hit.
func NewHit(id string, score float64, strs map[string]string, numerics map[string]float64) Hit {
	return Hit{id: id, score: score, strings: strs, numerics: numerics}
}

// ID returns the document key.
func (h *Hit) ID() string { return h.id }

// Score returns the backend-assigned relevance score.
func (h *Hit) Score() float64 { return h.score }

// Strings returns the projected text and string attributes.
func (h *Hit) Strings() map[string]string { return h.strings }

// Numerics returns the projected numeric attributes.
func (h *Hit) Numerics() map[string]float64 { return h.numerics }

// Caption returns the extracted caption, empty when none was produced.
func (h *Hit) Caption() string { return h.caption }

// WithCaption returns a copy of the hit annotated with a caption.
func (h Hit) WithCaption(caption string) Hit {
	h.caption = caption
	return h
}

// WithScore returns a copy of the hit carrying the given score.
func (h Hit) WithScore(score float64) Hit {
	h.score = score
	return h
}

// ResultSet is an ordered sequence of scored hits plus result-set level
// extracted answers. Produced fresh per query, never persisted.
type ResultSet struct {
	Hits            []Hit
	Answers         []string
	EmbeddingTokens int
}
