// Package search holds the validated query value object, filter
// expressions, and typed search results shared between layers.
package search

// Mode is the query shape executed by the orchestrator.
type Mode string

// Query shapes.
const (
	// ModeVector is pure nearest-neighbor search, optionally pre-filtered.
	ModeVector Mode = "vector"
	// ModeHybrid fuses lexical and vector relevance into one ranked list.
	ModeHybrid Mode = "hybrid"
	// ModeSemantic is hybrid search followed by a semantic re-ranking pass
	// with optional caption/answer extraction.
	ModeSemantic Mode = "semantic"
)

// IsValid reports whether the mode is supported.
func (m Mode) IsValid() bool {
	return m == ModeVector || m == ModeHybrid || m == ModeSemantic
}

// NeedsText reports whether the shape requires free-text input.
func (m Mode) NeedsText() bool {
	return m == ModeHybrid || m == ModeSemantic
}
