// Package document holds the document value object uploaded to and
// projected back from the search backend. Upsert semantics (re-upload with
// the same ID supersedes the stored document) are owned by the backend.
package document

import (
	"fmt"
	"regexp"

	"github.com/lexivec/lexivec/internal/domain"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxTextSize is the maximum size of a single text attribute in bytes.
const MaxTextSize = 163840 // 160KB

// Document is an immutable record with a unique key, scalar/text
// attributes, and an optional fixed-length embedding vector.
type Document struct {
	id       string
	strings  map[string]string
	numerics map[string]float64
	vector   []float32
}

// New validates and creates a Document.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. Attribute names are validated against
// the index schema at ingest time, not here.
func New(id string, strs map[string]string, numerics map[string]float64) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("%w: document ID is required", domain.ErrInvalidInput)
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("%w: document ID too long (max 256)", domain.ErrInvalidInput)
	}
	if !idRegex.MatchString(id) {
		return Document{}, fmt.Errorf("%w: document ID must be alphanumeric with underscores and hyphens", domain.ErrInvalidInput)
	}
	for name, v := range strs {
		if len(v) > MaxTextSize {
			return Document{}, fmt.Errorf("%w: attribute %q too large (max %d bytes)", domain.ErrInvalidInput, name, MaxTextSize)
		}
	}
	return Document{
		id:       id,
		strings:  cloneStrings(strs),
		numerics: cloneNumerics(numerics),
	}, nil
}

// Reconstruct creates a Document without validation (hydration from storage).
func Reconstruct(id string, strs map[string]string, numerics map[string]float64, vector []float32) Document {
	return Document{id: id, strings: strs, numerics: numerics, vector: vector}
}

// ID returns the document key.
func (d *Document) ID() string { return d.id }

// Strings returns the text and string attributes.
func (d *Document) Strings() map[string]string { return d.strings }

// Numerics returns the numeric attributes.
func (d *Document) Numerics() map[string]float64 { return d.numerics }

// Vector returns the embedding vector, nil when not yet populated.
func (d *Document) Vector() []float32 { return d.vector }

// HasVector reports whether the embedding vector is populated.
func (d *Document) HasVector() bool { return len(d.vector) > 0 }

// SetVector populates the embedding vector in place.
func (d *Document) SetVector(v []float32) { d.vector = v }

// String returns the named text attribute, empty when absent.
func (d *Document) String(name string) string { return d.strings[name] }

func cloneStrings(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func cloneNumerics(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	c := make(map[string]float64, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
