package schema

import (
	"fmt"

	"github.com/lexivec/lexivec/internal/domain"
)

// Type is the data type of a scalar document field.
type Type string

// Field data types.
const (
	// TypeText is free text, searchable with lexical (BM25) scoring.
	TypeText Type = "text"
	// TypeString is an exact-match string (tag semantics).
	TypeString Type = "string"
	// TypeNumeric is a numeric field supporting range filters and sorting.
	TypeNumeric Type = "numeric"
)

// IsValid reports whether the field type is supported.
func (t Type) IsValid() bool {
	return t == TypeText || t == TypeString || t == TypeNumeric
}

var reservedFieldNames = map[string]bool{
	"score": true, "captions": true, "answers": true,
}

// Field is an immutable value object describing one document attribute
// and its per-field capabilities.
type Field struct {
	name       string
	fieldType  Type
	key        bool
	filterable bool
	sortable   bool
	facetable  bool
	searchable bool
	retrieve   bool
}

// Capabilities selects what an index can do with a field.
type Capabilities struct {
	Key         bool
	Filterable  bool
	Sortable    bool
	Facetable   bool
	Searchable  bool
	Retrievable bool
}

// NewField validates and creates a Field.
// Name: non-empty, max 64 chars, not reserved. Key fields must be strings.
func NewField(name string, ft Type, caps Capabilities) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("%w: field name is required", domain.ErrSchemaInvalid)
	}
	if len(name) > 64 {
		return Field{}, fmt.Errorf("%w: field name %q too long (max 64)", domain.ErrSchemaInvalid, name)
	}
	if reservedFieldNames[name] {
		return Field{}, fmt.Errorf("%w: field name %q is reserved", domain.ErrSchemaInvalid, name)
	}
	if !ft.IsValid() {
		return Field{}, fmt.Errorf("%w: invalid type %q for field %q", domain.ErrSchemaInvalid, ft, name)
	}
	if caps.Key && ft != TypeString {
		return Field{}, fmt.Errorf("%w: key field %q must be a string", domain.ErrSchemaInvalid, name)
	}
	if caps.Sortable && ft == TypeText {
		return Field{}, fmt.Errorf("%w: text field %q cannot be sortable", domain.ErrSchemaInvalid, name)
	}
	return Field{
		name:       name,
		fieldType:  ft,
		key:        caps.Key,
		filterable: caps.Filterable,
		sortable:   caps.Sortable,
		facetable:  caps.Facetable,
		searchable: caps.Searchable || ft == TypeText,
		retrieve:   caps.Retrievable || caps.Key,
	}, nil
}

// ReconstructField creates a Field without validation (hydration from storage).
func ReconstructField(name string, ft Type, caps Capabilities) Field {
	return Field{
		name: name, fieldType: ft, key: caps.Key,
		filterable: caps.Filterable, sortable: caps.Sortable,
		facetable: caps.Facetable, searchable: caps.Searchable,
		retrieve: caps.Retrievable,
	}
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// FieldType returns the field data type.
func (f Field) FieldType() Type { return f.fieldType }

// IsKey reports whether this is the document key field.
func (f Field) IsKey() bool { return f.key }

// Filterable reports whether the field can appear in filter expressions.
func (f Field) Filterable() bool { return f.filterable }

// Sortable reports whether results can be ordered by the field.
func (f Field) Sortable() bool { return f.sortable }

// Facetable reports whether the field supports facet aggregation.
func (f Field) Facetable() bool { return f.facetable }

// Searchable reports whether the field participates in lexical search.
func (f Field) Searchable() bool { return f.searchable }

// Retrievable reports whether the field may appear in result projections.
func (f Field) Retrievable() bool { return f.retrieve }
