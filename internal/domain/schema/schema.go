// Package schema holds the declarative index schema and its pure builder.
// Building performs no network I/O; the resulting value is handed to the
// index repository for backend creation and is immutable afterwards.
package schema

import (
	"fmt"
	"regexp"

	"github.com/lexivec/lexivec/internal/domain"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Algorithm selects the backend vector indexing algorithm.
type Algorithm string

// Vector indexing algorithms.
const (
	AlgorithmHNSW Algorithm = "hnsw"
	AlgorithmFlat Algorithm = "flat"
)

// Metric is the vector distance metric.
type Metric string

// Distance metrics.
const (
	MetricCosine Metric = "cosine"
	MetricL2     Metric = "l2"
	MetricIP     Metric = "ip"
)

// VectorConfig declares the single vector field of an index.
type VectorConfig struct {
	FieldName   string // document attribute holding the embedding
	SourceField string // text field fed to the embedder when the vector is absent
	Dimensions  int
	Algorithm   Algorithm
	Metric      Metric
	HNSWM       int // max edges per node, backend default when 0
	HNSWEFBuild int // build-time candidate list size, backend default when 0
}

// SemanticConfig maps schema fields to the semantic re-ranking roles.
type SemanticConfig struct {
	Name          string
	TitleField    string
	ContentFields []string
	KeywordFields []string
}

// Schema is the immutable index schema aggregate.
type Schema struct {
	name     string
	fields   []Field
	keyField string
	vector   *VectorConfig
	semantic *SemanticConfig
}

// New validates and assembles an index schema. Exactly one field must be
// marked as the key. Vector and semantic configs are both optional.
func New(name string, fields []Field, vector *VectorConfig, semantic *SemanticConfig) (Schema, error) {
	if name == "" {
		return Schema{}, fmt.Errorf("%w: index name is required", domain.ErrSchemaInvalid)
	}
	if len(name) > 64 || !nameRegex.MatchString(name) {
		return Schema{}, fmt.Errorf("%w: index name must match %s (max 64 chars)", domain.ErrSchemaInvalid, nameRegex)
	}
	if len(fields) == 0 {
		return Schema{}, fmt.Errorf("%w: at least one field is required", domain.ErrSchemaInvalid)
	}

	byName := make(map[string]Field, len(fields))
	keyField := ""
	for _, f := range fields {
		if _, dup := byName[f.Name()]; dup {
			return Schema{}, fmt.Errorf("%w: duplicate field %q", domain.ErrSchemaInvalid, f.Name())
		}
		byName[f.Name()] = f
		if f.IsKey() {
			if keyField != "" {
				return Schema{}, fmt.Errorf("%w: multiple key fields (%q and %q)", domain.ErrSchemaInvalid, keyField, f.Name())
			}
			keyField = f.Name()
		}
	}
	if keyField == "" {
		return Schema{}, fmt.Errorf("%w: exactly one key field is required", domain.ErrSchemaInvalid)
	}

	if vector != nil {
		v := *vector
		if err := validateVector(&v, byName); err != nil {
			return Schema{}, err
		}
		vector = &v
	}
	if semantic != nil {
		s := *semantic
		if err := validateSemantic(&s, byName); err != nil {
			return Schema{}, err
		}
		semantic = &s
	}

	return Schema{
		name:     name,
		fields:   append([]Field(nil), fields...),
		keyField: keyField,
		vector:   vector,
		semantic: semantic,
	}, nil
}

func validateVector(v *VectorConfig, byName map[string]Field) error {
	if v.FieldName == "" {
		return fmt.Errorf("%w: vector field name is required", domain.ErrSchemaInvalid)
	}
	if _, clash := byName[v.FieldName]; clash {
		return fmt.Errorf("%w: vector field %q clashes with a scalar field", domain.ErrSchemaInvalid, v.FieldName)
	}
	if v.Dimensions <= 0 {
		return fmt.Errorf("%w: vector dimensions must be positive, got %d", domain.ErrSchemaInvalid, v.Dimensions)
	}
	if v.Algorithm == "" {
		v.Algorithm = AlgorithmHNSW
	}
	if v.Algorithm != AlgorithmHNSW && v.Algorithm != AlgorithmFlat {
		return fmt.Errorf("%w: unknown vector algorithm %q", domain.ErrSchemaInvalid, v.Algorithm)
	}
	if v.Metric == "" {
		v.Metric = MetricCosine
	}
	if v.Metric != MetricCosine && v.Metric != MetricL2 && v.Metric != MetricIP {
		return fmt.Errorf("%w: unknown distance metric %q", domain.ErrSchemaInvalid, v.Metric)
	}
	if v.SourceField != "" {
		f, ok := byName[v.SourceField]
		if !ok {
			return fmt.Errorf("%w: vector source field %q not in schema", domain.ErrSchemaInvalid, v.SourceField)
		}
		if f.FieldType() != TypeText {
			return fmt.Errorf("%w: vector source field %q must be text", domain.ErrSchemaInvalid, v.SourceField)
		}
	}
	return nil
}

func validateSemantic(s *SemanticConfig, byName map[string]Field) error {
	if s.Name == "" {
		s.Name = "default"
	}
	if s.TitleField != "" {
		if _, ok := byName[s.TitleField]; !ok {
			return fmt.Errorf("%w: semantic title field %q not in schema", domain.ErrSchemaInvalid, s.TitleField)
		}
	}
	if len(s.ContentFields) == 0 {
		return fmt.Errorf("%w: semantic config requires at least one content field", domain.ErrSchemaInvalid)
	}
	for _, name := range s.ContentFields {
		if _, ok := byName[name]; !ok {
			return fmt.Errorf("%w: semantic content field %q not in schema", domain.ErrSchemaInvalid, name)
		}
	}
	for _, name := range s.KeywordFields {
		if _, ok := byName[name]; !ok {
			return fmt.Errorf("%w: semantic keyword field %q not in schema", domain.ErrSchemaInvalid, name)
		}
	}
	return nil
}

// Reconstruct creates a Schema without validation (hydration from storage).
func Reconstruct(name string, fields []Field, keyField string, vector *VectorConfig, semantic *SemanticConfig) Schema {
	return Schema{name: name, fields: fields, keyField: keyField, vector: vector, semantic: semantic}
}

// Name returns the index name.
func (s Schema) Name() string { return s.name }

// Fields returns the declared scalar fields.
func (s Schema) Fields() []Field { return s.fields }

// KeyField returns the name of the document key field.
func (s Schema) KeyField() string { return s.keyField }

// Vector returns the vector configuration, nil when the index has none.
func (s Schema) Vector() *VectorConfig { return s.vector }

// Semantic returns the semantic configuration, nil when the index has none.
func (s Schema) Semantic() *SemanticConfig { return s.semantic }

// FieldByName looks up a scalar field by name.
func (s Schema) FieldByName(name string) (Field, bool) {
	for _, f := range s.fields {
		if f.Name() == name {
			return f, true
		}
	}
	return Field{}, false
}

// RetrievableFields returns the names of all fields allowed in projections.
func (s Schema) RetrievableFields() []string {
	out := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		if f.Retrievable() {
			out = append(out, f.Name())
		}
	}
	return out
}
