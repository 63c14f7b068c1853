package index

import (
	"encoding/json"
	"fmt"

	"github.com/lexivec/lexivec/internal/domain/schema"
)

// fieldDTO is the persisted form of a schema field.
type fieldDTO struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Key         bool   `json:"key,omitempty"`
	Filterable  bool   `json:"filterable,omitempty"`
	Sortable    bool   `json:"sortable,omitempty"`
	Facetable   bool   `json:"facetable,omitempty"`
	Searchable  bool   `json:"searchable,omitempty"`
	Retrievable bool   `json:"retrievable,omitempty"`
}

// vectorDTO is the persisted form of the vector configuration.
type vectorDTO struct {
	FieldName   string `json:"field_name"`
	SourceField string `json:"source_field,omitempty"`
	Dimensions  int    `json:"dimensions"`
	Algorithm   string `json:"algorithm"`
	Metric      string `json:"metric"`
	HNSWM       int    `json:"hnsw_m,omitempty"`
	HNSWEFBuild int    `json:"hnsw_ef_construction,omitempty"`
}

// semanticDTO is the persisted form of the semantic configuration.
type semanticDTO struct {
	Name          string   `json:"name"`
	TitleField    string   `json:"title_field,omitempty"`
	ContentFields []string `json:"content_fields"`
	KeywordFields []string `json:"keyword_fields,omitempty"`
}

// schemaDTO is the persisted form of an index schema.
type schemaDTO struct {
	Name     string       `json:"name"`
	KeyField string       `json:"key_field"`
	Fields   []fieldDTO   `json:"fields"`
	Vector   *vectorDTO   `json:"vector,omitempty"`
	Semantic *semanticDTO `json:"semantic,omitempty"`
}

func marshalSchema(s schema.Schema) ([]byte, error) {
	dto := schemaDTO{Name: s.Name(), KeyField: s.KeyField()}
	for _, f := range s.Fields() {
		dto.Fields = append(dto.Fields, fieldDTO{
			Name:        f.Name(),
			Type:        string(f.FieldType()),
			Key:         f.IsKey(),
			Filterable:  f.Filterable(),
			Sortable:    f.Sortable(),
			Facetable:   f.Facetable(),
			Searchable:  f.Searchable(),
			Retrievable: f.Retrievable(),
		})
	}
	if v := s.Vector(); v != nil {
		dto.Vector = &vectorDTO{
			FieldName:   v.FieldName,
			SourceField: v.SourceField,
			Dimensions:  v.Dimensions,
			Algorithm:   string(v.Algorithm),
			Metric:      string(v.Metric),
			HNSWM:       v.HNSWM,
			HNSWEFBuild: v.HNSWEFBuild,
		}
	}
	if sem := s.Semantic(); sem != nil {
		dto.Semantic = &semanticDTO{
			Name:          sem.Name,
			TitleField:    sem.TitleField,
			ContentFields: sem.ContentFields,
			KeywordFields: sem.KeywordFields,
		}
	}
	data, err := json.Marshal(dto)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

func unmarshalSchema(data []byte) (schema.Schema, error) {
	var dto schemaDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return schema.Schema{}, fmt.Errorf("unmarshal schema: %w", err)
	}

	fields := make([]schema.Field, 0, len(dto.Fields))
	for _, f := range dto.Fields {
		fields = append(fields, schema.ReconstructField(f.Name, schema.Type(f.Type), schema.Capabilities{
			Key:         f.Key,
			Filterable:  f.Filterable,
			Sortable:    f.Sortable,
			Facetable:   f.Facetable,
			Searchable:  f.Searchable,
			Retrievable: f.Retrievable,
		}))
	}

	var vector *schema.VectorConfig
	if dto.Vector != nil {
		vector = &schema.VectorConfig{
			FieldName:   dto.Vector.FieldName,
			SourceField: dto.Vector.SourceField,
			Dimensions:  dto.Vector.Dimensions,
			Algorithm:   schema.Algorithm(dto.Vector.Algorithm),
			Metric:      schema.Metric(dto.Vector.Metric),
			HNSWM:       dto.Vector.HNSWM,
			HNSWEFBuild: dto.Vector.HNSWEFBuild,
		}
	}
	var semantic *schema.SemanticConfig
	if dto.Semantic != nil {
		semantic = &schema.SemanticConfig{
			Name:          dto.Semantic.Name,
			TitleField:    dto.Semantic.TitleField,
			ContentFields: dto.Semantic.ContentFields,
			KeywordFields: dto.Semantic.KeywordFields,
		}
	}

	return schema.Reconstruct(dto.Name, fields, dto.KeyField, vector, semantic), nil
}
