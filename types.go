package lexivec

import (
	"github.com/lexivec/lexivec/internal/domain"
	"github.com/lexivec/lexivec/internal/domain/batch"
	"github.com/lexivec/lexivec/internal/domain/document"
	"github.com/lexivec/lexivec/internal/domain/schema"
	domsearch "github.com/lexivec/lexivec/internal/domain/search"
)

// FieldType classifies an index field.
type FieldType string

const (
	// FieldTypeText is full-text searchable prose.
	FieldTypeText FieldType = "text"
	// FieldTypeString is an exact-match token, usable as key and filter.
	FieldTypeString FieldType = "string"
	// FieldTypeNumeric is a float64 value, usable in range filters and sorting.
	FieldTypeNumeric FieldType = "numeric"
)

// FieldSpec declares one field of an index schema.
type FieldSpec struct {
	Name        string
	Type        FieldType
	Key         bool
	Filterable  bool
	Sortable    bool
	Facetable   bool
	Searchable  bool
	Retrievable bool
}

// VectorFieldSpec declares the vector field of an index.
type VectorFieldSpec struct {
	// Name of the vector attribute. Defaults to "embedding".
	Name string
	// SourceField names the text field embedded when documents arrive
	// without a vector.
	SourceField string
	// Dimensions of the stored vectors. Required.
	Dimensions int
	// HNSWM and HNSWEFConstruction tune the graph. Zero means backend default.
	HNSWM              int
	HNSWEFConstruction int
}

// SemanticSpec declares a semantic reranking configuration for an index.
type SemanticSpec struct {
	// Name of the configuration. Defaults to "default".
	Name          string
	TitleField    string
	ContentFields []string
	KeywordFields []string
}

// IndexSchema is the declared shape of an index as read back from Get.
type IndexSchema struct {
	Name     string
	Fields   []FieldSpec
	Vector   VectorFieldSpec
	Semantic *SemanticSpec
}

// Document is one unit of ingestable content. String and numeric
// attributes are keyed by field name; Vector may be nil when the index
// declares a source field for vectorization.
type Document struct {
	ID       string
	Strings  map[string]string
	Numerics map[string]float64
	Vector   []float32
}

// IngestOutcome reports the result for one document of a batch.
type IngestOutcome struct {
	ID      string
	Err     error
	Message string
}

// IngestResult reports per-document outcomes of a batch in input order.
type IngestResult struct {
	Outcomes        []IngestOutcome
	Succeeded       int
	EmbeddingTokens int
}

// RangeFilter bounds a numeric field. Nil endpoints are unbounded.
type RangeFilter struct {
	Min          *float64
	Max          *float64
	MinExclusive bool
	MaxExclusive bool
}

// FilterCondition matches one field. Exactly one of Equals or Range
// applies: Equals for string fields, Range for numeric fields.
type FilterCondition struct {
	Field  string
	Equals string
	Range  *RangeFilter
}

// Filter restricts candidates before ranking. All conditions must
// hold; at least one Any condition must hold when any are given; Not
// conditions must not hold.
type Filter struct {
	All []FilterCondition
	Any []FilterCondition
	Not []FilterCondition
}

// SearchOptions tune a query. The zero value asks for the top 10 hits
// with all retrievable fields.
type SearchOptions struct {
	// K caps the number of hits. Defaults to 10, max 500.
	K int
	// Filter restricts candidates before vector and keyword ranking.
	Filter *Filter
	// Select projects the named retrievable fields. Empty means all.
	Select []string
}

// SemanticOptions extend SearchOptions for semantic queries.
type SemanticOptions struct {
	SearchOptions
	// ConfigName selects a semantic configuration. Defaults to the
	// index's only configuration.
	ConfigName string
	// Captions asks for an extractive snippet per hit.
	Captions bool
	// Answers asks for direct answers synthesized from top hits.
	Answers bool
	// MaxAnswers caps Answers. Defaults to 1, max 5.
	MaxAnswers int
}

// Hit is one search result.
type Hit struct {
	ID       string
	Score    float64
	Caption  string
	Strings  map[string]string
	Numerics map[string]float64
}

// SearchResults is a ranked result set.
type SearchResults struct {
	Hits []Hit
	// Answers holds semantic answers when requested.
	Answers []string
	// EmbeddingTokens counts tokens spent vectorizing the query text.
	EmbeddingTokens int
}

// EmbeddingResult is the output of an Embedder.
type EmbeddingResult = domain.EmbeddingResult

// Embedder turns text into a vector. Implementations must be safe for
// concurrent use.
type Embedder = domain.Embedder

// Reranker reorders candidates by semantic relevance.
type Reranker = domain.Reranker

func toDomainFields(specs []FieldSpec) ([]schema.Field, error) {
	fields := make([]schema.Field, 0, len(specs))
	for _, fs := range specs {
		f, err := schema.NewField(fs.Name, schema.Type(fs.Type), schema.Capabilities{
			Key:         fs.Key,
			Filterable:  fs.Filterable,
			Sortable:    fs.Sortable,
			Facetable:   fs.Facetable,
			Searchable:  fs.Searchable,
			Retrievable: fs.Retrievable,
		})
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func toDomainVector(v VectorFieldSpec) schema.VectorConfig {
	return schema.VectorConfig{
		FieldName:   v.Name,
		SourceField: v.SourceField,
		Dimensions:  v.Dimensions,
		HNSWM:       v.HNSWM,
		HNSWEFBuild: v.HNSWEFConstruction,
	}
}

func toDomainSemantic(s *SemanticSpec) *schema.SemanticConfig {
	if s == nil {
		return nil
	}
	return &schema.SemanticConfig{
		Name:          s.Name,
		TitleField:    s.TitleField,
		ContentFields: s.ContentFields,
		KeywordFields: s.KeywordFields,
	}
}

func fromDomainSchema(sch schema.Schema) IndexSchema {
	fields := make([]FieldSpec, 0, len(sch.Fields()))
	for _, f := range sch.Fields() {
		fields = append(fields, FieldSpec{
			Name:        f.Name(),
			Type:        FieldType(f.FieldType()),
			Key:         f.IsKey(),
			Filterable:  f.Filterable(),
			Sortable:    f.Sortable(),
			Facetable:   f.Facetable(),
			Searchable:  f.Searchable(),
			Retrievable: f.Retrievable(),
		})
	}
	out := IndexSchema{
		Name:   sch.Name(),
		Fields: fields,
	}
	if vc := sch.Vector(); vc != nil {
		out.Vector = VectorFieldSpec{
			Name:               vc.FieldName,
			SourceField:        vc.SourceField,
			Dimensions:         vc.Dimensions,
			HNSWM:              vc.HNSWM,
			HNSWEFConstruction: vc.HNSWEFBuild,
		}
	}
	if sc := sch.Semantic(); sc != nil {
		out.Semantic = &SemanticSpec{
			Name:          sc.Name,
			TitleField:    sc.TitleField,
			ContentFields: sc.ContentFields,
			KeywordFields: sc.KeywordFields,
		}
	}
	return out
}

func toDomainDocument(d Document) (document.Document, error) {
	doc, err := document.New(d.ID, d.Strings, d.Numerics)
	if err != nil {
		return document.Document{}, err
	}
	if len(d.Vector) > 0 {
		doc.SetVector(d.Vector)
	}
	return doc, nil
}

func fromIngestResult(ir batch.IngestResult) IngestResult {
	out := IngestResult{
		Outcomes:        make([]IngestOutcome, 0, len(ir.Results)),
		Succeeded:       ir.Succeeded(),
		EmbeddingTokens: ir.EmbeddingTokens,
	}
	for _, r := range ir.Results {
		o := IngestOutcome{ID: r.ID(), Err: r.Err()}
		if err := r.Err(); err != nil {
			o.Message = err.Error()
		}
		out.Outcomes = append(out.Outcomes, o)
	}
	return out
}

func toDomainFilter(f *Filter) (domsearch.Filter, error) {
	if f == nil {
		return domsearch.Filter{}, nil
	}
	all, err := toDomainConditions(f.All)
	if err != nil {
		return domsearch.Filter{}, err
	}
	any, err := toDomainConditions(f.Any)
	if err != nil {
		return domsearch.Filter{}, err
	}
	not, err := toDomainConditions(f.Not)
	if err != nil {
		return domsearch.Filter{}, err
	}
	return domsearch.NewFilter(all, any, not)
}

func toDomainConditions(conds []FilterCondition) ([]domsearch.Condition, error) {
	if len(conds) == 0 {
		return nil, nil
	}
	out := make([]domsearch.Condition, 0, len(conds))
	for _, c := range conds {
		var (
			dc  domsearch.Condition
			err error
		)
		if c.Range != nil {
			dc, err = domsearch.NewRange(c.Field, domsearch.Range{
				Min:          c.Range.Min,
				Max:          c.Range.Max,
				MinExclusive: c.Range.MinExclusive,
				MaxExclusive: c.Range.MaxExclusive,
			})
		} else {
			dc, err = domsearch.NewMatch(c.Field, c.Equals)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, dc)
	}
	return out, nil
}

func fromResultSet(rs domsearch.ResultSet) SearchResults {
	hits := make([]Hit, 0, len(rs.Hits))
	for _, h := range rs.Hits {
		hits = append(hits, Hit{
			ID:       h.ID(),
			Score:    h.Score(),
			Caption:  h.Caption(),
			Strings:  h.Strings(),
			Numerics: h.Numerics(),
		})
	}
	return SearchResults{
		Hits:            hits,
		Answers:         rs.Answers,
		EmbeddingTokens: rs.EmbeddingTokens,
	}
}
