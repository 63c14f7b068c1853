package lexivec

import (
	"context"
	"fmt"
)

// IndexService manages index lifecycles.
type IndexService struct {
	client *Client
}

// Create declares a new index. The schema is validated locally before
// anything reaches the backend: a name collision yields ErrIndexExists,
// an invalid schema yields ErrSchemaInvalid.
func (s *IndexService) Create(
	ctx context.Context, name string, fields []FieldSpec,
	vector VectorFieldSpec, semantic *SemanticSpec,
) (IndexSchema, error) {
	domFields, err := toDomainFields(fields)
	if err != nil {
		return IndexSchema{}, fmt.Errorf("create %q: %w", name, err)
	}

	vc := toDomainVector(vector)
	if vc.FieldName == "" {
		vc.FieldName = "embedding"
	}
	if vc.HNSWM == 0 {
		vc.HNSWM = s.client.hnswM
	}
	if vc.HNSWEFBuild == 0 {
		vc.HNSWEFBuild = s.client.hnswEFConstruct
	}

	sch, err := s.client.indexSvc.Create(ctx, name, domFields, &vc, toDomainSemantic(semantic))
	if err != nil {
		return IndexSchema{}, fmt.Errorf("create %q: %w", name, err)
	}

	s.client.cacheSchema(sch)
	return fromDomainSchema(sch), nil
}

// Get loads the declared schema of an index.
func (s *IndexService) Get(ctx context.Context, name string) (IndexSchema, error) {
	sch, err := s.client.cachedSchema(ctx, name)
	if err != nil {
		return IndexSchema{}, fmt.Errorf("get %q: %w", name, err)
	}
	return fromDomainSchema(sch), nil
}

// Delete removes an index together with all of its documents.
func (s *IndexService) Delete(ctx context.Context, name string) error {
	if err := s.client.indexSvc.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	s.client.evictSchema(name)
	return nil
}
