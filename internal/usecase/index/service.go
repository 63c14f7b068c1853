// Package index builds index schemas and manages their backend lifecycle.
package index

import (
	"context"
	"fmt"

	"github.com/lexivec/lexivec/internal/domain/schema"
)

// Service handles index schema building and creation.
type Service struct {
	repo Repository
}

// New creates an index service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create assembles and validates the schema, then creates the backing
// index. Schema validation is pure data assembly: an invalid schema
// fails here and never reaches the backend.
func (s *Service) Create(
	ctx context.Context, name string, fields []schema.Field,
	vector *schema.VectorConfig, semantic *schema.SemanticConfig,
) (schema.Schema, error) {
	sch, err := schema.New(name, fields, vector, semantic)
	if err != nil {
		return schema.Schema{}, err
	}
	if err := s.repo.Create(ctx, sch); err != nil {
		return schema.Schema{}, fmt.Errorf("create index: %w", err)
	}
	return sch, nil
}

// Get loads the persisted schema of an index.
func (s *Service) Get(ctx context.Context, name string) (schema.Schema, error) {
	sch, err := s.repo.Get(ctx, name)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("get index: %w", err)
	}
	return sch, nil
}

// Delete drops an index together with its documents.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete index: %w", err)
	}
	return nil
}
