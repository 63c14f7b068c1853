// Package index persists index schemas and manages the backing FT index.
package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/lexivec/lexivec/internal/db"
	"github.com/lexivec/lexivec/internal/domain"
	"github.com/lexivec/lexivec/internal/domain/schema"
)

// store is the consumer interface for index operations.
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string, dropDocs bool) error
	IndexInfo(ctx context.Context, name string) (*db.IndexInfo, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, keys ...string) (int64, error)
}

// Repo implements the index management contract against the backend.
type Repo struct {
	store store
}

// New creates an index repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create persists the schema and creates the backing FT index.
// Creation is erroring: an existing index yields domain.ErrIndexExists,
// the schema is never silently replaced.
func (r *Repo) Create(ctx context.Context, sch schema.Schema) error {
	def, err := buildIndexDefinition(sch)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSchemaInvalid, err)
	}

	data, err := marshalSchema(sch)
	if err != nil {
		return err
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return fmt.Errorf("index %q: %w", sch.Name(), domain.ErrIndexExists)
		}
		return fmt.Errorf("create index %q: %w", sch.Name(), mapErr(ctx, err))
	}

	if err := r.store.Set(ctx, domain.SchemaKey(sch.Name()), data); err != nil {
		return fmt.Errorf("persist schema %q: %w", sch.Name(), mapErr(ctx, err))
	}
	return nil
}

// Get loads the persisted schema of an index.
func (r *Repo) Get(ctx context.Context, name string) (schema.Schema, error) {
	data, err := r.store.Get(ctx, domain.SchemaKey(name))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return schema.Schema{}, fmt.Errorf("index %q: %w", name, domain.ErrIndexNotFound)
		}
		return schema.Schema{}, fmt.Errorf("load schema %q: %w", name, mapErr(ctx, err))
	}
	return unmarshalSchema(data)
}

// Delete drops the FT index, its documents, and the persisted schema.
func (r *Repo) Delete(ctx context.Context, name string) error {
	if err := r.store.DropIndex(ctx, domain.IndexKey(name), true); err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return fmt.Errorf("index %q: %w", name, domain.ErrIndexNotFound)
		}
		return fmt.Errorf("drop index %q: %w", name, mapErr(ctx, err))
	}
	if _, err := r.store.Del(ctx, domain.SchemaKey(name)); err != nil {
		return fmt.Errorf("delete schema %q: %w", name, mapErr(ctx, err))
	}
	return nil
}

// CountIndexed returns the number of documents visible to the index and
// whether background indexing is still running. This is the readiness
// signal polled after a batch upload.
func (r *Repo) CountIndexed(ctx context.Context, name string) (int64, bool, error) {
	info, err := r.store.IndexInfo(ctx, domain.IndexKey(name))
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return 0, false, fmt.Errorf("index %q: %w", name, domain.ErrIndexNotFound)
		}
		return 0, false, fmt.Errorf("index info %q: %w", name, mapErr(ctx, err))
	}
	return info.NumDocs, !info.Indexing, nil
}

// buildIndexDefinition maps a domain schema onto an FT index definition.
// String fields become TAG, numerics NUMERIC, text fields TEXT; the vector
// config becomes a VECTOR field with its declared algorithm and metric.
func buildIndexDefinition(sch schema.Schema) (*db.IndexDefinition, error) {
	def := &db.IndexDefinition{
		Name:   domain.IndexKey(sch.Name()),
		Prefix: domain.DocPrefix(sch.Name()),
		Fields: make([]db.IndexField, 0, len(sch.Fields())+1),
	}

	for _, f := range sch.Fields() {
		if f.IsKey() {
			continue // the key is the hash key suffix, not an indexed field
		}
		if !f.Filterable() && !f.Searchable() && !f.Sortable() && !f.Facetable() {
			continue // retrievable-only fields live in the hash unindexed
		}
		var ft db.IndexFieldType
		switch f.FieldType() {
		case schema.TypeString:
			ft = db.IndexFieldTag
		case schema.TypeNumeric:
			ft = db.IndexFieldNumeric
		case schema.TypeText:
			ft = db.IndexFieldText
		default:
			return nil, fmt.Errorf("unmapped field type %q", f.FieldType())
		}
		def.Fields = append(def.Fields, db.IndexField{
			Name:     f.Name(),
			Type:     ft,
			Sortable: f.Sortable(),
		})
	}

	if v := sch.Vector(); v != nil {
		algo := db.VectorHNSW
		if v.Algorithm == schema.AlgorithmFlat {
			algo = db.VectorFlat
		}
		var metric db.DistanceMetric
		switch v.Metric {
		case schema.MetricL2:
			metric = db.DistanceL2
		case schema.MetricIP:
			metric = db.DistanceIP
		default:
			metric = db.DistanceCosine
		}
		def.Fields = append(def.Fields, db.IndexField{
			Name:              v.FieldName,
			Type:              db.IndexFieldVector,
			VectorAlgo:        algo,
			VectorDim:         v.Dimensions,
			VectorDistance:    metric,
			VectorM:           v.HNSWM,
			VectorEFConstruct: v.HNSWEFBuild,
		})
	}

	return def, nil
}

// mapErr converts a deadline expiry into the typed timeout condition.
func mapErr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	return err
}
