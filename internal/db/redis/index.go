package redis

import (
	"context"
	"errors"
	"strconv"

	"github.com/lexivec/lexivec/internal/db"
)

// CreateIndex creates an FT index from the given definition.
// Creation is erroring, never replacing: an existing index with the same
// name yields db.ErrIndexExists.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	args, err := buildCreateArgs(def)
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// DropIndex removes an FT index. dropDocs also deletes the indexed hashes.
func (s *Store) DropIndex(ctx context.Context, name string, dropDocs bool) error {
	args := []string{name}
	if dropDocs {
		args = append(args, "DD")
	}
	cmd := s.b().Arbitrary("FT.DROPINDEX").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index") {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	return nil
}

// IndexInfo reads index state via FT.INFO. num_docs together with the
// indexing flag is the backend readiness signal after a batch upload.
func (s *Store) IndexInfo(ctx context.Context, name string) (*db.IndexInfo, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index") {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpIndexInfo, Err: err}
	}

	info := &db.IndexInfo{}
	// FT.INFO replies with a flat [name, value, ...] array.
	for i := 0; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		switch key {
		case "num_docs":
			if v, err := raw[i+1].AsInt64(); err == nil {
				info.NumDocs = v
			} else if sv, err := raw[i+1].ToString(); err == nil {
				if n, perr := strconv.ParseInt(sv, 10, 64); perr == nil {
					info.NumDocs = n
				}
			}
		case "indexing":
			if v, err := raw[i+1].AsInt64(); err == nil {
				info.Indexing = v != 0
			}
		}
	}
	return info, nil
}

func buildCreateArgs(idx *db.IndexDefinition) ([]string, error) {
	args := []string{idx.Name, "ON", "HASH"}

	if idx.Prefix != "" {
		args = append(args, "PREFIX", "1", idx.Prefix)
	}

	args = append(args, "SCHEMA")

	for i := range idx.Fields {
		fieldArgs, err := buildFieldArgs(&idx.Fields[i])
		if err != nil {
			return nil, err
		}
		args = append(args, fieldArgs...)
	}

	return args, nil
}

func buildFieldArgs(f *db.IndexField) ([]string, error) {
	args := []string{f.Name}

	switch f.Type {
	case db.IndexFieldNumeric:
		args = append(args, "NUMERIC")
		if f.Sortable {
			args = append(args, "SORTABLE")
		}

	case db.IndexFieldText:
		args = append(args, "TEXT")

	case db.IndexFieldTag:
		args = append(args, "TAG")
		if f.TagSeparator != "" {
			args = append(args, "SEPARATOR", f.TagSeparator)
		}
		if f.Sortable {
			args = append(args, "SORTABLE")
		}

	case db.IndexFieldVector:
		vectorArgs, err := buildVectorFieldArgs(f)
		if err != nil {
			return nil, err
		}
		args = append(args, vectorArgs...)

	default:
		return nil, errors.New("unknown field type for " + f.Name)
	}

	return args, nil
}

func buildVectorFieldArgs(f *db.IndexField) ([]string, error) {
	if f.VectorDim <= 0 {
		return nil, errors.New("vector field requires positive DIM")
	}

	algo := f.VectorAlgo
	if algo == "" {
		algo = db.VectorHNSW
	}
	metric := f.VectorDistance
	if metric == "" {
		metric = db.DistanceCosine
	}

	params := [][2]string{
		{"TYPE", "FLOAT32"},
		{"DIM", strconv.Itoa(f.VectorDim)},
		{"DISTANCE_METRIC", string(metric)},
	}
	if algo == db.VectorHNSW {
		if f.VectorM > 0 {
			params = append(params, [2]string{"M", strconv.Itoa(f.VectorM)})
		}
		if f.VectorEFConstruct > 0 {
			params = append(params, [2]string{"EF_CONSTRUCTION", strconv.Itoa(f.VectorEFConstruct)})
		}
	}

	args := []string{"VECTOR", string(algo), strconv.Itoa(len(params) * 2)}
	for _, p := range params {
		args = append(args, p[0], p[1])
	}
	return args, nil
}
