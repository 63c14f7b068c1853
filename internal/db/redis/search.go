package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/lexivec/lexivec/internal/db"
)

// knnScoreField is the alias assigned to the KNN distance in FT.SEARCH.
const knnScoreField = "__knn_dist"

// SearchKNN runs a K-nearest-neighbor vector query via FT.SEARCH.
// The filter query, when present, is applied before candidate selection
// (pre-filtering). Distances are converted to similarity scores in [0,1].
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q.IndexName == "" || q.VectorField == "" {
		return nil, fmt.Errorf("index and vector field are required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	base := q.FilterQuery
	if base == "" {
		base = "*"
	} else {
		base = "(" + base + ")"
	}
	queryStr := fmt.Sprintf("%s=>[KNN %d @%s $BLOB AS %s]", base, q.K, q.VectorField, knnScoreField)

	args := []string{q.IndexName, queryStr}
	if len(q.ReturnFields) > 0 {
		ret := append([]string{knnScoreField}, q.ReturnFields...)
		args = append(args, "RETURN", strconv.Itoa(len(ret)))
		args = append(args, ret...)
	}
	args = append(args,
		"SORTBY", knnScoreField, "ASC",
		"LIMIT", "0", strconv.Itoa(q.K),
		"PARAMS", "2", "BLOB", vectorToBlob(q.Vector),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseKNNResult(raw)
}

// SearchText runs a lexical BM25 query over the given TEXT fields via FT.SEARCH.
func (s *Store) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if q.TopK <= 0 {
		return nil, fmt.Errorf("topK must be positive")
	}

	textPart := escapeQuery(q.Query)
	if len(q.TextFields) > 0 {
		fields := make([]string, len(q.TextFields))
		for i, f := range q.TextFields {
			fields[i] = "@" + f
		}
		textPart = fmt.Sprintf("(%s):(%s)", strings.Join(fields, "|"), textPart)
	}

	queryStr := textPart
	if q.FilterQuery != "" {
		queryStr = q.FilterQuery + " " + textPart
	}

	args := []string{q.IndexName, queryStr}
	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}
	args = append(args,
		"WITHSCORES",
		"LIMIT", "0", strconv.Itoa(q.TopK),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseTextResult(raw)
}

// parseKNNResult parses the 2-stride reply [total, key1, fields1, ...],
// lifting the KNN distance alias into a similarity score.
func parseKNNResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, total)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}
		entry := db.SearchEntry{Key: key, Fields: parseFieldPairs(fields)}
		if distStr, ok := entry.Fields[knnScoreField]; ok {
			if d, err := strconv.ParseFloat(distStr, 64); err == nil {
				entry.Score = max(0, 1.0-d) // cosine distance to similarity, clamped
			}
			delete(entry.Fields, knnScoreField)
		}
		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

// parseTextResult parses the WITHSCORES 3-stride reply
// [total, key1, score1, fields1, ...].
func parseTextResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, total)
	for i := 1; i+2 < len(raw); i += 3 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		scoreStr, err := raw[i+1].ToString()
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			continue
		}
		fields, err := raw[i+2].ToArray()
		if err != nil {
			continue
		}
		entries = append(entries, db.SearchEntry{
			Key:    key,
			Score:  score,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// vectorToBlob serializes []float32 into the little-endian byte string
// expected by FT.SEARCH PARAMS.
func vectorToBlob(v []float32) string {
	b := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return string(b)
}

// escapeQuery neutralizes RediSearch query syntax in user text.
func escapeQuery(q string) string {
	r := strings.NewReplacer(
		"@", "\\@", "{", "\\{", "}", "\\}", "(", "\\(", ")", "\\)",
		"[", "\\[", "]", "\\]", "|", "\\|", "-", "\\-", "~", "\\~",
		"*", "\\*", ":", "\\:", "\"", "\\\"", "%", "\\%",
	)
	return r.Replace(q)
}
