package query

import (
	"strconv"

	"github.com/lexivec/lexivec/internal/domain/schema"
	domsearch "github.com/lexivec/lexivec/internal/domain/search"
	searchrepo "github.com/lexivec/lexivec/internal/repository/search"
)

// projectRows maps raw backend rows onto typed hits using the schema's
// field list, preserving backend rank order and scores. Attributes of
// numeric fields parse as float64; unknown attributes are dropped.
func projectRows(rows []searchrepo.Row, sch schema.Schema) []domsearch.Hit {
	if len(rows) == 0 {
		return nil
	}
	vectorField := ""
	if v := sch.Vector(); v != nil {
		vectorField = v.FieldName
	}

	hits := make([]domsearch.Hit, 0, len(rows))
	for _, row := range rows {
		strs := make(map[string]string)
		nums := make(map[string]float64)
		for name, value := range row.Fields {
			if name == vectorField {
				continue
			}
			f, ok := sch.FieldByName(name)
			if !ok {
				continue
			}
			if f.FieldType() == schema.TypeNumeric {
				if n, err := strconv.ParseFloat(value, 64); err == nil {
					nums[name] = n
				}
				continue
			}
			strs[name] = value
		}
		hits = append(hits, domsearch.NewHit(row.ID, row.Score, strs, nums))
	}
	return hits
}

// trimHits drops attributes outside the caller's projection. Needed after
// semantic queries, which fetch extra fields for the reranker.
func trimHits(hits []domsearch.Hit, selected []string) {
	if len(hits) == 0 {
		return
	}
	keep := make(map[string]bool, len(selected))
	for _, f := range selected {
		keep[f] = true
	}
	for i := range hits {
		for name := range hits[i].Strings() {
			if !keep[name] {
				delete(hits[i].Strings(), name)
			}
		}
		for name := range hits[i].Numerics() {
			if !keep[name] {
				delete(hits[i].Numerics(), name)
			}
		}
	}
}
