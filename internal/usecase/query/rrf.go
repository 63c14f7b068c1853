package query

import (
	"sort"

	domsearch "github.com/lexivec/lexivec/internal/domain/search"
)

// rrfK is the Reciprocal Rank Fusion constant (Cormack et al. 2009).
const rrfK = 60

// fuseRRF merges the vector and lexical legs of a hybrid query via
// Reciprocal Rank Fusion: score(d) = sum of 1/(k + rank_i(d)) over the
// rankings where d appears. When a document appears in both legs, the
// KNN hit's attributes are kept.
func fuseRRF(knn, lexical []domsearch.Hit, topK int) []domsearch.Hit {
	type scored struct {
		hit   domsearch.Hit
		score float64
	}

	merged := make(map[string]*scored, len(knn)+len(lexical))
	order := make([]string, 0, len(knn)+len(lexical))

	for rank := range knn {
		id := knn[rank].ID()
		merged[id] = &scored{hit: knn[rank], score: 1.0 / float64(rrfK+rank+1)}
		order = append(order, id)
	}
	for rank := range lexical {
		id := lexical[rank].ID()
		s := 1.0 / float64(rrfK+rank+1)
		if existing, ok := merged[id]; ok {
			existing.score += s
		} else {
			merged[id] = &scored{hit: lexical[rank], score: s}
			order = append(order, id)
		}
	}

	fused := make([]domsearch.Hit, 0, len(order))
	for _, id := range order {
		s := merged[id]
		fused = append(fused, s.hit.WithScore(s.score))
	}

	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Score() > fused[j].Score()
	})

	if len(fused) > topK {
		fused = fused[:topK]
	}
	return fused
}
