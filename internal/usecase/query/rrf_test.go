package query

import (
	"testing"

	domsearch "github.com/lexivec/lexivec/internal/domain/search"
)

func hit(id string, score float64) domsearch.Hit {
	return domsearch.NewHit(id, score, nil, nil)
}

func TestFuseRRF_OverlapWins(t *testing.T) {
	knn := []domsearch.Hit{hit("a", 0.9), hit("b", 0.8), hit("c", 0.7)}
	lexical := []domsearch.Hit{hit("d", 15.0), hit("b", 12.0)}

	fused := fuseRRF(knn, lexical, 10)
	if len(fused) != 4 {
		t.Fatalf("fused = %d hits, want 4", len(fused))
	}
	// b ranks 2nd in both legs: 1/62 + 1/62 beats every single-leg score.
	if fused[0].ID() != "b" {
		t.Errorf("top hit = %q, want b", fused[0].ID())
	}
}

func TestFuseRRF_Truncates(t *testing.T) {
	knn := []domsearch.Hit{hit("a", 0.9), hit("b", 0.8), hit("c", 0.7)}
	fused := fuseRRF(knn, nil, 2)
	if len(fused) != 2 {
		t.Fatalf("fused = %d hits, want 2", len(fused))
	}
	if fused[0].ID() != "a" || fused[1].ID() != "b" {
		t.Errorf("order = [%s %s], want [a b]", fused[0].ID(), fused[1].ID())
	}
}

func TestFuseRRF_SingleLegOrderPreserved(t *testing.T) {
	lexical := []domsearch.Hit{hit("x", 10.0), hit("y", 8.0), hit("z", 5.0)}
	fused := fuseRRF(nil, lexical, 10)
	for i, want := range []string{"x", "y", "z"} {
		if fused[i].ID() != want {
			t.Errorf("fused[%d] = %q, want %q", i, fused[i].ID(), want)
		}
	}
}

func TestFuseRRF_ScoresDescend(t *testing.T) {
	knn := []domsearch.Hit{hit("a", 0.9), hit("b", 0.8)}
	lexical := []domsearch.Hit{hit("c", 9.0), hit("a", 7.0)}
	fused := fuseRRF(knn, lexical, 10)
	for i := 1; i < len(fused); i++ {
		if fused[i].Score() > fused[i-1].Score() {
			t.Fatalf("scores not descending at %d: %v > %v", i, fused[i].Score(), fused[i-1].Score())
		}
	}
}
