package search

import (
	"sort"

	"github.com/tomwolfe/lawsage/internal/semantic"
	"github.com/tomwolfe/lawsage/internal/store"
)

// fused carries one candidate through normalization, fusion, and rerank.
type fused struct {
	id       string
	lexical  float64
	semantic float64
	score    float64
	rerank   *float64
	doc      store.Result
	hasDoc   bool
}

// maxScoreFloor keeps normalization from amplifying scores: a list whose
// best score is below 1 divides by 1, so normalized values never exceed
// the raw ones.
const maxScoreFloor = 1.0

func normDivisor(max float64) float64 {
	if max > maxScoreFloor {
		return max
	}
	return maxScoreFloor
}

// fuse max-normalizes each engine's scores independently and combines
// them over the union of candidates. Documents found by only one engine
// contribute zero from the other, which lets a strong single-engine
// match outrank a weak double match.
//
// Union order is deterministic: lexical candidates in their ranked
// order, then semantic-only candidates in theirs. The final stable sort
// by fused score therefore breaks ties the same way on every run.
func fuse(lexical []store.Result, sem []semantic.Candidate, weights Weights) []fused {
	var maxLex, maxSem float64
	for _, r := range lexical {
		if r.Score > maxLex {
			maxLex = r.Score
		}
	}
	for _, c := range sem {
		if c.Score > maxSem {
			maxSem = c.Score
		}
	}
	lexDiv := normDivisor(maxLex)
	semDiv := normDivisor(maxSem)

	out := make([]fused, 0, len(lexical)+len(sem))
	pos := make(map[string]int, len(lexical)+len(sem))

	for _, r := range lexical {
		pos[r.ID] = len(out)
		out = append(out, fused{
			id:      r.ID,
			lexical: r.Score / lexDiv,
			doc:     r,
			hasDoc:  true,
		})
	}
	for _, c := range sem {
		if i, ok := pos[c.ID]; ok {
			out[i].semantic = c.Score / semDiv
			continue
		}
		pos[c.ID] = len(out)
		out = append(out, fused{
			id:       c.ID,
			semantic: c.Score / semDiv,
		})
	}

	for i := range out {
		out[i].score = weights.BM25*out[i].lexical + weights.Vector*out[i].semantic
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].score > out[j].score
	})
	return out
}

// sortFusedPrefix stably re-sorts candidates[:n] by score, descending.
// Candidates past n keep their position below the reranked prefix.
func sortFusedPrefix(candidates []fused, n int) {
	sort.SliceStable(candidates[:n], func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
}
