package search

import (
	"context"

	lawerrors "github.com/tomwolfe/lawsage/internal/errors"
	"github.com/tomwolfe/lawsage/internal/store"
)

// RerankCandidate is one document handed to a reranker.
type RerankCandidate struct {
	ID   string
	Text string
}

// RerankScore is a reranker's judgment for one candidate.
type RerankScore struct {
	ID    string
	Score float64
}

// Reranker rescores a candidate set against the query. Implementations
// must return exactly one score per input candidate; the engine treats
// missing, duplicate, or unknown ids as a contract violation and keeps
// the pre-rerank order.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []RerankCandidate) ([]RerankScore, error)
}

// LocalReranker scores candidates by query-token overlap. It needs no
// model or network and gives scores in [0, 1], which keeps the rerank
// blend on the same scale as the fused prior.
type LocalReranker struct{}

// NewLocalReranker returns a token-overlap reranker.
func NewLocalReranker() *LocalReranker {
	return &LocalReranker{}
}

// Rerank scores each candidate as the fraction of distinct query tokens
// present in the candidate text.
func (r *LocalReranker) Rerank(ctx context.Context, query string, candidates []RerankCandidate) ([]RerankScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, lawerrors.New(lawerrors.ErrCodeRerankerFailed, "rerank cancelled", err)
	}

	queryTokens := store.TokenSet(query)
	scores := make([]RerankScore, 0, len(candidates))
	for _, cand := range candidates {
		scores = append(scores, RerankScore{
			ID:    cand.ID,
			Score: overlapScore(queryTokens, cand.Text),
		})
	}
	return scores, nil
}

func overlapScore(queryTokens map[string]struct{}, text string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	candTokens := store.TokenSet(text)
	matched := 0
	for tok := range queryTokens {
		if _, ok := candTokens[tok]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryTokens))
}

var _ Reranker = (*LocalReranker)(nil)
