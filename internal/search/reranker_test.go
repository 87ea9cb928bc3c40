package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalReranker_TokenOverlap(t *testing.T) {
	r := NewLocalReranker()
	candidates := []RerankCandidate{
		{ID: "full", Text: "security deposit return deadline"},
		{ID: "half", Text: "security interest perfection"},
		{ID: "none", Text: "speedy trial waiver"},
	}

	scores, err := r.Rerank(context.Background(), "security deposit", candidates)
	require.NoError(t, err)
	require.Len(t, scores, 3)

	byID := make(map[string]float64, len(scores))
	for _, s := range scores {
		byID[s.ID] = s.Score
	}
	assert.InDelta(t, 1.0, byID["full"], 1e-9)
	assert.InDelta(t, 0.5, byID["half"], 1e-9)
	assert.Zero(t, byID["none"])
}

func TestLocalReranker_EmptyQuery(t *testing.T) {
	r := NewLocalReranker()
	scores, err := r.Rerank(context.Background(), "", []RerankCandidate{{ID: "a", Text: "anything"}})
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Zero(t, scores[0].Score)
}

func TestLocalReranker_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocalReranker().Rerank(ctx, "query", nil)
	require.Error(t, err)
}

func TestValidateRerank(t *testing.T) {
	input := []RerankCandidate{{ID: "a"}, {ID: "b"}}

	tests := []struct {
		name   string
		scores []RerankScore
		ok     bool
	}{
		{
			name:   "complete",
			scores: []RerankScore{{ID: "a", Score: 0.1}, {ID: "b", Score: 0.9}},
			ok:     true,
		},
		{
			name:   "missing id",
			scores: []RerankScore{{ID: "a", Score: 0.1}},
		},
		{
			name:   "duplicate id",
			scores: []RerankScore{{ID: "a", Score: 0.1}, {ID: "a", Score: 0.2}},
		},
		{
			name:   "unknown id",
			scores: []RerankScore{{ID: "a", Score: 0.1}, {ID: "zzz", Score: 0.9}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			byID, detail := validateRerank(input, tt.scores)
			if tt.ok {
				require.Empty(t, detail)
				assert.Len(t, byID, len(input))
			} else {
				require.NotEmpty(t, detail)
			}
		})
	}
}
