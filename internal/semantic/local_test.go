package semantic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomwolfe/lawsage/internal/embed"
	"github.com/tomwolfe/lawsage/internal/rules"
)

func testCorpus() []rules.Document {
	return []rules.Document{
		{
			ID: "CCP 1161", Jurisdiction: "California", Category: "Housing",
			Title: "Unlawful Detainer", Description: "Eviction of tenants after notice.",
			FullText: "A tenant is guilty of unlawful detainer after default in rent and three days notice to pay or quit.",
		},
		{
			ID: "CCP 1950.5", Jurisdiction: "California", Category: "Housing",
			Title: "Security Deposit", Description: "Deposit refund deadlines for landlords.",
			FullText: "Within 21 days after a tenant vacates the landlord shall return the security deposit with an itemized statement.",
		},
		{
			ID: "FC 2030", Jurisdiction: "California", Category: "Family",
			Title: "Attorney Fees", Description: "Need-based attorney fee awards in dissolution.",
			FullText: "The court shall ensure each party has access to legal representation to preserve their rights.",
		},
		{
			ID: "NY RPL 235", Jurisdiction: "New York", Category: "Housing",
			Title: "Tenant Remedies", Description: "Tenant remedies for breach of warranty of habitability.",
			FullText: "Every written or oral lease includes a warranty that the premises are fit for human habitation.",
		},
	}
}

func newTestProvider(t *testing.T) *LocalProvider {
	t.Helper()
	p, err := NewLocalProvider(embed.NewStaticEmbedder())
	require.NoError(t, err)
	require.NoError(t, p.IndexRules(context.Background(), testCorpus()))
	return p
}

func TestLocalProvider_QueryRanksRelevantFirst(t *testing.T) {
	p := newTestProvider(t)

	candidates, err := p.Query(context.Background(), "tenant eviction notice to pay or quit", Options{TopK: 4})
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	assert.Equal(t, "CCP 1161", candidates[0].ID)
	for i := 1; i < len(candidates); i++ {
		assert.GreaterOrEqual(t, candidates[i-1].Score, candidates[i].Score, "descending order")
	}
}

func TestLocalProvider_JurisdictionFilter(t *testing.T) {
	p := newTestProvider(t)

	candidates, err := p.Query(context.Background(), "tenant housing rights",
		Options{TopK: 4, Jurisdiction: "New York"})
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	for _, c := range candidates {
		assert.Equal(t, "New York", c.Metadata["jurisdiction"])
	}
}

func TestLocalProvider_CategoryFilter(t *testing.T) {
	p := newTestProvider(t)

	candidates, err := p.Query(context.Background(), "attorney fees dissolution",
		Options{TopK: 4, Category: "Family"})
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	for _, c := range candidates {
		assert.Equal(t, "FC 2030", c.ID)
	}
}

func TestLocalProvider_SimilarityThreshold(t *testing.T) {
	p := newTestProvider(t)

	all, err := p.Query(context.Background(), "tenant eviction", Options{TopK: 4})
	require.NoError(t, err)

	strict, err := p.Query(context.Background(), "tenant eviction",
		Options{TopK: 4, SimilarityThreshold: 99.9})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(strict), len(all))
	for _, c := range strict {
		assert.GreaterOrEqual(t, c.Score, 99.9)
	}
}

func TestLocalProvider_EmptyIndex(t *testing.T) {
	p, err := NewLocalProvider(embed.NewStaticEmbedder())
	require.NoError(t, err)

	candidates, err := p.Query(context.Background(), "anything", Options{TopK: 5})
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestLocalProvider_ZeroTopK(t *testing.T) {
	p := newTestProvider(t)

	candidates, err := p.Query(context.Background(), "anything", Options{})
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestLocalProvider_NilEmbedder(t *testing.T) {
	_, err := NewLocalProvider(nil)
	assert.Error(t, err)
}

// failingEmbedder simulates an unavailable embedding service.
type failingEmbedder struct {
	embed.StaticEmbedder
}

func (f *failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("connection refused")
}

func (f *failingEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("connection refused")
}

func TestLocalProvider_EmbedderFailureSurfaces(t *testing.T) {
	p, err := NewLocalProvider(&failingEmbedder{})
	require.NoError(t, err)

	err = p.IndexRules(context.Background(), testCorpus())
	assert.Error(t, err)

	_, err = p.Query(context.Background(), "query", Options{TopK: 3})
	assert.Error(t, err)
}

func TestLocalProvider_ScoresWithinScale(t *testing.T) {
	p := newTestProvider(t)

	candidates, err := p.Query(context.Background(), "security deposit refund", Options{TopK: 4})
	require.NoError(t, err)
	for _, c := range candidates {
		assert.GreaterOrEqual(t, c.Score, 0.0)
		assert.LessOrEqual(t, c.Score, 100.0)
	}
}
