package semantic

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coder/hnsw"

	"github.com/tomwolfe/lawsage/internal/embed"
	lawerr "github.com/tomwolfe/lawsage/internal/errors"
	"github.com/tomwolfe/lawsage/internal/rules"
)

// similarityScale maps cosine similarity onto the 0-100 scale this provider
// reports. The engine normalizes locally, so the scale is informational.
const similarityScale = 100.0

// overfetchFactor compensates for candidates removed by metadata filters:
// the graph search cannot filter, so we fetch extra and filter after.
const overfetchFactor = 4

// LocalProvider implements Provider with an embedder and an in-process HNSW
// graph. Indexing happens through RuleIndexer before the first query; after
// that the graph is read-only and queries are safe concurrently.
type LocalProvider struct {
	embedder embed.Embedder

	mu      sync.RWMutex
	graph   *hnsw.Graph[uint64]
	ids     map[uint64]string
	meta    map[uint64]docMeta
	nextKey uint64
	dims    int
}

type docMeta struct {
	jurisdiction string
	category     string
}

// NewLocalProvider creates a provider using the given embedder.
func NewLocalProvider(embedder embed.Embedder) (*LocalProvider, error) {
	if embedder == nil {
		return nil, fmt.Errorf("semantic: nil embedder")
	}

	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = 16
	graph.EfSearch = 32

	return &LocalProvider{
		embedder: embedder,
		graph:    graph,
		ids:      make(map[uint64]string),
		meta:     make(map[uint64]docMeta),
	}, nil
}

// IndexRules embeds the documents in one batch and adds them to the graph.
func (p *LocalProvider) IndexRules(ctx context.Context, docs []rules.Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.SearchText()
	}

	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return lawerr.ServiceError(lawerr.ErrCodeEmbedderUnavailable,
			"embed rule corpus: "+err.Error(), err)
	}
	if len(vectors) != len(docs) {
		return lawerr.New(lawerr.ErrCodeInternal,
			fmt.Sprintf("embedder returned %d vectors for %d documents", len(vectors), len(docs)), nil)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for i, d := range docs {
		if p.dims == 0 {
			p.dims = len(vectors[i])
		} else if len(vectors[i]) != p.dims {
			return lawerr.New(lawerr.ErrCodeInternal,
				fmt.Sprintf("embedding dimension changed mid-corpus: %d vs %d", len(vectors[i]), p.dims), nil)
		}

		key := p.nextKey
		p.nextKey++
		p.graph.Add(hnsw.MakeNode(key, vectors[i]))
		p.ids[key] = d.ID
		p.meta[key] = docMeta{jurisdiction: d.Jurisdiction, category: d.Category}
	}

	slog.Debug("semantic_index_built",
		slog.Int("documents", len(docs)),
		slog.Int("dimensions", p.dims))
	return nil
}

// Query embeds text and returns the nearest indexed documents, filtered by
// jurisdiction/category and thresholded on the 0-100 similarity scale.
func (p *LocalProvider) Query(ctx context.Context, text string, opts Options) ([]Candidate, error) {
	if opts.TopK <= 0 {
		return []Candidate{}, nil
	}

	vector, err := p.embedder.Embed(ctx, text)
	if err != nil {
		return nil, lawerr.ServiceError(lawerr.ErrCodeSemanticUnavailable,
			"embed query: "+err.Error(), err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.graph.Len() == 0 {
		return []Candidate{}, nil
	}
	if p.dims != 0 && len(vector) != p.dims {
		return nil, lawerr.ServiceError(lawerr.ErrCodeSemanticUnavailable,
			fmt.Sprintf("query embedding dimension %d does not match index dimension %d", len(vector), p.dims), nil)
	}

	fetch := opts.TopK * overfetchFactor
	if fetch > p.graph.Len() {
		fetch = p.graph.Len()
	}
	nodes := p.graph.Search(vector, fetch)

	candidates := make([]Candidate, 0, opts.TopK)
	for _, node := range nodes {
		meta := p.meta[node.Key]
		if opts.Jurisdiction != "" && meta.jurisdiction != opts.Jurisdiction {
			continue
		}
		if opts.Category != "" && meta.category != opts.Category {
			continue
		}

		score := similarityScore(p.graph.Distance(vector, node.Value))
		if score < opts.SimilarityThreshold {
			continue
		}

		candidates = append(candidates, Candidate{
			ID:    p.ids[node.Key],
			Score: score,
			Metadata: map[string]string{
				"jurisdiction": meta.jurisdiction,
				"category":     meta.category,
			},
		})
		if len(candidates) == opts.TopK {
			break
		}
	}

	return candidates, nil
}

// similarityScore converts cosine distance (0 identical, 2 opposite) to the
// provider's 0-100 similarity scale.
func similarityScore(distance float32) float64 {
	similarity := 1 - float64(distance)
	if similarity < 0 {
		similarity = 0
	}
	return similarity * similarityScale
}

var (
	_ Provider    = (*LocalProvider)(nil)
	_ RuleIndexer = (*LocalProvider)(nil)
)
