package embed

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/tomwolfe/lawsage/internal/store"
)

// Feature weights for the static vector. Token hashes carry most of the
// signal; character trigrams bridge inflection differences ("evict" vs
// "eviction") the way a subword model would.
const (
	tokenWeight = 0.7
	ngramWeight = 0.3
	ngramSize   = 3
)

// StaticEmbedder generates deterministic hash-based embeddings with no
// network dependency. Semantic quality is far below a learned model; it
// exists so the engine works offline and so tests are reproducible.
type StaticEmbedder struct{}

// NewStaticEmbedder creates a new static embedder.
func NewStaticEmbedder() *StaticEmbedder {
	return &StaticEmbedder{}
}

// Embed generates an embedding for a single text.
func (e *StaticEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return make([]float32, StaticDimensions), nil
	}

	vector := make([]float32, StaticDimensions)

	for _, token := range store.Tokenize(trimmed) {
		vector[hashToIndex(token)] += tokenWeight
	}

	compact := strings.ToLower(strings.Join(strings.Fields(trimmed), " "))
	for _, ngram := range extractNgrams(compact, ngramSize) {
		vector[hashToIndex(ngram)] += ngramWeight
	}

	return normalizeVector(vector), nil
}

// EmbedBatch generates embeddings for multiple texts.
func (e *StaticEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		vecs[i] = vec
	}
	return vecs, nil
}

// Dimensions returns the embedding dimension.
func (e *StaticEmbedder) Dimensions() int {
	return StaticDimensions
}

// ModelName returns the model identifier.
func (e *StaticEmbedder) ModelName() string {
	return "static-fnv-256"
}

// Close is a no-op.
func (e *StaticEmbedder) Close() error {
	return nil
}

func hashToIndex(s string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return int(h.Sum32() % StaticDimensions)
}

func extractNgrams(s string, n int) []string {
	runes := []rune(s)
	if len(runes) < n {
		return nil
	}
	ngrams := make([]string, 0, len(runes)-n+1)
	for i := 0; i+n <= len(runes); i++ {
		ngrams = append(ngrams, string(runes[i:i+n]))
	}
	return ngrams
}

var _ Embedder = (*StaticEmbedder)(nil)
