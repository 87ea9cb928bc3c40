// Package search implements the hybrid retrieval engine: concurrent lexical
// and semantic search, per-engine score normalization, weighted fusion, and
// optional reranking of the fused top set.
package search

import (
	"github.com/tomwolfe/lawsage/internal/rules"
)

// Default configuration values.
const (
	// DefaultVectorWeight weights the normalized semantic score in fusion.
	DefaultVectorWeight = 0.6
	// DefaultBM25Weight weights the normalized lexical score in fusion.
	DefaultBM25Weight = 0.4
	// DefaultTopK bounds candidates considered from each sub-search.
	DefaultTopK = 20
	// DefaultTopKAfterRerank is the final result count.
	DefaultTopKAfterRerank = 5
)

// Weights are linear-combination coefficients for fusion. They need not
// sum to 1; they are not a probability distribution.
type Weights struct {
	// BM25 multiplies the normalized lexical score.
	BM25 float64
	// Vector multiplies the normalized semantic score.
	Vector float64
}

// DefaultWeights returns the default fusion weights.
func DefaultWeights() Weights {
	return Weights{BM25: DefaultBM25Weight, Vector: DefaultVectorWeight}
}

// Config configures a search. It is a value object: replaced wholesale
// between queries, never mutated mid-query. Zero values mean defaults;
// explicit zero weights are expressed through the Weights pointer.
type Config struct {
	// Weights overrides the default fusion weights.
	Weights *Weights

	// UseReranking enables the rerank pass. Defaults to true.
	UseReranking *bool

	// TopK is the candidate count requested from each sub-search (default 20).
	TopK int

	// TopKAfterRerank is the final result count (default 5).
	TopKAfterRerank int

	// Jurisdiction filters the semantic search only. The lexical index
	// always scores its full corpus; fusion is expected to do the work.
	Jurisdiction string

	// Category filters the semantic search only, like Jurisdiction.
	Category string

	// SimilarityThreshold is passed through to the semantic provider on
	// its own score scale.
	SimilarityThreshold float64
}

// withDefaults returns a copy with unset fields filled in.
func (c Config) withDefaults() Config {
	if c.Weights == nil {
		w := DefaultWeights()
		c.Weights = &w
	}
	if c.UseReranking == nil {
		t := true
		c.UseReranking = &t
	}
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
	if c.TopKAfterRerank <= 0 {
		c.TopKAfterRerank = DefaultTopKAfterRerank
	}
	return c
}

// Result is one ranked search hit with the signals that produced it.
type Result struct {
	// DocumentID is the rule document id.
	DocumentID string

	// FusedScore is the final sort key.
	FusedScore float64

	// LexicalScore is the max-normalized BM25 score in [0, 1].
	LexicalScore float64

	// SemanticScore is the max-normalized semantic score in [0, 1].
	SemanticScore float64

	// RerankScore is the reranker's score, nil when reranking did not run.
	RerankScore *float64

	// Document is the matched rule document.
	Document rules.Document
}

// DegradationReason identifies which fallback path a search took.
type DegradationReason string

const (
	// DegradeSemanticUnavailable: the semantic provider failed or was
	// cancelled; ranking used lexical signal only.
	DegradeSemanticUnavailable DegradationReason = "semantic_unavailable"

	// DegradeSemanticDisabled: no semantic provider is configured.
	DegradeSemanticDisabled DegradationReason = "semantic_disabled"

	// DegradeRerankerFailed: the reranker errored; pre-rerank fused
	// order was kept.
	DegradeRerankerFailed DegradationReason = "reranker_failed"

	// DegradeRerankerContract: the reranker violated its contract
	// (missing, duplicate, or unknown ids); pre-rerank order was kept.
	DegradeRerankerContract DegradationReason = "reranker_contract"
)

// Degradation records a fallback taken during a search, so callers and
// tests can assert which path ran instead of only observing the ranking.
type Degradation struct {
	Reason DegradationReason
	Detail string
}

// Response is the outcome of one search: ranked results plus any
// degradations. A degraded search is still a successful search.
type Response struct {
	Results      []Result
	Degradations []Degradation
}

// Degraded reports whether any fallback path was taken.
func (r *Response) Degraded() bool {
	return len(r.Degradations) > 0
}

// HasDegradation reports whether the given fallback was taken.
func (r *Response) HasDegradation(reason DegradationReason) bool {
	for _, d := range r.Degradations {
		if d.Reason == reason {
			return true
		}
	}
	return false
}
