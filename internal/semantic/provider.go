// Package semantic defines the vector-search capability the retrieval engine
// consumes, plus a local in-process provider backed by an embedder and an
// HNSW index. Remote vector services substitute through the same interface.
package semantic

import (
	"context"

	"github.com/tomwolfe/lawsage/internal/rules"
)

// Candidate is one semantic search hit.
type Candidate struct {
	// ID is the rule document id.
	ID string
	// Score is a similarity measure on a provider-defined scale where
	// larger is better. Callers must not assume a fixed scale.
	Score float64
	// Metadata carries provider-side attributes (jurisdiction, category).
	Metadata map[string]string
}

// Options filters and bounds a semantic query.
type Options struct {
	// Jurisdiction restricts candidates to one jurisdiction when non-empty.
	Jurisdiction string
	// Category restricts candidates to one category when non-empty.
	Category string
	// TopK bounds the number of candidates returned.
	TopK int
	// SimilarityThreshold drops candidates scoring below it, on the
	// provider's own scale.
	SimilarityThreshold float64
}

// Provider is the semantic search capability. It may be backed by a remote
// service and therefore may fail or be unavailable; the engine treats any
// error as "zero semantic candidates".
type Provider interface {
	// Query returns candidates ranked by descending similarity.
	Query(ctx context.Context, text string, opts Options) ([]Candidate, error)
}

// RuleIndexer is implemented by providers that build their index in-process
// (as opposed to consuming a remotely managed one). The engine feeds such
// providers during corpus indexing.
type RuleIndexer interface {
	// IndexRules embeds and indexes the documents.
	IndexRules(ctx context.Context, docs []rules.Document) error
}
