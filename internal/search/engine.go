package search

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	lawerrors "github.com/tomwolfe/lawsage/internal/errors"
	"github.com/tomwolfe/lawsage/internal/rules"
	"github.com/tomwolfe/lawsage/internal/semantic"
	"github.com/tomwolfe/lawsage/internal/store"
)

// rerankBlend balances the fused prior against the reranker's score.
const rerankBlend = 0.5

// Engine runs hybrid searches over an in-memory rule corpus. The lexical
// index and semantic provider are built once from the corpus and then
// only read, so Search is safe for concurrent use.
type Engine struct {
	index    *store.BM25Index
	provider semantic.Provider
	reranker Reranker
	config   Config
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithProvider sets the semantic provider. Without one, every search is
// lexical-only and reports a semantic_disabled degradation.
func WithProvider(p semantic.Provider) Option {
	return func(e *Engine) { e.provider = p }
}

// WithReranker sets the reranker used when reranking is enabled.
func WithReranker(r Reranker) Option {
	return func(e *Engine) { e.reranker = r }
}

// WithConfig sets the default search configuration.
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.config = cfg }
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates a hybrid search engine over the given lexical index.
func NewEngine(index *store.BM25Index, opts ...Option) (*Engine, error) {
	if index == nil {
		return nil, lawerrors.New(lawerrors.ErrCodeInvalidInput, "lexical index is required", nil)
	}
	e := &Engine{
		index:  index,
		config: Config{}.withDefaults(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.config = e.config.withDefaults()
	return e, nil
}

// IndexRules adds documents to the lexical index and, when the provider
// supports it, to the semantic index. Lexical indexing cannot fail; a
// semantic indexing error is returned after the lexical index is built,
// so the corpus stays searchable in degraded mode.
func (e *Engine) IndexRules(ctx context.Context, docs []rules.Document) error {
	for _, doc := range docs {
		e.index.AddDocument(doc.ID, doc.SearchText(), doc)
	}
	e.logger.Debug("lexical index built", "documents", len(docs))

	if indexer, ok := e.provider.(semantic.RuleIndexer); ok {
		if err := indexer.IndexRules(ctx, docs); err != nil {
			return lawerrors.New(lawerrors.ErrCodeSemanticUnavailable, "semantic indexing failed", err)
		}
	}
	return nil
}

// Stats returns lexical index statistics.
func (e *Engine) Stats() store.Stats {
	return e.index.Stats()
}

// Search runs a hybrid search with the engine's default configuration.
func (e *Engine) Search(ctx context.Context, query string) (*Response, error) {
	return e.SearchWithConfig(ctx, query, e.config)
}

// SearchWithConfig runs a hybrid search with a per-query configuration.
// Unset fields fall back to defaults. An empty query returns no lexical
// matches but still consults the semantic provider, which may embed the
// empty string.
//
// Only overall cancellation is an error. A failing sub-search degrades:
// the response carries the ranking the remaining signals produced plus a
// typed degradation record.
func (e *Engine) SearchWithConfig(ctx context.Context, query string, cfg Config) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, lawerrors.New(lawerrors.ErrCodeInvalidInput, "search cancelled", err)
	}
	cfg = cfg.withDefaults()

	var (
		lexResults []store.Result
		semCands   []semantic.Candidate
		semErr     error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lexResults = e.index.Search(query, cfg.TopK)
		return nil
	})
	if e.provider != nil {
		g.Go(func() error {
			// Failure degrades rather than failing the search, so the
			// error is captured instead of returned to the group.
			semCands, semErr = e.provider.Query(gctx, query, semantic.Options{
				Jurisdiction:        cfg.Jurisdiction,
				Category:            cfg.Category,
				TopK:                cfg.TopK,
				SimilarityThreshold: cfg.SimilarityThreshold,
			})
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, lawerrors.New(lawerrors.ErrCodeInvalidInput, "search cancelled", err)
	}

	resp := &Response{}
	if e.provider == nil {
		resp.Degradations = append(resp.Degradations, Degradation{
			Reason: DegradeSemanticDisabled,
			Detail: "no semantic provider configured",
		})
	} else if semErr != nil {
		e.logger.Warn("semantic search failed, using lexical ranking only", "error", semErr)
		semCands = nil
		resp.Degradations = append(resp.Degradations, Degradation{
			Reason: DegradeSemanticUnavailable,
			Detail: semErr.Error(),
		})
	}

	candidates := fuse(lexResults, semCands, *cfg.Weights)
	e.resolveDocuments(candidates)

	limit := cfg.TopK
	if *cfg.UseReranking && e.reranker != nil {
		limit = cfg.TopKAfterRerank
		if d := e.rerank(ctx, query, candidates, cfg.TopK); d != nil {
			resp.Degradations = append(resp.Degradations, *d)
		}
	}

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	resp.Results = make([]Result, 0, len(candidates))
	for _, c := range candidates {
		resp.Results = append(resp.Results, Result{
			DocumentID:    c.id,
			FusedScore:    c.score,
			LexicalScore:  c.lexical,
			SemanticScore: c.semantic,
			RerankScore:   c.rerank,
			Document:      c.doc.Document,
		})
	}
	return resp, nil
}

// resolveDocuments fills in documents for candidates found only by the
// semantic search.
func (e *Engine) resolveDocuments(candidates []fused) {
	for i := range candidates {
		if candidates[i].hasDoc {
			continue
		}
		if doc, ok := e.index.GetDocument(candidates[i].id); ok {
			candidates[i].doc.Document = doc
			candidates[i].hasDoc = true
		}
	}
}

// rerank rescores the top candidates in place and re-sorts that prefix
// by the blended score. On reranker failure or a contract violation the
// pre-rerank order is kept and a degradation is returned.
func (e *Engine) rerank(ctx context.Context, query string, candidates []fused, topK int) *Degradation {
	n := len(candidates)
	if n == 0 {
		return nil
	}
	if n > topK {
		n = topK
	}

	input := make([]RerankCandidate, 0, n)
	for _, c := range candidates[:n] {
		input = append(input, RerankCandidate{ID: c.id, Text: c.doc.Document.SearchText()})
	}

	scores, err := e.reranker.Rerank(ctx, query, input)
	if err != nil {
		e.logger.Warn("rerank failed, keeping fused order", "error", err)
		return &Degradation{Reason: DegradeRerankerFailed, Detail: err.Error()}
	}
	byID, detail := validateRerank(input, scores)
	if detail != "" {
		e.logger.Warn("reranker contract violation, keeping fused order", "detail", detail)
		return &Degradation{Reason: DegradeRerankerContract, Detail: detail}
	}

	for i := range candidates[:n] {
		s := byID[candidates[i].id]
		candidates[i].rerank = &s
		candidates[i].score = rerankBlend*candidates[i].score + rerankBlend*s
	}
	sortFusedPrefix(candidates, n)
	return nil
}

// validateRerank checks that scores cover each candidate exactly once.
// It returns the score map, or a non-empty detail describing the first
// violation found.
func validateRerank(input []RerankCandidate, scores []RerankScore) (map[string]float64, string) {
	expected := make(map[string]struct{}, len(input))
	for _, c := range input {
		expected[c.ID] = struct{}{}
	}
	byID := make(map[string]float64, len(scores))
	for _, s := range scores {
		if _, ok := expected[s.ID]; !ok {
			return nil, "unknown candidate id " + s.ID
		}
		if _, dup := byID[s.ID]; dup {
			return nil, "duplicate score for candidate " + s.ID
		}
		byID[s.ID] = s.Score
	}
	if len(byID) != len(input) {
		return nil, "reranker scored a subset of candidates"
	}
	return byID, ""
}
