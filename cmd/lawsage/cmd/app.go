package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/tomwolfe/lawsage/internal/config"
	"github.com/tomwolfe/lawsage/internal/embed"
	"github.com/tomwolfe/lawsage/internal/rules"
	"github.com/tomwolfe/lawsage/internal/search"
	"github.com/tomwolfe/lawsage/internal/semantic"
	"github.com/tomwolfe/lawsage/internal/store"
)

// buildEmbedder constructs the configured embedding backend wrapped in
// the LRU cache.
func buildEmbedder(cfg *config.Config) (embed.Embedder, error) {
	var inner embed.Embedder
	switch cfg.Embeddings.Provider {
	case config.ProviderOpenAI:
		e, err := embed.NewOpenAIEmbedder(embed.OpenAIConfig{
			BaseURL: cfg.Embeddings.BaseURL,
			Token:   os.Getenv("LAWSAGE_API_KEY"),
			Model:   cfg.Embeddings.Model,
		})
		if err != nil {
			return nil, err
		}
		inner = e
	default:
		inner = embed.NewStaticEmbedder()
	}
	return embed.NewCachedEmbedder(inner, cfg.Embeddings.CacheSize), nil
}

// buildEngine loads the corpus and assembles the hybrid search engine.
// A semantic indexing failure is logged and tolerated: the engine still
// serves lexical results and reports the degradation per query.
func buildEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*search.Engine, []rules.Document, error) {
	docs, err := rules.LoadDir(cfg.Corpus.Dir)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("corpus loaded", "dir", cfg.Corpus.Dir, "documents", len(docs))

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, nil, err
	}
	provider, err := semantic.NewLocalProvider(embedder)
	if err != nil {
		return nil, nil, err
	}

	eng, err := search.NewEngine(store.NewBM25Index(),
		search.WithProvider(provider),
		search.WithReranker(search.NewLocalReranker()),
		search.WithConfig(cfg.SearchConfig()),
		search.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}

	if err := eng.IndexRules(ctx, docs); err != nil {
		logger.Warn("semantic index unavailable, lexical search only", "error", err)
	}
	return eng, docs, nil
}
