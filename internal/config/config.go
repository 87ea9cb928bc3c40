// Package config loads and validates application configuration from a
// YAML file with environment variable overrides.
package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	lawerrors "github.com/tomwolfe/lawsage/internal/errors"
	"github.com/tomwolfe/lawsage/internal/search"
)

// EmbeddingsProvider selects the embedding backend.
const (
	// ProviderStatic is the offline hash-based embedder. It needs no
	// network and gives deterministic vectors.
	ProviderStatic = "static"
	// ProviderOpenAI talks to an OpenAI-compatible embeddings endpoint.
	ProviderOpenAI = "openai"
)

// Config is the complete application configuration.
type Config struct {
	Corpus     CorpusConfig     `yaml:"corpus"`
	Search     SearchConfig     `yaml:"search"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// CorpusConfig configures where rule files live and how changes are
// picked up.
type CorpusConfig struct {
	// Dir is the directory of YAML rule files.
	Dir string `yaml:"dir"`
	// Watch enables reloading the corpus when files change.
	Watch bool `yaml:"watch"`
	// WatchDebounce coalesces bursts of file events (e.g. "500ms").
	WatchDebounce string `yaml:"watch_debounce"`
}

// SearchConfig configures hybrid search parameters. Weights are linear
// coefficients and need not sum to 1.
type SearchConfig struct {
	BM25Weight          float64 `yaml:"bm25_weight"`
	VectorWeight        float64 `yaml:"vector_weight"`
	UseReranking        bool    `yaml:"use_reranking"`
	TopK                int     `yaml:"top_k"`
	TopKAfterRerank     int     `yaml:"top_k_after_rerank"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	// Jurisdiction is the default jurisdiction filter for searches.
	Jurisdiction string `yaml:"jurisdiction"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// Provider is "static" or "openai".
	Provider string `yaml:"provider"`
	// BaseURL is the OpenAI-compatible endpoint, e.g. a local
	// text-embeddings server.
	BaseURL string `yaml:"base_url"`
	// Model is the embedding model name.
	Model string `yaml:"model"`
	// CacheSize bounds the LRU embedding cache.
	CacheSize int `yaml:"cache_size"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// NewConfig returns a Config with defaults applied.
func NewConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Dir:           "corpus",
			WatchDebounce: "500ms",
		},
		Search: SearchConfig{
			BM25Weight:      search.DefaultBM25Weight,
			VectorWeight:    search.DefaultVectorWeight,
			UseReranking:    true,
			TopK:            search.DefaultTopK,
			TopKAfterRerank: search.DefaultTopKAfterRerank,
		},
		Embeddings: EmbeddingsConfig{
			Provider:  ProviderStatic,
			CacheSize: 1000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path, merges it over the defaults, and
// applies environment overrides. A missing file is not an error when
// path is empty: defaults plus environment are returned.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, lawerrors.New(lawerrors.ErrCodeConfigNotFound, "config file not found: "+path, err)
			}
			return nil, lawerrors.New(lawerrors.ErrCodeConfigInvalid, "reading config file", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, lawerrors.New(lawerrors.ErrCodeConfigInvalid, "parsing config file", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies LAWSAGE_* environment variables on top of
// file values. Unparseable values are ignored rather than fatal.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LAWSAGE_CORPUS_DIR"); v != "" {
		c.Corpus.Dir = v
	}
	if v := os.Getenv("LAWSAGE_BM25_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Search.BM25Weight = f
		}
	}
	if v := os.Getenv("LAWSAGE_VECTOR_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Search.VectorWeight = f
		}
	}
	if v := os.Getenv("LAWSAGE_USE_RERANKING"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Search.UseReranking = b
		}
	}
	if v := os.Getenv("LAWSAGE_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.TopK = n
		}
	}
	if v := os.Getenv("LAWSAGE_EMBEDDINGS_PROVIDER"); v != "" {
		c.Embeddings.Provider = v
	}
	if v := os.Getenv("LAWSAGE_EMBEDDINGS_BASE_URL"); v != "" {
		c.Embeddings.BaseURL = v
	}
	if v := os.Getenv("LAWSAGE_EMBEDDINGS_MODEL"); v != "" {
		c.Embeddings.Model = v
	}
	if v := os.Getenv("LAWSAGE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Search.BM25Weight < 0 || c.Search.VectorWeight < 0 {
		return lawerrors.New(lawerrors.ErrCodeConfigInvalid, "search weights must be non-negative", nil)
	}
	if c.Search.BM25Weight == 0 && c.Search.VectorWeight == 0 {
		return lawerrors.New(lawerrors.ErrCodeConfigInvalid, "at least one search weight must be positive", nil)
	}
	if c.Search.TopK <= 0 {
		return lawerrors.New(lawerrors.ErrCodeConfigInvalid, "top_k must be positive", nil)
	}
	if c.Search.TopKAfterRerank <= 0 {
		return lawerrors.New(lawerrors.ErrCodeConfigInvalid, "top_k_after_rerank must be positive", nil)
	}
	if c.Search.TopKAfterRerank > c.Search.TopK {
		return lawerrors.New(lawerrors.ErrCodeConfigInvalid, "top_k_after_rerank cannot exceed top_k", nil)
	}
	switch c.Embeddings.Provider {
	case ProviderStatic, ProviderOpenAI:
	default:
		return lawerrors.New(lawerrors.ErrCodeConfigInvalid, "unknown embeddings provider: "+c.Embeddings.Provider, nil)
	}
	if c.Embeddings.Provider == ProviderOpenAI && c.Embeddings.BaseURL == "" {
		return lawerrors.New(lawerrors.ErrCodeConfigInvalid, "openai provider requires base_url", nil)
	}
	if c.Embeddings.CacheSize <= 0 {
		return lawerrors.New(lawerrors.ErrCodeConfigInvalid, "embeddings cache_size must be positive", nil)
	}
	if _, err := c.DebounceWindow(); err != nil {
		return err
	}
	return nil
}

// DebounceWindow parses the corpus watch debounce duration.
func (c *Config) DebounceWindow() (time.Duration, error) {
	if c.Corpus.WatchDebounce == "" {
		return 500 * time.Millisecond, nil
	}
	d, err := time.ParseDuration(c.Corpus.WatchDebounce)
	if err != nil {
		return 0, lawerrors.New(lawerrors.ErrCodeConfigInvalid, "invalid watch_debounce", err)
	}
	return d, nil
}

// SearchConfig converts the file-level search settings into a search
// engine configuration.
func (c *Config) SearchConfig() search.Config {
	w := search.Weights{BM25: c.Search.BM25Weight, Vector: c.Search.VectorWeight}
	rerank := c.Search.UseReranking
	return search.Config{
		Weights:             &w,
		UseReranking:        &rerank,
		TopK:                c.Search.TopK,
		TopKAfterRerank:     c.Search.TopKAfterRerank,
		SimilarityThreshold: c.Search.SimilarityThreshold,
		Jurisdiction:        c.Search.Jurisdiction,
	}
}
