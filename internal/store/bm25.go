package store

import (
	"math"
	"sort"

	"github.com/tomwolfe/lawsage/internal/rules"
)

// BM25 tuning constants. k1 controls term-frequency saturation, b controls
// document-length normalization. Fixed at build time, not caller-tunable.
const (
	k1 = 1.5
	b  = 0.75
)

// Result is a single lexical search hit.
type Result struct {
	// ID is the document id.
	ID string
	// Score is the raw BM25 score. Unbounded; callers normalize.
	Score float64
	// Document is the stored rule document.
	Document rules.Document
}

// docEntry holds per-document index state.
type docEntry struct {
	tokens   int // tokenized length
	order    int // insertion index, used for stable tie-breaking
	document rules.Document
}

// BM25Index is an in-memory inverted index over rule documents.
//
// The index is write-once: all AddDocument calls must complete before the
// first Search. After that it is read-only and safe for concurrent readers
// without locking.
type BM25Index struct {
	docs         map[string]*docEntry
	termDocFreq  map[string]map[string]int // term -> doc id -> raw count
	docFreq      map[string]int            // term -> number of docs containing it
	avgDocLength float64
	docCount     int
}

// NewBM25Index creates an empty index.
func NewBM25Index() *BM25Index {
	return &BM25Index{
		docs:        make(map[string]*docEntry),
		termDocFreq: make(map[string]map[string]int),
		docFreq:     make(map[string]int),
	}
}

// AddDocument tokenizes text and indexes it under id. The document is stored
// for retrieval by Search and GetDocument.
//
// Re-adding an existing id double-counts its terms; callers must not
// double-index.
func (idx *BM25Index) AddDocument(id, text string, doc rules.Document) {
	tokens := Tokenize(text)

	// Incremental running mean keeps avgDocLength consistent with the
	// corpus after every add.
	idx.docCount++
	idx.avgDocLength += (float64(len(tokens)) - idx.avgDocLength) / float64(idx.docCount)

	idx.docs[id] = &docEntry{
		tokens:   len(tokens),
		order:    idx.docCount - 1,
		document: doc,
	}

	seen := make(map[string]struct{}, len(tokens))
	for _, term := range tokens {
		counts, ok := idx.termDocFreq[term]
		if !ok {
			counts = make(map[string]int)
			idx.termDocFreq[term] = counts
		}
		counts[id]++

		if _, dup := seen[term]; !dup {
			seen[term] = struct{}{}
			idx.docFreq[term]++
		}
	}
}

// Search tokenizes the query identically to documents and scores every
// document sharing at least one term with it using BM25:
//
//	score(D,Q) = Σ IDF(t) · tf·(k1+1) / (tf + k1·(1 - b + b·|D|/avgDL))
//	IDF(t)     = ln((N - df + 0.5) / (df + 0.5) + 1)
//
// Returns at most topK results sorted by descending score; ties break by
// document insertion order. An empty corpus or a query with no term overlap
// yields an empty slice, never an error.
func (idx *BM25Index) Search(query string, topK int) []Result {
	if idx.docCount == 0 || topK <= 0 {
		return []Result{}
	}

	queryTerms := Tokenize(query)
	if len(queryTerms) == 0 {
		return []Result{}
	}

	n := float64(idx.docCount)
	scores := make(map[string]float64)

	// Each query token occurrence contributes; a term repeated in the
	// query weighs proportionally more, matching Okapi behavior.
	for _, term := range queryTerms {
		counts, ok := idx.termDocFreq[term]
		if !ok {
			continue
		}

		df := float64(idx.docFreq[term])
		idf := math.Log((n-df+0.5)/(df+0.5) + 1)

		for id, tf := range counts {
			entry := idx.docs[id]
			lengthNorm := 1 - b + b*float64(entry.tokens)/idx.avgDocLength
			tfF := float64(tf)
			scores[id] += idf * (tfF * (k1 + 1)) / (tfF + k1*lengthNorm)
		}
	}

	results := make([]Result, 0, len(scores))
	for id, score := range scores {
		results = append(results, Result{
			ID:       id,
			Score:    score,
			Document: idx.docs[id].document,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return idx.docs[results[i].ID].order < idx.docs[results[j].ID].order
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// GetDocument returns the stored document for id. The second return value
// is false when the id was never indexed.
func (idx *BM25Index) GetDocument(id string) (rules.Document, bool) {
	entry, ok := idx.docs[id]
	if !ok {
		return rules.Document{}, false
	}
	return entry.document, true
}

// Stats describes index size for logging and the CLI.
type Stats struct {
	DocumentCount int
	TermCount     int
	AvgDocLength  float64
}

// Stats returns index statistics.
func (idx *BM25Index) Stats() Stats {
	return Stats{
		DocumentCount: idx.docCount,
		TermCount:     len(idx.termDocFreq),
		AvgDocLength:  idx.avgDocLength,
	}
}
