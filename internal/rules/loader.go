package rules

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	lawerr "github.com/tomwolfe/lawsage/internal/errors"
)

// corpusFile is the on-disk YAML shape of a rule corpus file.
type corpusFile struct {
	Jurisdiction string     `yaml:"jurisdiction"`
	Category     string     `yaml:"category"`
	Rules        []Document `yaml:"rules"`
}

// LoadFile parses a single YAML corpus file into rule documents.
// File-level jurisdiction and category fill in documents that omit them.
func LoadFile(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, lawerr.New(lawerr.ErrCodeCorpusNotFound,
				fmt.Sprintf("rules file not found: %s", path), err)
		}
		return nil, lawerr.Wrap(lawerr.ErrCodeCorpusInvalid, err)
	}

	var file corpusFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, lawerr.New(lawerr.ErrCodeCorpusInvalid,
			fmt.Sprintf("parse %s: %v", path, err), err).
			WithDetail("path", path)
	}

	docs := make([]Document, 0, len(file.Rules))
	for i, d := range file.Rules {
		if d.Jurisdiction == "" {
			d.Jurisdiction = file.Jurisdiction
		}
		if d.Category == "" {
			d.Category = file.Category
		}
		if err := d.Validate(); err != nil {
			return nil, lawerr.New(lawerr.ErrCodeCorpusInvalid,
				fmt.Sprintf("%s: rule %d: %v", path, i, err), err).
				WithDetail("path", path)
		}
		docs = append(docs, d)
	}

	return docs, nil
}

// LoadDir loads every .yaml/.yml corpus file under dir (non-recursive).
// Files are read in lexical path order so index insertion order, and
// therefore lexical tie-breaking, is reproducible across runs.
func LoadDir(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, lawerr.New(lawerr.ErrCodeCorpusNotFound,
			fmt.Sprintf("rules directory not readable: %s", dir), err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	var docs []Document
	seen := make(map[string]string) // composite key -> path, duplicate detection
	for _, p := range paths {
		fileDocs, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		for _, d := range fileDocs {
			key := d.Jurisdiction + "\x00" + d.ID
			if prev, dup := seen[key]; dup {
				return nil, lawerr.New(lawerr.ErrCodeCorpusInvalid,
					fmt.Sprintf("duplicate rule %s/%s in %s (first seen in %s)",
						d.Jurisdiction, d.ID, p, prev), nil)
			}
			seen[key] = p
		}
		docs = append(docs, fileDocs...)
		slog.Debug("corpus_file_loaded",
			slog.String("path", p),
			slog.Int("rules", len(fileDocs)))
	}

	if len(docs) == 0 {
		return nil, lawerr.New(lawerr.ErrCodeCorpusEmpty,
			fmt.Sprintf("no rule documents found in %s", dir), nil)
	}

	return docs, nil
}
