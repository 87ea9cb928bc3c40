// Package rules defines jurisdiction-specific legal rule documents and the
// corpus loading pipeline that feeds them to the retrieval engine.
package rules

import (
	"fmt"
	"strings"
)

// Document is the unit of retrieval: a statute, local court rule, or
// procedural requirement for a specific jurisdiction. Documents are immutable
// once indexed; the engine only derives index structures from them.
type Document struct {
	// ID is unique within a jurisdiction+corpus (e.g., "LASC 3.10").
	ID string `yaml:"id"`

	// Jurisdiction names the court system (e.g., "California", "Los Angeles County").
	Jurisdiction string `yaml:"jurisdiction"`

	// Category groups rules by practice area (e.g., "Housing", "Family").
	Category string `yaml:"category"`

	// StatuteNumber is the citation when the rule derives from statute (optional).
	StatuteNumber string `yaml:"statute_number,omitempty"`

	// Title is the short rule name.
	Title string `yaml:"title"`

	// Description summarizes the rule.
	Description string `yaml:"description"`

	// FullText is the complete rule text.
	FullText string `yaml:"full_text"`

	// Extensions carries unknown metadata keys for forward compatibility.
	// Bounded: values are strings, never nested structures.
	Extensions map[string]string `yaml:"extensions,omitempty"`
}

// SearchText returns the text indexed for lexical and semantic retrieval:
// title, description, and full text concatenated.
func (d Document) SearchText() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{d.Title, d.Description, d.FullText} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Citation returns the preferred citation for the document: the statute
// number when present, otherwise the rule ID.
func (d Document) Citation() string {
	if d.StatuteNumber != "" {
		return d.StatuteNumber
	}
	return d.ID
}

// Validate checks the fields required for indexing.
func (d Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("rule document missing id")
	}
	if d.Jurisdiction == "" {
		return fmt.Errorf("rule document %q missing jurisdiction", d.ID)
	}
	if d.Title == "" && d.FullText == "" {
		return fmt.Errorf("rule document %q has no indexable text", d.ID)
	}
	return nil
}

// FormatRules renders a jurisdiction's rules as a plain-text block for
// prompt injection or CLI display.
func FormatRules(jurisdiction string, docs []Document) string {
	if len(docs) == 0 {
		return fmt.Sprintf("No specific local rules found for %s.", jurisdiction)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "LOCAL RULES FOR %s:\n", strings.ToUpper(jurisdiction))
	for _, d := range docs {
		fmt.Fprintf(&b, "- %s: %s\n  %s\n", d.Citation(), d.Title, d.Description)
	}
	return b.String()
}
