// Package corpus ingests documents from directories and git repositories,
// reduces them to plain text, and answers chunk-level searches over them.
package corpus

// Block is one extracted unit of document text. Headings are kept separate
// so chunking can track which section an excerpt came from.
type Block struct {
	Heading bool
	Text    string
}

// Document is one ingested file reduced to plain-text blocks.
type Document struct {
	Path   string // path relative to its source root
	Source string // directory or repository name the document came from
	Blocks []Block
}

// Excerpt is one search hit: a chunk of document text with its provenance.
type Excerpt struct {
	Document string  `json:"document"`
	Source   string  `json:"source"`
	Section  string  `json:"section,omitempty"`
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
}
