package corpus

import (
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// folder case-folds terms so matching is insensitive to case across scripts.
var folder = cases.Fold()

// tokenize splits text into case-folded terms.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, folder.String(f))
	}
	return terms
}

// chunk is one indexed excerpt with its term frequencies.
type chunk struct {
	document string
	source   string
	section  string
	text     string
	terms    map[string]int
	length   int
}

// Index is an in-memory chunk index over the ingested corpus. Replace swaps
// the entire content atomically, so searches never observe a half-built index.
type Index struct {
	mu     sync.RWMutex
	chunks []chunk
	docs   int
	df     map[string]int // document frequency per term, over chunks
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{df: make(map[string]int)}
}

// Replace rebuilds the index from documents, chunking each into excerpts of
// roughly chunkSize characters with overlap characters carried between
// consecutive chunks.
func (x *Index) Replace(docs []Document, chunkSize, overlap int) {
	var chunks []chunk
	for _, doc := range docs {
		for _, c := range chunkDocument(doc, chunkSize, overlap) {
			c.terms = termCounts(c.text)
			c.length = len(c.terms)
			chunks = append(chunks, c)
		}
	}

	df := make(map[string]int)
	for _, c := range chunks {
		for term := range c.terms {
			df[term]++
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.chunks = chunks
	x.docs = len(docs)
	x.df = df
}

// termCounts returns term frequencies for a chunk of text.
func termCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, term := range tokenize(text) {
		counts[term]++
	}
	return counts
}

// chunkDocument slices a document's blocks into excerpt-sized chunks,
// tracking the nearest preceding heading as the section.
func chunkDocument(doc Document, chunkSize, overlap int) []chunk {
	var out []chunk
	var section string
	var buf strings.Builder

	flush := func() {
		text := strings.TrimSpace(buf.String())
		if text == "" {
			return
		}
		out = append(out, chunk{document: doc.Path, source: doc.Source, section: section, text: text})
		// Carry a tail of the chunk into the next one so sentences spanning a
		// boundary remain findable.
		if overlap > 0 && len(text) > overlap {
			start := len(text) - overlap
			// Back up to a rune boundary so the tail never starts inside a
			// multi-byte character.
			for start > 0 && !utf8.RuneStart(text[start]) {
				start--
			}
			tail := text[start:]
			if i := strings.IndexByte(tail, ' '); i >= 0 {
				tail = tail[i+1:]
			}
			buf.Reset()
			buf.WriteString(tail)
			return
		}
		buf.Reset()
	}

	for _, block := range doc.Blocks {
		if block.Heading {
			flush()
			buf.Reset()
			section = block.Text
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(block.Text)
		if buf.Len() >= chunkSize {
			flush()
		}
	}
	flush()
	return out
}

// Search returns the top k excerpts for a query, ranked by a tf-idf style
// token overlap score. An empty query or empty index yields no results.
func (x *Index) Search(query string, k int) []Excerpt {
	queryTerms := termCounts(query)
	if len(queryTerms) == 0 || k <= 0 {
		return nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()
	if len(x.chunks) == 0 {
		return nil
	}

	total := float64(len(x.chunks))
	scored := make([]Excerpt, 0, len(x.chunks))
	for _, c := range x.chunks {
		var score float64
		for term := range queryTerms {
			tf, ok := c.terms[term]
			if !ok {
				continue
			}
			idf := math.Log(1 + total/float64(x.df[term]))
			score += float64(tf) * idf
		}
		if score == 0 {
			continue
		}
		// Dampen long chunks so short precise matches are not drowned out.
		score /= math.Sqrt(float64(c.length + 1))
		scored = append(scored, Excerpt{
			Document: c.document,
			Source:   c.source,
			Section:  c.section,
			Text:     c.text,
			Score:    score,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// Stats reports the number of indexed documents and chunks.
func (x *Index) Stats() (docs, chunks int) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.docs, len(x.chunks)
}
