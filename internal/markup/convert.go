// Package markup converts a small line-oriented Markdown subset into HTML
// fragments for the chat display layer. It handles emphasis, inline code,
// and flat ordered/unordered lists; everything else is passed through as
// paragraph text. The converter is pure and total: malformed or unbalanced
// markers degrade to literal text, never to an error.
//
// Escaping is the caller's responsibility. Input is expected to be plain
// text that may contain Markdown-like tokens, not arbitrary HTML.
package markup

import (
	"regexp"
	"strings"
)

var (
	strongAsteriskRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	strongUnderscoreRe = regexp.MustCompile(`__(.+?)__`)
	emAsteriskRe       = regexp.MustCompile(`\*(.+?)\*`)
	emUnderscoreRe     = regexp.MustCompile(`_(.+?)_`)
	codeRe             = regexp.MustCompile("`(.+?)`")

	orderedItemRe   = regexp.MustCompile(`^\s*\d+\.\s(.*)$`)
	unorderedItemRe = regexp.MustCompile(`^\s*[*-]\s(.*)$`)
)

// formatInline applies emphasis and code-span substitutions to one line.
// Order matters: strong emphasis first, so that single-marker emphasis
// never consumes half of a double marker. Unmatched delimiters are left
// as literal characters.
func formatInline(line string) string {
	line = strongAsteriskRe.ReplaceAllString(line, "<strong>$1</strong>")
	line = strongUnderscoreRe.ReplaceAllString(line, "<strong>$1</strong>")
	line = emAsteriskRe.ReplaceAllString(line, "<em>$1</em>")
	line = emUnderscoreRe.ReplaceAllString(line, "<em>$1</em>")
	line = codeRe.ReplaceAllString(line, "<code>$1</code>")
	return line
}

// listKind is the open-list state of the block segmenter.
type listKind int

const (
	listNone listKind = iota
	listOrdered
	listUnordered
)

func (k listKind) openTag() string {
	switch k {
	case listOrdered:
		return "<ol>"
	case listUnordered:
		return "<ul>"
	default:
		return ""
	}
}

func (k listKind) closeTag() string {
	switch k {
	case listOrdered:
		return "</ol>"
	case listUnordered:
		return "</ul>"
	default:
		return ""
	}
}

// segmenter is the per-call accumulator threaded through the line pass.
// At most one list and at most one paragraph is ever open, and never both:
// entering list mode flushes any open paragraph.
type segmenter struct {
	out  strings.Builder
	list listKind
	para []string
}

// flushParagraph emits the accumulated paragraph, if any. Lines are joined
// with an explicit break marker so single newlines survive rendering.
func (s *segmenter) flushParagraph() {
	if len(s.para) == 0 {
		return
	}
	s.out.WriteString("<p>")
	s.out.WriteString(strings.Join(s.para, "<br>"))
	s.out.WriteString("</p>")
	s.para = s.para[:0]
}

// closeList emits the closing tag for the open list, if any.
func (s *segmenter) closeList() {
	if s.list == listNone {
		return
	}
	s.out.WriteString(s.list.closeTag())
	s.list = listNone
}

// openList switches the open list to kind, closing a list of the other
// kind first. Lists of different bullet styles are never merged.
func (s *segmenter) openList(kind listKind) {
	s.flushParagraph()
	if s.list == kind {
		return
	}
	s.closeList()
	s.out.WriteString(kind.openTag())
	s.list = kind
}

// feed classifies one already-formatted line and applies its transition.
func (s *segmenter) feed(line string) {
	switch {
	case orderedItemRe.MatchString(line):
		s.openList(listOrdered)
		s.out.WriteString("<li>")
		s.out.WriteString(orderedItemRe.FindStringSubmatch(line)[1])
		s.out.WriteString("</li>")
	case unorderedItemRe.MatchString(line):
		s.openList(listUnordered)
		s.out.WriteString("<li>")
		s.out.WriteString(unorderedItemRe.FindStringSubmatch(line)[1])
		s.out.WriteString("</li>")
	case strings.TrimSpace(line) == "":
		s.closeList()
		s.flushParagraph()
	default:
		s.closeList()
		s.para = append(s.para, line)
	}
}

// finish performs the terminal flush: paragraph first, then list, so no
// open block ever leaks into the result.
func (s *segmenter) finish() string {
	s.flushParagraph()
	s.closeList()
	return s.out.String()
}

// Convert turns raw message or excerpt text into flat HTML fragments.
// Fragments are emitted strictly in input line order; a list block is
// contiguous in the output exactly when its source lines were contiguous
// list items of the same type. Empty input yields an empty string.
func Convert(text string) string {
	if text == "" {
		return ""
	}
	var s segmenter
	for _, line := range strings.Split(text, "\n") {
		s.feed(formatInline(line))
	}
	return s.finish()
}
