package corpus

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

// ExtractMarkdown reduces a Markdown document to plain-text blocks using the
// Goldmark AST. Inline markup is dropped; headings become heading blocks.
func ExtractMarkdown(source []byte) ([]Block, error) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	var blocks []Block
	err := gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Heading:
			blocks = append(blocks, Block{Heading: true, Text: nodeText(node, source)})
			return gmast.WalkSkipChildren, nil
		case *gmast.Paragraph:
			if txt := nodeText(node, source); txt != "" {
				blocks = append(blocks, Block{Text: txt})
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.ListItem:
			if txt := nodeText(node, source); txt != "" {
				blocks = append(blocks, Block{Text: txt})
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.FencedCodeBlock:
			var sb strings.Builder
			for i := 0; i < node.Lines().Len(); i++ {
				seg := node.Lines().At(i)
				sb.Write(seg.Value(source))
			}
			if txt := strings.TrimSpace(sb.String()); txt != "" {
				blocks = append(blocks, Block{Text: txt})
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown ast: %w", err)
	}
	return blocks, nil
}

// nodeText collects the raw text content under a node, joining segments with
// single spaces.
func nodeText(n gmast.Node, source []byte) string {
	var parts []string
	_ = gmast.Walk(n, func(child gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if txt, ok := child.(*gmast.Text); ok {
			if v := strings.TrimSpace(string(txt.Segment.Value(source))); v != "" {
				parts = append(parts, v)
			}
		}
		return gmast.WalkContinue, nil
	})
	return strings.Join(parts, " ")
}

// ExtractHTML reduces an HTML document to plain-text blocks. Script and style
// contents are skipped; h1-h6 become heading blocks.
func ExtractHTML(source []byte) ([]Block, error) {
	root, err := html.Parse(strings.NewReader(string(source)))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var blocks []Block
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "h1", "h2", "h3", "h4", "h5", "h6":
				if txt := collectText(n); txt != "" {
					blocks = append(blocks, Block{Heading: true, Text: txt})
				}
				return
			case "p", "li", "pre", "td", "blockquote":
				if txt := collectText(n); txt != "" {
					blocks = append(blocks, Block{Text: txt})
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(root)
	return blocks, nil
}

// collectText concatenates the text nodes under n, whitespace-normalized.
func collectText(n *html.Node) string {
	var parts []string
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			if v := strings.TrimSpace(n.Data); v != "" {
				parts = append(parts, v)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return strings.Join(parts, " ")
}

// ExtractPlain splits plain text into blank-line separated blocks.
func ExtractPlain(source []byte) []Block {
	var blocks []Block
	for _, para := range strings.Split(strings.ReplaceAll(string(source), "\r\n", "\n"), "\n\n") {
		lines := make([]string, 0, 4)
		for _, line := range strings.Split(para, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
		if len(lines) > 0 {
			blocks = append(blocks, Block{Text: strings.Join(lines, " ")})
		}
	}
	return blocks
}
