package corpus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractMarkdown_HeadingsAndParagraphs(t *testing.T) {
	src := []byte("# Install\n\nRun the build.\n\n## Linux\n\n- apt install foo\n- make\n")
	blocks, err := ExtractMarkdown(src)
	require.NoError(t, err)
	require.Equal(t, []Block{
		{Heading: true, Text: "Install"},
		{Text: "Run the build."},
		{Heading: true, Text: "Linux"},
		{Text: "apt install foo"},
		{Text: "make"},
	}, blocks)
}

func TestExtractMarkdown_CodeFence(t *testing.T) {
	src := []byte("```\nmake install\n```\n")
	blocks, err := ExtractMarkdown(src)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.Equal(t, "make install", blocks[0].Text)
}

func TestExtractMarkdown_InlineMarkupDropped(t *testing.T) {
	blocks, err := ExtractMarkdown([]byte("Some **bold** and `code` here."))
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.Contains(t, blocks[0].Text, "bold")
	require.NotContains(t, blocks[0].Text, "**")
}

func TestExtractHTML_SkipsScriptAndStyle(t *testing.T) {
	src := []byte(`<html><head><style>p{}</style></head><body>
		<h1>Title</h1>
		<p>Visible text.</p>
		<script>var hidden = 1;</script>
	</body></html>`)
	blocks, err := ExtractHTML(src)
	require.NoError(t, err)
	require.Equal(t, []Block{
		{Heading: true, Text: "Title"},
		{Text: "Visible text."},
	}, blocks)
}

func TestExtractHTML_ListItems(t *testing.T) {
	blocks, err := ExtractHTML([]byte("<ul><li>first</li><li>second</li></ul>"))
	require.NoError(t, err)
	require.Equal(t, []Block{{Text: "first"}, {Text: "second"}}, blocks)
}

func TestExtractPlain_ParagraphSplit(t *testing.T) {
	blocks := ExtractPlain([]byte("first para\nstill first\n\nsecond para\n"))
	require.Equal(t, []Block{
		{Text: "first para still first"},
		{Text: "second para"},
	}, blocks)
}

func TestExtractPlain_Empty(t *testing.T) {
	require.Empty(t, ExtractPlain([]byte("")))
	require.Empty(t, ExtractPlain([]byte("\n\n\n")))
}
