package treebuild

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func TestCountNodes(t *testing.T) {
	structure := []TreeNode{
		{ID: "a", Children: []TreeNode{
			{ID: "b", Children: []TreeNode{{ID: "c"}}},
		}},
		{ID: "d"},
	}

	total, maxDepth := CountNodes(structure)
	assert.Equal(t, 4, total)
	assert.Equal(t, 2, maxDepth)

	total, maxDepth = CountNodes(nil)
	assert.Zero(t, total)
	assert.Zero(t, maxDepth)

	total, maxDepth = CountNodes([]TreeNode{{ID: "root"}})
	assert.Equal(t, 1, total)
	assert.Zero(t, maxDepth, "roots alone have depth 0")
}

func TestTransformDefaults(t *testing.T) {
	nodes := Transform([]ExternalNode{{}})
	require.Len(t, nodes, 1)

	assert.Equal(t, "node_0_0", nodes[0].ID)
	assert.Equal(t, "Untitled", nodes[0].Title)
	assert.Equal(t, 0, nodes[0].Level)
	assert.Equal(t, []int{1}, nodes[0].PageNumbers)
	assert.Empty(t, nodes[0].Content)
	assert.Empty(t, nodes[0].Children)
}

func TestTransformPageRanges(t *testing.T) {
	tests := []struct {
		name  string
		start *int
		end   *int
		want  []int
	}{
		{"explicit range", intp(3), intp(5), []int{3, 4, 5}},
		{"single page", intp(7), intp(7), []int{7}},
		{"start only", intp(2), nil, []int{}},
		{"end only", nil, intp(3), []int{1, 2, 3}},
		{"inverted", intp(5), intp(2), []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := Transform([]ExternalNode{{StartIndex: tt.start, EndIndex: tt.end}})
			require.Len(t, nodes, 1)
			assert.Equal(t, tt.want, nodes[0].PageNumbers)
		})
	}
}

func TestTransformNesting(t *testing.T) {
	nodes := Transform([]ExternalNode{
		{
			NodeID: "0001",
			Title:  "Chapter 1",
			Text:   "body",
			Nodes: []ExternalNode{
				{Title: "Section 1.1", Summary: "a summary"},
				{Title: "Section 1.2"},
			},
		},
		{Title: "Chapter 2"},
	})
	require.Len(t, nodes, 2)

	// Explicit ids survive; generated ones encode level and index.
	assert.Equal(t, "0001", nodes[0].ID)
	assert.Equal(t, "node_0_1", nodes[1].ID)

	require.Len(t, nodes[0].Children, 2)
	assert.Equal(t, "node_1_0", nodes[0].Children[0].ID)
	assert.Equal(t, 1, nodes[0].Children[0].Level)

	// Text wins over summary; summary fills in when text is absent.
	assert.Equal(t, "body", nodes[0].Content)
	assert.Equal(t, "a summary", nodes[0].Children[0].Content)
	assert.Empty(t, nodes[0].Children[1].Content)
}

func TestFallbackSections(t *testing.T) {
	result := Fallback("# A\nhello\n## B\nworld\n", "doc.txt", 0)

	require.Len(t, result.Structure, 1)
	a := result.Structure[0]
	assert.Equal(t, "A", a.Title)
	assert.Equal(t, "node_0_0", a.ID)
	assert.Equal(t, "hello", a.Content)

	require.Len(t, a.Children, 1)
	b := a.Children[0]
	assert.Equal(t, "B", b.Title)
	assert.Equal(t, "node_1_0", b.ID)
	assert.Equal(t, 1, b.Level)
	assert.Equal(t, "world", b.Content)

	assert.Equal(t, 2, result.Metadata.NodeCount)
	assert.Equal(t, 1, result.Metadata.MaxDepth)
	assert.True(t, result.Metadata.Fallback)
	assert.Equal(t, "simple-parser", result.Metadata.Model)
}

func TestFallbackDropsEmptyLeaves(t *testing.T) {
	result := Fallback("# A\n## Empty\n## B\ncontent\n# Hollow\n", "doc.txt", 0)

	require.Len(t, result.Structure, 1)
	a := result.Structure[0]
	assert.Equal(t, "A", a.Title)

	// The empty subsection and the content-free trailing section are gone.
	require.Len(t, a.Children, 1)
	assert.Equal(t, "B", a.Children[0].Title)
}

func TestFallbackPreamble(t *testing.T) {
	// Text before the first heading lands in an implicit Root section.
	result := Fallback("intro line\n# A\nbody\n", "doc.txt", 0)

	require.Len(t, result.Structure, 2)
	assert.Equal(t, "Root", result.Structure[0].Title)
	assert.Equal(t, "intro line", result.Structure[0].Content)
	assert.Equal(t, "A", result.Structure[1].Title)
	assert.Equal(t, "node_0_1", result.Structure[1].ID)
}

func TestFallbackNoHeadings(t *testing.T) {
	// Without any heading markers the whole text collapses into one
	// synthetic root carrying a prefix of the raw input.
	text := "plain prose\n\nmore prose\n"
	result := Fallback(text, "prose.txt", 0)

	require.Len(t, result.Structure, 1)
	root := result.Structure[0]
	assert.Equal(t, "prose.txt", root.Title)
	assert.Equal(t, text, root.Content)
	assert.Empty(t, root.Children)
}

func TestFallbackSyntheticRoot(t *testing.T) {
	result := Fallback("", "empty.txt", 0)

	require.Len(t, result.Structure, 1)
	assert.Equal(t, "empty.txt", result.Structure[0].Title)
	assert.Empty(t, result.Structure[0].Children)
	assert.Equal(t, 1, result.Metadata.NodeCount)
}

func TestFallbackPreviewLimit(t *testing.T) {
	// Whitespace-only text has no sections, so the synthetic root
	// carries a truncated preview of the raw input.
	text := strings.Repeat(" ", 1200)
	result := Fallback(text, "doc.txt", 100)

	require.Len(t, result.Structure, 1)
	assert.Len(t, result.Structure[0].Content, 100)
}

func TestBuilderBuildTextMarkdownPath(t *testing.T) {
	b := New(true, nil)

	result, err := b.BuildText("# A\nhello\n## B\nworld\n", "notes.txt", Options{})
	require.NoError(t, err)

	assert.Equal(t, "notes.txt", result.DocName)
	assert.False(t, result.Metadata.Fallback)
	assert.Equal(t, "builtin-outline", result.Metadata.Model)

	require.Len(t, result.Structure, 1)
	a := result.Structure[0]
	assert.Equal(t, "A", a.Title)
	assert.Equal(t, "hello", a.Content)
	assert.Equal(t, []int{1}, a.PageNumbers)

	require.Len(t, a.Children, 1)
	assert.Equal(t, "B", a.Children[0].Title)
	assert.Equal(t, "world", a.Children[0].Content)
	assert.Equal(t, 1, a.Children[0].Level)
}

func TestBuilderBuildTextModelOption(t *testing.T) {
	b := New(true, nil)
	result, err := b.BuildText("# A\nhello\n", "doc.txt", Options{Model: "custom-model"})
	require.NoError(t, err)
	assert.Equal(t, "custom-model", result.Metadata.Model)
}

func TestBuilderFallbackWhenUnavailable(t *testing.T) {
	b := New(false, nil)

	result, err := b.BuildText("# A\nhello\n", "doc.txt", Options{})
	require.NoError(t, err)
	assert.True(t, result.Metadata.Fallback)
	assert.Equal(t, "simple-parser", result.Metadata.Model)
}

func TestBuilderBuildFileMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.md")
	require.NoError(t, os.WriteFile(path, []byte("# Intro\nwelcome\n"), 0o644))

	b := New(true, nil)
	result, err := b.BuildFile(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, "guide.md", result.DocName)
	require.Len(t, result.Structure, 1)
	assert.Equal(t, "Intro", result.Structure[0].Title)
	assert.Equal(t, "welcome", result.Structure[0].Content)
}

func TestBuilderBuildFileText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("# Intro\nwelcome\n"), 0o644))

	b := New(true, nil)
	result, err := b.BuildFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", result.DocName)
	require.Len(t, result.Structure, 1)
	assert.Equal(t, "Intro", result.Structure[0].Title)
}

func TestBuilderBuildFileUnsupported(t *testing.T) {
	b := New(true, nil)
	_, err := b.BuildFile("report.docx", Options{})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestBuilderBuildFileUnavailable(t *testing.T) {
	b := New(false, nil)
	_, err := b.BuildFile("report.md", Options{})
	assert.ErrorIs(t, err, ErrBuilderUnavailable)
}

func TestMarkdownWithoutHeadings(t *testing.T) {
	b := New(true, nil)
	result, err := b.BuildText("just a paragraph\n\nand another\n", "plain.txt", Options{})
	require.NoError(t, err)

	require.Len(t, result.Structure, 1)
	assert.Equal(t, "Untitled", result.Structure[0].Title)
	assert.Contains(t, result.Structure[0].Content, "just a paragraph")
}
