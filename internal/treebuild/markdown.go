package treebuild

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// mdNode is the builder-side tree assembled during the AST walk. It is
// converted to ExternalNodes and normalized by Transform afterwards.
type mdNode struct {
	title    string
	text     string
	children []*mdNode
}

// buildMarkdown parses a markdown file into the external node shape.
// Headings nest by level; body text flushes into the innermost open
// section.
func buildMarkdown(path string) ([]ExternalNode, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	type stackEntry struct {
		node  *mdNode
		level int
	}

	// Root sits at level 0 so every heading nests under it.
	root := &mdNode{}
	stack := []stackEntry{{node: root, level: 0}}

	var pending bytes.Buffer
	flush := func() {
		t := strings.TrimSpace(pending.String())
		if t != "" {
			top := stack[len(stack)-1].node
			if top.text != "" {
				top.text += "\n\n" + t
			} else {
				top.text = t
			}
		}
		pending.Reset()
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			flush()
			section := &mdNode{title: string(node.Text(src))}

			for len(stack) > 1 && stack[len(stack)-1].level >= node.Level {
				stack = stack[:len(stack)-1]
			}
			parent := stack[len(stack)-1].node
			parent.children = append(parent.children, section)
			stack = append(stack, stackEntry{node: section, level: node.Level})

		default:
			if t := blockText(n, src); t != "" {
				if pending.Len() > 0 {
					pending.WriteString("\n\n")
				}
				pending.WriteString(t)
			}
		}
	}
	flush()

	nodes := externalNodes(root.children)
	// A heading-free document becomes a single untitled section.
	if len(nodes) == 0 && root.text != "" {
		nodes = []ExternalNode{{Text: root.text}}
	}
	return nodes, nil
}

func externalNodes(sections []*mdNode) []ExternalNode {
	out := make([]ExternalNode, 0, len(sections))
	for _, s := range sections {
		out = append(out, ExternalNode{
			Title: s.title,
			Text:  s.text,
			Nodes: externalNodes(s.children),
		})
	}
	return out
}

// blockText collects the plain text of a non-heading block. Blocks
// with inline children (paragraphs, list items) are read through their
// inlines; leaf blocks like code fences keep their raw source lines.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if !n.HasChildren() {
		if n.Type() == ast.TypeBlock {
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
			}
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			if s := blockText(c, src); s != "" {
				if buf.Len() > 0 && c.Type() == ast.TypeBlock {
					buf.WriteByte('\n')
				}
				buf.WriteString(s)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
