package treebuild

import (
	"fmt"
	"strings"
)

// DefaultPreviewLimit caps the synthetic-root preview when a document
// has no recognizable structure.
const DefaultPreviewLimit = 1000

const fallbackModel = "simple-parser"

type fallbackSection struct {
	title    string
	content  strings.Builder
	children []*fallbackSection
}

// Fallback builds an outline from plain text without the full builder.
// Lines starting with "# " open a top-level section, "## " a subsection
// under the current section, and everything else accumulates into the
// innermost open body. Empty leaf sections are dropped; when the text
// has no heading markers at all, or nothing survives, the result is a
// single root titled docName carrying the first previewLimit characters
// of the text. It never fails.
func Fallback(text, docName string, previewLimit int) *BuildResult {
	if previewLimit <= 0 {
		previewLimit = DefaultPreviewLimit
	}

	var sections []*fallbackSection
	current := &fallbackSection{title: "Root"}
	var sub *fallbackSection
	sawHeading := false

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		switch {
		case strings.HasPrefix(stripped, "# "):
			sawHeading = true
			sections = append(sections, current)
			current = &fallbackSection{title: strings.TrimPrefix(stripped, "# ")}
			sub = nil
		case strings.HasPrefix(stripped, "## "):
			sawHeading = true
			sub = &fallbackSection{title: strings.TrimPrefix(stripped, "## ")}
			current.children = append(current.children, sub)
		default:
			if sub != nil {
				sub.content.WriteString(stripped + "\n")
			} else {
				current.content.WriteString(stripped + "\n")
			}
		}
	}
	sections = append(sections, current)

	var structure []TreeNode
	if sawHeading {
		structure = fallbackNodes(sections, 0)
	}
	if len(structure) == 0 {
		preview := []rune(text)
		if len(preview) > previewLimit {
			preview = preview[:previewLimit]
		}
		structure = []TreeNode{{
			ID:          nodeID(0, 0),
			Title:       docName,
			Level:       0,
			PageNumbers: []int{},
			Content:     string(preview),
			Children:    []TreeNode{},
		}}
	}

	total, maxDepth := CountNodes(structure)
	return &BuildResult{
		DocName:        docName,
		DocDescription: fmt.Sprintf("Simple tree structure for %s", docName),
		Structure:      structure,
		Metadata: Metadata{
			NodeCount:             total,
			MaxDepth:              maxDepth,
			ProcessingTimeSeconds: 0.01,
			Model:                 fallbackModel,
			Fallback:              true,
		},
	}
}

// fallbackNodes converts parsed sections to TreeNodes, dropping any
// section that ends up with neither content nor surviving children.
func fallbackNodes(sections []*fallbackSection, level int) []TreeNode {
	nodes := make([]TreeNode, 0, len(sections))
	for _, s := range sections {
		children := []TreeNode{}
		if len(s.children) > 0 {
			children = fallbackNodes(s.children, level+1)
		}
		content := strings.TrimSpace(s.content.String())
		if content == "" && len(children) == 0 {
			continue
		}
		nodes = append(nodes, TreeNode{
			ID:          nodeID(level, len(nodes)),
			Title:       s.title,
			Level:       level,
			PageNumbers: []int{},
			Content:     content,
			Children:    children,
		})
	}
	return nodes
}
