package treebuild

import "fmt"

// ExternalNode is the raw node shape emitted by the document builders
// before normalization. Every field is optional; missing fields get
// defaults during transformation rather than causing errors.
type ExternalNode struct {
	NodeID     string         `json:"node_id,omitempty"`
	Title      string         `json:"title,omitempty"`
	StartIndex *int           `json:"start_index,omitempty"`
	EndIndex   *int           `json:"end_index,omitempty"`
	Text       string         `json:"text,omitempty"`
	Summary    string         `json:"summary,omitempty"`
	Nodes      []ExternalNode `json:"nodes,omitempty"`
}

// Transform normalizes a builder structure into TreeNodes. IDs default
// to node_<level>_<index>, titles to "Untitled", and page ranges to the
// inclusive start..end span with both bounds defaulting to page 1.
// Input order is preserved.
func Transform(nodes []ExternalNode) []TreeNode {
	return transformAt(nodes, 0)
}

func transformAt(nodes []ExternalNode, level int) []TreeNode {
	result := make([]TreeNode, 0, len(nodes))
	for idx, node := range nodes {
		id := node.NodeID
		if id == "" {
			id = nodeID(level, idx)
		}
		title := node.Title
		if title == "" {
			title = "Untitled"
		}

		content := node.Text
		if content == "" {
			content = node.Summary
		}

		t := TreeNode{
			ID:          id,
			Title:       title,
			Level:       level,
			PageNumbers: pageRange(node.StartIndex, node.EndIndex),
			Content:     content,
			Children:    []TreeNode{},
		}
		if len(node.Nodes) > 0 {
			t.Children = transformAt(node.Nodes, level+1)
		}
		result = append(result, t)
	}
	return result
}

// pageRange expands start..end into the inclusive page list. Bounds
// default to 1; an inverted range yields an empty list.
func pageRange(start, end *int) []int {
	lo, hi := 1, 1
	if start != nil {
		lo = *start
	}
	if end != nil {
		hi = *end
	}
	if hi < lo {
		return []int{}
	}
	pages := make([]int, 0, hi-lo+1)
	for p := lo; p <= hi; p++ {
		pages = append(pages, p)
	}
	return pages
}

func nodeID(level, index int) string {
	return fmt.Sprintf("node_%d_%d", level, index)
}
