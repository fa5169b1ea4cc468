// Package treebuild turns documents into hierarchical outline trees.
//
// Markdown and PDF documents are parsed into a nested node structure
// (section titles, page ranges, optional body text) suitable for
// downstream indexing. Plain text is routed through the markdown path,
// with a heading-based fallback parser for when the full builder is
// unavailable.
package treebuild

// TreeNode is one node of the document outline. Children sit one level
// below their parent and keep document order.
type TreeNode struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Level       int        `json:"level"`
	PageNumbers []int      `json:"pageNumbers"`
	Content     string     `json:"content,omitempty"`
	Children    []TreeNode `json:"children"`
}

// Metadata describes how a tree was produced.
type Metadata struct {
	NodeCount             int     `json:"node_count"`
	MaxDepth              int     `json:"max_depth"`
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
	Model                 string  `json:"model"`
	PageCount             int     `json:"page_count,omitempty"`
	Fallback              bool    `json:"fallback,omitempty"`
}

// BuildResult is the complete outcome of building one document. Results
// are constructed fresh per request and carry no shared state.
type BuildResult struct {
	DocName        string     `json:"doc_name"`
	DocDescription string     `json:"doc_description,omitempty"`
	Structure      []TreeNode `json:"structure"`
	Metadata       Metadata   `json:"metadata"`
}

// CountNodes walks the structure once and returns the total node count
// and the greatest level present. A tree with only root nodes has a max
// depth of 0.
func CountNodes(structure []TreeNode) (total, maxDepth int) {
	var walk func(nodes []TreeNode, depth int)
	walk = func(nodes []TreeNode, depth int) {
		for _, n := range nodes {
			total++
			if depth > maxDepth {
				maxDepth = depth
			}
			if len(n.Children) > 0 {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(structure, 0)
	return total, maxDepth
}
