// Package depgraph extracts issue dependency relationships from body text.
//
// Dependencies are declared informally ("Blocked by #12", "Depends on #7",
// "Blocks #30") rather than through tracker metadata, so the graph is built
// by scanning bodies with tolerant patterns. The graph powers the execution
// ordering (unblocked work first) and the dependency matrix report.
package depgraph

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/auditworks/triage/internal/types"
)

var (
	blockedByRe = regexp.MustCompile(`(?i)(?:blocked by|depends on|requires|after)[^\n#]*#(\d+)`)
	blocksRe    = regexp.MustCompile(`(?i)(?:blocks|required by|must land before)[^\n#]*#(\d+)`)
)

// Node is one issue's dependency relationships.
type Node struct {
	Number    int   `json:"number"`
	BlockedBy []int `json:"blocked_by,omitempty"`
	Blocks    []int `json:"blocks,omitempty"`
}

// Graph maps issue numbers to their dependency nodes.
type Graph struct {
	Nodes map[int]*Node `json:"nodes"`
}

// Extract parses dependency declarations from an issue body. Both lists are
// sorted and deduplicated; self-references are dropped.
func Extract(issue *types.Issue) *Node {
	node := &Node{Number: issue.Number}
	node.BlockedBy = matchRefs(blockedByRe, issue.Body, issue.Number)
	node.Blocks = matchRefs(blocksRe, issue.Body, issue.Number)
	return node
}

// Build assembles the full graph and mirrors declared edges: if #5 says it
// blocks #9, then #9 is recorded as blocked by #5 even when #9's own body
// is silent about it.
func Build(issues []*types.Issue) *Graph {
	g := &Graph{Nodes: make(map[int]*Node, len(issues))}
	for _, issue := range issues {
		g.Nodes[issue.Number] = Extract(issue)
	}

	for _, node := range g.Nodes {
		for _, blocked := range node.Blocks {
			if other, ok := g.Nodes[blocked]; ok {
				other.BlockedBy = appendUnique(other.BlockedBy, node.Number)
			}
		}
		for _, blocker := range node.BlockedBy {
			if other, ok := g.Nodes[blocker]; ok {
				other.Blocks = appendUnique(other.Blocks, node.Number)
			}
		}
	}

	for _, node := range g.Nodes {
		sort.Ints(node.BlockedBy)
		sort.Ints(node.Blocks)
	}
	return g
}

// IsUnblocked reports whether an issue has no open blockers. Blockers that
// are closed, or that reference issues outside the backlog, do not block.
func (g *Graph) IsUnblocked(number int, issues map[int]*types.Issue) bool {
	node, ok := g.Nodes[number]
	if !ok {
		return true
	}
	for _, blocker := range node.BlockedBy {
		if issue, exists := issues[blocker]; exists && issue.IsOpen() {
			return false
		}
	}
	return true
}

// FanOut returns how many issues the given issue blocks, directly.
// High fan-out issues are bottlenecks and get a priority boost.
func (g *Graph) FanOut(number int) int {
	if node, ok := g.Nodes[number]; ok {
		return len(node.Blocks)
	}
	return 0
}

// Bottlenecks returns issues blocking at least min others, ordered by
// fan-out descending (ties by issue number).
func (g *Graph) Bottlenecks(min int) []*Node {
	var out []*Node
	for _, node := range g.Nodes {
		if len(node.Blocks) >= min {
			out = append(out, node)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Blocks) != len(out[j].Blocks) {
			return len(out[i].Blocks) > len(out[j].Blocks)
		}
		return out[i].Number < out[j].Number
	})
	return out
}

func matchRefs(re *regexp.Regexp, body string, self int) []int {
	var refs []int
	for _, m := range re.FindAllStringSubmatch(body, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n == self {
			continue
		}
		refs = appendUnique(refs, n)
	}
	return refs
}

func appendUnique(list []int, n int) []int {
	for _, existing := range list {
		if existing == n {
			return list
		}
	}
	return append(list, n)
}
