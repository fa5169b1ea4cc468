package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/auditworks/triage/internal/audit"
	"github.com/auditworks/triage/internal/depgraph"
)

// maxGraphNodes caps the mermaid graph size for readability.
const maxGraphNodes = 20

// DependencyMatrix renders the dependency graph report: a mermaid diagram
// of blocked-by edges and a blocking-count table for the critical path.
func DependencyMatrix(results *audit.Results) string {
	var b strings.Builder
	b.WriteString("# 🔗 DEPENDENCY MATRIX\n\n")

	graph := results.Dependencies
	if graph == nil || !hasEdges(graph) {
		b.WriteString("⚠️ No explicit dependencies found in the issues.\n")
		return b.String()
	}

	b.WriteString("## Dependency Graph\n\n")
	b.WriteString("```mermaid\ngraph TD\n")
	for _, number := range sortedNodeNumbers(graph, maxGraphNodes) {
		node := graph.Nodes[number]
		for _, blocker := range node.BlockedBy {
			fmt.Fprintf(&b, "    I%d[#%d] --> I%d[#%d]\n", blocker, blocker, number, number)
		}
	}
	b.WriteString("```\n\n")

	b.WriteString("## Blocking Issues (Critical Path)\n\n")
	b.WriteString("Issues that block other work:\n\n")

	blockers := graph.Bottlenecks(1)
	if len(blockers) > 0 {
		fprintRow(&b, "Issue", "Blocks N Issues", "Priority")
		fprintRow(&b, "-----", "---------------", "--------")
		for i, node := range blockers {
			if i >= 10 {
				break
			}
			count := len(node.Blocks)
			priority := "📌 Medium"
			switch {
			case count >= 5:
				priority = "🔥 CRITICAL"
			case count >= 3:
				priority = "⚠️ High"
			}
			fprintRow(&b, "#"+itoa(node.Number), itoa(count), priority)
		}
	}
	b.WriteString("\n")

	return b.String()
}

func hasEdges(graph *depgraph.Graph) bool {
	for _, node := range graph.Nodes {
		if len(node.BlockedBy) > 0 || len(node.Blocks) > 0 {
			return true
		}
	}
	return false
}

func sortedNodeNumbers(graph *depgraph.Graph, limit int) []int {
	numbers := make([]int, 0, len(graph.Nodes))
	for number := range graph.Nodes {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)
	if len(numbers) > limit {
		numbers = numbers[:limit]
	}
	return numbers
}
