// Package report renders audit results as Markdown and CSV artifacts.
//
// Every renderer is a pure function from the audit Results document to a
// string (or CSV rows), so reports can be regenerated from a saved
// audit_results.json without touching GitHub. The renderers are:
//
//   - Compliance: the main scorecard with top/bottom issues
//   - Recommendations: concrete cleanup actions
//   - Dashboard: ASCII scorecard and distribution bars
//   - DependencyMatrix: mermaid graph plus blocking counts
//   - BacklogOrder: execution order by combined WSJF/RICE (md and csv)
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/auditworks/triage/internal/audit"
)

// shortTitle truncates a title for table cells.
func shortTitle(title string, max int) string {
	if len(title) <= max {
		return title
	}
	return title[:max] + "..."
}

// criterionAverages computes the mean score per rubric criterion.
func criterionAverages(results *audit.Results) map[string]float64 {
	avg := make(map[string]float64)
	if len(results.Issues) == 0 {
		return avg
	}
	for _, issue := range results.Issues {
		avg["atomicity"] += float64(issue.Scores.Atomicity.Score)
		avg["prioritization"] += float64(issue.Scores.Prioritization.Score)
		avg["completeness"] += float64(issue.Scores.Completeness.Score)
		avg["executability"] += float64(issue.Scores.Executability.Score)
		avg["traceability"] += float64(issue.Scores.Traceability.Score)
	}
	for k := range avg {
		avg[k] /= float64(len(results.Issues))
	}
	return avg
}

// sortedByOverall returns issue results ordered by overall score.
func sortedByOverall(results *audit.Results, descending bool) []audit.IssueResult {
	sorted := make([]audit.IssueResult, len(results.Issues))
	copy(sorted, results.Issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		if descending {
			return sorted[i].Overall > sorted[j].Overall
		}
		return sorted[i].Overall < sorted[j].Overall
	})
	return sorted
}

// milestoneRollup aggregates count and mean score per milestone title.
type milestoneRollup struct {
	Title    string
	Count    int
	AvgScore float64
	Hours    float64
}

func milestoneRollups(results *audit.Results) []milestoneRollup {
	type acc struct {
		count int
		total float64
	}
	byTitle := make(map[string]*acc)
	for _, issue := range results.Issues {
		title := issue.Milestone
		if title == "" {
			title = "(none)"
		}
		a, ok := byTitle[title]
		if !ok {
			a = &acc{}
			byTitle[title] = a
		}
		a.count++
		a.total += issue.Overall
	}

	hours := make(map[string]float64)
	for _, stat := range results.Milestones {
		hours[stat.Title] = stat.EstimatedHours
	}

	out := make([]milestoneRollup, 0, len(byTitle))
	for title, a := range byTitle {
		out = append(out, milestoneRollup{
			Title:    title,
			Count:    a.count,
			AvgScore: a.total / float64(a.count),
			Hours:    hours[title],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

// bar renders a filled/empty block bar of the given width for a 0-100 value.
func bar(score float64, width int) string {
	filled := int(score / 100 * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(int(float64(part)/float64(total)*1000+0.5)) / 10
}

func fprintRow(b *strings.Builder, cells ...string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

func itoa(n int) string { return fmt.Sprintf("%d", n) }
