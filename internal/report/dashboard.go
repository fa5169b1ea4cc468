package report

import (
	"fmt"
	"strings"

	"github.com/auditworks/triage/internal/audit"
	"github.com/auditworks/triage/internal/rubric"
)

// distributionBins are the score histogram buckets, in display order.
var distributionBins = []struct {
	label string
	lo    float64
	hi    float64
}{
	{"0-20", 0, 20},
	{"20-40", 20, 40},
	{"40-60", 40, 60},
	{"60-80", 60, 80},
	{"80-100", 80, 101},
}

// Dashboard renders the ASCII compliance dashboard.
func Dashboard(results *audit.Results) string {
	var b strings.Builder
	total := results.Metadata.TotalIssues
	summary := results.Summary

	b.WriteString("# 📊 COMPLIANCE DASHBOARD\n\n")

	b.WriteString("## 🎯 OVERALL SCORECARD\n\n")
	b.WriteString("```\n")
	b.WriteString("┌─────────────────────────────────────────┐\n")
	b.WriteString("│          BACKLOG COMPLIANCE             │\n")
	b.WriteString("├─────────────────────────────────────────┤\n")
	fmt.Fprintf(&b, "│  Overall Score:      %5.1f%%             │\n", summary.AverageScore)
	fmt.Fprintf(&b, "│  [%s]  │\n", bar(summary.AverageScore, 37))
	b.WriteString("│                                         │\n")
	fmt.Fprintf(&b, "│  ✅ Compliant (>=80%%): %3d (%3.0f%%)       │\n",
		summary.Compliant80Plus, percent(summary.Compliant80Plus, total))
	fmt.Fprintf(&b, "│  ⚠️  Non-Compliant:     %3d (%3.0f%%)       │\n",
		summary.NonCompliant, percent(summary.NonCompliant, total))
	fmt.Fprintf(&b, "│  🔄 Duplicates:        %3d              │\n", len(results.Duplicates))
	b.WriteString("└─────────────────────────────────────────┘\n")
	b.WriteString("```\n\n")

	b.WriteString("## 📈 BREAKDOWN BY CRITERION\n\n")
	fprintRow(&b, "Criterion", "Score", "Visualization")
	fprintRow(&b, "----------", "-----", "-------------")
	averages := criterionAverages(results)
	for _, name := range rubric.CriterionNames {
		score := averages[name]
		fprintRow(&b, rubric.CriterionTitles[name], fmt.Sprintf("%.1f%%", score), bar(score, 20))
	}
	b.WriteString("\n")

	b.WriteString("## 📊 SCORE DISTRIBUTION\n\n")
	b.WriteString("```\n")
	counts := make([]int, len(distributionBins))
	maxCount := 0
	for _, issue := range results.Issues {
		for i, bin := range distributionBins {
			if issue.Overall >= bin.lo && issue.Overall < bin.hi {
				counts[i]++
				if counts[i] > maxCount {
					maxCount = counts[i]
				}
				break
			}
		}
	}
	scale := 1.0
	if maxCount > 0 {
		scale = 40.0 / float64(maxCount)
	}
	for i, bin := range distributionBins {
		fmt.Fprintf(&b, "%8s%% │%s %d\n", bin.label,
			strings.Repeat("█", int(float64(counts[i])*scale)), counts[i])
	}
	b.WriteString("```\n\n")

	b.WriteString("## 🎯 STATUS BY MILESTONE\n\n")
	fprintRow(&b, "Milestone", "Issues", "Score", "Status")
	fprintRow(&b, "---------", "------", "-----", "------")
	for _, m := range milestoneRollups(results) {
		status := "🔴 Critical"
		switch {
		case m.AvgScore >= 80:
			status = "🟢 Excellent"
		case m.AvgScore >= 60:
			status = "🟡 Attention"
		}
		fprintRow(&b, m.Title, itoa(m.Count), fmt.Sprintf("%.1f%%", m.AvgScore), status)
	}
	b.WriteString("\n")

	return b.String()
}
