package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/auditworks/triage/internal/audit"
	"github.com/auditworks/triage/internal/rubric"
)

// Compliance renders the main backlog compliance report.
func Compliance(results *audit.Results) string {
	var b strings.Builder
	total := results.Metadata.TotalIssues
	summary := results.Summary

	b.WriteString("# 📊 BACKLOG COMPLIANCE REPORT\n")
	fmt.Fprintf(&b, "**Audit Date:** %s\n", results.Metadata.AuditDate.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Issues Analyzed:** %d\n", total)
	fmt.Fprintf(&b, "**Range:** %s\n\n", results.Metadata.IssueRange)

	b.WriteString("## 🎯 EXECUTIVE SUMMARY\n\n")
	fmt.Fprintf(&b, "- **Average Score:** %.1f%%\n", summary.AverageScore)
	fmt.Fprintf(&b, "- **Fully Compliant (100%%):** %d (%.1f%%)\n", summary.Compliant100, percent(summary.Compliant100, total))
	fmt.Fprintf(&b, "- **Compliant (>=80%%):** %d (%.1f%%)\n", summary.Compliant80Plus, percent(summary.Compliant80Plus, total))
	fmt.Fprintf(&b, "- **Non-Compliant (<80%%):** %d (%.1f%%)\n", summary.NonCompliant, percent(summary.NonCompliant, total))
	fmt.Fprintf(&b, "- **Duplicates Detected:** %d\n\n", len(results.Duplicates))

	b.WriteString("### 🚨 Compliance Status\n\n")
	switch {
	case summary.AverageScore < 60:
		b.WriteString("**🔴 CRITICAL** - Average score below 60%. The backlog needs immediate intervention.\n\n")
	case summary.AverageScore < 80:
		b.WriteString("**🟡 ATTENTION** - Average score between 60-80%. Significant improvements needed.\n\n")
	default:
		b.WriteString("**🟢 GOOD** - Average score above 80%. Keep up the routine maintenance.\n\n")
	}

	b.WriteString("## ✅ TOP 10 MOST COMPLIANT ISSUES\n\n")
	fprintRow(&b, "#", "Title", "Score", "Milestone", "Status")
	fprintRow(&b, "---", "------", "-----", "---------", "------")
	for _, issue := range topN(sortedByOverall(results, true), 10) {
		status := "✅ Ready"
		if issue.Overall < rubric.ComplianceThreshold {
			status = "⚠️ Review"
		}
		milestone := issue.Milestone
		if milestone == "" {
			milestone = "No milestone"
		}
		fprintRow(&b, "#"+itoa(issue.Number), shortTitle(issue.Title, 50),
			fmt.Sprintf("%.1f%%", issue.Overall), milestone, status)
	}
	b.WriteString("\n")

	b.WriteString("## ⚠️ TOP 10 LEAST COMPLIANT ISSUES (FIX FIRST)\n\n")
	fprintRow(&b, "#", "Title", "Score", "Main Problems")
	fprintRow(&b, "---", "------", "-----", "-------------")
	for _, issue := range topN(sortedByOverall(results, false), 10) {
		var problems []string
		if issue.Scores.Atomicity.Score < 60 {
			problems = append(problems, "Atomicity")
		}
		if issue.Scores.Completeness.Score < 60 {
			problems = append(problems, "Completeness")
		}
		if issue.Scores.Executability.Score < 60 {
			problems = append(problems, "Executability")
		}
		problemStr := strings.Join(problems, ", ")
		if problemStr == "" {
			problemStr = "Multiple"
		}
		fprintRow(&b, "#"+itoa(issue.Number), shortTitle(issue.Title, 50),
			fmt.Sprintf("%.1f%%", issue.Overall), problemStr)
	}
	b.WriteString("\n")

	b.WriteString("## 📈 SCORE BY CRITERION\n\n")
	fprintRow(&b, "Criterion", "Average", "Status")
	fprintRow(&b, "----------", "-------", "------")
	averages := criterionAverages(results)
	for _, name := range sortedCriteriaByScore(averages) {
		avg := averages[name]
		status := "🔴 Critical"
		switch {
		case avg >= 80:
			status = "🟢 Good"
		case avg >= 60:
			status = "🟡 Fair"
		}
		fprintRow(&b, rubric.CriterionTitles[name], fmt.Sprintf("%.1f%%", avg), status)
	}
	b.WriteString("\n")

	b.WriteString("## 🎯 SCORE BY MILESTONE\n\n")
	fprintRow(&b, "Milestone", "Issues", "Average", "Estimated Hours", "Status")
	fprintRow(&b, "---------", "------", "-------", "---------------", "------")
	for _, m := range milestoneRollups(results) {
		status := "🔴"
		switch {
		case m.AvgScore >= 80:
			status = "✅"
		case m.AvgScore >= 60:
			status = "⚠️"
		}
		fprintRow(&b, m.Title, itoa(m.Count), fmt.Sprintf("%.1f%%", m.AvgScore),
			fmt.Sprintf("%.1fh", m.Hours), status)
	}
	b.WriteString("\n")

	return b.String()
}

// sortedCriteriaByScore orders criterion names worst-first so the table
// leads with what needs attention.
func sortedCriteriaByScore(averages map[string]float64) []string {
	names := make([]string, 0, len(averages))
	for _, name := range rubric.CriterionNames {
		if _, ok := averages[name]; ok {
			names = append(names, name)
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return averages[names[i]] < averages[names[j]]
	})
	return names
}

func topN(issues []audit.IssueResult, n int) []audit.IssueResult {
	if len(issues) > n {
		return issues[:n]
	}
	return issues
}
