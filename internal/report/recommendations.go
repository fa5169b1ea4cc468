package report

import (
	"fmt"
	"strings"

	"github.com/auditworks/triage/internal/audit"
	"github.com/auditworks/triage/internal/estimate"
)

// Recommendations renders the cleanup action report: duplicates to resolve,
// orphan issues, missing estimates and detail, plus a phased action plan.
func Recommendations(results *audit.Results) string {
	var b strings.Builder
	byNumber := results.ByNumber()

	b.WriteString("# 🔧 BACKLOG CLEANUP RECOMMENDATIONS\n\n")
	b.WriteString("Concrete actions to raise backlog compliance.\n\n")

	// 1. Duplicates
	b.WriteString("## 1️⃣ DETECTED DUPLICATES\n\n")
	fmt.Fprintf(&b, "**Total:** %d similar issue pairs\n\n", len(results.Duplicates))

	var high, medium int
	for _, d := range results.Duplicates {
		if d.HighConfidence {
			high++
		} else {
			medium++
		}
	}

	if high > 0 {
		b.WriteString("### ⚠️ High Confidence\n\n")
		b.WriteString("These are most likely true duplicates:\n\n")
		fprintRow(&b, "Issue 1", "Issue 2", "Similarity", "Recommended Action")
		fprintRow(&b, "-------", "-------", "----------", "------------------")
		count := 0
		for _, d := range results.Duplicates {
			if !d.HighConfidence || count >= 10 {
				continue
			}
			count++

			// Keep whichever issue scores higher on the rubric.
			keep, toClose := d.Canonical, d.Duplicate
			r1, r2 := byNumber[d.Canonical], byNumber[d.Duplicate]
			if r1 != nil && r2 != nil && r2.Overall > r1.Overall {
				keep, toClose = d.Duplicate, d.Canonical
			}
			action := fmt.Sprintf("Keep #%d, close #%d", keep, toClose)
			fprintRow(&b, "#"+itoa(d.Canonical), "#"+itoa(d.Duplicate),
				fmt.Sprintf("%.0f%%", d.CombinedSimilarity*100), action)
		}
		b.WriteString("\n")
	}

	if medium > 0 {
		b.WriteString("### 📋 Medium Confidence\n\n")
		b.WriteString("Review manually - these may be related but not duplicates:\n\n")
		count := 0
		for _, d := range results.Duplicates {
			if d.HighConfidence || count >= 5 {
				continue
			}
			count++
			fmt.Fprintf(&b, "- #%d ↔ #%d (%.0f%% similar)\n",
				d.Canonical, d.Duplicate, d.CombinedSimilarity*100)
		}
		b.WriteString("\n")
	}

	// 2. No milestone
	var noMilestone []audit.IssueResult
	for _, issue := range results.Issues {
		if issue.Milestone == "" {
			noMilestone = append(noMilestone, issue)
		}
	}
	b.WriteString("## 2️⃣ ISSUES WITHOUT A MILESTONE\n\n")
	fmt.Fprintf(&b, "**Total:** %d issues\n\n", len(noMilestone))
	if len(noMilestone) > 0 {
		b.WriteString("**Action:** Assign a milestone per the roadmap.\n\n")
		fprintRow(&b, "Issue", "Title")
		fprintRow(&b, "-----", "------")
		for _, issue := range topN(noMilestone, 10) {
			fprintRow(&b, "#"+itoa(issue.Number), shortTitle(issue.Title, 40))
		}
		b.WriteString("\n")
	}

	// 3. Inferred estimates
	var inferred []audit.IssueResult
	for _, issue := range results.Issues {
		if issue.Scores.Atomicity.EstimationMethod == estimate.MethodInferred {
			inferred = append(inferred, issue)
		}
	}
	b.WriteString("## 3️⃣ ISSUES WITHOUT AN EXPLICIT ESTIMATE\n\n")
	fmt.Fprintf(&b, "**Total:** %d issues\n\n", len(inferred))
	b.WriteString("**Action:** Add an explicit estimate to the issue body (format: `Estimate: Xh`).\n\n")
	fprintRow(&b, "Issue", "Inferred Estimate", "Recommendation")
	fprintRow(&b, "-----", "-----------------", "--------------")
	for _, issue := range topN(inferred, 15) {
		hours := issue.Scores.Atomicity.EstimatedHours
		rec := fmt.Sprintf("Add `Estimate: %.1fh` to the body", hours)
		if hours > 8 {
			rec = fmt.Sprintf("Decompose into smaller issues (%.1fh > 8h)", hours)
		}
		fprintRow(&b, "#"+itoa(issue.Number), fmt.Sprintf("%.1fh", hours), rec)
	}
	b.WriteString("\n")

	// 4. Low executability
	var lowExec []audit.IssueResult
	for _, issue := range results.Issues {
		if issue.Scores.Executability.Score < 60 {
			lowExec = append(lowExec, issue)
		}
	}
	b.WriteString("## 4️⃣ ISSUES WITHOUT ENOUGH TECHNICAL DETAIL\n\n")
	fmt.Fprintf(&b, "**Total:** %d issues\n\n", len(lowExec))
	b.WriteString("**Action:** Add:\n")
	b.WriteString("- File paths to modify (e.g. `internal/service/auth.go`)\n")
	b.WriteString("- Code examples\n")
	b.WriteString("- Implementation steps\n\n")
	fprintRow(&b, "Issue", "Exec Score", "Missing")
	fprintRow(&b, "-----", "----------", "-------")
	for _, issue := range topN(lowExec, 15) {
		exec := issue.Scores.Executability
		var missing []string
		if !exec.HasFilePaths {
			missing = append(missing, "file paths")
		}
		if !exec.HasCodeExamples {
			missing = append(missing, "code examples")
		}
		if !exec.HasStepByStep {
			missing = append(missing, "steps")
		}
		fprintRow(&b, "#"+itoa(issue.Number), fmt.Sprintf("%d%%", exec.Score),
			strings.Join(missing, ", "))
	}
	b.WriteString("\n")

	// 5. Unmapped dependencies
	var noDeps int
	for _, issue := range results.Issues {
		if !issue.Scores.Traceability.HasDependenciesMapped {
			noDeps++
		}
	}
	b.WriteString("## 5️⃣ ISSUES WITHOUT MAPPED DEPENDENCIES\n\n")
	fmt.Fprintf(&b, "**Total:** %d issues\n\n", noDeps)
	b.WriteString("**Action:** Add a dependency section:\n")
	b.WriteString("```\n## Dependencies\n**Blocked by:** #X, #Y\n**Blocks:** #Z\n```\n\n")

	// 6. Action plan
	b.WriteString("## 🎯 PRIORITIZED ACTION PLAN\n\n")
	b.WriteString("### Phase 1: Cleanup (this week)\n")
	fmt.Fprintf(&b, "1. ✅ Resolve %d high-confidence duplicates\n", high)
	fmt.Fprintf(&b, "2. ✅ Assign milestones to %d orphan issues\n", len(noMilestone))
	b.WriteString("3. ✅ Add explicit estimates to the top 20 issues\n\n")
	b.WriteString("### Phase 2: Enrichment (next week)\n")
	fmt.Fprintf(&b, "4. 📝 Add technical detail to %d non-executable issues\n", len(lowExec))
	b.WriteString("5. 📝 Map critical-path dependencies\n\n")
	b.WriteString("### Phase 3: Validation\n")
	b.WriteString("6. ✔️ Re-audit and confirm average score >= 80%\n\n")

	return b.String()
}
