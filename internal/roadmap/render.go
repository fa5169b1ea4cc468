package roadmap

import (
	"fmt"
	"strings"
)

// Render writes the reconciliation as a markdown report.
func (r *Reconciliation) Render() string {
	var b strings.Builder

	b.WriteString("# 🎯 ROADMAP AUDIT\n\n")

	b.WriteString("## 📊 ISSUE COUNT RECONCILIATION\n\n")
	fmt.Fprintf(&b, "- **Roadmap claims:** %d issues\n", r.ClaimedTotal)
	fmt.Fprintf(&b, "- **GitHub (actual):** %d issues (%d open, %d closed)\n",
		r.GitHubTotal, r.GitHubOpen, r.GitHubClosed)
	fmt.Fprintf(&b, "- **Drift:** %s issues (%.1f%%)\n", signed(r.Drift), r.DriftPercent)
	fmt.Fprintf(&b, "- **Status:** %s drift\n\n", r.Status)

	if len(r.Milestones) > 0 {
		b.WriteString("## 📈 MILESTONE PROGRESS VALIDATION\n\n")
		b.WriteString("| Milestone | Roadmap | GitHub | Sync | Notes |\n")
		b.WriteString("|-----------|---------|--------|------|-------|\n")
		for _, m := range r.Milestones {
			fmt.Fprintf(&b, "| %s | %d/%d | %d/%d | %s | %s |\n",
				m.Title, m.ClaimedClosed, m.ClaimedTotal,
				m.ActualClosed, m.ActualTotal, m.Sync, m.Note)
		}
		b.WriteString("\n")
	}

	b.WriteString("## 🔍 ISSUE NUMBER ANALYSIS\n\n")
	fmt.Fprintf(&b, "🆕 **Orphan issues** (in GitHub, not in roadmap): %d\n", len(r.Orphans))
	if len(r.Orphans) > 0 {
		b.WriteString(refLine(r.Orphans, 20))
	}
	fmt.Fprintf(&b, "\n👻 **Phantom issues** (in roadmap, not in GitHub): %d\n", len(r.Phantoms))
	if len(r.Phantoms) > 0 {
		b.WriteString(refLine(r.Phantoms, 20))
	}
	b.WriteString("\n")

	return b.String()
}

func refLine(numbers []int, limit int) string {
	refs := make([]string, 0, limit)
	for i, n := range numbers {
		if i >= limit {
			refs = append(refs, fmt.Sprintf("... and %d more", len(numbers)-limit))
			break
		}
		refs = append(refs, "#"+fmt.Sprint(n))
	}
	return "  " + strings.Join(refs, ", ") + "\n"
}
