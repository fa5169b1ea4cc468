// Package fixes turns audit findings into an executable fix plan.
//
// The flow is: build a Plan from audit results (pure, no side effects),
// write it out as YAML for human review, then apply it through gh. Apply
// defaults to dry-run; nothing touches GitHub until the operator passes
// the flag that says so.
package fixes

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/auditworks/triage/internal/audit"
	"github.com/auditworks/triage/internal/prioritize"
	"github.com/auditworks/triage/internal/types"
)

// titleTypeMap maps title keywords to conventional-commit types, checked
// in order.
var titleTypeMap = []struct {
	keyword  string
	convType string
}{
	{"test", "test"},
	{"doc", "docs"},
	{"security", "fix"},
	{"bug", "fix"},
	{"feature", "feat"},
}

// leadingPrefixRe strips an existing non-conventional "Something: " prefix.
var leadingPrefixRe = regexp.MustCompile(`^[^:]+:\s*`)

// defaultArea is used when no area can be read from the title.
const defaultArea = "core"

// commentThreshold is the checklist score below which an audit comment is
// suggested.
const commentThreshold = 70

// Suggestion is the set of fixes proposed for one issue.
type Suggestion struct {
	IssueNumber    int      `yaml:"issue_number" json:"issue_number"`
	URL            string   `yaml:"url,omitempty" json:"url,omitempty"`
	CurrentTitle   string   `yaml:"current_title" json:"current_title"`
	SuggestedTitle string   `yaml:"suggested_title,omitempty" json:"suggested_title,omitempty"`
	LabelsToAdd    []string `yaml:"labels_to_add,omitempty" json:"labels_to_add,omitempty"`
	Comment        string   `yaml:"comment,omitempty" json:"comment,omitempty"`
}

// IsEmpty reports whether the suggestion proposes no change.
func (s Suggestion) IsEmpty() bool {
	return s.SuggestedTitle == "" && len(s.LabelsToAdd) == 0 && s.Comment == ""
}

// Suggest generates the fixes for one audited issue.
func Suggest(result audit.IssueResult, analysis prioritize.Analysis) Suggestion {
	s := Suggestion{
		IssueNumber:  result.Number,
		URL:          result.URL,
		CurrentTitle: result.Title,
	}

	if !types.HasConventionalTitle(result.Title) {
		s.SuggestedTitle = rewriteTitle(result.Title)
	}

	effectiveTitle := s.SuggestedTitle
	if effectiveTitle == "" {
		effectiveTitle = result.Title
	}
	s.LabelsToAdd = missingLabels(result.Labels, effectiveTitle, analysis)

	if result.Checklist.Score < commentThreshold {
		s.Comment = auditComment(result, analysis, s.LabelsToAdd)
	}

	return s
}

// rewriteTitle proposes a conventional-commit title from keywords. An
// empty return means no rewrite could be derived.
func rewriteTitle(title string) string {
	lower := strings.ToLower(title)
	for _, entry := range titleTypeMap {
		if !strings.Contains(lower, entry.keyword) {
			continue
		}
		area := types.TitleArea(title)
		if area == "unknown" {
			area = defaultArea
		}
		clean := leadingPrefixRe.ReplaceAllString(title, "")
		return fmt.Sprintf("%s(%s): %s", entry.convType, area, clean)
	}
	return ""
}

// missingLabels returns the type/area/priority/risk labels the issue
// should carry but does not.
func missingLabels(existing []string, title string, analysis prioritize.Analysis) []string {
	have := func(prefix string) bool {
		for _, l := range existing {
			if strings.HasPrefix(l, prefix) {
				return true
			}
		}
		return false
	}

	var add []string
	if !have("type/") {
		if t := types.TitleType(title); t != "unknown" {
			add = append(add, "type/"+t)
		}
	}
	if !have("area/") {
		if a := types.TitleArea(title); a != "unknown" {
			add = append(add, "area/"+a)
		}
	}
	if !have("priority/") {
		add = append(add, "priority/"+string(analysis.Priority))
	}
	if !have("risk/") {
		add = append(add, "risk/"+string(analysis.Risk.Level))
	}
	return add
}

// auditComment renders the quality-audit comment posted to low-scoring
// issues.
func auditComment(result audit.IssueResult, analysis prioritize.Analysis, labels []string) string {
	var b strings.Builder
	b.WriteString("## 🔍 Issue Quality Audit\n\n")
	fmt.Fprintf(&b, "**Quality Score:** %d/100\n\n", result.Checklist.Score)

	if len(result.Checklist.Problems) > 0 {
		b.WriteString("**Issues Found:**\n")
		for _, p := range result.Checklist.Problems {
			fmt.Fprintf(&b, "- ❌ %s\n", p)
		}
		b.WriteString("\n")
	}
	if len(result.Checklist.Warnings) > 0 {
		b.WriteString("**Warnings:**\n")
		for _, w := range result.Checklist.Warnings {
			fmt.Fprintf(&b, "- ⚠️ %s\n", w)
		}
		b.WriteString("\n")
	}

	b.WriteString("**Recommended Actions:**\n")
	b.WriteString("- Update title to follow Conventional Commits\n")
	if len(labels) > 0 {
		fmt.Fprintf(&b, "- Add missing labels: %s\n", strings.Join(labels, ", "))
	}
	b.WriteString("- Ensure description includes acceptance criteria\n")
	b.WriteString("- Add effort estimate\n\n")

	fmt.Fprintf(&b, "**Priority:** %s\n", analysis.Priority)
	fmt.Fprintf(&b, "**Risk Level:** %s\n", analysis.Risk.Level)
	fmt.Fprintf(&b, "**WSJF Score:** %.2f\n", analysis.WSJF.Score)
	fmt.Fprintf(&b, "**RICE Score:** %.2f\n", analysis.RICE.Score)
	return b.String()
}
