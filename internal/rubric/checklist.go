package rubric

import (
	"regexp"
	"strings"

	"github.com/auditworks/triage/internal/types"
)

// Checklist is a deduction-based quality validation for a single issue.
// It starts at 100 and subtracts for each finding. Findings are split into
// Problems (hard failures worth fixing before work starts) and Warnings
// (hygiene gaps).
type Checklist struct {
	IssueNumber     int      `json:"issue_number"`
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	Problems        []string `json:"issues"`
	Warnings        []string `json:"warnings"`
	Score           int      `json:"score"`
	HasDependencies bool     `json:"has_dependencies"`
}

var (
	estimateHintRe  = regexp.MustCompile(`(?i)(estimat|hour|ponto|esforço)`)
	checklistACRe   = regexp.MustCompile(`(?i)(acceptance criteria|critérios de aceitação|definition of done|dod)`)
	dependencyRefRe = regexp.MustCompile(`#\d+`)
)

const (
	maxTitleLength = 100
	minBodyLength  = 100
)

// ValidateIssue runs the quality checklist against an issue.
func ValidateIssue(issue *types.Issue) Checklist {
	c := Checklist{
		IssueNumber: issue.Number,
		URL:         issue.URL,
		Title:       issue.Title,
		Score:       100,
	}

	if !types.HasConventionalTitle(issue.Title) {
		c.problem("title does not follow Conventional Commits", 10)
	}
	if len(issue.Title) > maxTitleLength {
		c.warning("title too long (> 100 characters)", 5)
	}

	body := issue.Body
	if len(body) < minBodyLength {
		c.problem("description missing or too short (< 100 characters)", 20)
	}
	if !checklistACRe.MatchString(body) {
		c.problem("missing explicit acceptance criteria", 15)
	}
	if !estimateHintRe.MatchString(body) {
		c.warning("missing effort estimate", 10)
	}

	labels := issue.LabelNames()
	if !hasLabelPrefix(labels, "type/") {
		c.problem("missing type/* label", 10)
	}
	if !hasLabelPrefix(labels, "area/") {
		c.warning("missing area/* label", 5)
	}
	if !hasLabelPrefix(labels, "priority/") {
		c.problem("missing priority/P0..P3 label", 15)
	}
	if !hasLabelPrefix(labels, "risk/") {
		c.warning("missing risk/* label", 5)
	}

	if issue.Milestone == nil {
		c.warning("no milestone assigned", 5)
	}

	lower := strings.ToLower(body)
	c.HasDependencies = strings.Contains(lower, "blocked by") ||
		strings.Contains(lower, "blocks") ||
		dependencyRefRe.MatchString(body)

	if c.Score < 0 {
		c.Score = 0
	}
	return c
}

func (c *Checklist) problem(msg string, penalty int) {
	c.Problems = append(c.Problems, msg)
	c.Score -= penalty
}

func (c *Checklist) warning(msg string, penalty int) {
	c.Warnings = append(c.Warnings, msg)
	c.Score -= penalty
}

func hasLabelPrefix(labels []string, prefix string) bool {
	for _, l := range labels {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}
