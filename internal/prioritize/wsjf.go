package prioritize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/auditworks/triage/internal/types"
)

// sizeHoursRe pulls a stated hour figure out of a body for job sizing.
// Portuguese "horas" appears on bilingual backlogs.
var sizeHoursRe = regexp.MustCompile(`(\d+)\s*(?:hour|hora)`)

// WSJF is the weighted-shortest-job-first breakdown for an issue.
// Higher is more urgent per unit of effort.
type WSJF struct {
	UserValue       int     `json:"user_value"`       // 1-10
	BusinessValue   int     `json:"business_value"`   // 1-10
	RiskReduction   int     `json:"risk_reduction"`   // risk score, 1-16
	TimeCriticality int     `json:"time_criticality"` // 1-10
	Size            int     `json:"size"`             // estimated hours
	Score           float64 `json:"wsjf"`
}

// CalculateWSJF computes (user value + business value + risk reduction +
// time criticality) / size. The risk classification feeds in as the
// risk-reduction term so risky work floats upward.
func CalculateWSJF(issue *types.Issue, risk Risk) WSJF {
	title := strings.ToLower(issue.Title)
	text := title + " " + strings.ToLower(issue.Body)

	userValue := 5
	switch {
	case containsAny(text, "critical", "blocker", "user", "customer"):
		userValue = 9
	case strings.Contains(title, "feat"):
		userValue = 7
	}

	businessValue := 5
	switch {
	case containsAny(text, "revenue", "conversion", "retention"):
		businessValue = 9
	case containsAny(text, "security", "compliance"):
		businessValue = 8
	}

	timeCriticality := 5
	switch {
	case containsAny(text, "urgent", "asap", "deadline"):
		timeCriticality = 9
	case issue.Milestone != nil:
		timeCriticality = 7
	}

	size := jobSize(issue)

	w := WSJF{
		UserValue:       userValue,
		BusinessValue:   businessValue,
		RiskReduction:   risk.Score,
		TimeCriticality: timeCriticality,
		Size:            size,
	}
	w.Score = float64(userValue+businessValue+risk.Score+timeCriticality) / float64(max(size, 1))
	return w
}

// jobSize reads a stated hour count from the body, falling back to a
// per-type default keyed off the title.
func jobSize(issue *types.Issue) int {
	if m := sizeHoursRe.FindStringSubmatch(strings.ToLower(issue.Body)); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}

	title := strings.ToLower(issue.Title)
	switch {
	case strings.Contains(title, "test"):
		return 8
	case strings.Contains(title, "docs"):
		return 4
	case strings.Contains(title, "feat"):
		return 16
	}
	return 8
}
